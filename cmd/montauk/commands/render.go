package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (c *CLI) newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <view>",
		Short: "Render a compiled view with tag values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := tagsFrom(cmd)
			if err != nil {
				return err
			}

			out, err := c.app.Render(cmd.Context(), args[0], tags)
			if err != nil {
				return err
			}
			return printPage(cmd, out)
		},
	}

	addTagFlag(cmd)

	return cmd
}

func (c *CLI) newDispatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dispatch <route>",
		Short: "Run the application action for a route",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := tagsFrom(cmd)
			if err != nil {
				return err
			}

			out, err := c.app.Dispatch(cmd.Context(), args[0], tags)
			if err != nil {
				return err
			}
			return printPage(cmd, out)
		},
	}

	addTagFlag(cmd)

	return cmd
}

func printPage(cmd *cobra.Command, page string) error {
	if !strings.HasSuffix(page, "\n") {
		page += "\n"
	}
	_, err := fmt.Fprint(cmd.OutOrStdout(), page)
	return err
}
