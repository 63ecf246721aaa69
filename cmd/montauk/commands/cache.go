package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/montauk/internal/ui/style"
)

func (c *CLI) newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or remove the view cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the encoded view cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.app.ShowCache(cmd.Context())
			if err != nil {
				return err
			}
			return printPage(cmd, out)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove the view cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			location, err := c.app.ClearCache(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s removed %s\n", style.Success.Render(style.Check), location)
			return nil
		},
	})

	return cmd
}
