package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/montauk/internal/app"
	"go.trai.ch/montauk/internal/ui/style"
)

func (c *CLI) newCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile [views...]",
		Short: "Compile views and write the view cache",
		Long:  "Compile the named views, or every view when none are named, and persist the result.",
		RunE: func(cmd *cobra.Command, args []string) error {
			fresh, _ := cmd.Flags().GetBool("fresh")

			views, err := c.app.Compile(cmd.Context(), args, app.CompileOptions{Fresh: fresh})
			w := cmd.OutOrStdout()
			for _, v := range views {
				_, _ = fmt.Fprintf(w, "%s %s\n", style.Success.Render(style.Check), v.LogicalName)
			}
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(w, style.Muted.Render(fmt.Sprintf("compiled %d views", len(views))))
			return nil
		},
	}

	cmd.Flags().Bool("fresh", false, "Rescan templates instead of starting from the view cache")

	return cmd
}
