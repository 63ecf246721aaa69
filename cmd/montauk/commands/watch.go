package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/montauk/internal/app"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Recompile views as their templates change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dashboard, _ := cmd.Flags().GetBool("dashboard")
			return c.app.Watch(cmd.Context(), app.WatchOptions{Dashboard: dashboard})
		},
	}

	cmd.Flags().BoolP("dashboard", "d", false, "Show reloads in a terminal dashboard")

	return cmd
}
