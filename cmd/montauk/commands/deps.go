package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/montauk/internal/app"
	"go.trai.ch/montauk/internal/ui/style"
)

func (c *CLI) newDepsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deps <view>",
		Short: "Show what a view includes and what is rebuilt when it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := c.app.Dependencies(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printDependencies(cmd.OutOrStdout(), deps)
			return nil
		},
	}
}

func printDependencies(w io.Writer, deps app.Dependencies) {
	_, _ = fmt.Fprintln(w, style.Title.Render(deps.View))
	section(w, "includes", deps.Includes)
	section(w, "included by", deps.IncludedBy)
	section(w, "rebuilds", deps.Cascade)
}

func section(w io.Writer, title string, names []string) {
	_, _ = fmt.Fprintf(w, "  %s\n", style.Muted.Render(title))
	if len(names) == 0 {
		_, _ = fmt.Fprintf(w, "    %s none\n", style.Circle)
		return
	}
	for _, name := range names {
		_, _ = fmt.Fprintf(w, "    %s %s\n", style.Arrow, name)
	}
}
