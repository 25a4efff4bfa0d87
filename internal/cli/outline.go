package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mithrel/markmapview/internal/markmap"
	"github.com/mithrel/markmapview/internal/ui"
)

func newOutlineCmd() *cobra.Command {
	var width int
	cmd := &cobra.Command{
		Use:               "outline <file>",
		Short:             "Show the mind-map outline in the terminal",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeMindMapFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			path := args[0]
			if !markmap.CanHandle(path) {
				return notMindMapError(path)
			}
			src, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			if width <= 0 {
				width = terminalWidth(cmd.OutOrStdout())
			}
			return ui.WriteOutline(cmd.OutOrStdout(), string(src), app.IsDark(cmd.Context()), width)
		},
	}
	cmd.Flags().IntVar(&width, "width", 0, "wrap width (default: terminal width or 80)")
	return cmd
}
