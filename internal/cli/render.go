package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mithrel/markmapview/internal/markmap"
)

func newRenderCmd() *cobra.Command {
	var (
		out   string
		force bool
	)
	cmd := &cobra.Command{
		Use:               "render <file>",
		Short:             "Render a mind-map file to HTML",
		Long:              "Render a mind-map file to HTML with the markmap CLI. When markmap is not installed the installation page is written instead.",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeMindMapFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			path := args[0]
			if !force && !markmap.CanHandle(path) {
				return notMindMapError(path)
			}
			ctx := cmd.Context()
			html := app.Generator.Generate(ctx, path, app.IsDark(ctx))

			if out != "" && out != "-" {
				if err := os.WriteFile(out, []byte(html), 0o644); err != nil {
					return fmt.Errorf("write %s: %w", out, err)
				}
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", out)
				return nil
			}
			return withPager(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), func(w io.Writer) error {
				_, err := io.WriteString(w, html)
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "write HTML to this file instead of stdout")
	cmd.Flags().BoolVar(&force, "force", false, "render even if the extension is not a mind-map extension")
	return cmd
}
