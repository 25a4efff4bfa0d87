package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/markmapview/internal/markmap"
	"github.com/mithrel/markmapview/internal/ui"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report whether the markmap CLI is available",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			available := app.Locator.Available(ctx)
			status := "not found"
			if available {
				status = "found"
			}
			scheme := "light"
			if app.IsDark(ctx) {
				scheme = "dark"
			}
			lines := []string{
				ui.StatusLine("renderer", app.Locator.Command+" "+status, available),
				ui.InfoLine("output", app.Renderer.OutputPath),
				ui.InfoLine("theme", fmt.Sprintf("%s (%s)", app.Theme, scheme)),
				ui.InfoLine("handles", strings.Join(markmap.Extensions(), " ")),
			}
			browser := strings.TrimSpace(app.Cfg.GetString("panel.browser"))
			if browser == "" {
				lines = append(lines, ui.InfoLine("browser", "system opener"))
				if scheme == "dark" {
					lines = append(lines, ui.Hint("Dark mode is not forced: set panel.browser to pass browser flags"))
				}
			} else {
				lines = append(lines, ui.InfoLine("browser", browser))
			}
			if !available {
				lines = append(lines, "", ui.Hint("Install with: npm install -g markmap-cli (or yarn global add markmap-cli)"))
			}
			_, err := fmt.Fprintln(out, strings.Join(lines, "\n"))
			return err
		},
	}
}
