package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mithrel/markmapview/internal/markmap"
	"github.com/mithrel/markmapview/internal/panel"
	"github.com/mithrel/markmapview/internal/ui"
	"github.com/mithrel/markmapview/internal/viewer"
	"github.com/mithrel/markmapview/internal/watch"
)

func newViewCmd() *cobra.Command {
	var (
		watchFile bool
		noOpen    bool
		addr      string
	)
	cmd := &cobra.Command{
		Use:               "view <file>",
		Short:             "Preview a mind-map file in the browser",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeMindMapFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			path := args[0]

			var extra []panel.Option
			if noOpen {
				extra = append(extra, panel.WithAutoOpen(false))
			}
			if addr != "" {
				extra = append(extra, panel.WithAddr(addr))
			}
			if watchFile {
				extra = append(extra, panel.WithLiveReload(true))
			}

			plugin := app.NewPlugin(extra...)
			plugin.Init()
			if !plugin.CanHandle(path) {
				return notMindMapError(path)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			host := viewer.NewContextObject()
			plugin.Prepare(path, host)
			size := host.PreferredSize()
			app.Debug.Printf("view: preferred size %dx%d", size.Width, size.Height)

			defer plugin.Cleanup()
			if err := plugin.View(ctx, path, host); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "%s: %s\n", host.Title(), host.ViewerContent().URL())
			if err := waitForContent(ctx, cmd.ErrOrStderr(), host.Idle()); err != nil {
				return err
			}

			if watchFile {
				go func() {
					err := watch.File(ctx, path, app.WatchDebounce(), app.Debug, func() {
						if err := plugin.Reload(ctx); err != nil {
							app.Log.Printf("view: reload: %v", err)
						}
					})
					if err != nil {
						app.Log.Printf("view: watch %s: %v", path, err)
					}
				}()
			}
			_, _ = fmt.Fprintln(out, "Press Ctrl+C to stop.")
			<-ctx.Done()
			return nil
		},
	}
	cmd.Flags().BoolVarP(&watchFile, "watch", "w", false, "re-render when the file changes")
	cmd.Flags().BoolVar(&noOpen, "no-open", false, "do not launch a browser; just print the URL")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address for the preview server (overrides panel.addr)")
	return cmd
}

// waitForContent blocks until the busy indicator clears, with a spinner on
// interactive terminals.
func waitForContent(ctx context.Context, errOut io.Writer, idle <-chan struct{}) error {
	if isTerminal(errOut) {
		return ui.WaitBusy(ctx, errOut, "waiting for the browser to load the preview", idle)
	}
	ui.WaitIdle(ctx, idle)
	return nil
}

func notMindMapError(path string) error {
	return fmt.Errorf("%s: not a mind-map file (expected %s)", path, strings.Join(markmap.Extensions(), ", "))
}
