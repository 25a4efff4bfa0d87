package wire

import (
	"context"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mithrel/markmapview/internal/config"
	"github.com/mithrel/markmapview/internal/markmap"
	"github.com/mithrel/markmapview/internal/panel"
	"github.com/mithrel/markmapview/internal/theme"
	"github.com/mithrel/markmapview/internal/viewer"
	"github.com/mithrel/markmapview/internal/watch"
)

// App aggregates the major services for easy injection.
type App struct {
	Cfg       *viper.Viper
	Log       *log.Logger
	Debug     *log.Logger
	Runner    markmap.CommandRunner
	Locator   *markmap.Locator
	Renderer  *markmap.Renderer
	Generator *markmap.Generator
	Detector  theme.Detector
	Theme     theme.Mode
}

// BuildApp wires dependencies with the provided config.
func BuildApp(ctx context.Context, cfg *viper.Viper) (*App, error) {
	if err := config.CheckConfigValidity(cfg); err != nil {
		return nil, err
	}
	mode, err := theme.ParseMode(cfg.GetString("theme"))
	if err != nil {
		return nil, err
	}

	logger := log.New(os.Stderr, "markmapview ", log.LstdFlags)
	debug := log.New(io.Discard, "", 0)
	if cfg.GetBool("log.debug") {
		debug = log.New(os.Stderr, "markmapview debug ", log.LstdFlags)
	}

	runner := markmap.ExecRunner{}
	command := cfg.GetString("renderer.command")
	locator := markmap.NewLocator(runner, command, debug)
	renderer := markmap.NewRenderer(runner, command, config.ResolveOutputPath(cfg), debug)
	return &App{
		Cfg:       cfg,
		Log:       logger,
		Debug:     debug,
		Runner:    runner,
		Locator:   locator,
		Renderer:  renderer,
		Generator: markmap.NewGenerator(locator, renderer, debug),
		Detector:  theme.NewOSDetector(runner),
		Theme:     mode,
	}, nil
}

// IsDark resolves the configured theme against the OS setting.
func (a *App) IsDark(ctx context.Context) bool {
	return theme.Resolve(ctx, a.Theme, a.Detector)
}

// NewPanel builds the preview panel from the panel.* settings; extra options
// are applied last.
func (a *App) NewPanel(extra ...panel.Option) panel.Panel {
	opts := []panel.Option{
		panel.WithAddr(a.Cfg.GetString("panel.addr")),
		panel.WithBrowser(a.Cfg.GetString("panel.browser")),
		panel.WithBrowserArguments(a.Cfg.GetString("panel.browser_args")),
		panel.WithAutoOpen(a.Cfg.GetBool("panel.open")),
		panel.WithLogger(a.Debug),
	}
	return panel.NewHTTPPanel(append(opts, extra...)...)
}

// NewPlugin returns a viewer whose panels come from NewPanel(extra...).
func (a *App) NewPlugin(extra ...panel.Option) *viewer.Plugin {
	return viewer.New(viewer.Options{
		Generator:     a.Generator,
		NewPanel:      func() panel.Panel { return a.NewPanel(extra...) },
		Theme:         a.Theme,
		Detector:      a.Detector,
		PreferredSize: viewer.Size{Width: a.Cfg.GetInt("view.width"), Height: a.Cfg.GetInt("view.height")},
		Log:           a.Debug,
	})
}

// WatchDebounce returns watch.debounce, falling back to the package default.
func (a *App) WatchDebounce() time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(a.Cfg.GetString("watch.debounce")))
	if err != nil || d <= 0 {
		return watch.DefaultDebounce
	}
	return d
}
