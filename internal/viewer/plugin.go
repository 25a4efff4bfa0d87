// Package viewer implements the mind-map viewer plugin lifecycle:
// CanHandle, Prepare, View and Cleanup.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"sync"

	"github.com/mithrel/markmapview/internal/markmap"
	"github.com/mithrel/markmapview/internal/panel"
	"github.com/mithrel/markmapview/internal/theme"
)

// Priority breaks ties when several viewers can handle the same file.
const Priority = 1

// DefaultSize is the preferred window size requested in Prepare.
var DefaultSize = Size{Width: 1000, Height: 720}

var (
	ErrBusy       = errors.New("viewer already has an active session")
	ErrNotViewing = errors.New("viewer has no displayed session")
)

type State int

const (
	StateIdle State = iota
	StateRendering
	StateDisplayed
)

func (s State) String() string {
	switch s {
	case StateRendering:
		return "rendering"
	case StateDisplayed:
		return "displayed"
	default:
		return "idle"
	}
}

// HTMLGenerator produces the page for a file; it never returns "".
type HTMLGenerator interface {
	Generate(ctx context.Context, path string, dark bool) string
}

type PanelFactory func() panel.Panel

type Options struct {
	Generator     HTMLGenerator
	NewPanel      PanelFactory
	Theme         theme.Mode
	Detector      theme.Detector
	PreferredSize Size
	Log           *log.Logger
}

// Plugin views one mind-map file per session.
type Plugin struct {
	gen      HTMLGenerator
	newPanel PanelFactory
	mode     theme.Mode
	detector theme.Detector
	size     Size
	log      *log.Logger

	mu    sync.Mutex
	state State
	panel panel.Panel
	path  string
	dark  bool
}

func New(opts Options) *Plugin {
	p := &Plugin{
		gen:      opts.Generator,
		newPanel: opts.NewPanel,
		mode:     opts.Theme,
		detector: opts.Detector,
		size:     opts.PreferredSize,
		log:      opts.Log,
	}
	if p.size.Width <= 0 || p.size.Height <= 0 {
		p.size = DefaultSize
	}
	if p.log == nil {
		p.log = log.New(io.Discard, "", 0)
	}
	if p.newPanel == nil {
		p.newPanel = func() panel.Panel { return panel.NewHTTPPanel() }
	}
	return p
}

func (p *Plugin) Priority() int { return Priority }

func (p *Plugin) Init() {}

func (p *Plugin) CanHandle(path string) bool { return markmap.CanHandle(path) }

func (p *Plugin) Prepare(_ string, c *ContextObject) {
	c.SetPreferredSize(p.size)
}

func (p *Plugin) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// View renders path and hands the HTML to a new panel. The busy indicator is
// cleared by the panel once the content has been delivered. An error is only
// returned when the panel cannot display anything, in which case the panel is
// disposed and the plugin is idle again; rendering problems always degrade to
// the fallback page.
func (p *Plugin) View(ctx context.Context, path string, c *ContextObject) error {
	p.mu.Lock()
	if p.state != StateIdle {
		p.mu.Unlock()
		return ErrBusy
	}
	p.state = StateRendering
	pn := p.newPanel()
	p.panel = pn
	p.path = path
	p.mu.Unlock()

	dark := theme.Resolve(ctx, p.mode, p.detector)
	if dark {
		// Engines ignore this once they have navigated.
		if s, ok := pn.(panel.PreLaunchFlagSetter); ok {
			s.SetPreLaunchFlag(panel.ForceDarkFlag)
		}
	}

	c.SetViewerContent(pn)
	c.SetTitle(filepath.Base(path))

	html := p.gen.Generate(ctx, path, dark)
	if err := pn.NavigateToHTML(html); err != nil {
		p.Cleanup()
		c.SetViewerContent(nil)
		c.SetBusy(false)
		return fmt.Errorf("display %s: %w", filepath.Base(path), err)
	}
	pn.AfterLoaded(func() { c.SetBusy(false) })

	p.mu.Lock()
	p.dark = dark
	p.state = StateDisplayed
	p.mu.Unlock()
	p.log.Printf("viewer: displayed %q dark=%t", path, dark)
	return nil
}

// Reload regenerates the displayed file into the existing panel.
func (p *Plugin) Reload(ctx context.Context) error {
	p.mu.Lock()
	if p.state != StateDisplayed || p.panel == nil {
		p.mu.Unlock()
		return ErrNotViewing
	}
	pn, path, dark := p.panel, p.path, p.dark
	p.mu.Unlock()

	if err := pn.NavigateToHTML(p.gen.Generate(ctx, path, dark)); err != nil {
		return fmt.Errorf("reload %s: %w", filepath.Base(path), err)
	}
	p.log.Printf("viewer: reloaded %q", path)
	return nil
}

// Cleanup releases the panel and returns the plugin to idle.
func (p *Plugin) Cleanup() {
	p.mu.Lock()
	pn := p.panel
	p.panel = nil
	p.path = ""
	p.state = StateIdle
	p.mu.Unlock()

	if pn == nil {
		return
	}
	if err := pn.Dispose(); err != nil {
		p.log.Printf("viewer: dispose panel: %v", err)
	}
}
