package viewer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/markmapview/internal/markmap"
	"github.com/mithrel/markmapview/internal/panel"
	"github.com/mithrel/markmapview/internal/theme"
)

type fakePanel struct {
	mu        sync.Mutex
	flags     []string
	navigated []string
	loaded    []func()
	disposed  int
	navErr    error
}

func (f *fakePanel) NavigateToHTML(html string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.navErr != nil {
		return f.navErr
	}
	f.navigated = append(f.navigated, html)
	return nil
}

func (f *fakePanel) AfterLoaded(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loaded = append(f.loaded, fn)
}

// finishLoad runs the queued callbacks the way a panel does after layout.
func (f *fakePanel) finishLoad() {
	f.mu.Lock()
	fns := f.loaded
	f.loaded = nil
	f.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (f *fakePanel) URL() string { return "about:blank" }

func (f *fakePanel) Dispose() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disposed++
	return nil
}

func (f *fakePanel) SetPreLaunchFlag(flag string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flags = append(f.flags, flag)
}

// plainPanel has no startup flag support.
type plainPanel struct{ fakePanel }

type fakeGenerator struct {
	html  string
	calls int
	dark  []bool
}

func (g *fakeGenerator) Generate(_ context.Context, _ string, dark bool) string {
	g.calls++
	g.dark = append(g.dark, dark)
	return g.html
}

type fixedTheme bool

func (f fixedTheme) AppsUseDarkTheme(context.Context) bool { return bool(f) }

func newTestPlugin(gen HTMLGenerator, pn panel.Panel, dark bool) *Plugin {
	return New(Options{
		Generator: gen,
		NewPanel:  func() panel.Panel { return pn },
		Detector:  fixedTheme(dark),
	})
}

func TestPluginContract(t *testing.T) {
	p := New(Options{Generator: &fakeGenerator{}})
	assert.Equal(t, 1, p.Priority())
	assert.True(t, p.CanHandle("notes.mm"))
	assert.True(t, p.CanHandle("a.MM.MARKDOWN"))
	assert.False(t, p.CanHandle("readme.txt"))
	assert.False(t, p.CanHandle(t.TempDir()))

	c := NewContextObject()
	p.Prepare("notes.mm", c)
	assert.Equal(t, Size{Width: 1000, Height: 720}, c.PreferredSize())
}

func TestPrepareCustomSize(t *testing.T) {
	p := New(Options{Generator: &fakeGenerator{}, PreferredSize: Size{Width: 640, Height: 480}})
	c := NewContextObject()
	p.Prepare("notes.mm", c)
	assert.Equal(t, Size{Width: 640, Height: 480}, c.PreferredSize())
}

func TestViewLifecycle(t *testing.T) {
	pn := &fakePanel{}
	gen := &fakeGenerator{html: "<html>ok</html>"}
	p := newTestPlugin(gen, pn, false)
	c := NewContextObject()

	require.Equal(t, StateIdle, p.State())
	require.NoError(t, p.View(context.Background(), filepath.Join("dir", "notes.mm"), c))

	assert.Equal(t, StateDisplayed, p.State())
	assert.Equal(t, "notes.mm", c.Title())
	assert.Same(t, pn, c.ViewerContent())
	assert.Equal(t, []string{"<html>ok</html>"}, pn.navigated)
	assert.Empty(t, pn.flags)

	assert.True(t, c.IsBusy(), "busy must stay set until the panel finished loading")
	pn.finishLoad()
	assert.False(t, c.IsBusy())
	select {
	case <-c.Idle():
	default:
		t.Fatalf("Idle channel not closed")
	}

	p.Cleanup()
	assert.Equal(t, StateIdle, p.State())
	assert.Equal(t, 1, pn.disposed)
	p.Cleanup()
	assert.Equal(t, 1, pn.disposed)
}

func TestViewDarkSetsFlagBeforeNavigation(t *testing.T) {
	pn := &fakePanel{}
	gen := &fakeGenerator{html: "x"}
	p := newTestPlugin(gen, pn, true)

	require.NoError(t, p.View(context.Background(), "notes.mm", NewContextObject()))
	assert.Equal(t, []string{panel.ForceDarkFlag}, pn.flags)
	assert.Equal(t, []bool{true}, gen.dark)
}

func TestViewThemeOverride(t *testing.T) {
	pn := &fakePanel{}
	p := New(Options{
		Generator: &fakeGenerator{html: "x"},
		NewPanel:  func() panel.Panel { return pn },
		Theme:     theme.ModeLight,
		Detector:  fixedTheme(true),
	})
	require.NoError(t, p.View(context.Background(), "notes.mm", NewContextObject()))
	assert.Empty(t, pn.flags)
}

func TestViewPanelWithoutFlagSupport(t *testing.T) {
	pn := &plainPanel{}
	p := New(Options{
		Generator: &fakeGenerator{html: "x"},
		NewPanel:  func() panel.Panel { return struct{ panel.Panel }{pn} },
		Detector:  fixedTheme(true),
	})
	require.NoError(t, p.View(context.Background(), "notes.mm", NewContextObject()))
	assert.Empty(t, pn.flags)
	assert.Len(t, pn.navigated, 1)
}

func TestViewRejectsSecondSession(t *testing.T) {
	p := newTestPlugin(&fakeGenerator{html: "x"}, &fakePanel{}, false)
	require.NoError(t, p.View(context.Background(), "a.mm", NewContextObject()))
	assert.ErrorIs(t, p.View(context.Background(), "b.mm", NewContextObject()), ErrBusy)

	p.Cleanup()
	require.NoError(t, p.View(context.Background(), "b.mm", NewContextObject()))
}

func TestViewNavigateError(t *testing.T) {
	boom := errors.New("boom")
	pn := &fakePanel{navErr: boom}
	p := newTestPlugin(&fakeGenerator{html: "x"}, pn, false)
	c := NewContextObject()
	err := p.View(context.Background(), "a.mm", c)
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, StateIdle, p.State())
	assert.Equal(t, 1, pn.disposed)
	assert.False(t, c.IsBusy())
	assert.Nil(t, c.ViewerContent())

	// The failed session is already released; a later Cleanup is harmless.
	p.Cleanup()
	assert.Equal(t, 1, pn.disposed)

	pn.navErr = nil
	require.NoError(t, p.View(context.Background(), "a.mm", NewContextObject()))
	assert.Equal(t, StateDisplayed, p.State())
}

func TestReload(t *testing.T) {
	pn := &fakePanel{}
	gen := &fakeGenerator{html: "v1"}
	p := newTestPlugin(gen, pn, false)
	assert.ErrorIs(t, p.Reload(context.Background()), ErrNotViewing)

	require.NoError(t, p.View(context.Background(), "a.mm", NewContextObject()))
	gen.html = "v2"
	require.NoError(t, p.Reload(context.Background()))
	assert.Equal(t, []string{"v1", "v2"}, pn.navigated)
}

type stubRunner struct{ html string }

func (s stubRunner) Run(_ context.Context, name string, args ...string) (string, string, error) {
	for i, a := range args {
		if a == "--output" && i+1 < len(args) {
			return "", "", os.WriteFile(args[i+1], []byte(s.html), 0o600)
		}
	}
	return "", "", nil
}

type available bool

func (a available) Available(context.Context) bool { return bool(a) }

func TestViewScenarioRendererPresent(t *testing.T) {
	out := filepath.Join(t.TempDir(), markmap.OutputName)
	const page = "<!doctype html><svg id=mindmap></svg>"
	gen := markmap.NewGenerator(available(true), markmap.NewRenderer(stubRunner{html: page}, "", out, nil), nil)
	pn := &fakePanel{}
	p := newTestPlugin(gen, pn, false)

	require.NoError(t, p.View(context.Background(), "notes.mm", NewContextObject()))
	assert.Equal(t, []string{page}, pn.navigated)
	assert.NoFileExists(t, out)
}

func TestViewScenarioRendererAbsent(t *testing.T) {
	out := filepath.Join(t.TempDir(), markmap.OutputName)
	gen := markmap.NewGenerator(available(false), markmap.NewRenderer(stubRunner{}, "", out, nil), nil)
	pn := &fakePanel{}
	p := newTestPlugin(gen, pn, true)

	require.NoError(t, p.View(context.Background(), "notes.mm", NewContextObject()))
	require.Len(t, pn.navigated, 1)
	assert.Contains(t, pn.navigated[0], "markmap-cli not installed.")
	assert.Contains(t, pn.navigated[0], "#1e1e1e")
}

func TestViewWithHTTPPanel(t *testing.T) {
	gen := &fakeGenerator{html: "<html>served</html>"}
	p := New(Options{
		Generator: gen,
		NewPanel:  func() panel.Panel { return panel.NewHTTPPanel(panel.WithAutoOpen(false)) },
		Theme:     theme.ModeLight,
	})
	c := NewContextObject()
	require.NoError(t, p.View(context.Background(), "notes.mm", c))
	defer p.Cleanup()

	select {
	case <-c.Idle():
	case <-time.After(2 * time.Second):
		t.Fatalf("busy flag never cleared")
	}
	assert.NotEmpty(t, c.ViewerContent().URL())
}
