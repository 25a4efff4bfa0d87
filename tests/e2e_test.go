package tests

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/markmapview/internal/cli"
	"github.com/mithrel/markmapview/internal/config"
	"github.com/mithrel/markmapview/internal/viewer"
	"github.com/mithrel/markmapview/internal/wire"
)

// runCLI executes the CLI with the given args and returns stdout, stderr, and error.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := cli.NewRootCmd()
	var outBuf, errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

// fakeMarkmap installs a markmap stand-in that copies page into --output.
func fakeMarkmap(t *testing.T, page string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake renderer is a POSIX shell script")
	}
	bin := t.TempDir()
	pagePath := filepath.Join(bin, "page.html")
	require.NoError(t, os.WriteFile(pagePath, []byte(page), 0o600))
	script := "#!/bin/sh\nwhile [ $# -gt 0 ]; do\n  if [ \"$1\" = --output ]; then cp \"" + pagePath + "\" \"$2\"; fi\n  shift\ndone\n"
	require.NoError(t, os.WriteFile(filepath.Join(bin, "markmap"), []byte(script), 0o755))
	t.Setenv("PATH", bin+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func buildApp(t *testing.T, outDir string, overrides map[string]any) *wire.App {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	v := viper.New()
	require.NoError(t, config.Load(context.Background(), v))
	v.Set("renderer.output_dir", outDir)
	v.Set("panel.open", false)
	v.Set("theme", "light")
	for k, val := range overrides {
		v.Set(k, val)
	}
	app, err := wire.BuildApp(context.Background(), v)
	require.NoError(t, err)
	return app
}

func fetch(t *testing.T, url string) string {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func viewFile(t *testing.T, app *wire.App, path string) (*viewer.Plugin, *viewer.ContextObject) {
	t.Helper()
	plugin := app.NewPlugin()
	require.True(t, plugin.CanHandle(path))
	host := viewer.NewContextObject()
	plugin.Prepare(path, host)
	require.NoError(t, plugin.View(context.Background(), path, host))
	select {
	case <-host.Idle():
	case <-time.After(5 * time.Second):
		t.Fatalf("busy flag never cleared")
	}
	return plugin, host
}

// Scenario A: renderer present and writing valid HTML.
func TestE2E_RendererPresent(t *testing.T) {
	const page = "<!DOCTYPE html>\n<html><body><svg id=\"mindmap\"></svg></body></html>\n"
	fakeMarkmap(t, page)
	outDir := t.TempDir()
	input := filepath.Join(t.TempDir(), "notes.mm")
	require.NoError(t, os.WriteFile(input, []byte("# notes\n## a\n## b\n"), 0o600))

	app := buildApp(t, outDir, nil)
	plugin, host := viewFile(t, app, input)
	defer plugin.Cleanup()

	assert.Equal(t, "notes.mm", host.Title())
	assert.Equal(t, viewer.Size{Width: 1000, Height: 720}, host.PreferredSize())
	assert.Equal(t, page, fetch(t, host.ViewerContent().URL()))
	assert.NoFileExists(t, filepath.Join(outDir, "markmap.html"))

	out, _, err := runCLI(t, "--theme", "light", "render", input)
	require.NoError(t, err)
	assert.Equal(t, page, out)
}

// Scenario B: renderer absent.
func TestE2E_RendererAbsent(t *testing.T) {
	input := filepath.Join(t.TempDir(), "notes.mm")
	require.NoError(t, os.WriteFile(input, []byte("# notes\n"), 0o600))

	app := buildApp(t, t.TempDir(), map[string]any{"renderer.command": "markmap-absent-e2e", "theme": "dark"})
	plugin, host := viewFile(t, app, input)
	defer plugin.Cleanup()

	body := fetch(t, host.ViewerContent().URL())
	assert.Contains(t, body, "markmap-cli not installed.")
	assert.Contains(t, body, "background: #1e1e1e;")

	plugin.Cleanup()
	assert.Equal(t, viewer.StateIdle, plugin.State())
}

// Scenarios C and D: extension matching.
func TestE2E_CanHandle(t *testing.T) {
	app := buildApp(t, t.TempDir(), nil)
	plugin := app.NewPlugin()
	assert.False(t, plugin.CanHandle("readme.txt"))
	assert.True(t, plugin.CanHandle("a.MM.MARKDOWN"))
	assert.Equal(t, 1, plugin.Priority())
}
