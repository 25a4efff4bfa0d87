package theme

import (
	"context"
	"os"
	"runtime"
	"strings"
)

// Runner is the process-execution surface the OS detector needs.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)
}

// OSDetector queries the desktop settings of the running platform. Any
// failure to query is read as a light theme.
type OSDetector struct {
	Runner Runner
	GOOS   string
	Getenv func(string) string
}

func NewOSDetector(r Runner) *OSDetector {
	return &OSDetector{Runner: r, GOOS: runtime.GOOS, Getenv: os.Getenv}
}

func (d *OSDetector) AppsUseDarkTheme(ctx context.Context) bool {
	switch d.GOOS {
	case "darwin":
		out, _, err := d.Runner.Run(ctx, "defaults", "read", "-g", "AppleInterfaceStyle")
		return err == nil && strings.Contains(out, "Dark")
	case "windows":
		out, _, err := d.Runner.Run(ctx, "reg", "query",
			`HKCU\Software\Microsoft\Windows\CurrentVersion\Themes\Personalize`, "/v", "AppsUseLightTheme")
		return err == nil && strings.Contains(out, "0x0")
	default:
		out, _, err := d.Runner.Run(ctx, "gsettings", "get", "org.gnome.desktop.interface", "color-scheme")
		if err == nil && strings.Contains(out, "dark") {
			return true
		}
		if d.Getenv != nil {
			return strings.HasSuffix(strings.ToLower(d.Getenv("GTK_THEME")), ":dark")
		}
		return false
	}
}
