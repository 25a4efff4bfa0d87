package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// AppName names the config/data directories and the env prefix.
const AppName = "markmapview"

// outputName matches the file the markmap CLI is told to write.
const outputName = "markmap.html"

// applyDefaults seeds Viper with defaults defined in GetConfigOptions.
func applyDefaults(v *viper.Viper) {
	for _, o := range GetConfigOptions() {
		v.SetDefault(o.Key, o.Default)
	}
}

// Load resolves configuration with precedence: defaults < file < env.
// The provided Viper instance is mutated with defaults, file contents, and env.
func Load(ctx context.Context, v *viper.Viper) error {
	// If SetConfigFile was provided upstream it takes precedence; these
	// search paths are harmless fallbacks.
	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, AppName))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", AppName))
		}
		v.AddConfigPath(".")
	}

	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	// Environment variables: MARKMAPVIEW_* (highest among these sources)
	v.SetEnvPrefix(AppName)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if strings.TrimSpace(v.GetString("renderer.command")) == "" {
		v.Set("renderer.command", "markmap")
	}
	if strings.TrimSpace(v.GetString("theme")) == "" {
		v.Set("theme", "auto")
	}
	return nil
}

// defaultDataDir resolves $XDG_DATA_HOME/markmapview or ~/.local/share/markmapview.
func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", AppName)
}

// DefaultConfigPath resolves the standard config.toml location.
func DefaultConfigPath() string {
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, _ := os.UserHomeDir()
		xdg = filepath.Join(home, ".config")
	}
	return filepath.Join(xdg, AppName, "config.toml")
}

// pluginDir is the directory shipped next to the executable, when present.
func pluginDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	dir := filepath.Join(filepath.Dir(exe), "plugins", AppName)
	if fi, err := os.Stat(dir); err == nil && fi.IsDir() {
		return dir
	}
	return ""
}

// ResolveOutputPath returns where the renderer writes its temporary HTML:
// renderer.output_dir if set, else the plugin directory beside the
// executable, else the local data directory.
func ResolveOutputPath(v *viper.Viper) string {
	dir := expandHome(strings.TrimSpace(v.GetString("renderer.output_dir")))
	if dir == "" {
		dir = pluginDir()
	}
	if dir == "" {
		dir = defaultDataDir()
	}
	return filepath.Join(dir, outputName)
}

func expandHome(dir string) string {
	if len(dir) > 0 && dir[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, dir[1:])
		}
	}
	return dir
}

type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

// GetConfigOptions returns the default configuration options and their meanings.
// This is the single source of truth for default values and generator output.
func GetConfigOptions() []ConfigOption {
	return []ConfigOption{
		{Key: "theme", Default: "auto", Comment: "Color scheme: auto (follow the OS), dark or light"},

		{Key: "renderer.command", Default: "markmap", Comment: "markmap CLI command (install with: npm install -g markmap-cli)"},
		{Key: "renderer.output_dir", Default: "", Comment: "Directory for the temporary markmap.html; empty picks the plugin or data dir"},

		{Key: "view.width", Default: 1000, Comment: "Preferred viewer width in pixels"},
		{Key: "view.height", Default: 720, Comment: "Preferred viewer height in pixels"},

		{Key: "panel.addr", Default: "127.0.0.1:0", Comment: "Listen address of the local preview server"},
		{Key: "panel.browser", Default: "", Comment: "Browser command used to open previews; empty uses the system opener"},
		{Key: "panel.browser_args", Default: "", Comment: "Extra startup flags passed to panel.browser; ignored by the system opener, so dark mode forcing also needs panel.browser"},
		{Key: "panel.open", Default: true, Comment: "Open a browser automatically when viewing"},

		{Key: "watch.debounce", Default: "500ms", Comment: "Quiet period before re-rendering a changed file"},

		{Key: "log.debug", Default: false, Comment: "Log renderer invocations and exit codes"},
	}
}
