package panel

import (
	"os/exec"
	"runtime"
	"strings"
)

// Launcher starts a browser process without waiting for it.
type Launcher func(name string, args ...string) error

func execLauncher(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// browserCommand builds the command line that opens url. Startup flags are
// only passed to an explicitly configured browser; system openers do not
// forward them.
func browserCommand(goos, browser, flags, url string) (string, []string) {
	if b := strings.TrimSpace(browser); b != "" {
		parts := strings.Fields(b)
		args := append(parts[1:], strings.Fields(flags)...)
		return parts[0], append(args, url)
	}
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "cmd", []string{"/c", "start", "", url}
	default:
		return "xdg-open", []string{url}
	}
}

func defaultGOOS() string { return runtime.GOOS }
