// Package theme decides whether content should be shown in dark mode.
package theme

import (
	"context"
	"fmt"
	"strings"
)

type Mode int

const (
	ModeAuto Mode = iota
	ModeDark
	ModeLight
)

// ParseMode parses "auto", "dark" or "light". The empty string means auto.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ModeAuto, nil
	case "dark":
		return ModeDark, nil
	case "light":
		return ModeLight, nil
	default:
		return ModeAuto, fmt.Errorf("unknown theme %q (want auto, dark or light)", s)
	}
}

func (m Mode) String() string {
	switch m {
	case ModeDark:
		return "dark"
	case ModeLight:
		return "light"
	default:
		return "auto"
	}
}

// Detector reports whether the operating system prefers dark applications.
type Detector interface {
	AppsUseDarkTheme(ctx context.Context) bool
}

// Resolve returns the effective dark flag for m, consulting d only in auto mode.
func Resolve(ctx context.Context, m Mode, d Detector) bool {
	switch m {
	case ModeDark:
		return true
	case ModeLight:
		return false
	}
	if d == nil {
		return false
	}
	return d.AppsUseDarkTheme(ctx)
}
