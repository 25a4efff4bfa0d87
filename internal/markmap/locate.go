package markmap

import (
	"context"
	"io"
	"log"
	"strings"
)

// DefaultCommand is the name of the markmap CLI as installed by npm or yarn.
const DefaultCommand = "markmap"

// Checker reports whether the renderer can be invoked.
type Checker interface {
	Available(ctx context.Context) bool
}

// Locator checks the command search path for the renderer.
type Locator struct {
	Runner  CommandRunner
	Command string
	Log     *log.Logger
}

func NewLocator(runner CommandRunner, command string, logger *log.Logger) *Locator {
	if command == "" {
		command = DefaultCommand
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Locator{Runner: runner, Command: command, Log: logger}
}

// Available reports whether the resolution utility printed anything for the
// command. A lookup that cannot be spawned counts as unavailable.
func (l *Locator) Available(ctx context.Context) bool {
	name, args := lookupCommand(l.Command)
	out, _, err := l.Runner.Run(ctx, name, args...)
	if err != nil && out == "" {
		l.Log.Printf("locate: %s not found: %v", l.Command, err)
		return false
	}
	path := strings.TrimSpace(out)
	if path == "" {
		return false
	}
	l.Log.Printf("locate: %s resolved to %s", l.Command, firstLine(path))
	return true
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
