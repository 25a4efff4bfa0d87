package markmap

import (
	"context"
	"errors"
	"os"
	"sync"
)

type call struct {
	name string
	args []string
}

// fakeRunner records invocations and delegates behaviour to fn.
type fakeRunner struct {
	mu    sync.Mutex
	calls []call
	fn    func(name string, args []string) (string, string, error)
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (string, string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call{name: name, args: append([]string(nil), args...)})
	f.mu.Unlock()
	if f.fn == nil {
		return "", "", nil
	}
	return f.fn(name, args)
}

func outputArg(args []string) string {
	for i, a := range args {
		if a == "--output" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// writesOutput simulates markmap writing html to the requested output path.
func writesOutput(html string) func(string, []string) (string, string, error) {
	return func(_ string, args []string) (string, string, error) {
		if err := os.WriteFile(outputArg(args), []byte(html), 0o600); err != nil {
			return "", "", err
		}
		return "", "", nil
	}
}

var errSpawn = errors.New("exec: file not found")

type staticChecker bool

func (s staticChecker) Available(context.Context) bool { return bool(s) }
