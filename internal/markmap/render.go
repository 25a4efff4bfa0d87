package markmap

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
)

// OutputName is the file the renderer is told to write.
const OutputName = "markmap.html"

// Renderer invokes the markmap CLI and captures the HTML it writes to OutputPath.
type Renderer struct {
	Runner     CommandRunner
	Command    string
	OutputPath string
	Log        *log.Logger
}

// Result is delivered by RenderAsync.
type Result struct {
	HTML string
	Err  error
}

func NewRenderer(runner CommandRunner, command, outputPath string, logger *log.Logger) *Renderer {
	if command == "" {
		command = DefaultCommand
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Renderer{Runner: runner, Command: command, OutputPath: outputPath, Log: logger}
}

// Render runs `markmap --offline --no-open --output <out> <input>` and returns
// the contents of the output file. The exit code is not consulted: an output
// file that exists after the process ends is the only success signal, and a
// missing or unreadable one yields an empty string with a nil error. The only
// error returned is ctx's, when it was cancelled.
func (r *Renderer) Render(ctx context.Context, input string) (string, error) {
	out := r.OutputPath
	if err := os.MkdirAll(filepath.Dir(out), 0o700); err != nil {
		r.Log.Printf("render: create output dir: %v", err)
	}
	// A leftover file from an earlier run must never be mistaken for this run's output.
	r.remove(out)

	name, args := renderCommand(r.Command, out, input)
	_, stderr, err := r.Runner.Run(ctx, name, args...)
	r.Log.Printf("render: %s exited code=%d input=%q", r.Command, exitCode(err), input)
	if stderr != "" {
		r.Log.Printf("render: stderr: %s", firstLine(stderr))
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		r.remove(out)
		return "", ctxErr
	}

	if _, err := os.Stat(out); err != nil {
		r.Log.Printf("render: no output at %s", out)
		return "", nil
	}
	data, err := os.ReadFile(out)
	r.remove(out)
	if err != nil {
		r.Log.Printf("render: read %s: %v", out, err)
		return "", nil
	}
	return string(data), nil
}

// RenderAsync runs Render on its own goroutine. The returned channel yields
// exactly one Result.
func (r *Renderer) RenderAsync(ctx context.Context, input string) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		html, err := r.Render(ctx, input)
		ch <- Result{HTML: html, Err: err}
	}()
	return ch
}

func (r *Renderer) remove(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		r.Log.Printf("render: remove %s: %v", path, err)
	}
}
