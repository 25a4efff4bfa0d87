package markmap

import (
	"context"
	"io"
	"log"
)

// Generator turns a mind-map file into the HTML handed to the display panel.
type Generator struct {
	Checker  Checker
	Renderer *Renderer
	Log      *log.Logger
}

func NewGenerator(checker Checker, renderer *Renderer, logger *log.Logger) *Generator {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Generator{Checker: checker, Renderer: renderer, Log: logger}
}

// Generate never returns an empty string: when the renderer is unavailable
// or writes nothing, the fallback page for the given theme is returned.
func (g *Generator) Generate(ctx context.Context, path string, dark bool) string {
	var html string
	if g.Checker != nil && g.Renderer != nil && g.Checker.Available(ctx) {
		res := <-g.Renderer.RenderAsync(ctx, path)
		if res.Err != nil {
			g.Log.Printf("generate: render %q: %v", path, res.Err)
		}
		html = res.HTML
	}
	if html == "" {
		g.Log.Printf("generate: using fallback page dark=%t", dark)
		html = FallbackHTML(dark)
	}
	return html
}
