package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
)

// StripFrontMatter removes a leading YAML front matter block, which markmap
// files use for their rendering options.
func StripFrontMatter(src string) string {
	s := strings.ReplaceAll(src, "\r\n", "\n")
	if !strings.HasPrefix(s, "---\n") {
		return s
	}
	rest := s[len("---\n"):]
	if i := strings.Index(rest, "\n---\n"); i >= 0 {
		return rest[i+len("\n---\n"):]
	}
	if strings.HasSuffix(rest, "\n---") {
		return ""
	}
	return s
}

// WriteOutline renders the mind-map source as styled terminal markdown.
func WriteOutline(w io.Writer, src string, dark bool, width int) error {
	style := "light"
	if dark {
		style = "dracula"
	}
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := r.Render(StripFrontMatter(src))
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}
