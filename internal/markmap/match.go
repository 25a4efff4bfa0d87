package markmap

import (
	"os"
	"strings"
)

var extensions = []string{".markmap", ".mm", ".mm.md", ".mm.mdown", ".mm.rmd", ".mm.markdown"}

// Extensions returns the file suffixes recognised as mind-map sources.
func Extensions() []string {
	return append([]string(nil), extensions...)
}

// CanHandle reports whether path names a mind-map file: it must not be a
// directory and its lowercase form must end with a known suffix.
func CanHandle(path string) bool {
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		return false
	}
	return HasExtension(path)
}

// HasExtension is the suffix half of CanHandle, without touching the filesystem.
func HasExtension(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
