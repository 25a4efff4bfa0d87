package cli

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/mithrel/markmapview/internal/markmap"
)

var skipDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
}

func newListCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list [dir] [query]",
		Short: "List mind-map files under a directory",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}
			query := ""
			if len(args) > 1 {
				query = args[1]
			}
			files, err := findMindMaps(root)
			if err != nil {
				return err
			}
			for _, f := range rankFiles(query, files, limit) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), f)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most n matches (0 = all)")
	return cmd
}

// findMindMaps walks root and returns the handled files, relative to root.
func findMindMaps(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (skipDirs[name] || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !markmap.HasExtension(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		out = append(out, rel)
		return nil
	})
	return out, err
}

// rankFiles fuzzy-filters files by query, best match first. An empty query
// keeps walk order.
func rankFiles(query string, files []string, n int) []string {
	if query == "" {
		if n > 0 && len(files) > n {
			return files[:n]
		}
		return files
	}
	matches := fuzzy.Find(query, files)
	limit := len(matches)
	if n > 0 && n < limit {
		limit = n
	}
	out := make([]string, limit)
	for i := 0; i < limit; i++ {
		out[i] = matches[i].Str
	}
	return out
}
