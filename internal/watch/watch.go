// Package watch re-renders a file when it changes on disk.
package watch

import (
	"context"
	"io"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const DefaultDebounce = 500 * time.Millisecond

// File watches the directory containing path and calls onChange once writes
// to path have been quiet for debounce. Editors that save by renaming a temp
// file over the original are covered because the directory is watched.
// It returns when ctx is done.
func File(ctx context.Context, path string, debounce time.Duration, logger *log.Logger, onChange func()) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	tick := debounce / 4
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	var last time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				last = time.Now()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Printf("watch: %v", err)
		case now := <-ticker.C:
			if !last.IsZero() && now.Sub(last) >= debounce {
				last = time.Time{}
				logger.Printf("watch: %s changed", filepath.Base(abs))
				onChange()
			}
		}
	}
}
