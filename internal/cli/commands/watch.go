package commands

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the burst of events editors emit on save.
const watchDebounce = 100 * time.Millisecond

// watchFiles calls onChange with the path of each file in files that is
// written, created, or replaced, until ctx is done. Directories holding the
// files are watched so that atomic saves (write to temp, rename) are seen.
func watchFiles(ctx context.Context, files []string, logger *slog.Logger, onChange func(path string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	wanted := make(map[string]string, len(files)) // absolute -> as given
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		wanted[abs] = f
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	var (
		mu      sync.Mutex
		runMu   sync.Mutex // one onChange at a time
		pending = make(map[string]*time.Timer)
	)
	defer func() {
		mu.Lock()
		for _, t := range pending {
			t.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("file watcher error", "error", err)
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			path, ok := wanted[filepath.Clean(ev.Name)]
			if !ok {
				continue
			}

			mu.Lock()
			if t, ok := pending[path]; ok {
				t.Stop()
			}
			pending[path] = time.AfterFunc(watchDebounce, func() {
				if ctx.Err() != nil {
					return
				}
				runMu.Lock()
				defer runMu.Unlock()
				logger.Debug("file changed", "path", path)
				onChange(path)
			})
			mu.Unlock()
		}
	}
}
