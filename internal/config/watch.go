package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/gogpu/paint"
)

// Watch reloads the settings file at path whenever it is written, created
// or renamed into place, and passes the result to fn. Load errors are
// passed to fn as well; watching continues.
//
// The directory is watched rather than the file so that editors which
// replace the file on save keep being observed. Watch blocks until ctx is
// done and calls fn from its own goroutine; fn must hand the settings over
// to the goroutine that owns the canvas.
func Watch(ctx context.Context, path string, fn func(Settings, error)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: watch: %w", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("config: watch %s: %w", filepath.Dir(abs), err)
	}
	paint.Logger().Debug("paint: watching settings", "path", abs)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			s, err := Load(abs)
			if err != nil {
				paint.Logger().Warn("paint: settings reload failed", "path", abs, "err", err)
			}
			fn(s, err)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			paint.Logger().Warn("paint: settings watcher", "err", err)
		}
	}
}
