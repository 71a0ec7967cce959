package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the config file whenever it changes and hands the fresh
// config to onChange. The parent directory is watched because editors often
// replace the file instead of writing it in place. Watch returns once the
// watcher is running; it stops when ctx is done.
func Watch(ctx context.Context, log *slog.Logger, path string, onChange func(*Config)) error {
	const op = "config.Watch"

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return fmt.Errorf("%s: watch %s: %w", op, path, err)
	}

	target := filepath.Clean(path)

	go func() {
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}

				cfg, err := Load(path)
				if err != nil {
					log.Warn("config reload failed", slog.String("op", op), slog.String("error", err.Error()))
					continue
				}

				log.Info("config reloaded", slog.String("path", path))
				onChange(cfg)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn("config watcher error", slog.String("op", op), slog.String("error", err.Error()))
			}
		}
	}()

	return nil
}
