package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch re-loads the configuration whenever config.toml changes on disk
// and delivers the fresh Config to onChange. It returns immediately; the
// watcher stops when ctx is cancelled. Watch is how a running watch TUI
// picks up display settings saved by another strobe process.
func (c *Configer) Watch(ctx context.Context, onChange func(*Config)) error {
	if c.targetPath == "" {
		return fmt.Errorf("no config file to watch")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}

	// Watch the directory rather than the file: editors and SaveConfig
	// replace the file, which would otherwise drop the watch.
	if err := watcher.Add(filepath.Dir(c.targetPath)); err != nil {
		watcher.Close()
		return fmt.Errorf("watching config dir: %w", err)
	}

	go func() {
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != c.targetPath {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}

				cfg, err := c.LoadConfig()
				if err != nil {
					continue
				}
				onChange(cfg)

			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return nil
}
