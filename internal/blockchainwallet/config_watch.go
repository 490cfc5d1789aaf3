package blockchainwallet

import (
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// WatchConfigFile applies on-disk config edits live using fsnotify. After a
// reload passes validation it is stored and handed to onChange.
// It watches both the directory and the file to survive atomic saves.
func WatchConfigFile(path string, store *ConfigStore, onChange func(*Config)) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	_ = watcher.Add(path)

	cleanPath := filepath.Clean(path)
	baseName := filepath.Base(cleanPath)

	go func() {
		slog.Debug("config watcher loop started", "path", cleanPath)
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				slog.Debug("config watcher event", "op", event.Op.String(), "name", event.Name)

				if filepath.Clean(event.Name) != cleanPath && filepath.Base(event.Name) != baseName {
					continue
				}

				if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					// Atomic saves replace the file; re-add the watch on the new inode.
					_ = watcher.Remove(path)
					_ = watcher.Add(path)
				}

				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
					reloadConfig(store, onChange)
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Error("config watcher error", "path", path, "error", err)
			}
		}
	}()

	return watcher, nil
}

func reloadConfig(store *ConfigStore, onChange func(*Config)) {
	path := store.Path()
	cfg, err := LoadConfig(path)
	if err != nil {
		slog.Error("config reload failed", "path", path, "error", err)
		return
	}
	if err := store.Set(cfg); err != nil {
		slog.Warn("config reload rejected", "path", path, "error", err)
		return
	}
	applied := store.Get()
	InitLogger(applied.Logging)
	if onChange != nil {
		onChange(applied)
	}
	slog.Info("config reloaded from disk", "path", path, "wallet", applied.Wallet.ID)
}
