package fswatcher

import (
	"context"

	"github.com/fsnotify/fsnotify"

	"github.com/pynezz/gungnir/internal/util"
)

// Watch calls onChange every time the file is written to. Used for
// hot reloading the payload catalog overrides from the config file.
// Blocks until the context is done.
func Watch(ctx context.Context, file string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(file); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) {
				util.PrintInfo("Config file changed: " + event.Name)
				onChange()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			util.PrintError("Watcher error: " + err.Error())
		}
	}
}
