package cli

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/lcod-team/lcod-registry/internal/logger"
)

// watchDebounce coalesces bursts of events (an import rewrites many files).
const watchDebounce = 300 * time.Millisecond

// watchRegistry calls onChange after registry files change, until ctx is
// cancelled. fsnotify is not recursive, so every directory is watched and
// new directories are added as they appear.
func watchRegistry(ctx context.Context, root string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := addTree(watcher, root); err != nil {
		return err
	}

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				// Errors are ignored: the path may be a file or already gone.
				_ = addTree(watcher, event.Name)
			}
			if !relevantEvent(event) {
				continue
			}
			logger.Debug("change: %s %s", event.Op, event.Name)
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		}
	}
}

// addTree watches dir and every non-hidden directory below it.
func addTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			if p == dir {
				return errors.New("not a directory: " + p)
			}
			return nil
		}
		if p != dir && isHidden(p) {
			return filepath.SkipDir
		}
		return watcher.Add(p)
	})
}

// relevantEvent reports whether an event can change validation results.
// Chmod events and hidden files (.git, editor swap files) are ignored.
func relevantEvent(event fsnotify.Event) bool {
	if isHidden(event.Name) {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

func isHidden(p string) bool {
	return strings.HasPrefix(filepath.Base(p), ".")
}
