package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/inkwell-labs/lectern/internal/core/ports/driving"
	"github.com/inkwell-labs/lectern/internal/logger"
)

// watchedExtensions are the source formats the watcher ingests.
var watchedExtensions = map[string]struct{}{
	".md":  {},
	".txt": {},
	".tex": {},
}

// Watcher monitors a directory and ingests new or modified source
// files automatically. Chmod events and hidden paths are ignored.
type Watcher struct {
	library driving.LibraryService
}

// NewWatcher creates a directory watcher over the library service.
func NewWatcher(library driving.LibraryService) *Watcher {
	return &Watcher{library: library}
}

// Watch blocks watching dir until ctx is cancelled. Every create or
// write of a supported file triggers an ingest.
func (w *Watcher) Watch(ctx context.Context, dir string) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	logger.Info("Watching %s for new documents", dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			uri, ingest := w.handleEvent(event)
			if !ingest {
				continue
			}
			if _, err := w.library.Ingest(ctx, uri, ""); err != nil {
				logger.Warn("Failed to ingest %s: %v", uri, err)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// handleEvent decides whether an event should trigger ingestion and
// returns the path to ingest.
func (w *Watcher) handleEvent(event fsnotify.Event) (string, bool) {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return "", false
	}
	if isHidden(event.Name) {
		return "", false
	}
	if _, ok := watchedExtensions[strings.ToLower(filepath.Ext(event.Name))]; !ok {
		return "", false
	}
	if info, err := os.Stat(event.Name); err != nil || info.IsDir() {
		return "", false
	}
	return event.Name, true
}

// isHidden reports whether any component of path starts with a dot.
// The relative markers "." and ".." do not count.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
