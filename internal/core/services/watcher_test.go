package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_HandleEvent(t *testing.T) {
	tempDir := t.TempDir()

	visible := filepath.Join(tempDir, "notes.md")
	require.NoError(t, os.WriteFile(visible, []byte("# Heading"), 0o644))
	hidden := filepath.Join(tempDir, ".draft.md")
	require.NoError(t, os.WriteFile(hidden, []byte("wip"), 0o644))
	unsupported := filepath.Join(tempDir, "photo.png")
	require.NoError(t, os.WriteFile(unsupported, []byte{0}, 0o644))
	subdir := filepath.Join(tempDir, "chapter.md")
	require.NoError(t, os.Mkdir(subdir, 0o755))

	w := NewWatcher(nil)

	tests := []struct {
		name   string
		event  fsnotify.Event
		ingest bool
	}{
		{"create supported file", fsnotify.Event{Name: visible, Op: fsnotify.Create}, true},
		{"write supported file", fsnotify.Event{Name: visible, Op: fsnotify.Write}, true},
		{"chmod ignored", fsnotify.Event{Name: visible, Op: fsnotify.Chmod}, false},
		{"remove ignored", fsnotify.Event{Name: visible, Op: fsnotify.Remove}, false},
		{"hidden file skipped", fsnotify.Event{Name: hidden, Op: fsnotify.Create}, false},
		{"unsupported extension skipped", fsnotify.Event{Name: unsupported, Op: fsnotify.Create}, false},
		{"directory skipped", fsnotify.Event{Name: subdir, Op: fsnotify.Create}, false},
		{"vanished file skipped", fsnotify.Event{Name: filepath.Join(tempDir, "gone.md"), Op: fsnotify.Create}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uri, ingest := w.handleEvent(tt.event)
			assert.Equal(t, tt.ingest, ingest)
			if tt.ingest {
				assert.Equal(t, tt.event.Name, uri)
			}
		})
	}
}

func TestIsHidden(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{".hidden", true},
		{"path/to/.hidden.md", true},
		{"/home/user/.config/notes.md", true},
		{"notes.md", false},
		{"path/to/notes.md", false},
		{".", false},
		{"..", false},
		{"path/./notes.md", false},
		{"file.hidden", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, isHidden(tt.path))
		})
	}
}
