package commands

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchFiles(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "notes.md")
	other := filepath.Join(dir, "other.md")
	require.NoError(t, os.WriteFile(watched, []byte("first"), 0o644))
	require.NoError(t, os.WriteFile(other, []byte("first"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan string, 10)
	done := make(chan error, 1)
	go func() {
		done <- watchFiles(ctx, []string{watched}, slog.New(slog.DiscardHandler), func(path string) {
			changed <- path
		})
	}()

	// Give the watcher time to register the directory
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(other, []byte("second"), 0o644))
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(watched, []byte("second"), 0o644))
	}

	select {
	case path := <-changed:
		assert.Equal(t, watched, path)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change")
	}

	// Writes in one burst are coalesced into one call
	select {
	case path := <-changed:
		t.Fatalf("unexpected second change for %s", path)
	case <-time.After(3 * watchDebounce):
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
