package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woozymasta/cadexport/internal/config"
	"github.com/woozymasta/cadexport/internal/export"
	"github.com/woozymasta/cadexport/internal/processor"
)

type processed struct {
	path    string
	results []processor.Result
	err     error
}

func startWatcher(t *testing.T, dir string, proc *processor.Processor) <-chan processed {
	t.Helper()

	events := make(chan processed, 8)
	w := New(dir, []export.Format{export.FormatCSV}, proc,
		WithDebounce(100*time.Millisecond),
		WithCallback(func(path string, results []processor.Result, err error) {
			events <- processed{path: path, results: results, err: err}
		}),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("watcher did not stop")
		}
	})

	// give fsnotify time to register the directory
	time.Sleep(100 * time.Millisecond)
	return events
}

func TestWatcher_ExportsNewFiles(t *testing.T) {
	in := t.TempDir()
	cfg := config.Default()
	cfg.OutputDir = t.TempDir()

	events := startWatcher(t, in, processor.New(cfg))

	require.NoError(t, os.WriteFile(filepath.Join(in, "ignored.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(in, ".hidden.json"), []byte("{}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(in, "parcel.json"), []byte(
		`{"file_name": "parcel", "geometry": {"type": "POLYGON", "coordinates": [[[[1,1],[2,2],[3,1]]]]}}`,
	), 0644))

	select {
	case ev := <-events:
		require.NoError(t, ev.err)
		assert.Equal(t, "parcel.json", filepath.Base(ev.path))
		require.Len(t, ev.results, 1)
		assert.Equal(t, filepath.Join(cfg.OutputDir, "csv", "parcel.csv"), ev.results[0].Path)
	case <-time.After(5 * time.Second):
		t.Fatal("feature file was not exported")
	}

	select {
	case ev := <-events:
		t.Fatalf("unexpected export of %s", ev.path)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_ReportsFailures(t *testing.T) {
	in := t.TempDir()
	cfg := config.Default()
	cfg.OutputDir = t.TempDir()

	events := startWatcher(t, in, processor.New(cfg))

	require.NoError(t, os.WriteFile(filepath.Join(in, "empty.json"), []byte(`{"file_name": "empty"}`), 0644))

	select {
	case ev := <-events:
		assert.ErrorIs(t, ev.err, export.ErrEmptyGeometry)
	case <-time.After(5 * time.Second):
		t.Fatal("feature file was not processed")
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "missing"), export.Formats, processor.New(nil))

	err := w.Run(context.Background())
	require.Error(t, err)
}
