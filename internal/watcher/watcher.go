// Package watcher exports feature files as they appear in a directory.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"github.com/woozymasta/cadexport/internal/export"
	"github.com/woozymasta/cadexport/internal/processor"
)

// DefaultDebounce is the quiet period after the last write before a file is exported.
const DefaultDebounce = 250 * time.Millisecond

// Watcher watches one directory and exports settled feature files.
type Watcher struct {
	dir       string
	formats   []export.Format
	proc      *processor.Processor
	debounce  time.Duration
	onProcess func(path string, results []processor.Result, err error)

	mu      sync.Mutex
	pending map[string]*time.Timer
	ready   chan string
	done    chan struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a changed file is exported.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithCallback registers a function called after every processed file.
func WithCallback(fn func(path string, results []processor.Result, err error)) Option {
	return func(w *Watcher) { w.onProcess = fn }
}

// New creates a watcher for dir.
func New(dir string, formats []export.Format, proc *processor.Processor, opts ...Option) *Watcher {
	w := &Watcher{
		dir:      dir,
		formats:  formats,
		proc:     proc,
		debounce: DefaultDebounce,
		pending:  make(map[string]*time.Timer),
		ready:    make(chan string, 64),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Run watches until ctx is cancelled. Exports run one at a time on this goroutine.
// A Watcher runs once.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.done)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer func() {
		if closeErr := fsw.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("Failed to close file watcher")
		}
	}()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}

	log.Info().
		Str("dir", w.dir).
		Dur("debounce", w.debounce).
		Msg("Watching for feature files")

	defer w.stopTimers()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Watcher stopped")
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if w.shouldProcess(event) {
				w.schedule(event.Name)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			log.Error().Err(err).Msg("File watcher error")

		case path := <-w.ready:
			w.process(path)
		}
	}
}

func (w *Watcher) shouldProcess(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}

	return processor.IsInputFile(event.Name)
}

// schedule (re)starts the debounce timer of path.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		select {
		case w.ready <- path:
		case <-w.done:
		}
	})
}

func (w *Watcher) process(path string) {
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return
	}

	results, err := w.proc.ProcessFile(path, w.formats, "")
	if err != nil {
		log.Error().Err(err).Str("source", path).Msg("Failed to export feature file")
	} else {
		log.Info().Str("source", path).Int("files", len(results)).Msg("Feature file exported")
	}

	if w.onProcess != nil {
		w.onProcess(path, results, err)
	}
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
}
