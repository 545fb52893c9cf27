package fs

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/fsnotify/fsnotify"
)

// Watcher observes a directory of record files and emits the path of every
// record that is created or modified, debounced, so a caller can revalidate
// continuously. It is a lifecycle worker: Start/Stop manage the goroutine.
type Watcher struct {
	*worker.BaseWorker
	dir       string
	events    chan<- string
	logger    *slog.Logger
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	cancel    context.CancelFunc
}

// NewWatcher creates a watcher over dir that sends changed record paths to
// events.
func NewWatcher(dir string, events chan<- string, logger *slog.Logger) *Watcher {
	return &Watcher{
		BaseWorker: worker.NewBaseWorker("mimo-watcher"),
		dir:        dir,
		events:     events,
		logger:     logger,
	}
}

// Start begins watching. It is an error to start a watcher twice.
func (w *Watcher) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("watcher already started (status: %s)", status)
	}

	info, err := os.Stat(w.dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("missing watch directory: %s", w.dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := addRecursive(watcher, w.dir); err != nil {
		_ = watcher.Close()
		return err
	}

	w.watcher = watcher
	w.debouncer = newDebouncer(50 * time.Millisecond)

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

// Stop cancels the watch loop and waits for it to wind down.
func (w *Watcher) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}
	return w.BaseWorker.Stop(ctx)
}

// State exposes the worker state for observability.
func (w *Watcher) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
		}
	})
}

func (w *Watcher) run(ctx context.Context) error {
	defer w.watcher.Close()
	defer w.debouncer.stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			if w.logger != nil {
				w.logger.Error("fsnotify error", "error", err)
			}
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	// Pick up directories created after the watch started.
	if event.Has(fsnotify.Create) {
		if err := addRecursive(w.watcher, event.Name); err == nil && w.logger != nil {
			w.logger.Debug("watching new path", "path", event.Name)
		}
	}

	if !strings.EqualFold(filepath.Ext(event.Name), Ext) {
		return
	}
	if strings.HasPrefix(filepath.Base(event.Name), TempFilePrefix) {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return
	}

	if w.logger != nil {
		w.logger.Debug("record changed", "path", event.Name, "op", event.Op.String())
	}
	w.debouncer.add(event.Name, func(path string) {
		select {
		case w.events <- path:
		case <-ctx.Done():
		}
	})
}

// addRecursive registers dir and every directory below it. Non-directories
// are ignored.
func addRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := watcher.Add(p); err != nil {
				return fmt.Errorf("failed to watch %s: %w", p, err)
			}
		}
		return nil
	})
}

// debouncer collapses bursts of events for the same path into one callback
// after a quiet period.
type debouncer struct {
	mu     sync.Mutex
	delay  time.Duration
	timers map[string]*time.Timer
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay, timers: make(map[string]*time.Timer)}
}

func (d *debouncer) add(key string, fn func(string)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.timers[key]; ok {
		t.Stop()
	}
	d.timers[key] = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		delete(d.timers, key)
		d.mu.Unlock()
		fn(key)
	})
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key, t := range d.timers {
		t.Stop()
		delete(d.timers, key)
	}
}
