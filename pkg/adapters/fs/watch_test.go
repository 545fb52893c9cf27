package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitForEvent(t *testing.T, events <-chan string, want string) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case got := <-events:
			if got == want {
				return
			}
			// other debounced paths may arrive first
		case <-deadline:
			t.Fatalf("timed out waiting for event %s", want)
		}
	}
}

func TestWatcherEmitsRecordChanges(t *testing.T) {
	dir := t.TempDir()
	events := make(chan string, 16)

	w := NewWatcher(dir, events, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer func() {
		if err := w.Stop(context.Background()); err != nil {
			t.Errorf("stop: %v", err)
		}
	}()

	path := filepath.Join(dir, "mu_x.mimo")
	if err := os.WriteFile(path, []byte("schema_version: \"1.1\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	waitForEvent(t, events, path)

	// a write to an existing record debounces to one more event
	if err := os.WriteFile(path, []byte("schema_version: \"1.0\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	waitForEvent(t, events, path)
}

func TestWatcherIgnoresNonRecords(t *testing.T) {
	dir := t.TempDir()
	events := make(chan string, 16)

	w := NewWatcher(dir, events, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = w.Stop(context.Background()) }()

	// neither a foreign extension nor an in-flight temp file is a record
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, TempFilePrefix+"123"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	record := filepath.Join(dir, "mu_y.mimo")
	if err := os.WriteFile(record, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	// the record event arrives and nothing else is queued behind it
	waitForEvent(t, events, record)
	select {
	case extra := <-events:
		t.Errorf("unexpected event for %s", extra)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherDoubleStart(t *testing.T) {
	dir := t.TempDir()
	w := NewWatcher(dir, make(chan string, 1), nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = w.Stop(context.Background()) }()

	if err := w.Start(ctx); err == nil {
		t.Error("second Start must fail")
	}
}

func TestWatcherMissingDir(t *testing.T) {
	w := NewWatcher(filepath.Join(t.TempDir(), "gone"), make(chan string, 1), nil)
	if err := w.Start(context.Background()); err == nil {
		t.Error("missing directory must fail to start")
		_ = w.Stop(context.Background())
	}
}
