package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu      sync.Mutex
	changed []string
	removed []string
}

func (r *recorder) onChange(path string) {
	r.mu.Lock()
	r.changed = append(r.changed, path)
	r.mu.Unlock()
}

func (r *recorder) onRemove(path string) {
	r.mu.Lock()
	r.removed = append(r.removed, path)
	r.mu.Unlock()
}

func (r *recorder) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.changed), len(r.removed)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestWatcher_DebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "courts.yaml")
	if err := os.WriteFile(file, []byte("a"), 0644); err != nil {
		t.Fatal(err)
	}

	rec := &recorder{}
	w := NewWatcher([]string{file}, rec.onChange, rec.onRemove, WithDebounce(100*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(file, []byte{byte('a' + i)}, 0644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	waitFor(t, func() bool { c, _ := rec.counts(); return c >= 1 })
	time.Sleep(250 * time.Millisecond)
	if c, _ := rec.counts(); c != 1 {
		t.Errorf("expected a single debounced callback, got %d", c)
	}
}

func TestWatcher_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "courts.yaml")
	if err := os.WriteFile(file, []byte("a"), 0644); err != nil {
		t.Fatal(err)
	}

	rec := &recorder{}
	w := NewWatcher([]string{file}, rec.onChange, rec.onRemove, WithDebounce(50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(300 * time.Millisecond)
	if c, r := rec.counts(); c != 0 || r != 0 {
		t.Errorf("sibling file triggered callbacks: changed=%d removed=%d", c, r)
	}
}

func TestWatcher_Remove(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "courts.yaml")
	if err := os.WriteFile(file, []byte("a"), 0644); err != nil {
		t.Fatal(err)
	}

	rec := &recorder{}
	w := NewWatcher([]string{file}, rec.onChange, rec.onRemove)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.Remove(file); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { _, r := rec.counts(); return r == 1 })
}

func TestWatcher_CreateAfterStart(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "later.yaml")

	rec := &recorder{}
	w := NewWatcher([]string{file}, rec.onChange, nil, WithDebounce(50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { c, _ := rec.counts(); return c >= 1 })
}

func TestWatcher_AddRemoveFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	b := filepath.Join(dir, "b.yaml")

	w := NewWatcher(nil, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := w.AddFile(a); err != nil {
		t.Fatal(err)
	}
	if err := w.AddFile(b); err != nil {
		t.Fatal(err)
	}
	if err := w.AddFile(a); err != nil {
		t.Fatal(err)
	}
	if got := w.Files(); len(got) != 2 {
		t.Errorf("Files() = %v", got)
	}
	if err := w.RemoveFile(a); err != nil {
		t.Fatal(err)
	}
	files := w.Files()
	if len(files) != 1 || files[0] != filepath.Clean(b) {
		t.Errorf("after remove: %v", files)
	}
}

func TestWatcher_StartFailsForMissingDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "missing", "courts.yaml")
	w := NewWatcher([]string{file}, nil, nil)
	if err := w.Start(context.Background()); err == nil {
		w.Stop()
		t.Fatal("expected an error for a missing directory")
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w := NewWatcher(nil, nil, nil)
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	w.Stop()
	w.Stop()
}
