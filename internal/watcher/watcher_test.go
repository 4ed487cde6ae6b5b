package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestIsCorpusFile(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"faqs.csv", true},
		{"data/FAQS.CSV", true},
		{"sheet.xlsx", true},
		{"notes.txt", false},
		{"faqs.csv.swp", false},
		{"", false},
	}
	for _, c := range cases {
		if got := isCorpusFile(c.path); got != c.want {
			t.Errorf("isCorpusFile(%q)=%v, want %v", c.path, got, c.want)
		}
	}
}

func TestWatcherFiresOnCorpusChange(t *testing.T) {
	dir := t.TempDir()
	var fired atomic.Int32
	w := NewWatcher(dir, func() { fired.Add(1) }, WithDebounce(50*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "faq.csv"), []byte("question,answer\n"), 0644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(3 * time.Second)
	for fired.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("onChange never fired")
		case <-time.After(20 * time.Millisecond):
		}
	}
}

func TestWatcherDebouncesBurst(t *testing.T) {
	dir := t.TempDir()
	var fired atomic.Int32
	w := NewWatcher(dir, func() { fired.Add(1) }, WithDebounce(200*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	for i := 0; i < 5; i++ {
		name := filepath.Join(dir, "part.csv")
		if err := os.WriteFile(name, []byte("question,answer\n"), 0644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	time.Sleep(600 * time.Millisecond)
	if got := fired.Load(); got != 1 {
		t.Errorf("onChange fired %d times for one burst, want 1", got)
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	var fired atomic.Int32
	w := NewWatcher(dir, func() { fired.Add(1) }, WithDebounce(50*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}

	time.Sleep(300 * time.Millisecond)
	if fired.Load() != 0 {
		t.Error("onChange fired for a non-corpus file")
	}
}

func TestWatcherStopIdempotent(t *testing.T) {
	w := NewWatcher(t.TempDir(), nil)
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	w.Stop()
	w.Stop()
}

func TestWatcherMissingDir(t *testing.T) {
	w := NewWatcher(filepath.Join(t.TempDir(), "missing"), nil)
	if err := w.Start(context.Background()); err == nil {
		w.Stop()
		t.Fatal("expected error for missing directory")
	}
}
