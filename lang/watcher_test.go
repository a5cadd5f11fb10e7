package lang

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewWatcherDefaults(t *testing.T) {
	tmpDir := t.TempDir()

	watcher, err := NewWatcher(tmpDir, 0, nil)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	defer watcher.Stop()

	if watcher.debounce != defaultDebounce {
		t.Errorf("expected default debounce %v, got %v", defaultDebounce, watcher.debounce)
	}
	if watcher.DroppedEvents() != 0 {
		t.Errorf("expected 0 dropped events, got %d", watcher.DroppedEvents())
	}
}

func TestIsCatalogFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"en.json", true},
		{"/messages/pt-br.JSON", true},
		{"notes.txt", false},
		{"en.json.bak", false},
		{"messages", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := isCatalogFile(tt.path); got != tt.want {
				t.Errorf("isCatalogFile(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestWatcherCatalogChange(t *testing.T) {
	tmpDir := t.TempDir()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	watcher, err := NewWatcher(tmpDir, 50*time.Millisecond, logger)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := watcher.Start(ctx); err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}
	defer watcher.Stop()

	// Give watcher time to set up
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(tmpDir, "en.json")
	if err := os.WriteFile(path, []byte(`{"greeting": "Hello"}`), 0644); err != nil {
		t.Fatalf("failed to write catalog: %v", err)
	}

	select {
	case event := <-watcher.Events():
		if event.Path != "en.json" {
			t.Errorf("expected path en.json, got %s", event.Path)
		}
		if event.Removed {
			t.Error("a written catalog should not be reported as removed")
		}
	case <-time.After(1 * time.Second):
		t.Error("timeout waiting for catalog event")
	}
}

func TestWatcherCatalogRemoval(t *testing.T) {
	tmpDir := t.TempDir()

	path := filepath.Join(tmpDir, "en.json")
	if err := os.WriteFile(path, []byte(`{}`), 0644); err != nil {
		t.Fatalf("failed to write catalog: %v", err)
	}

	watcher, err := NewWatcher(tmpDir, 50*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := watcher.Start(ctx); err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}
	defer watcher.Stop()

	// Give watcher time to set up
	time.Sleep(100 * time.Millisecond)

	if err := os.Remove(path); err != nil {
		t.Fatalf("failed to remove catalog: %v", err)
	}

	select {
	case event := <-watcher.Events():
		if !event.Removed {
			t.Errorf("expected removal event, got %+v", event)
		}
	case <-time.After(1 * time.Second):
		t.Error("timeout waiting for removal event")
	}
}

func TestWatcherIgnoresNonCatalogFiles(t *testing.T) {
	tmpDir := t.TempDir()

	watcher, err := NewWatcher(tmpDir, 50*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	if err := watcher.Start(ctx); err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}
	defer watcher.Stop()

	// Give watcher time to set up
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(tmpDir, "README.txt")
	if err := os.WriteFile(path, []byte("not a catalog"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	select {
	case event := <-watcher.Events():
		t.Errorf("unexpected event for non-catalog file: %+v", event)
	case <-time.After(300 * time.Millisecond):
		// Expected - no event for other file types
	}
}

func TestWatchCatalogsReloads(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "en.json")
	if err := os.WriteFile(path, []byte(`{"greeting": "Hello"}`), 0644); err != nil {
		t.Fatalf("failed to write catalog: %v", err)
	}

	l := New("en")
	l.SetMessagesDir(tmpDir)
	if err := l.InitEncoding(); err != nil {
		t.Fatalf("init encoding: %v", err)
	}
	if err := l.InitContent(); err != nil {
		t.Fatalf("init content: %v", err)
	}
	if got := l.Message("greeting"); got != "Hello" {
		t.Fatalf("initial message = %q, want Hello", got)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	watcher, err := l.WatchCatalogs(ctx, 50*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("failed to start catalog watch: %v", err)
	}
	defer watcher.Stop()

	// Give watcher time to set up
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(path, []byte(`{"greeting": "Hi there"}`), 0644); err != nil {
		t.Fatalf("failed to update catalog: %v", err)
	}

	// The reload happens asynchronously after the debounce window.
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if l.Message("greeting") == "Hi there" {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Errorf("catalog change never reflected, message = %q", l.Message("greeting"))
}
