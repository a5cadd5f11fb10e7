package lang

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	// eventChannelBuffer is the size of the watch event channel.
	eventChannelBuffer = 64

	// defaultDebounce is used when no debounce delay is configured.
	defaultDebounce = 500 * time.Millisecond
)

// WatchEvent reports a changed message catalog.
type WatchEvent struct {
	// Path is the catalog file name relative to the messages directory.
	Path string

	// Removed is true when the catalog was deleted or renamed away.
	Removed bool
}

// Watcher watches a messages directory for catalog changes and emits
// debounced events. Catalogs live flat in one directory, so the watch is
// not recursive.
type Watcher struct {
	dir      string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	logger   *slog.Logger

	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op

	events chan WatchEvent

	droppedEvents atomic.Int64
}

// NewWatcher creates a catalog watcher for dir. debounce <= 0 uses the
// default delay.
func NewWatcher(dir string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	return &Watcher{
		dir:      dir,
		debounce: debounce,
		watcher:  fsw,
		logger:   logger,
		pending:  make(map[string]fsnotify.Op),
		events:   make(chan WatchEvent, eventChannelBuffer),
	}, nil
}

// Events returns the channel of catalog change events.
func (w *Watcher) Events() <-chan WatchEvent {
	return w.events
}

// Start begins watching the messages directory.
func (w *Watcher) Start(ctx context.Context) error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return err
	}
	if err := w.watcher.Add(w.dir); err != nil {
		return err
	}

	go w.processEvents(ctx)

	w.logger.Info("Catalog watcher started",
		"messages_dir", w.dir,
		"debounce", w.debounce)
	return nil
}

// Stop stops the watcher.
// The events channel is closed by processEvents when it exits.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

// DroppedEvents returns the number of events dropped due to channel
// overflow.
func (w *Watcher) DroppedEvents() int64 {
	return w.droppedEvents.Load()
}

// processEvents handles fsnotify events with debouncing.
func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			w.flushPending()
		}
	}
}

// handleFSEvent accumulates one fsnotify event for the next flush.
func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	if !isCatalogFile(event.Name) {
		return
	}

	w.pendingMu.Lock()
	w.pending[event.Name] |= event.Op
	w.pendingMu.Unlock()

	w.logger.Debug("Catalog change detected",
		"path", filepath.Base(event.Name),
		"op", event.Op.String())
}

// flushPending converts accumulated changes into watch events.
func (w *Watcher) flushPending() {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	toProcess := w.pending
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	for path, op := range toProcess {
		event := WatchEvent{Path: filepath.Base(path)}
		if op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename) {
			event.Removed = true
		} else if _, err := os.Stat(path); os.IsNotExist(err) {
			event.Removed = true
		}
		w.sendEvent(event)
	}
}

// sendEvent sends an event to the output channel.
func (w *Watcher) sendEvent(event WatchEvent) {
	select {
	case w.events <- event:
		w.logger.Debug("Sent catalog event",
			"path", event.Path,
			"removed", event.Removed)
	default:
		dropped := w.droppedEvents.Add(1)
		w.logger.Warn("Event channel full, dropping event",
			"path", event.Path,
			"total_dropped", dropped)
	}
}

// isCatalogFile reports whether path looks like a message catalog.
func isCatalogFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// WatchCatalogs starts a watcher on the language's messages directory and
// reloads the catalogs whenever one changes. The watcher runs until ctx
// is cancelled; reload failures are logged and the watch continues, so a
// half-written catalog on disk never takes the language down.
func (l *Language) WatchCatalogs(ctx context.Context, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	w, err := NewWatcher(l.MessagesDir(), debounce, logger)
	if err != nil {
		return nil, err
	}
	if err := w.Start(ctx); err != nil {
		return nil, err
	}

	go func() {
		for ev := range w.Events() {
			if err := l.ReloadCatalogs(); err != nil {
				logger.Warn("Catalog reload failed",
					"language", l.Code(),
					"path", ev.Path,
					"error", err)
				continue
			}
			logger.Info("Catalogs reloaded",
				"language", l.Code(),
				"path", ev.Path,
				"removed", ev.Removed)
		}
	}()

	return w, nil
}
