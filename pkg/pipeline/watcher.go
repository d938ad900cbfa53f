package pipeline

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gnana997/uiimport/pkg/parser"
)

// WatchOptions configures a Watcher.
type WatchOptions struct {
	// Debounce groups rapid events on one file. Default 200ms.
	Debounce time.Duration

	// Write writes changed output back to the file.
	Write bool

	Discover DiscoverOptions

	// OnResult is called after every re-transform, from the debounce timer
	// goroutine.
	OnResult func(res *FileResult, err error)
}

// Watcher re-transforms source files as they change.
//
// Writing a rewritten file triggers one more event for it; the second run
// finds nothing to rewrite, so the loop settles.
//
//	w, err := NewWatcher(p, WatchOptions{Write: true}, logger)
//	if err != nil {
//	    return err
//	}
//	if err := w.Start("./src"); err != nil {
//	    return err
//	}
//	defer w.Stop()
type Watcher struct {
	watcher  *fsnotify.Watcher
	pipeline *Pipeline
	logger   *slog.Logger
	options  WatchOptions
	root     string

	debounceTimers map[string]*time.Timer
	debounceMu     sync.Mutex

	stopChan chan struct{}
	stopped  bool
	mu       sync.Mutex
	done     sync.WaitGroup
}

// NewWatcher creates a watcher running p.
func NewWatcher(p *Pipeline, options WatchOptions, logger *slog.Logger) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if options.Debounce == 0 {
		options.Debounce = 200 * time.Millisecond
	}
	if err := options.Discover.validate(); err != nil {
		watcher.Close()
		return nil, err
	}

	return &Watcher{
		watcher:        watcher,
		pipeline:       p,
		logger:         logger,
		options:        options,
		debounceTimers: make(map[string]*time.Timer),
		stopChan:       make(chan struct{}),
	}, nil
}

// Start watches rootPath and every non-excluded directory below it.
func (w *Watcher) Start(rootPath string) error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return fmt.Errorf("watcher already stopped")
	}
	w.mu.Unlock()

	root, err := filepath.Abs(rootPath)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", rootPath, err)
	}
	w.root = root

	if err := w.addTree(root); err != nil {
		return err
	}
	w.logger.Info("file watcher started", "root", root)

	w.done.Add(1)
	go w.eventLoop()
	return nil
}

func (w *Watcher) addTree(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if path != w.root && w.ignored(path) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

// Stop stops the watcher and cancels pending re-transforms. Idempotent.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	close(w.stopChan)
	w.mu.Unlock()

	w.debounceMu.Lock()
	for _, timer := range w.debounceTimers {
		timer.Stop()
	}
	w.debounceTimers = make(map[string]*time.Timer)
	w.debounceMu.Unlock()

	err := w.watcher.Close()
	w.done.Wait()
	w.logger.Info("file watcher stopped")
	return err
}

func (w *Watcher) eventLoop() {
	defer w.done.Done()
	for {
		select {
		case <-w.stopChan:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name
	if w.ignored(path) {
		return
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := w.addTree(path); err != nil {
				w.logger.Warn("failed to watch new directory", "path", path, "error", err)
			}
			return
		}
	}

	if parser.DetectDialect(path) == parser.DialectUnknown {
		return
	}

	w.logger.Debug("file event", "op", event.Op.String(), "file", path)
	switch {
	case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
		w.debounce(path)
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.cancel(path)
		w.pipeline.sources.Invalidate(path)
	}
}

// debounce schedules a re-transform of path, replacing any pending one.
func (w *Watcher) debounce(path string) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if timer, exists := w.debounceTimers[path]; exists {
		timer.Stop()
	}
	w.debounceTimers[path] = time.AfterFunc(w.options.Debounce, func() {
		w.debounceMu.Lock()
		delete(w.debounceTimers, path)
		w.debounceMu.Unlock()

		w.process(path)
	})
}

func (w *Watcher) cancel(path string) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()
	if timer, exists := w.debounceTimers[path]; exists {
		timer.Stop()
		delete(w.debounceTimers, path)
	}
}

func (w *Watcher) process(path string) {
	w.mu.Lock()
	stopped := w.stopped
	w.mu.Unlock()
	if stopped {
		return
	}

	res, err := w.pipeline.TransformFile(path)
	if err == nil && res.Changed && w.options.Write {
		err = w.pipeline.WriteResult(res)
		if err == nil {
			w.logger.Info("rewrote file", "file", path,
				"specifiers", res.Stats.Specifiers,
				"properties", res.Stats.Properties)
		}
	}
	if err != nil {
		w.logger.Warn("failed to transform file", "file", path, "error", err)
	}
	if w.options.OnResult != nil {
		w.options.OnResult(res, err)
	}
}

// ignored reports whether path falls under an exclude pattern.
func (w *Watcher) ignored(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	return w.options.Discover.Excluded(filepath.ToSlash(rel))
}

// Pending returns the number of scheduled re-transforms.
func (w *Watcher) Pending() int {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()
	return len(w.debounceTimers)
}
