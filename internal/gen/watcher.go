package gen

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Watcher regenerates a project whenever its Java sources change. Rapid
// bursts of events (editor saves, branch switches) are debounced into a
// single regeneration.
type Watcher struct {
	watcher  *fsnotify.Watcher
	gen      *Generator
	debounce time.Duration
	logger   *zap.Logger

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewWatcher creates a watcher for the generator's source tree.
func NewWatcher(gen *Generator, debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:  fsw,
		gen:      gen,
		debounce: debounce,
		logger:   logger.With(zap.String("component", "watcher")),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start watches the source tree and regenerates on changes. Non-blocking;
// the watch loop runs until Stop is called or the context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	sourceDir := w.gen.Project().SourcePath()

	// Watch every directory under the source tree; fsnotify does not recurse.
	err := afero.Walk(w.gen.fs, sourceDir, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if info.IsDir() {
			return w.watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	w.logger.Info("Watching for source changes", zap.String("dir", sourceDir))
	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the watch loop to exit.
func (w *Watcher) Stop() {
	close(w.stopCh)
	<-w.doneCh
	if err := w.watcher.Close(); err != nil {
		w.logger.Warn("Error closing watcher", zap.Error(err))
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("Source change",
				zap.String("file", event.Name),
				zap.String("op", event.Op.String()),
			)
			pending = time.After(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Watch error", zap.Error(err))

		case <-pending:
			pending = nil
			if err := w.gen.Generate(ctx); err != nil {
				w.logger.Error("Regeneration failed", zap.Error(err))
			}
		}
	}
}

// relevant filters events down to Java source changes, and picks up newly
// created directories so they are watched too.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.watcher.Add(event.Name); err != nil {
				w.logger.Warn("Cannot watch new directory",
					zap.String("dir", event.Name),
					zap.Error(err),
				)
			}
			return false
		}
	}
	return filepath.Ext(event.Name) == ".java"
}
