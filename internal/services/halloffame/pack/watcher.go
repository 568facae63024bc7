package pack

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Debounce is how long a descriptor has to stay quiet before a change is
// reported.
const Debounce = 250 * time.Millisecond

// Watcher reports changed pack descriptors below a root directory. New
// sub directories are watched as they appear.
type Watcher struct {
	Root string

	logger  *zap.Logger
	watcher *fsnotify.Watcher
}

// NewWatcher watches root and every directory below it.
func NewWatcher(root string, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{Root: root, logger: logger, watcher: fw}
	if err := w.addTree(root); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		w.logger.Debug("watching ribbon pack folder", zap.String("path", p))
		return w.watcher.Add(p)
	})
}

// Run sends the path of each changed descriptor on changes until ctx is
// done or the watcher fails. It closes the underlying watcher on return.
func (w *Watcher) Run(ctx context.Context, changes chan<- string) error {
	defer w.watcher.Close()

	pending := map[string]time.Time{}
	ticker := time.NewTicker(Debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						w.logger.Warn("failed to watch new folder", zap.String("path", event.Name), zap.Error(err))
					}
					continue
				}
			}
			if filepath.Base(event.Name) != FileName {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				pending[event.Name] = time.Now()
			}
		case <-ticker.C:
			now := time.Now()
			for file, t := range pending {
				if now.Sub(t) < Debounce {
					continue
				}
				delete(pending, file)
				select {
				case changes <- file:
				case <-ctx.Done():
					return nil
				}
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("ribbon pack watch error", zap.Error(err))
		}
	}
}
