package viewer

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/OpenTraceLab/svgzpd/pkg/zpd"
)

// watcher reports writes to a single file. The parent directory is watched
// so that editors which replace the file on save are seen too.
type watcher struct {
	fs   *fsnotify.Watcher
	path string
	done chan struct{}
}

func newWatcher(path string, changed func()) (*watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fs.Add(filepath.Dir(abs)); err != nil {
		fs.Close()
		return nil, err
	}

	w := &watcher{fs: fs, path: abs, done: make(chan struct{})}
	go w.loop(changed)
	return w, nil
}

func (w *watcher) loop(changed func()) {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if w.matches(event) {
				changed()
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			zpd.Logger().Warn("viewer: watch error", "path", w.path, "err", err)
		}
	}
}

func (w *watcher) matches(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

func (w *watcher) Close() error {
	close(w.done)
	return w.fs.Close()
}
