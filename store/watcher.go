package store

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

const (
	defaultRetryInterval = time.Second
	maxReloadRetries     = 2
)

// Watcher monitors a features directory and reports changed artifacts to an UpdateHandler.
//
// When a file cannot be decoded after a change, it might be that it is being copied over
// non-atomically and we are seeing a partial state, so Watcher tries again after a delay, up to a
// limit. The handler is only told about files that decoded successfully, so it keeps the last good
// version of a feature until a valid replacement appears.
type Watcher struct {
	dir           string
	handler       UpdateHandler
	retryInterval time.Duration
	files         map[string]*watchedFile
	watcher       *fsnotify.Watcher
	loggers       ldlog.Loggers
	retryCh       chan string
	closeCh       chan struct{}
	doneCh        chan struct{}
	closeOnce     sync.Once
}

// watchedFile is only accessed from the Watcher's goroutine, or before it starts.
type watchedFile struct {
	lastInfo  os.FileInfo
	lastError error
	retries   int
	needRetry bool
}

// NewWatcher starts watching dir. Every artifact already in the directory is read and reported to
// the handler before NewWatcher returns.
func NewWatcher(
	dir string,
	handler UpdateHandler,
	retryInterval time.Duration,
	loggers ldlog.Loggers,
) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errCannotWatchDirectory(dir, err)
	}
	if !info.IsDir() {
		return nil, errCannotWatchDirectory(dir, errors.New("not a directory"))
	}

	w := &Watcher{
		dir:           dir,
		handler:       handler,
		retryInterval: retryInterval,
		files:         make(map[string]*watchedFile),
		loggers:       loggers,
		retryCh:       make(chan string),
		closeCh:       make(chan struct{}),
		doneCh:        make(chan struct{}),
	}
	if w.retryInterval <= 0 {
		w.retryInterval = defaultRetryInterval
	}
	w.loggers.SetPrefix("[FeatureWatcher]")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errCannotWatchDirectory(dir, err) // COVERAGE: can't cause this condition in unit tests
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, errCannotWatchDirectory(dir, err) // COVERAGE: can't cause this condition in unit tests
	}
	w.watcher = watcher

	entries, err := os.ReadDir(dir)
	if err != nil {
		_ = watcher.Close()
		return nil, errCannotWatchDirectory(dir, err)
	}
	for _, e := range entries {
		if name, ok := featureNameForFile(e.Name()); ok && !e.IsDir() {
			w.maybeReload(name, false)
		}
	}

	w.loggers.Infof(logMsgMonitoringStarted, dir)
	go w.run()
	return w, nil
}

// Close stops watching. It must not be called from within an UpdateHandler method.
func (w *Watcher) Close() {
	w.closeOnce.Do(func() {
		close(w.closeCh)
		<-w.doneCh
	})
}

func (w *Watcher) run() {
	defer close(w.doneCh)
	for {
		select {
		case <-w.closeCh:
			_ = w.watcher.Close()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return // COVERAGE: can't cause this condition in unit tests
			}
			name, ok := featureNameForFile(event.Name)
			if !ok || filepath.Dir(event.Name) != filepath.Clean(w.dir) {
				continue
			}
			w.loggers.Debugf("Got file watcher event: %+v", event)
			w.maybeReload(name, false)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return // COVERAGE: can't cause this condition in unit tests
			}
			w.loggers.Errorf(logMsgWatcherError, err)

		case name := <-w.retryCh:
			// If needRetry is false, this is an obsolete signal; we've already successfully reloaded
			if f := w.files[name]; f != nil && f.needRetry {
				w.loggers.Debugf("Got retry signal for %q", name)
				w.maybeReload(name, true)
			}
		}
	}
}

func (w *Watcher) maybeReload(name string, isRetry bool) {
	path := filepath.Join(w.dir, name+artifactSuffix)
	info, err := os.Stat(path)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		w.removed(name)
		return
	}
	f := w.files[name]
	if f == nil {
		f = &watchedFile{}
		w.files[name] = f
	}
	if err != nil {
		w.reloadFailed(name, f, err)
		return
	}

	changed := f.lastInfo == nil || fileMayHaveChanged(f.lastInfo, info)
	if !changed && !isRetry {
		// A spurious notification, or a retry is already pending for this state of the file
		w.loggers.Debugf("Feature file %s has not changed", path)
		return
	}
	if changed {
		f.retries = 0
	}
	f.lastInfo = info
	f.needRetry = false

	feature, err := LoadFile(path)
	if err != nil {
		if errors.Is(err, ErrFeatureNotFound) {
			w.removed(name)
			return
		}
		w.reloadFailed(name, f, err)
		return
	}
	f.lastError = nil
	w.loggers.Infof(logMsgReloadedFeature, name, path)
	w.handler.FeatureUpdated(name, feature)
}

func (w *Watcher) reloadFailed(name string, f *watchedFile, err error) {
	f.lastError = err
	if f.retries >= maxReloadRetries {
		w.loggers.Errorf(logMsgReloadNoMoreRetries, name, err)
		return
	}
	f.retries++
	w.loggers.Warnf(logMsgReloadError, name, err)
	w.scheduleRetry(name, f)
}

func (w *Watcher) scheduleRetry(name string, f *watchedFile) {
	w.loggers.Debugf("Will schedule retry for %q", name)
	f.needRetry = true
	time.AfterFunc(w.retryInterval, func() {
		select {
		case w.retryCh <- name:
		case <-w.closeCh:
		}
	})
}

func (w *Watcher) removed(name string) {
	if _, known := w.files[name]; !known {
		return
	}
	delete(w.files, name)
	w.loggers.Infof(logMsgDeletedFeature, name)
	w.handler.FeatureDeleted(name)
}

func fileMayHaveChanged(oldInfo, newInfo os.FileInfo) bool {
	return oldInfo.ModTime() != newInfo.ModTime() || oldInfo.Size() != newInfo.Size()
}
