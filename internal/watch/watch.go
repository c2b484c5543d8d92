// Package watch reports writes to a single file.
//
// The file's directory is watched rather than the file itself, so a
// writer that replaces the file through a rename is still seen. Rapid
// writes are coalesced into one notification.
package watch

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/dshills/textview/internal/logging"
)

// DefaultDelay is the quiet period before a change is reported.
const DefaultDelay = 100 * time.Millisecond

// FileWatcher sends the file path on Changes after the file is written,
// created or renamed into place.
type FileWatcher struct {
	path  string
	delay time.Duration
	fsw   *fsnotify.Watcher
	log   *zap.Logger

	changes chan string
	errs    chan error

	mu       sync.Mutex
	timer    *time.Timer
	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// New starts watching path. delay <= 0 means DefaultDelay.
func New(path string, delay time.Duration) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, err
	}
	if delay <= 0 {
		delay = DefaultDelay
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &FileWatcher{
		path:    abs,
		delay:   delay,
		fsw:     fsw,
		log:     logging.Named("watch"),
		changes: make(chan string, 1),
		errs:    make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	w.closedWg.Add(1)
	go w.processLoop()
	return w, nil
}

// Path returns the absolute path being watched.
func (w *FileWatcher) Path() string { return w.path }

// Changes delivers the path once per burst of writes.
func (w *FileWatcher) Changes() <-chan string { return w.changes }

// Errors delivers watcher errors. Errors are dropped while one is unread.
func (w *FileWatcher) Errors() <-chan error { return w.errs }

// Close stops watching. It is safe to call more than once.
func (w *FileWatcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	err := w.fsw.Close()
	w.closedWg.Wait()
	return err
}

func (w *FileWatcher) processLoop() {
	defer w.closedWg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.log.Debug("file event", zap.String("op", ev.Op.String()))
			w.schedule()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", zap.Error(err))
			select {
			case w.errs <- err:
			default:
			}
		}
	}
}

// schedule restarts the quiet period.
func (w *FileWatcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.fire)
}

func (w *FileWatcher) fire() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	// A pending notification already covers this change.
	select {
	case w.changes <- w.path:
	default:
	}
}
