// Package watch reports changes to asset files on disk so the viewer can
// reload them.
package watch

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long a file must be quiet before a change is
// reported. Exporters usually write a file in several chunks.
const DefaultDebounce = 200 * time.Millisecond

// ErrAlreadyStarted is returned by a second call to Start.
var ErrAlreadyStarted = errors.New("watcher already started")

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(w *Watcher) { w.log = log }
}

// Watcher watches a set of files. Directories are watched rather than the
// files themselves so that editors replacing a file atomically are noticed.
type Watcher struct {
	debounce time.Duration
	log      *zap.Logger

	mu      sync.Mutex
	files   map[string]string // absolute file -> key reported on change
	pending map[string]*time.Timer
	fsw     *fsnotify.Watcher
	cancel  context.CancelFunc
	changes chan string
}

// New returns a stopped watcher.
func New(opts ...Option) *Watcher {
	w := &Watcher{
		debounce: DefaultDebounce,
		log:      zap.NewNop(),
		files:    make(map[string]string),
		pending:  make(map[string]*time.Timer),
		changes:  make(chan string, 16),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Add registers file; key is what Changes reports for it. Files can be
// added before or after Start.
func (w *Watcher) Add(key, file string) error {
	abs, err := filepath.Abs(file)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[abs] = key
	if w.fsw != nil {
		return w.fsw.Add(filepath.Dir(abs))
	}
	return nil
}

// Changes delivers the key of each changed file once its writes settle.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// Start begins watching.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fsw != nil {
		return ErrAlreadyStarted
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	dirs := make(map[string]bool)
	for file := range w.files {
		dir := filepath.Dir(file)
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return err
		}
	}
	w.fsw = fsw

	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	go w.run(ctx, fsw)
	w.log.Debug("watching asset directories", zap.Int("dirs", len(dirs)))
	return nil
}

// Stop ends watching and drops pending notifications. The Changes channel
// is left open.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fsw == nil {
		return
	}
	w.cancel()
	w.fsw.Close()
	w.fsw = nil
	for file, t := range w.pending {
		t.Stop()
		delete(w.pending, file)
	}
}

func (w *Watcher) run(ctx context.Context, fsw *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			w.touch(ctx, ev.Name)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("file watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) touch(ctx context.Context, name string) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	key, ok := w.files[abs]
	if !ok {
		return
	}
	if t, ok := w.pending[abs]; ok {
		t.Reset(w.debounce)
		return
	}
	w.pending[abs] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, abs)
		w.mu.Unlock()
		if ctx.Err() != nil {
			return
		}
		select {
		case w.changes <- key:
			w.log.Debug("asset file changed", zap.String("asset", key))
		default:
			w.log.Warn("change dropped, receiver is behind", zap.String("asset", key))
		}
	})
}
