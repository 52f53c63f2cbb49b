// Package watcher tells the navigator when a local tree file changes so the
// category tree can be fetched again.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vanderheijden86/sitenav/pkg/debug"
)

// DefaultPollInterval is how often polling mode stats the file.
const DefaultPollInterval = 2 * time.Second

var (
	ErrFileRemoved    = errors.New("tree file was removed")
	ErrAlreadyStarted = errors.New("watcher already started")
)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounceDuration sets how long a burst of writes must be quiet before
// a change is reported.
func WithDebounceDuration(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithPollInterval sets the stat interval used in polling mode.
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) { w.pollEvery = d }
}

// WithOnChange registers a callback run before each change notification.
func WithOnChange(fn func()) Option {
	return func(w *Watcher) { w.onChange = fn }
}

// WithOnError registers a callback for notifier errors and file removal.
func WithOnError(fn func(error)) Option {
	return func(w *Watcher) { w.onError = fn }
}

// WithForcePoll skips fsnotify. SN_FORCE_POLL=1 does the same.
func WithForcePoll(force bool) Option {
	return func(w *Watcher) { w.forcePoll = force }
}

// stamp identifies one version of the file on disk.
type stamp struct {
	mtime time.Time
	size  int64
}

func statStamp(path string) (stamp, error) {
	info, err := os.Stat(path)
	if err != nil {
		return stamp{}, err
	}
	return stamp{mtime: info.ModTime(), size: info.Size()}, nil
}

func (s stamp) differs(o stamp) bool {
	return s.size != o.size || !s.mtime.Equal(o.mtime)
}

// Watcher reports changes to a single tree file on its Changed channel.
type Watcher struct {
	path      string
	debounce  time.Duration
	pollEvery time.Duration
	onChange  func()
	onError   func(error)
	forcePoll bool

	debouncer *Debouncer
	changed   chan struct{}

	mu      sync.Mutex
	running bool
	polling bool
	last    stamp
	missing bool
	stop    context.CancelFunc
	done    chan struct{}
}

// New creates a watcher for path. Nothing is watched until Start.
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		path:      abs,
		debounce:  DefaultDebounceDuration,
		pollEvery: DefaultPollInterval,
		onChange:  func() {},
		onError:   func(error) {},
		changed:   make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
	close(w.done)
	for _, opt := range opts {
		opt(w)
	}
	if w.pollEvery <= 0 {
		w.pollEvery = DefaultPollInterval
	}
	w.debouncer = NewDebouncer(w.debounce)
	return w, nil
}

// Start begins watching in the background.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return ErrAlreadyStarted
	}

	st, err := statStamp(w.path)
	w.last = st
	w.missing = err != nil
	ctx, cancel := context.WithCancel(context.Background())
	w.stop = cancel
	w.done = make(chan struct{})

	w.polling = w.forcePoll || envBool("SN_FORCE_POLL")
	if !w.polling {
		fsw, err := openNotifier(filepath.Dir(w.path))
		if err != nil {
			debug.Log("watcher: polling %s: %v", w.path, err)
			w.polling = true
		} else {
			go w.runNotify(ctx, fsw)
		}
	}
	if w.polling {
		go w.runPoll(ctx)
	}

	w.running = true
	return nil
}

// openNotifier watches the directory rather than the file so editors that
// save by renaming a temp file over the original are still seen.
func openNotifier(dir string) (*fsnotify.Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}
	return fsw, nil
}

// Stop ends watching and closes Done. Changed is left open so a receiver
// never mistakes the stop for a change.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	w.stop()
	w.debouncer.Cancel()
	w.running = false
	close(w.done)
}

// Done is closed while the watcher is not running. Receivers waiting on
// Changed should select on it too.
func (w *Watcher) Done() <-chan struct{} {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.done
}

// IsPolling reports whether the watcher fell back to stat polling.
func (w *Watcher) IsPolling() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.polling
}

// Changed receives once per debounced change. Pending notifications
// coalesce.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changed
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

func envBool(name string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func (w *Watcher) runNotify(ctx context.Context, fsw *fsnotify.Watcher) {
	defer fsw.Close()
	name := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != name {
				continue
			}
			if ev.Has(fsnotify.Remove) {
				w.onError(ErrFileRemoved)
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				w.debouncer.Trigger(w.fire)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}

func (w *Watcher) runPoll(ctx context.Context) {
	ticker := time.NewTicker(w.pollEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.poll()
		}
	}
}

// poll compares the file's stamp with the last one seen. A removal is
// reported once until the file comes back.
func (w *Watcher) poll() {
	st, err := statStamp(w.path)

	w.mu.Lock()
	if err != nil {
		report := !os.IsNotExist(err) || !w.missing
		w.missing = os.IsNotExist(err)
		w.mu.Unlock()
		if report && os.IsNotExist(err) {
			w.onError(ErrFileRemoved)
		} else if report {
			w.onError(err)
		}
		return
	}
	changed := w.missing || st.differs(w.last)
	w.missing = false
	w.last = st
	w.mu.Unlock()

	if changed {
		w.debouncer.Trigger(w.fire)
	}
}

func (w *Watcher) fire() {
	w.mu.Lock()
	running := w.running
	w.mu.Unlock()
	if !running {
		return
	}

	w.onChange()
	select {
	case w.changed <- struct{}{}:
	default:
	}
}
