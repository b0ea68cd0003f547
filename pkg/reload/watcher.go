// Package reload delivers debounced file-change notifications.
//
// A Watcher owns one fsnotify handle and any number of subscriptions.
// It watches the parent directory of each subscribed file so the common
// write-then-rename replace performed by generators and editors is seen
// as a change to the file itself. Bursts of writes within the debounce
// window coalesce into a single notification per subscriber.
package reload

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/dotlink/pkg/errors"
	"github.com/arthur-debert/dotlink/pkg/logging"
)

// DefaultDebounce is the coalescing window when Options leaves it unset
const DefaultDebounce = 100 * time.Millisecond

// Event describes one delivered change notification.
type Event struct {
	// Path is the watched file that changed
	Path string
}

// Handler receives change notifications. Handlers run off the caller's
// goroutine and must not cancel subscriptions of the same Watcher;
// Cancel waits for running handlers to return.
type Handler func(Event)

// Options configures a Watcher.
type Options struct {
	// Debounce is the window within which successive writes coalesce.
	// Zero or negative means DefaultDebounce.
	Debounce time.Duration
}

// Watcher multiplexes one fsnotify handle across subscriptions.
type Watcher struct {
	fw       *fsnotify.Watcher
	logger   zerolog.Logger
	debounce time.Duration

	// mu guards the registration state below
	mu      sync.Mutex
	subs    map[string]map[string]*Subscription
	dirRefs map[string]int
	timers  map[string]*time.Timer
	closed  bool

	// runMu is read-held while handlers run; Cancel takes the write
	// side to flush in-flight deliveries before returning
	runMu sync.RWMutex

	done chan struct{}
}

// Subscription is one registered (path, handler) pair.
type Subscription struct {
	id      string
	path    string
	dir     string
	fn      Handler
	watcher *Watcher
	once    sync.Once
}

// Path returns the watched file path.
func (s *Subscription) Path() string {
	return s.path
}

// Cancel stops delivery. After Cancel returns the handler is never
// invoked again, including for events already queued or debouncing.
// Must not be called from inside the subscription's own handler.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.watcher.unsubscribe(s)
	})
}

// NewWatcher creates a Watcher and starts its event loop.
func NewWatcher(opts Options) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrWatchSetup,
			"failed to create filesystem watcher")
	}

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w := &Watcher{
		fw:       fw,
		logger:   logging.GetLogger("reload"),
		debounce: debounce,
		subs:     make(map[string]map[string]*Subscription),
		dirRefs:  make(map[string]int),
		timers:   make(map[string]*time.Timer),
		done:     make(chan struct{}),
	}

	go w.run()
	return w, nil
}

// Subscribe registers fn for changes to path. The parent directory is
// added to the fsnotify watch set on first use and dropped when the
// last subscription under it is cancelled.
func (w *Watcher) Subscribe(path string, fn Handler) (*Subscription, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrWatchSetup,
			"cannot resolve %s", path)
	}
	dir := filepath.Dir(abs)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, errors.New(errors.ErrWatchClosed, "watcher is closed")
	}

	if w.dirRefs[dir] == 0 {
		if err := w.fw.Add(dir); err != nil {
			return nil, errors.Wrapf(err, errors.ErrWatchSetup,
				"cannot watch %s", dir)
		}
	}
	w.dirRefs[dir]++

	sub := &Subscription{
		id:      uuid.NewString(),
		path:    abs,
		dir:     dir,
		fn:      fn,
		watcher: w,
	}
	if w.subs[abs] == nil {
		w.subs[abs] = make(map[string]*Subscription)
	}
	w.subs[abs][sub.id] = sub

	w.logger.Debug().
		Str("path", abs).
		Str("subscription", sub.id).
		Msg("Subscribed")

	return sub, nil
}

// Close cancels every subscription and releases the fsnotify handle.
// Safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for _, t := range w.timers {
		t.Stop()
	}
	w.timers = make(map[string]*time.Timer)
	w.subs = make(map[string]map[string]*Subscription)
	w.dirRefs = make(map[string]int)
	w.mu.Unlock()

	err := w.fw.Close()
	<-w.done

	// Flush deliveries that were already running
	w.runMu.Lock()
	w.runMu.Unlock()

	w.logger.Debug().Msg("Watcher closed")
	return err
}

// run is the event loop. It filters raw fsnotify events down to watched
// paths and arms the per-path debounce timer.
func (w *Watcher) run() {
	defer close(w.done)

	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			// Write covers in-place updates, Create the rename-replace
			// performed by most generators
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.schedule(event.Name)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("Watcher error")
		}
	}
}

// schedule arms or extends the debounce timer for one path
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, watched := w.subs[path]; !watched {
		return
	}

	if t, ok := w.timers[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()
		w.deliver(path)
	})
}

// deliver invokes the live handlers for path on the timer's goroutine.
// Each handler's registration is rechecked immediately before the call
// so a cancellation racing the timer still wins.
func (w *Watcher) deliver(path string) {
	w.runMu.RLock()
	defer w.runMu.RUnlock()

	w.mu.Lock()
	targets := make([]*Subscription, 0, len(w.subs[path]))
	for _, sub := range w.subs[path] {
		targets = append(targets, sub)
	}
	w.mu.Unlock()

	for _, sub := range targets {
		w.mu.Lock()
		_, alive := w.subs[path][sub.id]
		w.mu.Unlock()
		if !alive {
			continue
		}

		w.logger.Trace().
			Str("path", path).
			Str("subscription", sub.id).
			Msg("Delivering change")
		sub.fn(Event{Path: path})
	}
}

// unsubscribe removes the registration and waits out in-flight deliveries
func (w *Watcher) unsubscribe(s *Subscription) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}

	if m, ok := w.subs[s.path]; ok {
		delete(m, s.id)
		if len(m) == 0 {
			delete(w.subs, s.path)
			if t, ok := w.timers[s.path]; ok {
				t.Stop()
				delete(w.timers, s.path)
			}
		}
	}

	w.dirRefs[s.dir]--
	if w.dirRefs[s.dir] <= 0 {
		delete(w.dirRefs, s.dir)
		if err := w.fw.Remove(s.dir); err != nil {
			w.logger.Debug().Err(err).Str("dir", s.dir).Msg("Failed to drop directory watch")
		}
	}
	w.mu.Unlock()

	// A delivery that passed its liveness check may still be running;
	// taking the write side waits it out
	w.runMu.Lock()
	w.runMu.Unlock()

	w.logger.Debug().
		Str("path", s.path).
		Str("subscription", s.id).
		Msg("Unsubscribed")
}
