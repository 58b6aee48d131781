package observer

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/c360/rtsettings/document"
)

// Snapshot is an optional value document: Present distinguishes "this
// name currently has no effective value" from "the effective value is
// present and happens to be nil".
type Snapshot struct {
	Present bool
	Value   document.Value
}

// Callback observes a change to a watched name's effective value.
type Callback func(old, next Snapshot)

// ValueResolver computes the current effective value for name, under no
// scoped ambient state, at Refresh time.
type ValueResolver func(name string) Snapshot

// Handle is the opaque identifier returned by Register, usable to
// Unregister the associated callback later.
type Handle struct {
	name string
	id   uint64
}

type registration struct {
	id uint64
	fn Callback
}

// Watchers tracks callbacks per config name and the snapshot needed to
// detect a change on the next Refresh.
type Watchers struct {
	mu        sync.Mutex
	callbacks map[string][]registration
	snapshots map[string]Snapshot
	nextID    atomic.Uint64
	logger    *slog.Logger
}

// Option configures a Watchers at construction.
type Option func(*Watchers)

// WithLogger overrides the default logger used to report panicking
// callbacks.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watchers) { w.logger = logger }
}

// New builds an empty Watchers.
func New(opts ...Option) *Watchers {
	w := &Watchers{
		callbacks: make(map[string][]registration),
		snapshots: make(map[string]Snapshot),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Register subscribes fn to changes on name and returns a Handle for
// Unregister. It does not invoke fn; only a real change detected by a
// later Refresh does.
func (w *Watchers) Register(name string, fn Callback) Handle {
	w.mu.Lock()
	defer w.mu.Unlock()

	id := w.nextID.Add(1)
	w.callbacks[name] = append(w.callbacks[name], registration{id: id, fn: fn})
	return Handle{name: name, id: id}
}

// Unregister removes the callback identified by h. Unregistering an
// unknown or already-removed handle is a no-op.
func (w *Watchers) Unregister(h Handle) {
	w.mu.Lock()
	defer w.mu.Unlock()

	regs := w.callbacks[h.name]
	for i, r := range regs {
		if r.id == h.id {
			w.callbacks[h.name] = append(regs[:i], regs[i+1:]...)
			break
		}
	}
	if len(w.callbacks[h.name]) == 0 {
		delete(w.callbacks, h.name)
		delete(w.snapshots, h.name)
	}
}

// Refresh compares every watched name's current effective value,
// obtained from resolve, against its last snapshot. A name watched for
// the first time only establishes a baseline; it never fires. A
// changed name fires every registered callback, in registration order,
// with (old, new) snapshots.
func (w *Watchers) Refresh(resolve ValueResolver) {
	w.mu.Lock()
	names := make([]string, 0, len(w.callbacks))
	for name := range w.callbacks {
		names = append(names, name)
	}
	w.mu.Unlock()

	for _, name := range names {
		current := resolve(name)

		w.mu.Lock()
		prev, hadBaseline := w.snapshots[name]
		w.snapshots[name] = current
		regs := append([]registration(nil), w.callbacks[name]...)
		w.mu.Unlock()

		if !hadBaseline {
			continue
		}
		if snapshotsEqual(prev, current) {
			continue
		}

		for _, r := range regs {
			w.dispatch(name, r, prev, current)
		}
	}
}

func (w *Watchers) dispatch(name string, r registration, old, next Snapshot) {
	defer func() {
		if rec := recover(); rec != nil {
			w.logger.Error("observer: callback panicked", "name", name, "panic", rec)
		}
	}()
	r.fn(old, next)
}

func snapshotsEqual(a, b Snapshot) bool {
	if a.Present != b.Present {
		return false
	}
	if !a.Present {
		return true
	}
	return document.Equal(a.Value, b.Value)
}
