package session

import (
	"context"
	"log"
	"sync"
	"time"
)

// Scheduler schedules one cancellable callback after a short coalescing
// window.  The returned cancel func must be safe to call more than once and
// after the callback has fired.  The reconciler takes this as an interface
// (rather than reaching for a frame callback directly) so its promotion
// logic works outside a render loop and under test without real timers.
type Scheduler interface {
	Schedule(fn func()) (cancel func())
}

// TimerScheduler fires callbacks on a time.Timer after Delay.  The delay
// plays the role of one rendering frame: long enough to swallow a burst of
// toggles, short enough to be imperceptible.
type TimerScheduler struct {
	Delay time.Duration
}

func (s TimerScheduler) Schedule(fn func()) func() {
	t := time.AfterFunc(s.Delay, fn)
	return func() { t.Stop() }
}

// Dimension names one independently reconciled filter field.  Each
// dimension carries its own selected/applied pair and its own pending
// promotion.
type Dimension string

const (
	DimStatus        Dimension = "status"
	DimAudience      Dimension = "audience"
	DimWatchlistOnly Dimension = "watchlist_only"
	DimCinemas       Dimension = "cinemas"
	DimDays          Dimension = "days"
	DimTimeRanges    Dimension = "time_ranges"
	DimRuntimeRanges Dimension = "runtime_ranges"
)

// Dimensions lists every reconciled dimension in a stable order.
func Dimensions() []Dimension {
	return []Dimension{
		DimStatus, DimAudience, DimWatchlistOnly,
		DimCinemas, DimDays, DimTimeRanges, DimRuntimeRanges,
	}
}

// StoreKey returns the session-store key a dimension mirrors into.
func StoreKey(dim Dimension) string {
	return "filters:" + string(dim)
}

type dimState struct {
	selected string
	applied  string
	gen      uint64
	cancel   func()
}

// Reconciler keeps a selected and an applied value per filter dimension.
// Selected updates immediately and feeds UI highlighting; applied follows
// after one scheduler tick and is what drives the actual data fetch.  A
// burst of SetSelected calls for the same dimension within one tick
// promotes only the last value: earlier pending promotions are cancelled,
// never applied, so a rapid multi-toggle triggers a single refetch.
// Across ticks, promotions happen in call order.
type Reconciler struct {
	mu      sync.Mutex
	sched   Scheduler
	store   Store
	onApply func(dim Dimension, value string)
	dims    map[Dimension]*dimState
	closed  bool
}

type Option func(*Reconciler)

// WithStore mirrors every applied value into st under StoreKey(dim).
func WithStore(st Store) Option {
	return func(r *Reconciler) { r.store = st }
}

// WithApplyHook invokes fn after each promotion, outside the reconciler
// lock.  The hook is where callers trigger their refetch.
func WithApplyHook(fn func(Dimension, string)) Option {
	return func(r *Reconciler) { r.onApply = fn }
}

func New(sched Scheduler, opts ...Option) *Reconciler {
	r := &Reconciler{
		sched: sched,
		dims:  make(map[Dimension]*dimState),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Seed sets both selected and applied without scheduling a promotion or
// firing hooks.  Used when restoring state from the session store.  Any
// promotion still pending for the dimension is cancelled and superseded;
// otherwise a timer armed before the seed could fire afterwards and move
// applied away from selected.
func (r *Reconciler) Seed(dim Dimension, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	ds := r.dim(dim)
	ds.selected = value
	ds.applied = value
	if ds.cancel != nil {
		ds.cancel()
		ds.cancel = nil
	}
	ds.gen++
}

// Selected returns the immediately visible value for a dimension.
func (r *Reconciler) Selected(dim Dimension) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ds, ok := r.dims[dim]; ok {
		return ds.selected
	}
	return ""
}

// Applied returns the fetch-driving value for a dimension.
func (r *Reconciler) Applied(dim Dimension) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ds, ok := r.dims[dim]; ok {
		return ds.applied
	}
	return ""
}

// Snapshot returns the selected and applied values of every populated
// dimension.
func (r *Reconciler) Snapshot() (selected, applied map[Dimension]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	selected = make(map[Dimension]string, len(r.dims))
	applied = make(map[Dimension]string, len(r.dims))
	for dim, ds := range r.dims {
		selected[dim] = ds.selected
		applied[dim] = ds.applied
	}
	return selected, applied
}

// SetSelected records the new selected value and schedules its promotion to
// applied.  Any promotion still pending for the same dimension is cancelled
// and its value discarded from the applied path entirely.
func (r *Reconciler) SetSelected(dim Dimension, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	ds := r.dim(dim)
	ds.selected = value
	if ds.cancel != nil {
		ds.cancel()
		ds.cancel = nil
	}
	ds.gen++
	gen := ds.gen
	ds.cancel = r.sched.Schedule(func() { r.promote(dim, value, gen) })
}

// Close cancels all outstanding promotions and makes further SetSelected
// calls no-ops, so nothing mutates state after teardown.
func (r *Reconciler) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	for _, ds := range r.dims {
		if ds.cancel != nil {
			ds.cancel()
			ds.cancel = nil
		}
	}
}

// dim returns the state for a dimension, creating it on first use.  Caller
// must hold r.mu.
func (r *Reconciler) dim(d Dimension) *dimState {
	ds, ok := r.dims[d]
	if !ok {
		ds = &dimState{}
		r.dims[d] = ds
	}
	return ds
}

func (r *Reconciler) promote(dim Dimension, value string, gen uint64) {
	r.mu.Lock()
	ds := r.dims[dim]
	// The generation check guards against a timer that fired in the window
	// between a newer SetSelected cancelling it and the cancel taking
	// effect: a superseded promotion must never reach applied.
	if r.closed || ds == nil || ds.gen != gen {
		r.mu.Unlock()
		return
	}
	ds.applied = value
	ds.cancel = nil
	store, onApply := r.store, r.onApply
	r.mu.Unlock()

	if store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := store.Set(ctx, StoreKey(dim), value); err != nil {
			log.Printf("session: mirror %s failed: %v", dim, err)
		}
		cancel()
	}
	if onApply != nil {
		onApply(dim, value)
	}
}
