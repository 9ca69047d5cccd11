package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualScheduler collects scheduled callbacks and fires them on demand,
// standing in for the timer tick.
type manualScheduler struct {
	pending []*manualEntry
}

type manualEntry struct {
	fn        func()
	cancelled bool
}

func (s *manualScheduler) Schedule(fn func()) func() {
	e := &manualEntry{fn: fn}
	s.pending = append(s.pending, e)
	return func() { e.cancelled = true }
}

// Fire runs every pending non-cancelled callback, emulating the tick at the
// end of a burst.
func (s *manualScheduler) Fire() {
	pending := s.pending
	s.pending = nil
	for _, e := range pending {
		if !e.cancelled {
			e.fn()
		}
	}
}

func TestSetSelectedUpdatesSelectedImmediately(t *testing.T) {
	sched := &manualScheduler{}
	r := New(sched)

	r.SetSelected(DimStatus, "going")
	assert.Equal(t, "going", r.Selected(DimStatus))
	assert.Equal(t, "", r.Applied(DimStatus), "applied must lag until the tick")

	sched.Fire()
	assert.Equal(t, "going", r.Applied(DimStatus))
}

func TestBurstCoalescesToLastValue(t *testing.T) {
	sched := &manualScheduler{}
	var applied []string
	r := New(sched, WithApplyHook(func(_ Dimension, v string) {
		applied = append(applied, v)
	}))

	r.SetSelected(DimStatus, "a")
	r.SetSelected(DimStatus, "b")
	r.SetSelected(DimStatus, "c")
	sched.Fire()

	// Only the last value is ever promoted; a and b never reach applied.
	assert.Equal(t, []string{"c"}, applied)
	assert.Equal(t, "c", r.Applied(DimStatus))
}

func TestStalePromotionIsDiscarded(t *testing.T) {
	// A callback that fires despite its cancel racing a newer SetSelected
	// must not clobber the newer value.
	sched := &manualScheduler{}
	r := New(sched)

	r.SetSelected(DimDays, "2024-05-01")
	stale := sched.pending[0]
	r.SetSelected(DimDays, "2024-05-02")

	stale.fn() // fire the cancelled callback anyway
	assert.Equal(t, "", r.Applied(DimDays))

	sched.Fire()
	assert.Equal(t, "2024-05-02", r.Applied(DimDays))
}

func TestCrossTickPromotionOrder(t *testing.T) {
	sched := &manualScheduler{}
	var applied []string
	r := New(sched, WithApplyHook(func(_ Dimension, v string) {
		applied = append(applied, v)
	}))

	r.SetSelected(DimStatus, "interested")
	sched.Fire()
	r.SetSelected(DimStatus, "going")
	sched.Fire()

	assert.Equal(t, []string{"interested", "going"}, applied)
}

func TestDimensionsAreIndependent(t *testing.T) {
	sched := &manualScheduler{}
	r := New(sched)

	r.SetSelected(DimStatus, "going")
	r.SetSelected(DimDays, "2024-05-01")
	sched.Fire()

	assert.Equal(t, "going", r.Applied(DimStatus))
	assert.Equal(t, "2024-05-01", r.Applied(DimDays))
}

func TestAppliedMirrorsIntoStore(t *testing.T) {
	sched := &manualScheduler{}
	st := NewMemoryStore()
	r := New(sched, WithStore(st))

	r.SetSelected(DimTimeRanges, "18:00-22:00")
	sched.Fire()

	v, ok, err := st.Get(context.Background(), StoreKey(DimTimeRanges))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "18:00-22:00", v)
}

func TestCloseCancelsPendingPromotions(t *testing.T) {
	sched := &manualScheduler{}
	var applied []string
	r := New(sched, WithApplyHook(func(_ Dimension, v string) {
		applied = append(applied, v)
	}))

	r.SetSelected(DimStatus, "going")
	r.Close()
	sched.Fire()

	assert.Empty(t, applied)
	r.SetSelected(DimStatus, "interested")
	assert.Equal(t, "", r.Selected(DimStatus), "closed reconciler ignores updates")
}

func TestSeedSetsBothSidesWithoutHooks(t *testing.T) {
	sched := &manualScheduler{}
	var applied []string
	r := New(sched, WithApplyHook(func(_ Dimension, v string) {
		applied = append(applied, v)
	}))

	r.Seed(DimAudience, "only-you")
	assert.Equal(t, "only-you", r.Selected(DimAudience))
	assert.Equal(t, "only-you", r.Applied(DimAudience))
	assert.Empty(t, sched.pending)
	assert.Empty(t, applied)
}

func TestSeedSupersedesPendingPromotion(t *testing.T) {
	// A seed landing inside the coalescing window of an earlier SetSelected
	// must win: the pending promotion may still fire but cannot move
	// applied away from the seeded value.
	sched := &manualScheduler{}
	r := New(sched)

	r.SetSelected(DimStatus, "going")
	pending := sched.pending[0]
	r.Seed(DimStatus, "interested")

	assert.True(t, pending.cancelled, "seed must cancel the pending promotion")
	pending.fn() // fire it anyway, emulating a timer that raced the cancel

	assert.Equal(t, "interested", r.Selected(DimStatus))
	assert.Equal(t, "interested", r.Applied(DimStatus))
}
