package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForUserReturnsSameSession(t *testing.T) {
	m := NewManager(nil, time.Hour, time.Millisecond)
	defer m.Shutdown()

	a := m.ForUser(1)
	b := m.ForUser(1)
	assert.Same(t, a, b)
	assert.NotSame(t, a, m.ForUser(2))
}

func TestForUserConcurrentFirstTouchYieldsOneSession(t *testing.T) {
	// Seeding happens outside the manager lock, so two requests can race
	// building the same user's session; all callers must still end up with
	// the one session that won.
	m := NewManager(nil, time.Hour, time.Millisecond)
	defer m.Shutdown()

	const goroutines = 16
	sessions := make([]*UserSession, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sessions[i] = m.ForUser(7)
		}(i)
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		assert.Same(t, sessions[0], sessions[i])
	}
}

func TestOnApplyHookFiresWithUserID(t *testing.T) {
	m := NewManager(nil, time.Hour, time.Millisecond)
	defer m.Shutdown()

	type applyEvent struct {
		userID uint64
		dim    Dimension
		value  string
	}
	var mu sync.Mutex
	var events []applyEvent
	m.OnApply(func(userID uint64, dim Dimension, value string) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, applyEvent{userID, dim, value})
	})

	us := m.ForUser(42)
	us.Reconciler.SetSelected(DimStatus, "going")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(events) == 1
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, applyEvent{42, DimStatus, "going"}, events[0])
}

func TestPromotionMirrorsIntoUserStore(t *testing.T) {
	m := NewManager(nil, time.Hour, time.Millisecond)
	defer m.Shutdown()

	us := m.ForUser(9)
	us.Reconciler.SetSelected(DimDays, "2024-05-01")

	require.Eventually(t, func() bool {
		return us.Reconciler.Applied(DimDays) == "2024-05-01"
	}, time.Second, 5*time.Millisecond)

	v, ok, err := us.Store.Get(context.Background(), StoreKey(DimDays))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "2024-05-01", v)
}
