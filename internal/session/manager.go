package session

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// UserSession bundles one user's reconciler with the store it mirrors into.
type UserSession struct {
	Reconciler *Reconciler
	Store      Store
}

// Manager hands out one UserSession per authenticated user, created lazily
// on first touch.  When Redis is unavailable the manager degrades to
// in-memory stores, mirroring how the rest of the service disables Redis
// features instead of failing startup.
type Manager struct {
	mu       sync.Mutex
	rdb      *redis.Client
	ttl      time.Duration
	coalesce time.Duration
	onApply  func(userID uint64, dim Dimension, value string)
	users    map[uint64]*UserSession
}

// NewManager builds a manager.  ttl bounds how long mirrored filter values
// live in Redis; coalesce is the promotion delay handed to each
// reconciler's TimerScheduler.
func NewManager(rdb *redis.Client, ttl, coalesce time.Duration) *Manager {
	return &Manager{
		rdb:      rdb,
		ttl:      ttl,
		coalesce: coalesce,
		users:    make(map[uint64]*UserSession),
	}
}

// OnApply registers a hook invoked after every promotion of any user's
// reconciler, outside the reconciler lock.  Set it before the first ForUser
// call; the server uses it to purge the user's cached browse responses so a
// filter change is visible on the next fetch.
func (m *Manager) OnApply(fn func(userID uint64, dim Dimension, value string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onApply = fn
}

// ForUser returns the session for a user, creating it on first use.  A new
// reconciler is seeded from whatever dimension values the store already
// holds, so selected/applied reflect earlier activity in the same session.
// Seeding reads the store without holding the manager lock; a slow session
// store round-trip must not stall other users' lookups.
func (m *Manager) ForUser(userID uint64) *UserSession {
	m.mu.Lock()
	if us, ok := m.users[userID]; ok {
		m.mu.Unlock()
		return us
	}
	onApply := m.onApply
	m.mu.Unlock()

	var st Store
	if m.rdb != nil {
		st = NewRedisStore(m.rdb, userID, m.ttl)
	} else {
		st = NewMemoryStore()
	}
	opts := []Option{WithStore(st)}
	if onApply != nil {
		opts = append(opts, WithApplyHook(func(dim Dimension, value string) {
			onApply(userID, dim, value)
		}))
	}
	rec := New(TimerScheduler{Delay: m.coalesce}, opts...)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for _, dim := range Dimensions() {
		if v, ok, err := st.Get(ctx, StoreKey(dim)); err == nil && ok {
			rec.Seed(dim, v)
		}
	}

	us := &UserSession{Reconciler: rec, Store: st}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.users[userID]; ok {
		// Another request built the session first; discard ours.
		rec.Close()
		return existing
	}
	m.users[userID] = us
	return us
}

// Shutdown closes every reconciler so no pending promotion fires after the
// server stops serving.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, us := range m.users {
		us.Reconciler.Close()
	}
	m.users = make(map[uint64]*UserSession)
}
