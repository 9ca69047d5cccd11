package preset

import (
	"context"
	"log"
	"sync"

	"github.com/mikino-app/mikino-server/internal/filter"
	"github.com/mikino-app/mikino-server/internal/model"
	"github.com/mikino-app/mikino-server/internal/session"
)

// Seeder applies the favorite preset's filters as session defaults at most
// once per session.  Dimensions are seeded independently: a dimension whose
// session-store key is already populated was touched by the user before the
// favorite loaded, and keeps that manual value; only untouched dimensions
// receive the favorite's value.  Populated-key detection is the whole
// "have defaults been applied" mechanism; there is no separate flag to
// fall out of sync.
type Seeder struct {
	mu    sync.Mutex
	store session.Store
	done  bool
}

func NewSeeder(store session.Store) *Seeder {
	return &Seeder{store: store}
}

// SeedFromFavorite seeds untouched dimensions from favorite and returns the
// dimensions it wrote.  Safe to call on every favorite-preset fetch; only
// the first call with a non-nil favorite does any work.
func (s *Seeder) SeedFromFavorite(ctx context.Context, favorite *model.FilterPreset) []session.Dimension {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done || favorite == nil {
		return nil
	}
	s.done = true

	n := filter.Normalize(favorite.Filters)
	var seeded []session.Dimension
	for _, dim := range session.Dimensions() {
		key := session.StoreKey(dim)
		_, populated, err := s.store.Get(ctx, key)
		if err != nil {
			log.Printf("preset: seed read %s failed: %v", key, err)
			continue
		}
		if populated {
			continue
		}
		if err := s.store.Set(ctx, key, session.EncodeDimension(n, dim)); err != nil {
			log.Printf("preset: seed write %s failed: %v", key, err)
			continue
		}
		seeded = append(seeded, dim)
	}
	return seeded
}
