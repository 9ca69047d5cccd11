package preset

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikino-app/mikino-server/internal/filter"
	"github.com/mikino-app/mikino-server/internal/model"
	"github.com/mikino-app/mikino-server/internal/session"
)

func favoritePreset() *model.FilterPreset {
	return &model.FilterPreset{
		ID:         7,
		Name:       "My cinemas",
		IsFavorite: true,
		Filters: filter.Selection{
			Status:    filter.StatusInterested,
			CinemaIDs: []uint64{3, 1},
			Days:      []string{"2024-05-01"},
		},
	}
}

func TestSeedFillsUntouchedDimensions(t *testing.T) {
	st := session.NewMemoryStore()
	ctx := context.Background()

	seeded := NewSeeder(st).SeedFromFavorite(ctx, favoritePreset())
	assert.Len(t, seeded, len(session.Dimensions()))

	sel, err := session.LoadSelection(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, filter.StatusInterested, sel.Status)
	assert.Equal(t, []uint64{1, 3}, sel.CinemaIDs)
	assert.Equal(t, []string{"2024-05-01"}, sel.Days)
}

func TestSeedKeepsTouchedDimension(t *testing.T) {
	// The user changed the status filter before the favorite loaded: that
	// dimension keeps the manual value, the others still get defaults.
	st := session.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, st.Set(ctx, session.StoreKey(session.DimStatus), "going"))

	seeded := NewSeeder(st).SeedFromFavorite(ctx, favoritePreset())
	assert.NotContains(t, seeded, session.DimStatus)
	assert.Contains(t, seeded, session.DimCinemas)

	sel, err := session.LoadSelection(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, filter.StatusGoing, sel.Status)
	assert.Equal(t, []uint64{1, 3}, sel.CinemaIDs)
}

func TestSeedIsOneShot(t *testing.T) {
	st := session.NewMemoryStore()
	ctx := context.Background()
	s := NewSeeder(st)

	first := s.SeedFromFavorite(ctx, favoritePreset())
	assert.NotEmpty(t, first)

	// The store was cleared since, but the session already consumed its
	// one seeding opportunity.
	for _, dim := range session.Dimensions() {
		require.NoError(t, st.Delete(ctx, session.StoreKey(dim)))
	}
	second := s.SeedFromFavorite(ctx, favoritePreset())
	assert.Empty(t, second)
}

func TestSeedNilFavoriteDoesNotConsumeShot(t *testing.T) {
	st := session.NewMemoryStore()
	ctx := context.Background()
	s := NewSeeder(st)

	assert.Empty(t, s.SeedFromFavorite(ctx, nil))
	// The favorite arriving later still seeds.
	assert.NotEmpty(t, s.SeedFromFavorite(ctx, favoritePreset()))
}
