package preset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikino-app/mikino-server/internal/filter"
	"github.com/mikino-app/mikino-server/internal/model"
)

func TestFindActiveReflexive(t *testing.T) {
	// A preset built from the current selection is always found active.
	current := filter.Selection{
		Status:     filter.StatusGoing,
		Days:       []string{"2024-05-01", "2024-05-02"},
		TimeRanges: []string{"18:00-22:00"},
	}
	presets := []model.FilterPreset{
		{ID: 1, Name: "Evenings", Filters: filter.Normalize(current)},
	}

	got := FindActive(current, presets)
	require.NotNil(t, got)
	assert.Equal(t, uint64(1), got.ID)
}

func TestFindActiveIgnoresRepresentation(t *testing.T) {
	// Day order, duplicates and a stray invalid range must not break the
	// match: equality is over normalized signatures.
	presets := []model.FilterPreset{
		{ID: 1, Name: "Weekend", Filters: filter.Selection{
			Days: []string{"2024-05-04", "2024-05-05"},
		}},
	}
	current := filter.Selection{
		Days:       []string{"2024-05-05", "2024-05-04", "2024-05-04"},
		TimeRanges: []string{"-"},
	}

	got := FindActive(current, presets)
	require.NotNil(t, got)
	assert.Equal(t, uint64(1), got.ID)
}

func TestFindActiveNoMatch(t *testing.T) {
	presets := []model.FilterPreset{
		{ID: 1, Filters: filter.Selection{Status: filter.StatusGoing}},
	}
	current := filter.Selection{Status: filter.StatusInterested}
	assert.Nil(t, FindActive(current, presets))
}

func TestFindActiveMutatedFieldBreaksMatch(t *testing.T) {
	base := filter.Selection{Status: filter.StatusGoing, Days: []string{"2024-05-01"}}
	presets := []model.FilterPreset{{ID: 1, Filters: base}}

	require.NotNil(t, FindActive(base, presets))

	mutated := base
	mutated.WatchlistOnly = true
	assert.Nil(t, FindActive(mutated, presets))
}

func TestFindActiveFirstMatchWins(t *testing.T) {
	// Two presets with identical content: list order decides.
	sel := filter.Selection{Status: filter.StatusGoing}
	presets := []model.FilterPreset{
		{ID: 1, Name: "First", Filters: sel},
		{ID: 2, Name: "Second", Filters: sel},
	}
	got := FindActive(sel, presets)
	require.NotNil(t, got)
	assert.Equal(t, uint64(1), got.ID)
}

func TestIsFavoriteApplied(t *testing.T) {
	fav := &model.FilterPreset{IsFavorite: true, Filters: filter.Selection{Status: filter.StatusGoing}}
	assert.True(t, IsFavoriteApplied(filter.Selection{Status: filter.StatusGoing}, fav))
	assert.False(t, IsFavoriteApplied(filter.Selection{Status: filter.StatusAll}, fav))
	assert.False(t, IsFavoriteApplied(filter.Selection{}, nil))
}
