package repository

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mikino-app/mikino-server/internal/filter"
)

func condsContain(conds []string, frag string) bool {
	for _, c := range conds {
		if strings.Contains(c, frag) {
			return true
		}
	}
	return false
}

func TestBuildShowtimeFilterEmptySelection(t *testing.T) {
	conds, args := buildShowtimeFilter(ShowtimeQuery{UserID: 1})
	assert.Equal(t, []string{"s.starts_at >= NOW()"}, conds)
	assert.Empty(t, args)
}

func TestBuildShowtimeFilterDaysAndCinemas(t *testing.T) {
	conds, args := buildShowtimeFilter(ShowtimeQuery{
		UserID: 1,
		Selection: filter.Selection{
			CinemaIDs: []uint64{4, 2, 4},
			Days:      []string{"2024-05-02", "2024-05-01"},
		},
	})
	assert.True(t, condsContain(conds, "s.cinema_id IN (?,?)"))
	assert.True(t, condsContain(conds, "DATE(s.starts_at) IN (?,?)"))
	// Normalization orders args deterministically: cinemas sorted
	// ascending, then days sorted ascending.
	assert.Equal(t, []any{uint64(2), uint64(4), "2024-05-01", "2024-05-02"}, args)
}

func TestBuildShowtimeFilterTimeRangeOpenBounds(t *testing.T) {
	conds, args := buildShowtimeFilter(ShowtimeQuery{
		Selection: filter.Selection{TimeRanges: []string{"18:00-"}},
	})
	assert.True(t, condsContain(conds, "TIME(s.starts_at) >= ?"))
	assert.False(t, condsContain(conds, "TIME(s.starts_at) <= ?"))
	assert.Equal(t, []any{"18:00"}, args)
}

func TestBuildShowtimeFilterMalformedRangeIgnored(t *testing.T) {
	conds, _ := buildShowtimeFilter(ShowtimeQuery{
		Selection: filter.Selection{TimeRanges: []string{"-"}, RuntimeRanges: []string{"short-long"}},
	})
	assert.Equal(t, []string{"s.starts_at >= NOW()"}, conds)
}

func TestBuildShowtimeFilterStatusAudience(t *testing.T) {
	onlyYou, args := buildShowtimeFilter(ShowtimeQuery{
		UserID:    9,
		Selection: filter.Selection{Status: filter.StatusGoing, Audience: filter.AudienceOnlyYou},
	})
	assert.True(t, condsContain(onlyYou, "a.user_id = ? AND a.status = ?"))
	assert.Equal(t, []any{uint64(9), "GOING"}, args)

	friends, args := buildShowtimeFilter(ShowtimeQuery{
		UserID:    9,
		Selection: filter.Selection{Status: filter.StatusInterested},
	})
	assert.True(t, condsContain(friends, "SELECT f.friend_id FROM friends f"))
	assert.Equal(t, []any{"INTERESTED", uint64(9), uint64(9)}, args)
}

func TestBuildShowtimeFilterWatchlistAndRuntime(t *testing.T) {
	conds, args := buildShowtimeFilter(ShowtimeQuery{
		UserID: 3,
		Selection: filter.Selection{
			WatchlistOnly: true,
			RuntimeRanges: []string{"90-150"},
		},
	})
	assert.True(t, condsContain(conds, "m.runtime_min >= ?"))
	assert.True(t, condsContain(conds, "m.runtime_min <= ?"))
	assert.True(t, condsContain(conds, "FROM watchlist w"))
	assert.Equal(t, []any{90, 150, uint64(3)}, args)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "?", placeholders(1))
	assert.Equal(t, "?,?,?", placeholders(3))
}
