package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikino-app/mikino-server/internal/filter"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	sel := filter.Normalize(filter.Selection{
		Status:        filter.StatusGoing,
		Audience:      filter.AudienceOnlyYou,
		WatchlistOnly: true,
		CinemaIDs:     []uint64{5, 2},
		Days:          []string{"2024-05-02", "2024-05-01"},
		TimeRanges:    []string{"18:00-23:00"},
	})

	st := NewMemoryStore()
	ctx := context.Background()
	for _, dim := range Dimensions() {
		require.NoError(t, st.Set(ctx, StoreKey(dim), EncodeDimension(sel, dim)))
	}

	got, err := LoadSelection(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, sel.Signature(), got.Signature())
}

func TestLoadSelectionMissingKeysStayPermissive(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, st.Set(ctx, StoreKey(DimStatus), "interested"))

	got, err := LoadSelection(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, filter.StatusInterested, got.Status)
	assert.Equal(t, filter.AudienceIncludingFriends, got.Audience)
	assert.False(t, got.WatchlistOnly)
	assert.Empty(t, got.Days)
}

func TestDecodeDimensionMalformedValues(t *testing.T) {
	var sel filter.Selection
	DecodeDimension(&sel, DimWatchlistOnly, "maybe")
	assert.False(t, sel.WatchlistOnly)

	DecodeDimension(&sel, DimCinemas, "7,not-a-number,9")
	assert.Equal(t, []uint64{7, 9}, sel.CinemaIDs)

	DecodeDimension(&sel, DimStatus, "GOING")
	assert.Equal(t, filter.StatusAll, sel.Status)
}
