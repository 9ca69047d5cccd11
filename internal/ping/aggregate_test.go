package ping

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikino-app/mikino-server/internal/model"
)

var (
	alice = model.Sender{ID: 1, DisplayName: "Alice"}
	bob   = model.Sender{ID: 2, DisplayName: "Bob"}
)

func seen(s string) *string { return &s }

func TestAggregateGroupsByShowtime(t *testing.T) {
	pings := []model.ShowtimePing{
		{ID: "p1", ShowtimeID: 10, MovieID: 7, Sender: alice, CreatedAt: "2024-05-01T18:00:00Z", SeenAt: nil},
		{ID: "p2", ShowtimeID: 10, MovieID: 7, Sender: bob, CreatedAt: "2024-05-01T19:00:00Z", SeenAt: seen("2024-05-01T19:05:00Z")},
	}

	cards := Aggregate(pings, nil, SortLatestPing)
	require.Len(t, cards, 1)
	card := cards[0]
	assert.Equal(t, uint64(10), card.ShowtimeID)
	assert.Equal(t, []string{"p1", "p2"}, card.PingIDs)
	assert.Equal(t, []model.Sender{alice, bob}, card.Senders)
	assert.Equal(t, time.Date(2024, 5, 1, 19, 0, 0, 0, time.UTC), card.LatestCreatedAt)
	assert.True(t, card.HasUnseen)
}

func TestAggregateHiddenPings(t *testing.T) {
	pings := []model.ShowtimePing{
		{ID: "p1", ShowtimeID: 10, Sender: alice, CreatedAt: "2024-05-01T18:00:00Z", SeenAt: nil},
		{ID: "p2", ShowtimeID: 10, Sender: bob, CreatedAt: "2024-05-01T19:00:00Z", SeenAt: seen("2024-05-01T19:05:00Z")},
	}
	hidden := map[string]struct{}{"p1": {}}

	cards := Aggregate(pings, hidden, SortLatestPing)
	require.Len(t, cards, 1)
	assert.Equal(t, []string{"p2"}, cards[0].PingIDs)
	assert.Equal(t, []model.Sender{bob}, cards[0].Senders)
	assert.False(t, cards[0].HasUnseen)
}

func TestAggregateAllHiddenEmitsNoCard(t *testing.T) {
	pings := []model.ShowtimePing{
		{ID: "p1", ShowtimeID: 10, Sender: alice, CreatedAt: "2024-05-01T18:00:00Z"},
	}
	cards := Aggregate(pings, map[string]struct{}{"p1": {}}, SortLatestPing)
	assert.Empty(t, cards)
}

func TestAggregatePartition(t *testing.T) {
	// Every visible ping belongs to exactly one card, with no duplicates.
	pings := []model.ShowtimePing{
		{ID: "a", ShowtimeID: 1, Sender: alice, CreatedAt: "2024-05-03T10:00:00Z"},
		{ID: "b", ShowtimeID: 2, Sender: bob, CreatedAt: "2024-05-02T10:00:00Z"},
		{ID: "c", ShowtimeID: 1, Sender: bob, CreatedAt: "2024-05-01T10:00:00Z"},
		{ID: "d", ShowtimeID: 3, Sender: alice, CreatedAt: "2024-05-01T09:00:00Z"},
	}
	hidden := map[string]struct{}{"b": {}}

	cards := Aggregate(pings, hidden, SortLatestPing)
	got := map[string]int{}
	keys := map[uint64]int{}
	for _, card := range cards {
		keys[card.ShowtimeID]++
		for _, id := range card.PingIDs {
			got[id]++
		}
	}
	assert.Equal(t, map[string]int{"a": 1, "c": 1, "d": 1}, got)
	for id, n := range keys {
		assert.Equal(t, 1, n, "showtime %d appears in more than one card", id)
	}
}

func TestAggregateDedupsSendersByID(t *testing.T) {
	aliceAgain := model.Sender{ID: 1, DisplayName: "Alice"}
	pings := []model.ShowtimePing{
		{ID: "p1", ShowtimeID: 10, Sender: alice, CreatedAt: "2024-05-01T18:00:00Z"},
		{ID: "p2", ShowtimeID: 10, Sender: aliceAgain, CreatedAt: "2024-05-01T19:00:00Z"},
	}
	cards := Aggregate(pings, nil, SortLatestPing)
	require.Len(t, cards, 1)
	assert.Equal(t, []model.Sender{alice}, cards[0].Senders)
	assert.Equal(t, []string{"p1", "p2"}, cards[0].PingIDs)
}

func TestAggregateBadTimestampNeverWins(t *testing.T) {
	pings := []model.ShowtimePing{
		{ID: "p1", ShowtimeID: 10, Sender: alice, CreatedAt: "not a timestamp"},
		{ID: "p2", ShowtimeID: 10, Sender: bob, CreatedAt: "2024-05-01T18:00:00Z"},
	}
	cards := Aggregate(pings, nil, SortLatestPing)
	require.Len(t, cards, 1)
	assert.Equal(t, time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC), cards[0].LatestCreatedAt)

	// A group with only unparseable timestamps still aggregates.
	cards = Aggregate(pings[:1], nil, SortLatestPing)
	require.Len(t, cards, 1)
	assert.True(t, cards[0].LatestCreatedAt.IsZero())
}

func TestAggregateSortLatestPingKeepsInputOrder(t *testing.T) {
	// Upstream delivers pings newest-first; the default mode must not
	// reorder the groups.
	pings := []model.ShowtimePing{
		{ID: "p3", ShowtimeID: 30, Sender: alice, CreatedAt: "2024-05-03T10:00:00Z"},
		{ID: "p2", ShowtimeID: 20, Sender: alice, CreatedAt: "2024-05-02T10:00:00Z"},
		{ID: "p1", ShowtimeID: 10, Sender: alice, CreatedAt: "2024-05-01T10:00:00Z"},
	}
	cards := Aggregate(pings, nil, SortLatestPing)
	require.Len(t, cards, 3)
	assert.Equal(t, uint64(30), cards[0].ShowtimeID)
	assert.Equal(t, uint64(20), cards[1].ShowtimeID)
	assert.Equal(t, uint64(10), cards[2].ShowtimeID)
}

func TestAggregateSortShowtimeStart(t *testing.T) {
	pings := []model.ShowtimePing{
		{ID: "p3", ShowtimeID: 30, Sender: alice, CreatedAt: "2024-05-03T10:00:00Z", StartsAt: "2024-05-10 20:00:00"},
		{ID: "p2", ShowtimeID: 20, Sender: alice, CreatedAt: "2024-05-02T10:00:00Z", StartsAt: "2024-05-09 18:00:00"},
		{ID: "p1", ShowtimeID: 10, Sender: bob, CreatedAt: "2024-05-01T10:00:00Z", StartsAt: "2024-05-10 20:00:00"},
	}
	cards := Aggregate(pings, nil, SortShowtimeStart)
	require.Len(t, cards, 3)
	assert.Equal(t, uint64(20), cards[0].ShowtimeID)
	// Same start time: the newer latest ping comes first.
	assert.Equal(t, uint64(30), cards[1].ShowtimeID)
	assert.Equal(t, uint64(10), cards[2].ShowtimeID)
}

func TestParseSortMode(t *testing.T) {
	assert.Equal(t, SortShowtimeStart, ParseSortMode("showtime"))
	assert.Equal(t, SortLatestPing, ParseSortMode("latest"))
	assert.Equal(t, SortLatestPing, ParseSortMode(""))
}
