// Package ping turns a flat list of per-friend showtime pings into one card
// per showtime for the ping inbox.  Aggregation is a pure function of its
// inputs: the hidden-ID set belongs to the caller's optimistic-dismissal
// flow and is only read here.
package ping

import (
	"sort"
	"time"

	"github.com/mikino-app/mikino-server/internal/model"
)

// SortMode selects the output ordering of Aggregate.
type SortMode int

const (
	// SortLatestPing keeps the upstream ordering.  The fetch layer returns
	// pings newest-first, and first-seen group order preserves that, so
	// cards come out by latest ping descending without a sort pass.
	SortLatestPing SortMode = iota
	// SortShowtimeStart orders cards by showtime start ascending, breaking
	// ties by latest ping descending.
	SortShowtimeStart
)

// ParseSortMode maps a query-param value onto a SortMode, defaulting to
// SortLatestPing for unknown input.
func ParseSortMode(s string) SortMode {
	if s == "showtime" {
		return SortShowtimeStart
	}
	return SortLatestPing
}

// Card is the aggregated view of all pings for one showtime.
//
// Fields:
//  ShowtimeID      – key of the group; unique across the output.
//  Senders         – distinct sender identities in first-seen order.
//  PingIDs         – every underlying ping, kept for batch dismissal.
//  LatestCreatedAt – maximum created-at across the group's pings.
//  HasUnseen       – true if any underlying ping has not been seen.
type Card struct {
	ShowtimeID      uint64         `json:"showtime_id"`
	MovieID         uint64         `json:"movie_id"`
	MovieTitle      string         `json:"movie_title"`
	CinemaName      string         `json:"cinema_name"`
	StartsAt        string         `json:"starts_at"`
	Senders         []model.Sender `json:"senders"`
	PingIDs         []string       `json:"ping_ids"`
	LatestCreatedAt time.Time      `json:"latest_created_at"`
	HasUnseen       bool           `json:"has_unseen"`
}

// Aggregate groups pings by showtime ID, skipping any ping whose ID is in
// hidden (client-side optimistic dismissal before the server confirms the
// delete).  Every visible ping lands in exactly one card; a showtime whose
// pings are all hidden produces no card.  Senders are deduplicated by user
// ID preserving first-seen order, and LatestCreatedAt uses a strict
// comparison so equal timestamps keep the incumbent.
func Aggregate(pings []model.ShowtimePing, hidden map[string]struct{}, mode SortMode) []Card {
	cards := make([]Card, 0, len(pings))
	index := make(map[uint64]int, len(pings))

	for _, p := range pings {
		if _, ok := hidden[p.ID]; ok {
			continue
		}
		i, ok := index[p.ShowtimeID]
		if !ok {
			i = len(cards)
			index[p.ShowtimeID] = i
			cards = append(cards, Card{
				ShowtimeID: p.ShowtimeID,
				MovieID:    p.MovieID,
				MovieTitle: p.MovieTitle,
				CinemaName: p.CinemaName,
				StartsAt:   p.StartsAt,
			})
		}
		card := &cards[i]
		card.PingIDs = append(card.PingIDs, p.ID)
		if !hasSender(card.Senders, p.Sender.ID) {
			card.Senders = append(card.Senders, p.Sender)
		}
		if ts := parseCreatedAt(p.CreatedAt); ts.After(card.LatestCreatedAt) {
			card.LatestCreatedAt = ts
		}
		if p.SeenAt == nil {
			card.HasUnseen = true
		}
	}

	if mode == SortShowtimeStart {
		sort.SliceStable(cards, func(a, b int) bool {
			if cards[a].StartsAt != cards[b].StartsAt {
				return cards[a].StartsAt < cards[b].StartsAt
			}
			return cards[a].LatestCreatedAt.After(cards[b].LatestCreatedAt)
		})
	}
	return cards
}

func hasSender(senders []model.Sender, id uint64) bool {
	for _, s := range senders {
		if s.ID == id {
			return true
		}
	}
	return false
}

// parseCreatedAt returns the zero time for timestamps that fail to parse,
// so a bad record never wins the latest comparison and never aborts
// grouping.
func parseCreatedAt(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
