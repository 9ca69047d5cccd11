// Package filter defines the canonical showtime filter selection and the
// normalization rules that make two selections comparable.  Raw filter
// payloads arrive loosely typed (query params, stored preset JSON, session
// store strings); every entry point funnels them through Normalize so that
// downstream code only ever sees validated canonical values.
package filter

// Status is the attendance-intent filter applied to the showtime list.
type Status string

const (
	StatusAll        Status = "all"
	StatusInterested Status = "interested"
	StatusGoing      Status = "going"
)

// ParseStatus coerces a loosely typed value into a Status.  Unknown or
// empty values fall back to StatusAll so a stale payload widens the result
// set instead of breaking it.
func ParseStatus(s string) Status {
	switch Status(s) {
	case StatusInterested, StatusGoing:
		return Status(s)
	}
	return StatusAll
}

// Audience selects whose attendance counts when filtering by Status.
type Audience string

const (
	AudienceIncludingFriends Audience = "including-friends"
	AudienceOnlyYou          Audience = "only-you"
)

// ParseAudience coerces a loosely typed value into an Audience, defaulting
// to AudienceIncludingFriends.
func ParseAudience(s string) Audience {
	if Audience(s) == AudienceOnlyYou {
		return AudienceOnlyYou
	}
	return AudienceIncludingFriends
}

// Selection is a full set of showtime filters.  The zero value means "no
// restriction" on every axis once normalized.
//
// Fields:
//  Status        – attendance-intent filter (all/interested/going).
//  Audience      – whose attendance the Status filter considers.
//  WatchlistOnly – restrict to movies on the user's watchlist.
//  CinemaIDs     – restrict to these cinemas (empty = all cinemas).
//  Days          – ISO "YYYY-MM-DD" dates (empty = any day).
//  TimeRanges    – "HH:MM-HH:MM" start-time windows, at most one.
//  RuntimeRanges – "<min>-<max>" movie runtime bounds in minutes, at most one.
type Selection struct {
	Status        Status   `json:"status"`
	Audience      Audience `json:"audience"`
	WatchlistOnly bool     `json:"watchlist_only"`
	CinemaIDs     []uint64 `json:"cinema_ids"`
	Days          []string `json:"days"`
	TimeRanges    []string `json:"time_ranges"`
	RuntimeRanges []string `json:"runtime_ranges"`
}
