package model

// Sender identifies the friend who sent a ping, with the display name shown
// on the grouped card.
type Sender struct {
	ID          uint64 `json:"id"`
	DisplayName string `json:"display_name"`
}

// ShowtimePing is a notification-like record created when a friend pings a
// user for a specific showtime.  Multiple pings may reference the same
// showtime, one per sender; the ping inbox groups them into a single card
// per showtime.
//
// Timestamps are carried as ISO-8601 strings exactly as the API delivers
// them: a nil SeenAt means the ping is unseen, and an unparseable CreatedAt
// must degrade to a sentinel during aggregation rather than fail.
// MovieTitle, CinemaName and StartsAt are denormalized display fields so a
// card renders without extra lookups.
type ShowtimePing struct {
	ID          string  `json:"id"` // UUID
	ShowtimeID  uint64  `json:"showtime_id"`
	MovieID     uint64  `json:"movie_id"`
	Sender      Sender  `json:"sender"`
	RecipientID uint64  `json:"-"`
	CreatedAt   string  `json:"created_at"`        // ISO-8601
	SeenAt      *string `json:"seen_at"`           // ISO-8601, nil = unseen
	MovieTitle  string  `json:"movie_title"`
	CinemaName  string  `json:"cinema_name"`
	StartsAt    string  `json:"starts_at"`
}
