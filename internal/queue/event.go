// Package queue defines message payloads exchanged over the message broker.
package queue

// PingSentEvent is published when a user pings a friend for a showtime.
// It carries enough denormalized detail for downstream consumers (push
// fan-out, notification log, analytics) to act without querying the
// primary database.
type PingSentEvent struct {
	PingID      string `json:"ping_id"`
	ShowtimeID  uint64 `json:"showtime_id"`
	MovieID     uint64 `json:"movie_id"`
	MovieTitle  string `json:"movie_title"`
	CinemaName  string `json:"cinema_name"`
	StartsAt    string `json:"starts_at"`
	SenderID    uint64 `json:"sender_id"`
	SenderName  string `json:"sender_name"`
	RecipientID uint64 `json:"recipient_id"`
	SentAt      string `json:"sent_at"`
}
