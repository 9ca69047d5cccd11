package model

import "time"

// Movie holds the film metadata a showtime points at.  RuntimeMin backs the
// runtime-range filter; PosterURL is display-only and may be absent.
type Movie struct {
	ID         uint64    // movies.id
	Title      string    // movies.title
	RuntimeMin uint32    // movies.runtime_min
	PosterURL  *string   // movies.poster_url (nullable)
	CreatedAt  time.Time // movies.created_at
	UpdatedAt  time.Time // movies.updated_at
}

// WatchlistEntry marks a movie as on a user's watchlist.  The watchlist-only
// filter reduces showtime results to movies with such an entry.
type WatchlistEntry struct {
	UserID  uint64    // watchlist.user_id
	MovieID uint64    // watchlist.movie_id
	AddedAt time.Time // watchlist.added_at
}
