package model

import "time"

// Cinema represents a movie theatre that showtimes belong to.  Cinemas are
// reference data imported from the showtime feed; the client only selects
// among them when filtering.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – display name of the cinema.
//  City      – city the cinema is located in.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Cinema struct {
	ID        uint64    // cinemas.id
	Name      string    // cinemas.name
	City      string    // cinemas.city
	CreatedAt time.Time // cinemas.created_at
	UpdatedAt time.Time // cinemas.updated_at
}
