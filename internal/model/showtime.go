package model

// Showtime represents one scheduled screening of a movie at a cinema.
// NOTE: StartsAt is carried as the DB timestamp string
// "2006-01-02 15:04:05" (UTC), matching how the repository layer scans
// rows; fixed-width timestamps also compare chronologically as strings.
//
// Fields:
//  ID         – primary key identifier.
//  MovieID    – movie being screened.
//  CinemaID   – cinema hosting the screening.
//  StartsAt   – DB timestamp when the screening begins.
//  Auditorium – auditorium name within the cinema.
//  Attributes – comma-separated presentation attributes (IMAX, 3D, OV...).
//  CreatedAt  – row creation time.
//  UpdatedAt  – last update time.
type Showtime struct {
	ID         uint64 // showtimes.id
	MovieID    uint64 // showtimes.movie_id
	CinemaID   uint64 // showtimes.cinema_id
	StartsAt   string // showtimes.starts_at ("YYYY-MM-DD HH:MM:SS" UTC)
	Auditorium string // showtimes.auditorium
	Attributes string // showtimes.attributes
	CreatedAt  string // showtimes.created_at
	UpdatedAt  string // showtimes.updated_at
}
