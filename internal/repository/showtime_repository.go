package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/mikino-app/mikino-server/internal/filter"
	"github.com/mikino-app/mikino-server/internal/model"
)

// ShowtimeQuery carries the caller identity, a filter selection and
// pagination for browsing showtimes.  The selection is normalized inside
// the compiler, so callers may pass raw input.
type ShowtimeQuery struct {
	UserID    uint64
	Selection filter.Selection
	Page      int
	PageSize  int
}

// ShowtimeRow is the joined browse result shape returned to clients.
// MyStatus is the caller's attendance (nil when unset); FriendsGoing and
// FriendsInterested count friends who reacted, powering the "2 friends
// going" badge.
type ShowtimeRow struct {
	ID                uint64  `json:"id"`
	MovieID           uint64  `json:"movie_id"`
	MovieTitle        string  `json:"movie_title"`
	RuntimeMin        uint32  `json:"runtime_min"`
	CinemaID          uint64  `json:"cinema_id"`
	CinemaName        string  `json:"cinema_name"`
	StartsAt          string  `json:"starts_at"`
	Auditorium        string  `json:"auditorium"`
	MyStatus          *string `json:"my_status"`
	FriendsGoing      int     `json:"friends_going"`
	FriendsInterested int     `json:"friends_interested"`
}

// FriendAttendanceRow lists one friend's reaction to a showtime.
type FriendAttendanceRow struct {
	UserID      uint64 `json:"user_id"`
	DisplayName string `json:"display_name"`
	Status      string `json:"status"`
}

// ShowtimeRepo manages read access to showtimes joined with movie, cinema
// and attendance data.
type ShowtimeRepo struct {
	db *sql.DB
}

func NewShowtimeRepo(db *sql.DB) *ShowtimeRepo {
	return &ShowtimeRepo{db: db}
}

// DB exposes the underlying sql.DB for callers that need transactions
// spanning multiple repositories.
func (r *ShowtimeRepo) DB() *sql.DB {
	return r.db
}

// statusToDB maps a filter status onto the attendance.status value that
// satisfies it.
func statusToDB(s filter.Status) string {
	if s == filter.StatusGoing {
		return model.AttendanceGoing
	}
	return model.AttendanceInterested
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// buildShowtimeFilter compiles a normalized selection into WHERE fragments
// and their args.  Kept separate from query execution so the compilation
// rules are testable without a database.  Only upcoming showtimes are ever
// returned.
func buildShowtimeFilter(q ShowtimeQuery) (conds []string, args []any) {
	conds = append(conds, "s.starts_at >= NOW()")
	sel := filter.Normalize(q.Selection)

	if len(sel.CinemaIDs) > 0 {
		conds = append(conds, "s.cinema_id IN ("+placeholders(len(sel.CinemaIDs))+")")
		for _, id := range sel.CinemaIDs {
			args = append(args, id)
		}
	}
	if len(sel.Days) > 0 {
		conds = append(conds, "DATE(s.starts_at) IN ("+placeholders(len(sel.Days))+")")
		for _, d := range sel.Days {
			args = append(args, d)
		}
	}
	if len(sel.TimeRanges) == 1 {
		if start, end, ok := filter.TimeRangeBounds(sel.TimeRanges[0]); ok {
			if start != "" {
				conds = append(conds, "TIME(s.starts_at) >= ?")
				args = append(args, start)
			}
			if end != "" {
				conds = append(conds, "TIME(s.starts_at) <= ?")
				args = append(args, end)
			}
		}
	}
	if len(sel.RuntimeRanges) == 1 {
		min, max, hasMin, hasMax := filter.RuntimeBounds(sel.RuntimeRanges[0])
		if hasMin {
			conds = append(conds, "m.runtime_min >= ?")
			args = append(args, min)
		}
		if hasMax {
			conds = append(conds, "m.runtime_min <= ?")
			args = append(args, max)
		}
	}
	if sel.WatchlistOnly {
		conds = append(conds, "EXISTS (SELECT 1 FROM watchlist w WHERE w.user_id = ? AND w.movie_id = s.movie_id)")
		args = append(args, q.UserID)
	}

	if sel.Status != filter.StatusAll {
		status := statusToDB(sel.Status)
		if sel.Audience == filter.AudienceOnlyYou {
			conds = append(conds,
				"EXISTS (SELECT 1 FROM attendance a WHERE a.showtime_id = s.id AND a.user_id = ? AND a.status = ?)")
			args = append(args, q.UserID, status)
		} else {
			// including-friends: the caller's own reaction or any friend's.
			conds = append(conds,
				`EXISTS (SELECT 1 FROM attendance a WHERE a.showtime_id = s.id AND a.status = ?
					AND (a.user_id = ? OR a.user_id IN (SELECT f.friend_id FROM friends f WHERE f.user_id = ?)))`)
			args = append(args, status, q.UserID, q.UserID)
		}
	}
	return conds, args
}

// Browse returns one page of upcoming showtimes matching the selection,
// ordered by start time ascending, plus the total match count.
func (r *ShowtimeRepo) Browse(ctx context.Context, q ShowtimeQuery) ([]ShowtimeRow, int64, error) {
	conds, args := buildShowtimeFilter(q)
	cond := strings.Join(conds, " AND ")

	var total int64
	countSQL := `SELECT COUNT(*)
		FROM showtimes s
		JOIN movies m  ON m.id = s.movie_id
		JOIN cinemas c ON c.id = s.cinema_id
		WHERE ` + cond
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize

	dataSQL := `SELECT
			s.id,
			s.movie_id,
			m.title,
			m.runtime_min,
			c.id   AS cinema_id,
			c.name AS cinema_name,
			DATE_FORMAT(s.starts_at, '%Y-%m-%d %T') AS starts_at,
			s.auditorium,
			mine.status,
			(SELECT COUNT(*) FROM attendance fa
				WHERE fa.showtime_id = s.id AND fa.status = 'GOING'
				AND fa.user_id IN (SELECT f.friend_id FROM friends f WHERE f.user_id = ?)) AS friends_going,
			(SELECT COUNT(*) FROM attendance fa
				WHERE fa.showtime_id = s.id AND fa.status = 'INTERESTED'
				AND fa.user_id IN (SELECT f.friend_id FROM friends f WHERE f.user_id = ?)) AS friends_interested
		FROM showtimes s
		JOIN movies m  ON m.id = s.movie_id
		JOIN cinemas c ON c.id = s.cinema_id
		LEFT JOIN attendance mine ON mine.showtime_id = s.id AND mine.user_id = ?
		WHERE ` + cond + `
		ORDER BY s.starts_at ASC, s.id ASC
		LIMIT ? OFFSET ?`

	argsData := append([]any{q.UserID, q.UserID, q.UserID}, args...)
	argsData = append(argsData, limit, offset)

	rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]ShowtimeRow, 0, limit)
	for rows.Next() {
		var (
			d        ShowtimeRow
			myStatus sql.NullString
		)
		if err := rows.Scan(
			&d.ID,
			&d.MovieID,
			&d.MovieTitle,
			&d.RuntimeMin,
			&d.CinemaID,
			&d.CinemaName,
			&d.StartsAt,
			&d.Auditorium,
			&myStatus,
			&d.FriendsGoing,
			&d.FriendsInterested,
		); err != nil {
			return nil, 0, err
		}
		if myStatus.Valid {
			d.MyStatus = &myStatus.String
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// GetByID loads one showtime with its display joins, used when creating a
// ping's denormalized fields.
func (r *ShowtimeRepo) GetByID(ctx context.Context, id uint64) (ShowtimeRow, error) {
	const q = `SELECT
			s.id, s.movie_id, m.title, m.runtime_min, c.id, c.name,
			DATE_FORMAT(s.starts_at, '%Y-%m-%d %T'), s.auditorium
		FROM showtimes s
		JOIN movies m  ON m.id = s.movie_id
		JOIN cinemas c ON c.id = s.cinema_id
		WHERE s.id = ?`
	var d ShowtimeRow
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&d.ID, &d.MovieID, &d.MovieTitle, &d.RuntimeMin,
		&d.CinemaID, &d.CinemaName, &d.StartsAt, &d.Auditorium)
	if err == sql.ErrNoRows {
		return d, ErrNotFound
	}
	return d, err
}

// FriendAttendance lists the caller's friends who reacted to a showtime.
func (r *ShowtimeRepo) FriendAttendance(ctx context.Context, userID, showtimeID uint64) ([]FriendAttendanceRow, error) {
	const q = `SELECT u.id, u.display_name, a.status
		FROM attendance a
		JOIN friends f ON f.friend_id = a.user_id AND f.user_id = ?
		JOIN users u   ON u.id = a.user_id
		WHERE a.showtime_id = ?
		ORDER BY u.display_name ASC`
	rows, err := r.db.QueryContext(ctx, q, userID, showtimeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []FriendAttendanceRow{}
	for rows.Next() {
		var fa FriendAttendanceRow
		if err := rows.Scan(&fa.UserID, &fa.DisplayName, &fa.Status); err != nil {
			return nil, err
		}
		out = append(out, fa)
	}
	return out, rows.Err()
}

// ListCinemas returns all cinemas for the filter sheet.
func (r *ShowtimeRepo) ListCinemas(ctx context.Context) ([]model.Cinema, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, city, created_at, updated_at FROM cinemas ORDER BY name ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Cinema{}
	for rows.Next() {
		var c model.Cinema
		if err := rows.Scan(&c.ID, &c.Name, &c.City, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
