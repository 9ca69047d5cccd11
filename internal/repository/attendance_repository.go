package repository

import (
	"context"
	"database/sql"

	"github.com/mikino-app/mikino-server/internal/model"
)

// AttendanceRepo persists the going/interested/not-going intent one user
// holds per showtime.  The three states are mutually exclusive, enforced by the
// unique (user_id, showtime_id) key and upsert writes.
type AttendanceRepo struct {
	db *sql.DB
}

func NewAttendanceRepo(db *sql.DB) *AttendanceRepo {
	return &AttendanceRepo{db: db}
}

// SetStatus upserts a user's intent for a showtime, replacing whatever
// state was there before.
func (r *AttendanceRepo) SetStatus(ctx context.Context, userID, showtimeID uint64, status string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO attendance (user_id, showtime_id, status)
		 VALUES (?,?,?)
		 ON DUPLICATE KEY UPDATE status=VALUES(status)`,
		userID, showtimeID, status)
	return err
}

// Clear removes a user's reaction entirely.  Clearing an absent row is not
// an error.
func (r *AttendanceRepo) Clear(ctx context.Context, userID, showtimeID uint64) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM attendance WHERE user_id=? AND showtime_id=?",
		userID, showtimeID)
	return err
}

// Get returns the user's attendance row for a showtime, or ErrNotFound.
func (r *AttendanceRepo) Get(ctx context.Context, userID, showtimeID uint64) (model.Attendance, error) {
	var a model.Attendance
	err := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, showtime_id, status, created_at, updated_at FROM attendance WHERE user_id=? AND showtime_id=? LIMIT 1",
		userID, showtimeID).Scan(&a.ID, &a.UserID, &a.ShowtimeID, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return a, ErrNotFound
	}
	return a, err
}
