package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/mikino-app/mikino-server/internal/model"
)

// PingRepo persists showtime pings.  Rows are keyed by UUID so ping IDs can
// be minted before the insert and travel through optimistic-dismissal sets
// unchanged.  Timestamps are read back as ISO-8601 strings, the shape the
// aggregator consumes.
type PingRepo struct {
	db *sql.DB
}

func NewPingRepo(db *sql.DB) *PingRepo {
	return &PingRepo{db: db}
}

const pingSelect = `SELECT
		p.id,
		p.showtime_id,
		p.movie_id,
		p.sender_id,
		u.display_name,
		p.recipient_id,
		DATE_FORMAT(p.created_at, '%Y-%m-%dT%TZ'),
		DATE_FORMAT(p.seen_at,    '%Y-%m-%dT%TZ'),
		m.title,
		c.name,
		DATE_FORMAT(s.starts_at, '%Y-%m-%d %T')
	FROM pings p
	JOIN users u     ON u.id = p.sender_id
	JOIN showtimes s ON s.id = p.showtime_id
	JOIN movies m    ON m.id = p.movie_id
	JOIN cinemas c   ON c.id = s.cinema_id`

// Create inserts a ping and reads the joined row back so the returned value
// carries its denormalized display fields.  The ping's ID is minted here.
func (r *PingRepo) Create(ctx context.Context, showtimeID, senderID, recipientID uint64) (model.ShowtimePing, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO pings (id, showtime_id, movie_id, sender_id, recipient_id)
		 SELECT ?, s.id, s.movie_id, ?, ? FROM showtimes s WHERE s.id = ?`,
		id, senderID, recipientID, showtimeID)
	if err != nil {
		return model.ShowtimePing{}, err
	}
	return r.getByID(ctx, id)
}

func (r *PingRepo) getByID(ctx context.Context, id string) (model.ShowtimePing, error) {
	row := r.db.QueryRowContext(ctx, pingSelect+" WHERE p.id = ?", id)
	p, err := scanPing(row)
	if err == sql.ErrNoRows {
		return p, ErrNotFound
	}
	return p, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPing(row rowScanner) (model.ShowtimePing, error) {
	var (
		p      model.ShowtimePing
		seenAt sql.NullString
	)
	err := row.Scan(
		&p.ID,
		&p.ShowtimeID,
		&p.MovieID,
		&p.Sender.ID,
		&p.Sender.DisplayName,
		&p.RecipientID,
		&p.CreatedAt,
		&seenAt,
		&p.MovieTitle,
		&p.CinemaName,
		&p.StartsAt,
	)
	if err != nil {
		return p, err
	}
	if seenAt.Valid {
		p.SeenAt = &seenAt.String
	}
	return p, nil
}

// ListForRecipient returns every ping addressed to a user, newest first.
// The descending created_at order is what lets the aggregator's default
// sort mode skip its own sort pass.
func (r *PingRepo) ListForRecipient(ctx context.Context, recipientID uint64) ([]model.ShowtimePing, error) {
	rows, err := r.db.QueryContext(ctx,
		pingSelect+" WHERE p.recipient_id = ? ORDER BY p.created_at DESC, p.id DESC",
		recipientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.ShowtimePing{}
	for rows.Next() {
		p, err := scanPing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// MarkSeenByShowtime stamps seen_at on all of a recipient's unseen pings
// for one showtime, the batch that a grouped card represents.  Returns how
// many rows were updated.
func (r *PingRepo) MarkSeenByShowtime(ctx context.Context, recipientID, showtimeID uint64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE pings SET seen_at=NOW() WHERE recipient_id=? AND showtime_id=? AND seen_at IS NULL",
		recipientID, showtimeID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Delete dismisses a single ping.  ErrNotFound covers both a stranger's
// ping and a double-dismiss where the row is already gone.
func (r *PingRepo) Delete(ctx context.Context, recipientID uint64, pingID string) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM pings WHERE id=? AND recipient_id=?",
		pingID, recipientID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByShowtime dismisses every ping a recipient has for one showtime,
// the batch behind a card's dismiss action.  Returns how many rows were
// deleted; zero is not an error since the card may already be gone.
func (r *PingRepo) DeleteByShowtime(ctx context.Context, recipientID, showtimeID uint64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM pings WHERE recipient_id=? AND showtime_id=?",
		recipientID, showtimeID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
