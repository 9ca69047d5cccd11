package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/mikino-app/mikino-server/internal/model"
)

// FriendInfo is a friend row joined with the friend's display data.
type FriendInfo struct {
	UserID      uint64    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	Since       time.Time `json:"since"`
}

// PendingRequest is an incoming friend request joined with the sender's
// display data.
type PendingRequest struct {
	ID          uint64    `json:"id"`
	FromUserID  uint64    `json:"from_user_id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
}

// FriendRepo persists friend requests and the symmetric friendship rows
// that accepting one creates.
type FriendRepo struct {
	db *sql.DB
}

func NewFriendRepo(db *sql.DB) *FriendRepo {
	return &FriendRepo{db: db}
}

// AreFriends reports whether two users are friends.  Friendships are stored
// in both directions, so one direction is enough to check.
func (r *FriendRepo) AreFriends(ctx context.Context, userID, otherID uint64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM friends WHERE user_id=? AND friend_id=?",
		userID, otherID).Scan(&n)
	return n > 0, err
}

// CreateRequest records a pending friend request.  ErrConflict covers both
// an existing friendship and an open request in either direction.
func (r *FriendRepo) CreateRequest(ctx context.Context, fromID, toID uint64) (uint64, error) {
	friends, err := r.AreFriends(ctx, fromID, toID)
	if err != nil {
		return 0, err
	}
	if friends {
		return 0, ErrConflict
	}

	var open int
	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM friend_requests
		 WHERE status='PENDING'
		 AND ((from_user_id=? AND to_user_id=?) OR (from_user_id=? AND to_user_id=?))`,
		fromID, toID, toID, fromID).Scan(&open)
	if err != nil {
		return 0, err
	}
	if open > 0 {
		return 0, ErrConflict
	}

	res, err := r.db.ExecContext(ctx,
		"INSERT INTO friend_requests (from_user_id, to_user_id, status) VALUES (?,?,'PENDING')",
		fromID, toID)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// PendingFor lists requests waiting on a user's answer, oldest first.
func (r *FriendRepo) PendingFor(ctx context.Context, userID uint64) ([]PendingRequest, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT fr.id, fr.from_user_id, u.display_name, u.email, fr.created_at
		 FROM friend_requests fr
		 JOIN users u ON u.id = fr.from_user_id
		 WHERE fr.to_user_id=? AND fr.status='PENDING'
		 ORDER BY fr.created_at ASC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []PendingRequest{}
	for rows.Next() {
		var p PendingRequest
		if err := rows.Scan(&p.ID, &p.FromUserID, &p.DisplayName, &p.Email, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Accept marks a pending request accepted and inserts the friendship in
// both directions inside one transaction.  Only the addressee may accept.
func (r *FriendRepo) Accept(ctx context.Context, userID, requestID uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var fromID uint64
	err = tx.QueryRowContext(ctx,
		"SELECT from_user_id FROM friend_requests WHERE id=? AND to_user_id=? AND status='PENDING' FOR UPDATE",
		requestID, userID).Scan(&fromID)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE friend_requests SET status=?, responded_at=NOW() WHERE id=?",
		model.RequestAccepted, requestID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT IGNORE INTO friends (user_id, friend_id) VALUES (?,?),(?,?)",
		userID, fromID, fromID, userID); err != nil {
		return err
	}
	return tx.Commit()
}

// Decline marks a pending request declined.  Only the addressee may
// decline.
func (r *FriendRepo) Decline(ctx context.Context, userID, requestID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE friend_requests SET status=?, responded_at=NOW() WHERE id=? AND to_user_id=? AND status='PENDING'",
		model.RequestDeclined, requestID, userID)
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

// ListFriends returns a user's friends ordered by display name.
func (r *FriendRepo) ListFriends(ctx context.Context, userID uint64) ([]FriendInfo, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT u.id, u.display_name, u.email, f.created_at
		 FROM friends f
		 JOIN users u ON u.id = f.friend_id
		 WHERE f.user_id=?
		 ORDER BY u.display_name ASC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []FriendInfo{}
	for rows.Next() {
		var fi FriendInfo
		if err := rows.Scan(&fi.UserID, &fi.DisplayName, &fi.Email, &fi.Since); err != nil {
			return nil, err
		}
		out = append(out, fi)
	}
	return out, rows.Err()
}
