package model

import "time"

// Friend request states as stored in friend_requests.status.
const (
	RequestPending  = "PENDING"
	RequestAccepted = "ACCEPTED"
	RequestDeclined = "DECLINED"
)

// FriendRequest is one user's invitation to become friends with another.
// Accepting a request creates a symmetric pair of Friendship rows.
type FriendRequest struct {
	ID          uint64     // friend_requests.id
	FromUserID  uint64     // friend_requests.from_user_id
	ToUserID    uint64     // friend_requests.to_user_id
	Status      string     // friend_requests.status
	CreatedAt   time.Time  // friend_requests.created_at
	RespondedAt *time.Time // friend_requests.responded_at (nullable)
}

// Friendship links two users.  Rows are stored in both directions so that
// "friends of user X" is a single-column lookup.
type Friendship struct {
	UserID    uint64    // friends.user_id
	FriendID  uint64    // friends.friend_id
	CreatedAt time.Time // friends.created_at
}
