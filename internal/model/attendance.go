package model

import "time"

// Attendance status values as stored in the attendance.status column.  The
// three intents are mutually exclusive per user and showtime.
const (
	AttendanceGoing      = "GOING"
	AttendanceInterested = "INTERESTED"
	AttendanceNotGoing   = "NOT_GOING"
)

// Attendance records one user's intent for one showtime.  A missing row
// means the user has not reacted to the showtime at all.
type Attendance struct {
	ID         uint64    // attendance.id
	UserID     uint64    // attendance.user_id
	ShowtimeID uint64    // attendance.showtime_id
	Status     string    // attendance.status (GOING, INTERESTED, NOT_GOING)
	CreatedAt  time.Time // attendance.created_at
	UpdatedAt  time.Time // attendance.updated_at
}
