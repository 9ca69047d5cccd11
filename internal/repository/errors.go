// Package repository contains the data access layer.  This file defines
// sentinel errors shared across repositories so handlers can translate
// failure scenarios into HTTP statuses with errors.Is instead of string
// matching.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.  Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation cannot proceed because of
// conflicting existing state, such as sending a friend request to an
// existing friend.  Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrNotFound is returned when a row the caller addressed does not exist
// (or does not belong to them).  Handlers translate this into HTTP 404; a
// double-dismiss of a ping is the typical benign cause.
var ErrNotFound = errors.New("not found")
