package domain

import "errors"

// ErrNotFound is returned by stores when a keyed record does not exist.
var ErrNotFound = errors.New("not found")

// ErrTurnConflict is returned when a conversation already holds a turn at or
// beyond the one being written.
var ErrTurnConflict = errors.New("turn already recorded")
