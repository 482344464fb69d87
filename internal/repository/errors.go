package repository

import "errors"

var (
	ErrNotFound = errors.New("record not found")

	// ErrConflict means a conditional update matched zero rows: the
	// caller's snapshot went stale between read and write. Callers
	// should re-read and retry once from fresh state.
	ErrConflict = errors.New("conditional update lost the race")

	ErrDuplicateSerial = errors.New("serial number already in use")
)
