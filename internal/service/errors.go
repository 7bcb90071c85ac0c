package service

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")

	// ErrReadAfterWrite marks a failed re-fetch after a committed write. The
	// write itself succeeded; callers should log this differently from a
	// write failure.
	ErrReadAfterWrite = errors.New("read after successful write failed")
)
