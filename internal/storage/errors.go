package storage

import "errors"

// Storage errors for the append-only trade archive.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when inserting a trade whose signature
	// already exists. The feed redelivers trades across reconnects, so
	// duplicates are expected and rejected here.
	ErrDuplicateKey = errors.New("duplicate key: trade signature already stored")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)
