package pumpportal

import "errors"

var (
	// ErrNotConnected is returned by Send when there is no live connection.
	// The read loop owns recovery; callers retry after the next reconcile.
	ErrNotConnected = errors.New("not connected")

	// ErrClosed is returned after Close has been called.
	ErrClosed = errors.New("client closed")
)
