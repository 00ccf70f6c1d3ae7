package relink

import (
	"github.com/pkg/errors"
)

var (
	// ErrInvalidURL is returned by New when the configured address is empty
	// or is not a ws:// or wss:// URL.
	ErrInvalidURL = errors.New("invalid websocket url")

	// ErrCannotConnect wraps dial failures. It is delivered through the
	// error event, never returned from Connect.
	ErrCannotConnect = errors.New("connection cannot be established")

	// ErrConnectionClosed wraps read failures on an established connection
	// that were not an orderly close handshake.
	ErrConnectionClosed = errors.New("connection has been closed")

	// ErrNotOpen marks a write that was skipped because the connection was
	// not open. Sends are best-effort: the error surfaces as a warning, not
	// as a return value.
	ErrNotOpen = errors.New("connection is not open")

	// ErrRateLimit wraps handshakes the server rejected with 429.
	ErrRateLimit = errors.New("rate limit reached")
)
