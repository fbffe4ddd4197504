package client

import "errors"

var (
	// ErrTimeout is returned by SendRequest when a per-call deadline (set via
	// WithRequestTimeout) elapses before the response arrives.
	ErrTimeout = errors.New("client: request timed out")
	// ErrConnectionLost is returned to every SendRequest call outstanding
	// when the background worker's receive fails; calls made after that
	// return ErrQueueStopped.
	ErrConnectionLost = errors.New("client: connection lost")
	// ErrQueueStopped is returned by SendRequest once the multiplexer has
	// stopped, whether by Stop or after a lost connection.
	ErrQueueStopped = errors.New("client: multiplexer stopped")
)
