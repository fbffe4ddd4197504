package client

import "time"

// WithRetry retries a SendRequest call up to n additional times, with
// exponential backoff starting at baseDelay, when the failure is
// ErrTimeout or ErrConnectionLost, matched with errors.Is against the
// multiplexer's own sentinel errors rather than string-matching an error
// message. A non-retryable error (ErrQueueStopped, a context cancellation)
// is returned immediately.
func WithRetry(n int, baseDelay time.Duration) Option {
	return func(m *Multiplexer) {
		m.retryCount = n
		m.retryBaseDelay = baseDelay
	}
}
