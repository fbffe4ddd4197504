package pipeline

import "errors"

var (
	// ErrRateLimited is returned by RateLimit when the token bucket is
	// empty; the handler chain is short-circuited without calling next.
	ErrRateLimited = errors.New("pipeline: rate limit exceeded")
	// ErrHandlerTimeout is returned by Timeout when next does not complete
	// before the configured duration elapses.
	ErrHandlerTimeout = errors.New("pipeline: handler timed out")
)
