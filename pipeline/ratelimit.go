package pipeline

import (
	"context"

	"golang.org/x/time/rate"

	"classroom-net/protocol"
)

// RateLimit enforces a token-bucket limit of r frames/second with the given
// burst size, shared across every frame that passes through the chain.
//
// The limiter is created once, when the middleware is constructed — never
// per frame, which would hand every frame a fresh, full bucket and defeat
// the limit entirely.
func RateLimit(r float64, burst int) Middleware {
	limiter := rate.NewLimiter(rate.Limit(r), burst)
	return func(next Handler) Handler {
		return func(ctx context.Context, header *protocol.Header, payload []byte) (*protocol.Header, []byte, error) {
			if !limiter.Allow() {
				return nil, nil, ErrRateLimited
			}
			return next(ctx, header, payload)
		}
	}
}
