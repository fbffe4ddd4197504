package pipeline

import (
	"context"
	"time"

	"classroom-net/protocol"
)

type timeoutResult struct {
	header  *protocol.Header
	payload []byte
	err     error
}

// Timeout bounds how long next may run. The handler goroutine is not
// cancelled when the timeout fires — ctx.Done() only controls how long the
// caller waits for it; a handler that wants true cancellation must check
// ctx itself.
func Timeout(d time.Duration) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, header *protocol.Header, payload []byte) (*protocol.Header, []byte, error) {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()

			done := make(chan timeoutResult, 1)
			go func() {
				h, p, err := next(ctx, header, payload)
				done <- timeoutResult{h, p, err}
			}()

			select {
			case r := <-done:
				return r.header, r.payload, r.err
			case <-ctx.Done():
				return nil, nil, ErrHandlerTimeout
			}
		}
	}
}
