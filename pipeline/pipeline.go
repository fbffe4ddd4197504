// Package pipeline implements the onion-model middleware chain that wraps
// the server's caller-supplied per-frame handler: each middleware receives
// a decoded frame and the next handler in the chain, and may short-circuit,
// transform, or simply observe before calling on. It implements no
// classroom business logic itself — the handler at the bottom of the chain
// is always supplied by the caller.
package pipeline

import (
	"context"

	"classroom-net/protocol"
)

// Handler processes one decoded frame and optionally produces a reply. A
// nil reply header means "no response frame" (e.g. the handler routed the
// frame to the broadcast registry itself and there is nothing to write
// back).
type Handler func(ctx context.Context, header *protocol.Header, payload []byte) (replyHeader *protocol.Header, replyPayload []byte, err error)

// Middleware wraps a Handler to add a cross-cutting concern.
type Middleware func(next Handler) Handler

// Chain composes middlewares into a single Middleware, in onion order:
// Chain(A, B, C)(handler) == A(B(C(handler))).
func Chain(middlewares ...Middleware) Middleware {
	return func(next Handler) Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}
