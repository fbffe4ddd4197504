package pipeline

import (
	"context"
	"log"
	"time"

	"classroom-net/protocol"
)

// Logging records the message type, duration, and any error for every
// frame that passes through the chain.
func Logging() Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, header *protocol.Header, payload []byte) (*protocol.Header, []byte, error) {
			start := time.Now()
			replyHeader, replyPayload, err := next(ctx, header, payload)
			log.Printf("pipeline: msg_type=%#04x duration=%s err=%v", header.MsgType, time.Since(start), err)
			return replyHeader, replyPayload, err
		}
	}
}
