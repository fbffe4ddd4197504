package protocol

import (
	"fmt"
	"sync/atomic"
	"time"
)

// counter is the process-wide monotonically increasing id counter. It wraps
// silently on overflow — message ids exist for log correlation, not as a
// cryptographic nonce, so wraparound after 2^32 frames is not a correctness
// concern.
var counter uint32

// NewMessageID mints a message id: 8 hex digits of the current Unix second
// followed by 8 hex digits of the shared counter, filling the 16-byte field
// exactly with ASCII hex and no trailing NUL.
func NewMessageID() [16]byte {
	seconds := uint32(nowUnix())
	n := atomic.AddUint32(&counter, 1) - 1

	var id [16]byte
	s := fmt.Sprintf("%08x%08x", seconds, n)
	copy(id[:], s)
	return id
}

func nowUnix() int64 {
	return time.Now().Unix()
}
