package protocol

import "errors"

// Validation and framing errors, distinguished by origin so a peer can log
// the specific cause rather than a single generic "bad frame" error.
var (
	ErrBadMagic         = errors.New("protocol: bad magic number")
	ErrVersionMismatch  = errors.New("protocol: version mismatch")
	ErrPayloadTooLarge  = errors.New("protocol: payload exceeds maximum size")
	ErrBufferTooSmall   = errors.New("protocol: receive buffer too small for payload")
	ErrHeaderWriteFailed  = errors.New("protocol: header write failed")
	ErrPayloadWriteFailed = errors.New("protocol: payload write failed")
	ErrHeaderReadFailed   = errors.New("protocol: header read failed")
	ErrPayloadReadFailed  = errors.New("protocol: payload read failed")
)
