package protocol

import (
	"fmt"
	"io"

	"classroom-net/transport"
)

// SendMessage builds a header for (msgType, payload, sessionToken), writes
// the 88-byte header in full, then writes exactly len(payload) bytes.
// Either write returning short — because the peer closed mid-write — is
// reported as a distinct, origin-specific error so a caller can tell a dead
// header write from a dead payload write. It returns the header that was
// actually sent (including the freshly minted message id) and the total
// byte count written.
func SendMessage(w io.Writer, msgType uint16, payload []byte, sessionToken string) (*Header, int, error) {
	if uint32(len(payload)) > MaxPayloadSize {
		return nil, 0, ErrPayloadTooLarge
	}

	h := BuildHeader(msgType, uint32(len(payload)), sessionToken)
	buf := encode(&h)

	if err := transport.WriteFull(w, buf); err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrHeaderWriteFailed, err)
	}
	if len(payload) > 0 {
		if err := transport.WriteFull(w, payload); err != nil {
			return nil, HeaderSize, fmt.Errorf("%w: %w", ErrPayloadWriteFailed, err)
		}
	}
	return &h, HeaderSize + len(payload), nil
}

// ReceiveMessage reads exactly 88 header bytes, validates them, then reads
// exactly payload_length bytes into buf. buf must have at least
// payload_length+1 bytes of capacity — the extra byte lets the payload be
// treated as a NUL-terminated C string by text payloads, per §4.1. The
// returned length is always the raw payload length and never includes that
// sentinel byte; callers must trust it, not look for the NUL.
func ReceiveMessage(r io.Reader, buf []byte) (*Header, int, error) {
	headerBuf := make([]byte, HeaderSize)
	if err := transport.ReadFull(r, headerBuf); err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrHeaderReadFailed, err)
	}

	h, magic, version := decode(headerBuf)
	if err := Validate(&h, magic, version); err != nil {
		return nil, 0, err
	}

	if h.PayloadLength > 0 && int(h.PayloadLength) > len(buf)-1 {
		return nil, 0, ErrBufferTooSmall
	}

	if h.PayloadLength > 0 {
		if err := transport.ReadFull(r, buf[:h.PayloadLength]); err != nil {
			return nil, 0, fmt.Errorf("%w: %w", ErrPayloadReadFailed, err)
		}
	}
	buf[h.PayloadLength] = 0 // NUL sentinel, not counted in the returned length

	return &h, int(h.PayloadLength), nil
}
