// Package protocol implements the fixed-layout binary frame protocol shared
// by the classroom server and its clients.
//
// Every frame on the wire is header ‖ payload. The header is exactly 88
// bytes, all multi-byte integer fields big-endian except the timestamp,
// which is in host byte order, so the receiver always
// knows exactly how many more bytes to read for the payload — this is what
// solves TCP's sticky-packet problem without a delimiter.
//
//	 0        4  6  8        12              28   32        40                72           84  88
//	┌────────┬──┬──┬────────┬───────────────┬────┬─────────┬────────────────┬────────────┬────┐
//	│ magic  │ve│mt│payload │  message_id   │pad │timestamp│ session_token  │  reserved  │pad │
//	│ u32 BE │u16│u16│ u32BE │   16 bytes    │ 4B │  i64    │    32 bytes    │   12 bytes │ 4B │
//	└────────┴──┴──┴────────┴───────────────┴────┴─────────┴────────────────┴────────────┴────┘
package protocol

import (
	"encoding/binary"
)

const (
	// Magic identifies a classroom-net frame; ASCII "TAP1".
	Magic uint32 = 0x54415031
	// Version is the only wire version this package understands.
	Version uint16 = 0x0100

	// HeaderSize is the fixed on-the-wire header length in bytes.
	HeaderSize = 88

	// MaxPayloadSize is the ceiling enforced on every received payload_length.
	MaxPayloadSize uint32 = 1 << 20 // 1,048,576 bytes

	// SessionTokenSize is the fixed width of the session_token field.
	SessionTokenSize = 32

	offsetMagic     = 0
	offsetVersion   = 4
	offsetMsgType   = 6
	offsetPayloadLn = 8
	offsetMessageID = 12
	offsetPadding1  = 28
	offsetTimestamp = 32
	offsetToken     = 40
	offsetReserved  = 72
	offsetPadding2  = 84
)

// MsgRoomStatus is the broadcast sentinel: the client multiplexer classifies
// any frame with this message type as a server-pushed event rather than a
// reply to a pending request (§4.5).
const MsgRoomStatus uint16 = 0x003A

// Header is the decoded form of the 88-byte frame header.
type Header struct {
	MsgType       uint16
	PayloadLength uint32
	MessageID     [16]byte
	Timestamp     int64
	SessionToken  [SessionTokenSize]byte
}

// Token returns the session token as a Go string, stopping at the first NUL
// byte if the token did not fill the full 32-byte field.
func (h *Header) Token() string {
	n := 0
	for n < SessionTokenSize && h.SessionToken[n] != 0 {
		n++
	}
	return string(h.SessionToken[:n])
}

// BuildHeader constructs a fresh header for an outbound frame: it stamps the
// current Unix time, mints a new message id, and copies up to 32 bytes of
// sessionToken (NUL-padded, never NUL-terminated if it exactly fills the
// field — callers must not assume a trailing NUL).
func BuildHeader(msgType uint16, payloadLength uint32, sessionToken string) Header {
	h := Header{
		MsgType:       msgType,
		PayloadLength: payloadLength,
		MessageID:     NewMessageID(),
		Timestamp:     nowUnix(),
	}
	n := copy(h.SessionToken[:], sessionToken)
	_ = n // copy already truncates to SessionTokenSize and zero-pads the rest
	return h
}

// Validate checks the invariants that must hold for any header accepted off
// the wire: magic tag, protocol version, and payload size ceiling.
func Validate(h *Header, magic uint32, version uint16) error {
	if magic != Magic {
		return ErrBadMagic
	}
	if version != Version {
		return ErrVersionMismatch
	}
	if h.PayloadLength > MaxPayloadSize {
		return ErrPayloadTooLarge
	}
	return nil
}

// encode serializes h into the fixed 88-byte wire layout.
func encode(h *Header) []byte {
	buf := make([]byte, HeaderSize)
	binary.BigEndian.PutUint32(buf[offsetMagic:], Magic)
	binary.BigEndian.PutUint16(buf[offsetVersion:], Version)
	binary.BigEndian.PutUint16(buf[offsetMsgType:], h.MsgType)
	binary.BigEndian.PutUint32(buf[offsetPayloadLn:], h.PayloadLength)
	copy(buf[offsetMessageID:offsetMessageID+16], h.MessageID[:])
	// buf[offsetPadding1:offsetPadding1+4] left zero.
	binary.NativeEndian.PutUint64(buf[offsetTimestamp:], uint64(h.Timestamp))
	copy(buf[offsetToken:offsetToken+SessionTokenSize], h.SessionToken[:])
	// buf[offsetReserved:offsetReserved+12] and buf[offsetPadding2:] left zero.
	return buf
}

// decode parses an 88-byte wire buffer into a Header. It does not validate
// magic/version/size — callers pass the raw magic/version through to
// Validate so BadMagic and VersionMismatch stay distinguishable.
func decode(buf []byte) (h Header, magic uint32, version uint16) {
	magic = binary.BigEndian.Uint32(buf[offsetMagic:])
	version = binary.BigEndian.Uint16(buf[offsetVersion:])
	h.MsgType = binary.BigEndian.Uint16(buf[offsetMsgType:])
	h.PayloadLength = binary.BigEndian.Uint32(buf[offsetPayloadLn:])
	copy(h.MessageID[:], buf[offsetMessageID:offsetMessageID+16])
	h.Timestamp = int64(binary.NativeEndian.Uint64(buf[offsetTimestamp:]))
	copy(h.SessionToken[:], buf[offsetToken:offsetToken+SessionTokenSize])
	return h, magic, version
}
