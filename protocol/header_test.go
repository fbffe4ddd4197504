package protocol

import "testing"

func TestBuildHeaderValidates(t *testing.T) {
	h := BuildHeader(MsgRoomStatus, 9, "tok-123")
	buf := encode(&h)
	got, magic, version := decode(buf)

	if err := Validate(&got, magic, version); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
	if got.MsgType != MsgRoomStatus {
		t.Errorf("MsgType = %#x, want %#x", got.MsgType, MsgRoomStatus)
	}
	if got.PayloadLength != 9 {
		t.Errorf("PayloadLength = %d, want 9", got.PayloadLength)
	}
	if got.Token() != "tok-123" {
		t.Errorf("Token() = %q, want %q", got.Token(), "tok-123")
	}
}

func TestValidateBadMagic(t *testing.T) {
	h := BuildHeader(0, 0, "")
	if err := Validate(&h, 0xdeadbeef, Version); err != ErrBadMagic {
		t.Errorf("Validate() = %v, want ErrBadMagic", err)
	}
}

func TestValidateVersionMismatch(t *testing.T) {
	h := BuildHeader(0, 0, "")
	if err := Validate(&h, Magic, 0x0200); err != ErrVersionMismatch {
		t.Errorf("Validate() = %v, want ErrVersionMismatch", err)
	}
}

func TestValidatePayloadTooLarge(t *testing.T) {
	h := BuildHeader(0, MaxPayloadSize+1, "")
	if err := Validate(&h, Magic, Version); err != ErrPayloadTooLarge {
		t.Errorf("Validate() = %v, want ErrPayloadTooLarge", err)
	}
}

func TestTokenFillsFieldWithoutTrailingNUL(t *testing.T) {
	full := "12345678901234567890123456789012" // 32 chars
	if len(full) != SessionTokenSize {
		t.Fatalf("test fixture token is %d chars, want %d", len(full), SessionTokenSize)
	}
	h := BuildHeader(0, 0, full)
	for _, b := range h.SessionToken {
		if b == 0 {
			t.Fatalf("expected no NUL byte in a fully-packed token field")
		}
	}
	if h.Token() != full {
		t.Errorf("Token() = %q, want %q", h.Token(), full)
	}
}

func TestPaddingAndReservedAreZero(t *testing.T) {
	h := BuildHeader(MsgHeartbeat, 0, "x")
	buf := encode(&h)
	for _, r := range [][2]int{{offsetPadding1, offsetPadding1 + 4}, {offsetReserved, offsetReserved + 12}, {offsetPadding2, offsetPadding2 + 4}} {
		for i := r[0]; i < r[1]; i++ {
			if buf[i] != 0 {
				t.Errorf("byte %d = %#x, want 0 (padding/reserved)", i, buf[i])
			}
		}
	}
}

func TestMessageIDIsSixteenHexBytesNoTrailingNUL(t *testing.T) {
	id := NewMessageID()
	for i, b := range id {
		isHexDigit := (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f')
		if !isHexDigit {
			t.Fatalf("byte %d = %#x, not an ASCII hex digit", i, b)
		}
	}
}

func TestMessageIDCounterIncrementsAndIsUnique(t *testing.T) {
	a := NewMessageID()
	b := NewMessageID()
	if a == b {
		t.Errorf("two consecutive message ids collided: %x", a)
	}
}
