package codec

import (
	"encoding/binary"
	"errors"
)

// BinaryCodec implements a custom binary serialization for Envelope.
//
// Binary format:
//
//	┌──────────┬──────────────┬─────────┐
//	│ Code(4)  │ BodyLen(4)   │ Body    │
//	└──────────┴──────────────┴─────────┘
//
// Benchmark against JSONCodec for the same envelope: binary avoids field
// name and string escaping overhead entirely, at the cost of being
// opaque on the wire without this package's own decoder.
type BinaryCodec struct{}

func (c *BinaryCodec) Encode(v any) ([]byte, error) {
	env, ok := v.(*Envelope)
	if !ok {
		return nil, errors.New("BinaryCodec: v must be *Envelope")
	}

	total := 4 + 4 + len(env.Body)
	buf := make([]byte, total)

	offset := 0
	binary.BigEndian.PutUint32(buf[offset:offset+4], uint32(env.Code))
	offset += 4

	binary.BigEndian.PutUint32(buf[offset:offset+4], uint32(len(env.Body)))
	offset += 4
	copy(buf[offset:offset+len(env.Body)], env.Body)

	return buf, nil
}

func (c *BinaryCodec) Decode(data []byte, v any) error {
	env, ok := v.(*Envelope)
	if !ok {
		return errors.New("BinaryCodec: v must be *Envelope")
	}
	if len(data) < 8 {
		return errors.New("BinaryCodec: truncated envelope header")
	}

	offset := 0
	env.Code = int32(binary.BigEndian.Uint32(data[offset : offset+4]))
	offset += 4

	bodyLen := binary.BigEndian.Uint32(data[offset : offset+4])
	offset += 4
	if uint32(len(data)-offset) < bodyLen {
		return errors.New("BinaryCodec: truncated envelope body")
	}
	env.Body = make([]byte, bodyLen)
	copy(env.Body, data[offset:offset+int(bodyLen)])

	return nil
}

func (c *BinaryCodec) Type() CodecType {
	return CodecTypeBinary
}
