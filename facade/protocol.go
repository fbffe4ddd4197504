package facade

/*
#include <stdint.h>
*/
import "C"

import (
	"net"
	"unsafe"

	"classroom-net/protocol"
)

// ClassroomSendMessage builds a frame header for msgType/payload/sessionToken
// and writes it in full to the connection.
//
//export ClassroomSendMessage
func ClassroomSendMessage(connHandle C.int64_t, msgType C.uint16_t, payload *C.uint8_t, payloadLen C.uint32_t, sessionToken *C.char) C.int32_t {
	v, ok := conns.get(int64(connHandle))
	if !ok {
		return C.int32_t(StatusInvalidHandle)
	}
	conn := v.(net.Conn)

	var buf []byte
	if payloadLen > 0 {
		buf = unsafe.Slice((*byte)(unsafe.Pointer(payload)), int(payloadLen))
	}

	token := ""
	if sessionToken != nil {
		token = C.GoString(sessionToken)
	}

	if _, _, err := protocol.SendMessage(conn, uint16(msgType), buf, token); err != nil {
		return C.int32_t(StatusIOError)
	}
	return C.int32_t(StatusOK)
}

// ClassroomReceiveMessage reads one frame, writing its payload into outBuf
// (outBufLen must be at least the wire payload length plus one, for the
// NUL sentinel protocol.ReceiveMessage appends) and reporting the decoded
// msg_type and payload length through the out-parameters.
//
//export ClassroomReceiveMessage
func ClassroomReceiveMessage(connHandle C.int64_t, outBuf *C.uint8_t, outBufLen C.uint32_t, outMsgType *C.uint16_t, outPayloadLen *C.uint32_t) C.int32_t {
	v, ok := conns.get(int64(connHandle))
	if !ok {
		return C.int32_t(StatusInvalidHandle)
	}
	conn := v.(net.Conn)

	buf := unsafe.Slice((*byte)(unsafe.Pointer(outBuf)), int(outBufLen))
	header, n, err := protocol.ReceiveMessage(conn, buf)
	if err != nil {
		if err == protocol.ErrBufferTooSmall {
			return C.int32_t(StatusBufferTooSmall)
		}
		return C.int32_t(StatusIOError)
	}

	*outMsgType = C.uint16_t(header.MsgType)
	*outPayloadLen = C.uint32_t(n)
	return C.int32_t(StatusOK)
}
