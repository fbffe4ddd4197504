package facade

/*
#include <stdint.h>

typedef void (*classroom_broadcast_cb)(uint16_t msg_type, const uint8_t *payload, uint32_t payload_len, void *user_data);

static inline void classroom_invoke_broadcast_cb(classroom_broadcast_cb cb, uint16_t msg_type, const uint8_t *payload, uint32_t payload_len, void *user_data) {
    if (cb != NULL) {
        cb(msg_type, payload, payload_len, user_data);
    }
}
*/
import "C"

import (
	"context"
	"errors"
	"time"
	"unsafe"

	"classroom-net/client"
)

// ClassroomMultiplexerCreate starts a multiplexer over an existing
// connection handle. cb, if non-NULL, is invoked on the multiplexer's
// worker goroutine whenever a broadcast frame (the MsgRoomStatus sentinel)
// arrives; userData is passed back to cb unexamined.
//
//export ClassroomMultiplexerCreate
func ClassroomMultiplexerCreate(connHandle C.int64_t, sessionToken *C.char, cb C.classroom_broadcast_cb, userData unsafe.Pointer, outHandle *C.int64_t) C.int32_t {
	conn, ok := lookupConn(connHandle)
	if !ok {
		return C.int32_t(StatusInvalidHandle)
	}

	var handler client.BroadcastHandler
	if cb != nil {
		handler = func(msgType uint16, payload []byte) {
			var ptr *C.uint8_t
			if len(payload) > 0 {
				ptr = (*C.uint8_t)(unsafe.Pointer(&payload[0]))
			}
			C.classroom_invoke_broadcast_cb(cb, C.uint16_t(msgType), ptr, C.uint32_t(len(payload)), userData)
		}
	}

	opts := []client.Option{}
	if sessionToken != nil {
		opts = append(opts, client.WithSessionToken(C.GoString(sessionToken)))
	}

	m := client.NewMultiplexer(conn, handler, opts...)
	m.Start()
	*outHandle = C.int64_t(multiplexers.put(m))
	return C.int32_t(StatusOK)
}

// ClassroomMultiplexerStop halts the worker, completing any outstanding
// request with ErrQueueStopped, and releases the handle.
//
//export ClassroomMultiplexerStop
func ClassroomMultiplexerStop(multiplexerHandle C.int64_t) C.int32_t {
	v, ok := multiplexers.get(int64(multiplexerHandle))
	if !ok {
		return C.int32_t(StatusInvalidHandle)
	}
	v.(*client.Multiplexer).Stop()
	multiplexers.delete(int64(multiplexerHandle))
	return C.int32_t(StatusOK)
}

// ClassroomMultiplexerSendRequest enqueues (msgType, payload), blocks until
// the reply arrives or timeoutMs elapses (0 waits indefinitely), and copies
// the response payload into outBuf.
//
//export ClassroomMultiplexerSendRequest
func ClassroomMultiplexerSendRequest(multiplexerHandle C.int64_t, msgType C.uint16_t, payload *C.uint8_t, payloadLen C.uint32_t, outBuf *C.uint8_t, outBufLen C.uint32_t, outRespLen *C.uint32_t, timeoutMs C.int32_t) C.int32_t {
	v, ok := multiplexers.get(int64(multiplexerHandle))
	if !ok {
		return C.int32_t(StatusInvalidHandle)
	}
	m := v.(*client.Multiplexer)

	var buf []byte
	if payloadLen > 0 {
		buf = unsafe.Slice((*byte)(unsafe.Pointer(payload)), int(payloadLen))
	}

	ctx := context.Background()
	if timeoutMs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)
		defer cancel()
	}

	resp, err := m.SendRequest(ctx, uint16(msgType), buf)
	if err != nil {
		switch {
		case errors.Is(err, client.ErrTimeout):
			return C.int32_t(StatusTimeout)
		case errors.Is(err, client.ErrConnectionLost):
			return C.int32_t(StatusConnectionLost)
		case errors.Is(err, client.ErrQueueStopped):
			return C.int32_t(StatusInvalidHandle)
		default:
			return C.int32_t(StatusIOError)
		}
	}

	if len(resp) > int(outBufLen) {
		return C.int32_t(StatusBufferTooSmall)
	}
	dst := unsafe.Slice((*byte)(unsafe.Pointer(outBuf)), int(outBufLen))
	copy(dst, resp)
	*outRespLen = C.uint32_t(len(resp))
	return C.int32_t(StatusOK)
}
