package facade

/*
#include <stdint.h>

// Returns 1 if a reply frame was produced (reply_len/reply_msg_type set),
// 0 for no reply, negative on error.
typedef int (*classroom_frame_handler)(uint16_t msg_type, const uint8_t *payload, uint32_t payload_len,
                                        uint8_t *reply_buf, uint32_t reply_buf_len,
                                        uint32_t *reply_len, uint16_t *reply_msg_type, void *user_data);

static inline int classroom_invoke_frame_handler(classroom_frame_handler h, uint16_t msg_type,
                                                   const uint8_t *payload, uint32_t payload_len,
                                                   uint8_t *reply_buf, uint32_t reply_buf_len,
                                                   uint32_t *reply_len, uint16_t *reply_msg_type, void *user_data) {
    return h(msg_type, payload, payload_len, reply_buf, reply_buf_len, reply_len, reply_msg_type, user_data);
}
*/
import "C"

import (
	"context"
	"fmt"
	"net"
	"time"
	"unsafe"

	"classroom-net/pipeline"
	"classroom-net/protocol"
	"classroom-net/server"
)

// replyScratchSize bounds the per-frame reply buffer handed to a C frame
// handler; it matches protocol.MaxPayloadSize so any legal reply fits.
const replyScratchSize = int(protocol.MaxPayloadSize)

// ClassroomDispatcherCreate wraps handlerCb as the dispatcher's base frame
// handler. handlerCb is invoked once per decoded frame, on a goroutine the
// dispatcher starts for that frame, so calls for several frames (also from
// one connection) may run concurrently.
//
//export ClassroomDispatcherCreate
func ClassroomDispatcherCreate(handlerCb C.classroom_frame_handler, userData unsafe.Pointer, outHandle *C.int64_t) C.int32_t {
	if handlerCb == nil {
		return C.int32_t(StatusInvalidArgument)
	}

	handler := pipeline.Handler(func(ctx context.Context, header *protocol.Header, payload []byte) (*protocol.Header, []byte, error) {
		replyBuf := make([]byte, replyScratchSize)

		var payloadPtr *C.uint8_t
		if len(payload) > 0 {
			payloadPtr = (*C.uint8_t)(unsafe.Pointer(&payload[0]))
		}

		var replyLen C.uint32_t
		var replyMsgType C.uint16_t
		rc := C.classroom_invoke_frame_handler(
			handlerCb,
			C.uint16_t(header.MsgType), payloadPtr, C.uint32_t(len(payload)),
			(*C.uint8_t)(unsafe.Pointer(&replyBuf[0])), C.uint32_t(len(replyBuf)),
			&replyLen, &replyMsgType, userData,
		)
		if rc < 0 {
			return nil, nil, fmt.Errorf("facade: frame handler returned %d", int(rc))
		}
		if rc == 0 {
			return nil, nil, nil
		}

		replyHeader := protocol.BuildHeader(uint16(replyMsgType), uint32(replyLen), header.Token())
		return &replyHeader, replyBuf[:replyLen], nil
	})

	d := server.NewDispatcher(handler)
	*outHandle = C.int64_t(dispatchers.put(d))
	return C.int32_t(StatusOK)
}

// Middleware kind constants for ClassroomDispatcherUseMiddleware.
const (
	MiddlewareLogging   C.int = 0
	MiddlewareRateLimit C.int = 1
	MiddlewareTimeout   C.int = 2
)

// ClassroomDispatcherUseMiddleware registers one of the built-in pipeline
// middlewares. For MiddlewareRateLimit, param1 is the rate (frames/sec,
// truncated to an integer) and param2 is the burst size. For
// MiddlewareTimeout, param1 is the timeout in milliseconds. MiddlewareLogging
// ignores both.
//
//export ClassroomDispatcherUseMiddleware
func ClassroomDispatcherUseMiddleware(dispatcherHandle C.int64_t, kind C.int, param1 C.int, param2 C.int) C.int32_t {
	v, ok := dispatchers.get(int64(dispatcherHandle))
	if !ok {
		return C.int32_t(StatusInvalidHandle)
	}
	d := v.(*server.Dispatcher)

	switch kind {
	case MiddlewareLogging:
		d.Use(pipeline.Logging())
	case MiddlewareRateLimit:
		d.Use(pipeline.RateLimit(float64(param1), int(param2)))
	case MiddlewareTimeout:
		d.Use(pipeline.Timeout(time.Duration(param1) * time.Millisecond))
	default:
		return C.int32_t(StatusInvalidArgument)
	}
	return C.int32_t(StatusOK)
}

// ClassroomDispatcherRun blocks the calling thread in the accept loop until
// ClassroomDispatcherShutdown is called from another thread. Host code
// should call this from a dedicated thread.
//
//export ClassroomDispatcherRun
func ClassroomDispatcherRun(dispatcherHandle C.int64_t, listenerHandle C.int64_t) C.int32_t {
	dv, ok := dispatchers.get(int64(dispatcherHandle))
	if !ok {
		return C.int32_t(StatusInvalidHandle)
	}
	lv, ok := listeners.get(int64(listenerHandle))
	if !ok {
		return C.int32_t(StatusInvalidHandle)
	}

	d := dv.(*server.Dispatcher)
	ln := lv.(*net.TCPListener)
	if err := d.Run(ln); err != nil {
		return C.int32_t(StatusIOError)
	}
	return C.int32_t(StatusOK)
}

// ClassroomDispatcherShutdown stops accepting connections and waits up to
// timeoutMs for in-flight frames to drain.
//
//export ClassroomDispatcherShutdown
func ClassroomDispatcherShutdown(dispatcherHandle C.int64_t, timeoutMs C.int) C.int32_t {
	v, ok := dispatchers.get(int64(dispatcherHandle))
	if !ok {
		return C.int32_t(StatusInvalidHandle)
	}
	d := v.(*server.Dispatcher)
	if err := d.Shutdown(time.Duration(timeoutMs) * time.Millisecond); err != nil {
		return C.int32_t(StatusTimeout)
	}
	dispatchers.delete(int64(dispatcherHandle))
	return C.int32_t(StatusOK)
}
