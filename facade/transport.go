package facade

/*
#include <stdint.h>
*/
import "C"

import (
	"net"
	"unsafe"

	"classroom-net/transport"
)

// ClassroomCreateListener binds 0.0.0.0:port and starts listening, handing
// back an opaque handle for ClassroomAccept and ClassroomCloseListener.
//
//export ClassroomCreateListener
func ClassroomCreateListener(port C.int, backlog C.int, outHandle *C.int64_t) C.int32_t {
	ln, err := transport.CreateServer(int(port), int(backlog))
	if err != nil {
		return C.int32_t(StatusIOError)
	}
	*outHandle = C.int64_t(listeners.put(ln))
	return C.int32_t(StatusOK)
}

// ClassroomCloseListener stops accepting new connections on the listener
// and releases its handle.
//
//export ClassroomCloseListener
func ClassroomCloseListener(listenerHandle C.int64_t) C.int32_t {
	v, ok := listeners.get(int64(listenerHandle))
	if !ok {
		return C.int32_t(StatusInvalidHandle)
	}
	ln := v.(*net.TCPListener)
	ln.Close()
	listeners.delete(int64(listenerHandle))
	return C.int32_t(StatusOK)
}

// ClassroomAccept blocks until a connection arrives on the listener and
// hands back a connection handle.
//
//export ClassroomAccept
func ClassroomAccept(listenerHandle C.int64_t, outConnHandle *C.int64_t) C.int32_t {
	v, ok := listeners.get(int64(listenerHandle))
	if !ok {
		return C.int32_t(StatusInvalidHandle)
	}
	ln := v.(*net.TCPListener)

	conn, err := transport.Accept(ln)
	if err != nil {
		return C.int32_t(StatusIOError)
	}
	*outConnHandle = C.int64_t(conns.put(conn))
	return C.int32_t(StatusOK)
}

// ClassroomConnect dials host:port and hands back a connection handle.
//
//export ClassroomConnect
func ClassroomConnect(host *C.char, port C.int, outConnHandle *C.int64_t) C.int32_t {
	conn, err := transport.ConnectToServer(C.GoString(host), int(port))
	if err != nil {
		return C.int32_t(StatusIOError)
	}
	*outConnHandle = C.int64_t(conns.put(conn))
	return C.int32_t(StatusOK)
}

// ClassroomCloseConn closes and releases a connection handle.
//
//export ClassroomCloseConn
func ClassroomCloseConn(connHandle C.int64_t) C.int32_t {
	v, ok := conns.get(int64(connHandle))
	if !ok {
		return C.int32_t(StatusInvalidHandle)
	}
	conn := v.(net.Conn)
	conn.Close()
	conns.delete(int64(connHandle))
	return C.int32_t(StatusOK)
}

// Direction constants mirror transport.TimeoutDirection for the C side.
const (
	DirectionRecv C.int = 0
	DirectionSend C.int = 1
	DirectionBoth C.int = 2
)

// ClassroomSetTimeout sets a read/write/both deadline of the given whole
// seconds on a connection (0 clears it).
//
//export ClassroomSetTimeout
func ClassroomSetTimeout(connHandle C.int64_t, seconds C.int, direction C.int) C.int32_t {
	v, ok := conns.get(int64(connHandle))
	if !ok {
		return C.int32_t(StatusInvalidHandle)
	}
	conn := v.(net.Conn)
	if err := transport.SetTimeout(conn, int(seconds), transport.TimeoutDirection(direction)); err != nil {
		return C.int32_t(StatusIOError)
	}
	return C.int32_t(StatusOK)
}

// ClassroomPeerIP writes the connection's dotted-quad remote address into
// outBuf (NUL-terminated), failing with StatusBufferTooSmall if it doesn't
// fit.
//
//export ClassroomPeerIP
func ClassroomPeerIP(connHandle C.int64_t, outBuf *C.char, bufLen C.int) C.int32_t {
	v, ok := conns.get(int64(connHandle))
	if !ok {
		return C.int32_t(StatusInvalidHandle)
	}
	conn := v.(net.Conn)
	ip, err := transport.PeerIP(conn)
	if err != nil {
		return C.int32_t(StatusIOError)
	}
	if len(ip)+1 > int(bufLen) {
		return C.int32_t(StatusBufferTooSmall)
	}
	dst := unsafe.Slice((*byte)(unsafe.Pointer(outBuf)), int(bufLen))
	copy(dst, ip)
	dst[len(ip)] = 0
	return C.int32_t(StatusOK)
}
