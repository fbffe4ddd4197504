package transport

import "errors"

// Errors returned by the socket primitives, distinguished by origin.
var (
	ErrSocketCreate  = errors.New("transport: socket create failed")
	ErrSocketBind    = errors.New("transport: socket bind failed")
	ErrSocketListen  = errors.New("transport: socket listen failed")
	ErrSocketConnect = errors.New("transport: socket connect failed")
	ErrSocketAccept  = errors.New("transport: socket accept failed")

	// ErrPeerClosed reports that a full-buffer read returned zero bytes
	// before the requested count was reached — the peer closed the
	// connection mid-transfer.
	ErrPeerClosed = errors.New("transport: peer closed connection")

	// ErrInvalidHost reports that a host string was not a dotted-quad IPv4
	// address; this transport is IPv4-only.
	ErrInvalidHost = errors.New("transport: host is not a dotted-quad IPv4 address")
)
