//go:build !unix

package transport

import (
	"net"
	"syscall"
	"time"
)

// controlReuseAddr is a no-op on platforms without the unix build tag
// (Windows's SO_REUSEADDR has different, less safe semantics than POSIX's,
// so we deliberately don't set it there — a second bind to the same port
// fails as it would with a plain net.Listen).
func controlReuseAddr(network, address string, c syscall.RawConn) error {
	return nil
}

// IsAlive falls back to a zero-duration read deadline probe: it cannot peek
// without consuming a byte on this build, so it only distinguishes "peer
// definitely closed" (EOF) from "anything else" (assumed alive). Good
// enough for liveness checks between protocol reads, not a full MSG_PEEK
// equivalent — see the unix implementation for the faithful version.
func IsAlive(conn net.Conn) bool {
	type deadliner interface {
		SetReadDeadline(time.Time) error
	}
	d, ok := conn.(deadliner)
	if !ok {
		return true
	}
	_ = d.SetReadDeadline(time.Now())
	defer d.SetReadDeadline(time.Time{})

	buf := make([]byte, 0)
	_, err := conn.Read(buf)
	if err == nil {
		return true
	}
	ne, ok := err.(net.Error)
	if ok && ne.Timeout() {
		return true
	}
	return false
}
