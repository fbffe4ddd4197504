//go:build unix

package transport

import (
	"errors"
	"net"
	"syscall"

	"golang.org/x/sys/unix"
)

// controlReuseAddr sets SO_REUSEADDR on the listening socket before bind, so
// a restarted server doesn't fail to bind while the previous socket sits in
// TIME_WAIT.
func controlReuseAddr(network, address string, c syscall.RawConn) error {
	var sockErr error
	err := c.Control(func(fd uintptr) {
		sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
	})
	if err != nil {
		return err
	}
	return sockErr
}

// IsAlive does a non-blocking single-byte MSG_PEEK and classifies the
// result: zero bytes means the peer closed, EWOULDBLOCK/EAGAIN means the
// connection is alive and idle, any other error means the connection is
// dead. The peek never consumes the byte, so it is safe to call between
// reads of the framing protocol.
func IsAlive(conn net.Conn) bool {
	sc, ok := conn.(syscall.Conn)
	if !ok {
		return true
	}
	raw, err := sc.SyscallConn()
	if err != nil {
		return true
	}

	peek := make([]byte, 1)
	var n int
	var recvErr error
	ctrlErr := raw.Read(func(fd uintptr) bool {
		n, _, recvErr = unix.Recvfrom(int(fd), peek, unix.MSG_PEEK)
		return true // don't wait for readiness — we want the immediate result
	})
	if ctrlErr != nil {
		return false
	}
	if recvErr == nil {
		return n > 0
	}
	if errors.Is(recvErr, unix.EAGAIN) || errors.Is(recvErr, unix.EWOULDBLOCK) {
		return true
	}
	return false
}
