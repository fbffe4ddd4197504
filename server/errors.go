package server

import "errors"

var (
	// ErrNotRunning is returned by Shutdown when the dispatcher was never
	// started with Run.
	ErrNotRunning = errors.New("server: dispatcher is not running")
	// ErrShutdownTimeout is returned by Shutdown when in-flight connections
	// do not drain before the caller's deadline.
	ErrShutdownTimeout = errors.New("server: timed out waiting for connections to drain")
)
