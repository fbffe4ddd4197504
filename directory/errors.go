package directory

import "errors"

var (
	// ErrNotFound is returned by Deregister when no matching instance is
	// registered under the given room.
	ErrNotFound = errors.New("directory: instance not found")
	// ErrInstanceUnreachable is returned by a Balancer when the instance
	// list handed to Pick is empty.
	ErrInstanceUnreachable = errors.New("directory: no instances available")
)
