package broadcast

import "errors"

var (
	// ErrRegistryFull reports that Register found no inactive slot.
	ErrRegistryFull = errors.New("broadcast: registry is full")
	// ErrNotFound reports that Unregister/UpdateRoom's target socket is not
	// present in the registry (including repeat calls after the first
	// successful Unregister — the operation is idempotent in effect).
	ErrNotFound = errors.New("broadcast: client not registered")
)
