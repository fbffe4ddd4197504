// Package facade is a thin cgo adapter: a stable, C-callable function
// surface over transport, protocol, broadcast,
// server, client, and the cluster directory, so a host application written
// in another language can drive the library without reimplementing framing
// or threading. It holds no state of its own beyond the handle tables that
// let C code reference Go values across the cgo boundary; every exported
// function is a direct pass-through to the corresponding Go package.
//
// No classroom business logic — room creation, auth, test flow — is
// implemented anywhere in this package or the packages it wraps.
//
// Build with CGO_ENABLED=1 and a C compiler; use `go build -buildmode=c-archive`
// or `c-shared` to produce a library another language can link against.
package facade

// Status is the C-visible result code every exported function returns.
type Status = int32

const (
	StatusOK                Status = 0
	StatusInvalidHandle     Status = 1
	StatusIOError           Status = 2
	StatusBufferTooSmall    Status = 3
	StatusRegistryFull      Status = 4
	StatusNotFound          Status = 5
	StatusTimeout           Status = 6
	StatusConnectionLost    Status = 7
	StatusInvalidArgument   Status = 8
)
