// Package broadcast implements the server-side room registry: the mapping
// from a connected client's socket to the room it currently belongs to, and
// the fan-out used to push a frame to every socket in a room.
//
// The registry is the shared-mutable structure in this library — its
// locking discipline is what makes membership changes and broadcasts safe
// under concurrent access from many per-connection worker goroutines. The
// one rule that must never be violated: blocking I/O never happens while
// the lock is held (see BroadcastToRoom).
package broadcast

import (
	"net"
	"sync"

	"classroom-net/protocol"
)

// DefaultCapacity is the fixed number of client slots the registry holds
// when no capacity is specified.
const DefaultCapacity = 100

// LobbyRoom is the sentinel room id clients start in before joining a
// specific room.
const LobbyRoom int32 = 0

type record struct {
	conn   net.Conn
	room   int32
	active bool
}

// Registry maps connected sockets to rooms in a fixed-capacity array. The
// array index is never exposed — callers only ever interact by net.Conn.
type Registry struct {
	mu      sync.Mutex
	records []record
	count   int
}

// NewRegistry creates a registry with room for capacity clients
// (DefaultCapacity if capacity <= 0).
func NewRegistry(capacity int) *Registry {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Registry{records: make([]record, capacity)}
}

// Register adds conn to room. If conn already has an active record, its
// room is updated in place instead of erroring — callers need not
// unregister before moving a known socket to a new room. Returns
// ErrRegistryFull if no slot is free and conn has no existing record.
func (r *Registry) Register(conn net.Conn, room int32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	freeSlot := -1
	for i := range r.records {
		if r.records[i].active && r.records[i].conn == conn {
			r.records[i].room = room
			return nil
		}
		if freeSlot == -1 && !r.records[i].active {
			freeSlot = i
		}
	}

	if freeSlot == -1 {
		return ErrRegistryFull
	}
	r.records[freeSlot] = record{conn: conn, room: room, active: true}
	r.count++
	return nil
}

// Unregister removes conn's record. Calling it again after the first
// successful call returns ErrNotFound — the operation is idempotent in
// effect.
func (r *Registry) Unregister(conn net.Conn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.records {
		if r.records[i].active && r.records[i].conn == conn {
			r.records[i] = record{}
			r.count--
			return nil
		}
	}
	return ErrNotFound
}

// UpdateRoom moves an already-registered conn to newRoom.
func (r *Registry) UpdateRoom(conn net.Conn, newRoom int32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.records {
		if r.records[i].active && r.records[i].conn == conn {
			r.records[i].room = newRoom
			return nil
		}
	}
	return ErrNotFound
}

// ClientCount returns the number of active records.
func (r *Registry) ClientCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// BroadcastToRoom sends (msgType, payload) to every socket currently
// registered under room and returns how many sends succeeded.
//
// The membership scan happens under the lock; the list of target sockets is
// copied into a local slice, the lock is released, and only then does the
// (potentially slow) per-socket send run. A slow or dead peer therefore
// never blocks concurrent Register/Unregister/UpdateRoom calls — this is
// the mandatory lock-then-send-outside discipline.
func (r *Registry) BroadcastToRoom(room int32, msgType uint16, payload []byte) int {
	r.mu.Lock()
	targets := make([]net.Conn, 0, len(r.records))
	for i := range r.records {
		if r.records[i].active && r.records[i].room == room {
			targets = append(targets, r.records[i].conn)
		}
	}
	r.mu.Unlock()

	delivered := 0
	for _, conn := range targets {
		if _, _, err := protocol.SendMessage(conn, msgType, payload, ""); err == nil {
			delivered++
		}
	}
	return delivered
}
