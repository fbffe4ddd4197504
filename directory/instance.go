// Package directory implements the cluster directory: the mapping from a
// room id to the classroom-server instance(s) currently hosting it. It is
// the network-routing question "which address does connect() dial" lifted
// one level above transport.ConnectToServer's single fixed instance, for
// deployments that run more than one server process behind a pool of
// machines. The package knows nothing about what a room actually does.
package directory

import "time"

// Instance describes one running classroom-server process.
type Instance struct {
	Addr    string // host:port, dialable with transport.ConnectToServer
	Weight  int    // relative capacity, consumed by WeightedRandomBalancer
	Version string
}

// Directory is the interface satisfied by both the etcd-backed and
// in-memory implementations.
type Directory interface {
	// Register advertises inst as hosting room for the given ttl. Calling
	// it again for the same (room, inst.Addr) refreshes the lease.
	Register(room int32, inst Instance, ttl time.Duration) error
	// Deregister removes inst.Addr from room's instance list.
	Deregister(room int32, addr string) error
	// Lookup returns every instance currently hosting room.
	Lookup(room int32) ([]Instance, error)
	// Watch returns a channel that emits room's full instance list whenever
	// it changes. Closing is implementation-defined; callers should treat a
	// closed channel as "stop watching".
	Watch(room int32) <-chan []Instance
}
