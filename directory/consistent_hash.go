package directory

import (
	"fmt"
	"hash/crc32"
	"sort"
)

// ConsistentHashBalancer maps a room's instances onto a hash ring with
// virtual nodes. Useful when a room's clients should keep hitting the same
// instance across reconnects (cache affinity) rather than round-robining.
type ConsistentHashBalancer struct {
	replicas int
	ring     []uint32
	nodes    map[uint32]*Instance
}

// NewConsistentHashBalancer creates a hash ring with 100 virtual nodes per
// instance.
func NewConsistentHashBalancer() *ConsistentHashBalancer {
	return &ConsistentHashBalancer{
		replicas: 100,
		nodes:    make(map[uint32]*Instance),
	}
}

// Add places an instance onto the hash ring.
func (b *ConsistentHashBalancer) Add(inst *Instance) {
	for i := 0; i < b.replicas; i++ {
		key := fmt.Sprintf("%s#%d", inst.Addr, i)
		hash := crc32.ChecksumIEEE([]byte(key))
		b.ring = append(b.ring, hash)
		b.nodes[hash] = inst
	}
	sort.Slice(b.ring, func(i, j int) bool { return b.ring[i] < b.ring[j] })
}

// PickForKey finds the instance responsible for key. Consistent hashing is
// key-based rather than list-based, so it does not implement the Balancer
// interface directly.
func (b *ConsistentHashBalancer) PickForKey(key string) (*Instance, error) {
	if len(b.ring) == 0 {
		return nil, ErrInstanceUnreachable
	}

	hash := crc32.ChecksumIEEE([]byte(key))
	idx := sort.Search(len(b.ring), func(i int) bool { return b.ring[i] >= hash })
	if idx == len(b.ring) {
		idx = 0
	}
	return b.nodes[b.ring[idx]], nil
}

func (b *ConsistentHashBalancer) Name() string {
	return "ConsistentHash"
}
