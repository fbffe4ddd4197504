// Package directory's etcd backing store: a lease-grant/put/keepalive flow
// for registration, and a prefix-watch-and-refetch design for Watch, keyed
// under /classroom-net/room/{room_id}/{addr}.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
)

// EtcdDirectory implements Directory on top of an etcd v3 client.
type EtcdDirectory struct {
	client *clientv3.Client
}

// NewEtcdDirectory connects to the given etcd endpoints.
func NewEtcdDirectory(endpoints []string) (*EtcdDirectory, error) {
	c, err := clientv3.New(clientv3.Config{Endpoints: endpoints})
	if err != nil {
		return nil, err
	}
	return &EtcdDirectory{client: c}, nil
}

func roomKey(room int32, addr string) string {
	return fmt.Sprintf("/classroom-net/room/%d/%s", room, addr)
}

func roomPrefix(room int32) string {
	return fmt.Sprintf("/classroom-net/room/%d/", room)
}

// Register grants a TTL lease, puts inst under the room's prefix, and
// starts background lease renewal to keep the registration alive.
func (d *EtcdDirectory) Register(room int32, inst Instance, ttl time.Duration) error {
	ctx := context.Background()

	seconds := int64(ttl / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	lease, err := d.client.Grant(ctx, seconds)
	if err != nil {
		return err
	}

	val, err := json.Marshal(inst)
	if err != nil {
		return err
	}

	if _, err := d.client.Put(ctx, roomKey(room, inst.Addr), string(val), clientv3.WithLease(lease.ID)); err != nil {
		return err
	}

	ch, err := d.client.KeepAlive(ctx, lease.ID)
	if err != nil {
		return err
	}
	go func() {
		for range ch {
		}
	}()
	return nil
}

// Deregister removes inst's key immediately instead of waiting for its
// lease to expire.
func (d *EtcdDirectory) Deregister(room int32, addr string) error {
	resp, err := d.client.Delete(context.Background(), roomKey(room, addr))
	if err != nil {
		return err
	}
	if resp.Deleted == 0 {
		return ErrNotFound
	}
	return nil
}

// Lookup fetches every key under room's prefix.
func (d *EtcdDirectory) Lookup(room int32) ([]Instance, error) {
	resp, err := d.client.Get(context.Background(), roomPrefix(room), clientv3.WithPrefix())
	if err != nil {
		return nil, err
	}

	instances := make([]Instance, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		var inst Instance
		if err := json.Unmarshal(kv.Value, &inst); err != nil {
			continue
		}
		instances = append(instances, inst)
	}
	return instances, nil
}

// Watch re-fetches the full instance list on every change under room's
// prefix rather than parsing individual etcd watch events.
func (d *EtcdDirectory) Watch(room int32) <-chan []Instance {
	ch := make(chan []Instance, 1)
	go func() {
		watchChan := d.client.Watch(context.Background(), roomPrefix(room), clientv3.WithPrefix())
		for range watchChan {
			instances, err := d.Lookup(room)
			if err != nil {
				continue
			}
			ch <- instances
		}
	}()
	return ch
}
