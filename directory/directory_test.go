package directory

import (
	"errors"
	"testing"
	"time"
)

func TestMemoryDirectoryRegisterLookup(t *testing.T) {
	d := NewMemoryDirectory()
	if err := d.Register(1, Instance{Addr: "127.0.0.1:9001"}, time.Minute); err != nil {
		t.Fatalf("Register: %v", err)
	}

	instances, err := d.Lookup(1)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if len(instances) != 1 || instances[0].Addr != "127.0.0.1:9001" {
		t.Fatalf("Lookup = %+v", instances)
	}
}

func TestMemoryDirectoryReregisterRefreshes(t *testing.T) {
	d := NewMemoryDirectory()
	inst := Instance{Addr: "127.0.0.1:9001", Weight: 1}
	if err := d.Register(1, inst, 50*time.Millisecond); err != nil {
		t.Fatalf("Register: %v", err)
	}
	// Refresh before the short ttl would expire it.
	if err := d.Register(1, inst, time.Minute); err != nil {
		t.Fatalf("Register (refresh): %v", err)
	}

	time.Sleep(100 * time.Millisecond)
	instances, _ := d.Lookup(1)
	if len(instances) != 1 {
		t.Fatalf("expect the refreshed registration to still be present, got %+v", instances)
	}
}

func TestMemoryDirectoryExpires(t *testing.T) {
	d := NewMemoryDirectory()
	if err := d.Register(1, Instance{Addr: "127.0.0.1:9001"}, 20*time.Millisecond); err != nil {
		t.Fatalf("Register: %v", err)
	}

	time.Sleep(80 * time.Millisecond)
	instances, _ := d.Lookup(1)
	if len(instances) != 0 {
		t.Fatalf("expect the registration to have expired, got %+v", instances)
	}
}

func TestMemoryDirectoryDeregisterNotFound(t *testing.T) {
	d := NewMemoryDirectory()
	if err := d.Deregister(1, "127.0.0.1:9001"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMemoryDirectoryWatch(t *testing.T) {
	d := NewMemoryDirectory()
	ch := d.Watch(1)

	if err := d.Register(1, Instance{Addr: "127.0.0.1:9001"}, time.Minute); err != nil {
		t.Fatalf("Register: %v", err)
	}

	select {
	case instances := <-ch:
		if len(instances) != 1 {
			t.Fatalf("watch payload = %+v", instances)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for watch notification")
	}
}
