package facade

/*
#include <stdint.h>
*/
import "C"

import (
	"time"

	"classroom-net/directory"
)

// ClassroomDirectoryCreateMemory allocates an in-process cluster directory,
// suitable for a single-instance deployment or for tests that don't run
// etcd. Use directory.NewEtcdDirectory directly from Go for a clustered
// deployment; the facade does not currently expose etcd endpoint
// configuration across the C ABI.
//
//export ClassroomDirectoryCreateMemory
func ClassroomDirectoryCreateMemory(outHandle *C.int64_t) C.int32_t {
	d := directory.NewMemoryDirectory()
	*outHandle = C.int64_t(directories.put(d))
	return C.int32_t(StatusOK)
}

//export ClassroomDirectoryRegister
func ClassroomDirectoryRegister(directoryHandle C.int64_t, room C.int32_t, addr *C.char, weight C.int32_t, ttlMs C.int32_t) C.int32_t {
	v, ok := directories.get(int64(directoryHandle))
	if !ok {
		return C.int32_t(StatusInvalidHandle)
	}
	d := v.(*directory.MemoryDirectory)

	inst := directory.Instance{Addr: C.GoString(addr), Weight: int(weight)}
	if err := d.Register(int32(room), inst, time.Duration(ttlMs)*time.Millisecond); err != nil {
		return C.int32_t(StatusIOError)
	}
	return C.int32_t(StatusOK)
}

//export ClassroomDirectoryDeregister
func ClassroomDirectoryDeregister(directoryHandle C.int64_t, room C.int32_t, addr *C.char) C.int32_t {
	v, ok := directories.get(int64(directoryHandle))
	if !ok {
		return C.int32_t(StatusInvalidHandle)
	}
	d := v.(*directory.MemoryDirectory)
	if err := d.Deregister(int32(room), C.GoString(addr)); err != nil {
		return C.int32_t(StatusNotFound)
	}
	return C.int32_t(StatusOK)
}

// ClassroomDirectoryLookupCount returns how many instances currently host
// room, so a caller can size a buffer before ClassroomDirectoryLookup.
//
//export ClassroomDirectoryLookupCount
func ClassroomDirectoryLookupCount(directoryHandle C.int64_t, room C.int32_t, outCount *C.int32_t) C.int32_t {
	v, ok := directories.get(int64(directoryHandle))
	if !ok {
		return C.int32_t(StatusInvalidHandle)
	}
	d := v.(*directory.MemoryDirectory)
	instances, err := d.Lookup(int32(room))
	if err != nil {
		return C.int32_t(StatusIOError)
	}
	*outCount = C.int32_t(len(instances))
	return C.int32_t(StatusOK)
}

//export ClassroomDirectoryDestroy
func ClassroomDirectoryDestroy(directoryHandle C.int64_t) C.int32_t {
	if _, ok := directories.get(int64(directoryHandle)); !ok {
		return C.int32_t(StatusInvalidHandle)
	}
	directories.delete(int64(directoryHandle))
	return C.int32_t(StatusOK)
}
