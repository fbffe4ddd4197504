package facade

/*
#include <stdint.h>
*/
import "C"

import (
	"net"
	"unsafe"

	"classroom-net/broadcast"
)

// ClassroomRegistryCreate allocates a room registry with room for capacity
// clients (the package default if capacity <= 0).
//
//export ClassroomRegistryCreate
func ClassroomRegistryCreate(capacity C.int, outHandle *C.int64_t) C.int32_t {
	reg := broadcast.NewRegistry(int(capacity))
	*outHandle = C.int64_t(registries.put(reg))
	return C.int32_t(StatusOK)
}

// ClassroomRegistryDestroy releases a registry handle. It does not close
// any of the connections still registered in it.
//
//export ClassroomRegistryDestroy
func ClassroomRegistryDestroy(registryHandle C.int64_t) C.int32_t {
	if _, ok := registries.get(int64(registryHandle)); !ok {
		return C.int32_t(StatusInvalidHandle)
	}
	registries.delete(int64(registryHandle))
	return C.int32_t(StatusOK)
}

func lookupRegistry(h C.int64_t) (*broadcast.Registry, bool) {
	v, ok := registries.get(int64(h))
	if !ok {
		return nil, false
	}
	return v.(*broadcast.Registry), true
}

func lookupConn(h C.int64_t) (net.Conn, bool) {
	v, ok := conns.get(int64(h))
	if !ok {
		return nil, false
	}
	return v.(net.Conn), true
}

//export ClassroomRegistryRegister
func ClassroomRegistryRegister(registryHandle, connHandle C.int64_t, room C.int32_t) C.int32_t {
	reg, ok := lookupRegistry(registryHandle)
	if !ok {
		return C.int32_t(StatusInvalidHandle)
	}
	conn, ok := lookupConn(connHandle)
	if !ok {
		return C.int32_t(StatusInvalidHandle)
	}
	if err := reg.Register(conn, int32(room)); err != nil {
		return C.int32_t(StatusRegistryFull)
	}
	return C.int32_t(StatusOK)
}

//export ClassroomRegistryUnregister
func ClassroomRegistryUnregister(registryHandle, connHandle C.int64_t) C.int32_t {
	reg, ok := lookupRegistry(registryHandle)
	if !ok {
		return C.int32_t(StatusInvalidHandle)
	}
	conn, ok := lookupConn(connHandle)
	if !ok {
		return C.int32_t(StatusInvalidHandle)
	}
	if err := reg.Unregister(conn); err != nil {
		return C.int32_t(StatusNotFound)
	}
	return C.int32_t(StatusOK)
}

//export ClassroomRegistryUpdateRoom
func ClassroomRegistryUpdateRoom(registryHandle, connHandle C.int64_t, newRoom C.int32_t) C.int32_t {
	reg, ok := lookupRegistry(registryHandle)
	if !ok {
		return C.int32_t(StatusInvalidHandle)
	}
	conn, ok := lookupConn(connHandle)
	if !ok {
		return C.int32_t(StatusInvalidHandle)
	}
	if err := reg.UpdateRoom(conn, int32(newRoom)); err != nil {
		return C.int32_t(StatusNotFound)
	}
	return C.int32_t(StatusOK)
}

//export ClassroomRegistryClientCount
func ClassroomRegistryClientCount(registryHandle C.int64_t, outCount *C.int32_t) C.int32_t {
	reg, ok := lookupRegistry(registryHandle)
	if !ok {
		return C.int32_t(StatusInvalidHandle)
	}
	*outCount = C.int32_t(reg.ClientCount())
	return C.int32_t(StatusOK)
}

// ClassroomRegistryBroadcast sends (msgType, payload) to every connection
// registered under room and reports how many sends succeeded.
//
//export ClassroomRegistryBroadcast
func ClassroomRegistryBroadcast(registryHandle C.int64_t, room C.int32_t, msgType C.uint16_t, payload *C.uint8_t, payloadLen C.uint32_t, outDelivered *C.int32_t) C.int32_t {
	reg, ok := lookupRegistry(registryHandle)
	if !ok {
		return C.int32_t(StatusInvalidHandle)
	}

	var buf []byte
	if payloadLen > 0 {
		buf = unsafe.Slice((*byte)(unsafe.Pointer(payload)), int(payloadLen))
	}

	delivered := reg.BroadcastToRoom(int32(room), uint16(msgType), buf)
	*outDelivered = C.int32_t(delivered)
	return C.int32_t(StatusOK)
}
