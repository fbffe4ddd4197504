package client

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"classroom-net/protocol"
)

// echoServer accepts one connection and, for every received frame, writes
// back a reply with the same msg_type and payload it was handed — unless
// that payload equals "silence", in which case it drops the frame. It is
// the fake peer these tests drive the Multiplexer against.
func echoServer(t *testing.T, ln net.Listener) {
	t.Helper()
	conn, err := ln.Accept()
	if err != nil {
		return
	}
	defer conn.Close()
	buf := make([]byte, 4096)
	for {
		header, n, err := protocol.ReceiveMessage(conn, buf)
		if err != nil {
			return
		}
		payload := append([]byte(nil), buf[:n]...)
		if string(payload) == "silence" {
			continue
		}
		if _, _, err := protocol.SendMessage(conn, header.MsgType, payload, ""); err != nil {
			return
		}
	}
}

func dialMultiplexer(t *testing.T, onBroadcast BroadcastHandler, opts ...Option) (*Multiplexer, net.Listener) {
	t.Helper()
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	go echoServer(t, ln)

	conn, err := net.DialTimeout("tcp4", ln.Addr().String(), time.Second)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	m := NewMultiplexer(conn, onBroadcast, opts...)
	m.Start()
	return m, ln
}

func TestSendRequestRoundTrip(t *testing.T) {
	m, ln := dialMultiplexer(t, nil)
	defer ln.Close()
	defer m.Stop()

	resp, err := m.SendRequest(context.Background(), 0x0001, []byte("hello"))
	if err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	if string(resp) != "hello" {
		t.Fatalf("resp = %q, want %q", resp, "hello")
	}
}

func TestSendRequestConcurrentFIFO(t *testing.T) {
	m, ln := dialMultiplexer(t, nil)
	defer ln.Close()
	defer m.Stop()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := m.SendRequest(context.Background(), 0x0001, []byte{byte(i)})
			if err != nil {
				errs <- err
				return
			}
			if len(resp) != 1 || resp[0] != byte(i) {
				errs <- errors.New("payload mismatch")
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestBroadcastDispatch(t *testing.T) {
	received := make(chan []byte, 1)
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		protocol.SendMessage(conn, protocol.MsgRoomStatus, []byte("room full"), "")
	}()

	conn, err := net.DialTimeout("tcp4", ln.Addr().String(), time.Second)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	m := NewMultiplexer(conn, func(msgType uint16, payload []byte) {
		received <- payload
	})
	m.Start()
	defer m.Stop()

	select {
	case payload := <-received:
		if string(payload) != "room full" {
			t.Fatalf("broadcast payload = %q", payload)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for broadcast dispatch")
	}
}

func TestSendRequestTimeout(t *testing.T) {
	m, ln := dialMultiplexer(t, nil, WithRequestTimeout(100*time.Millisecond))
	defer ln.Close()
	defer m.Stop()

	_, err := m.SendRequest(context.Background(), 0x0001, []byte("silence"))
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
}

func TestSendRequestRetryOnTimeout(t *testing.T) {
	attempts := int32(0)
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 4096)
		for {
			header, n, err := protocol.ReceiveMessage(conn, buf)
			if err != nil {
				return
			}
			payload := append([]byte(nil), buf[:n]...)
			attempts++
			if attempts < 2 {
				continue // drop the first attempt to force a client-side retry
			}
			protocol.SendMessage(conn, header.MsgType, payload, "")
		}
	}()

	conn, err := net.DialTimeout("tcp4", ln.Addr().String(), time.Second)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	m := NewMultiplexer(conn, nil, WithRequestTimeout(200*time.Millisecond), WithRetry(3, 10*time.Millisecond))
	m.Start()
	defer m.Stop()

	resp, err := m.SendRequest(context.Background(), 0x0001, []byte("hi"))
	if err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	if string(resp) != "hi" {
		t.Fatalf("resp = %q", resp)
	}
}

func TestStopCompletesPendingRequests(t *testing.T) {
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		accepted <- conn
		// Never reply — the request stays pending until Stop.
	}()

	conn, err := net.DialTimeout("tcp4", ln.Addr().String(), time.Second)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	m := NewMultiplexer(conn, nil)
	m.Start()
	<-accepted

	resultCh := make(chan error, 1)
	go func() {
		_, err := m.SendRequest(context.Background(), 0x0001, []byte("pending"))
		resultCh <- err
	}()

	time.Sleep(50 * time.Millisecond)
	m.Stop()

	select {
	case err := <-resultCh:
		if !errors.Is(err, ErrQueueStopped) {
			t.Fatalf("err = %v, want ErrQueueStopped", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("SendRequest did not unblock after Stop")
	}
}
