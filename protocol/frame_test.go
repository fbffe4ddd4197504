package protocol

import (
	"bytes"
	"errors"
	"net"
	"testing"
	"time"
)

func TestSendReceiveRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte(`{"u":"a"}`)

	sentHeader, n, err := SendMessage(&buf, MsgRegisterReq, payload, "tok")
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if n != HeaderSize+len(payload) {
		t.Errorf("SendMessage() n = %d, want %d", n, HeaderSize+len(payload))
	}

	out := make([]byte, len(payload)+1)
	gotHeader, length, err := ReceiveMessage(&buf, out)
	if err != nil {
		t.Fatalf("ReceiveMessage() error = %v", err)
	}
	if length != len(payload) {
		t.Errorf("length = %d, want %d", length, len(payload))
	}
	if !bytes.Equal(out[:length], payload) {
		t.Errorf("payload = %q, want %q", out[:length], payload)
	}
	if gotHeader.MessageID != sentHeader.MessageID {
		t.Errorf("message id not preserved across the round trip")
	}
	if out[length] != 0 {
		t.Errorf("missing NUL sentinel past the returned length")
	}
}

func TestReceiveMessageBufferTooSmall(t *testing.T) {
	var buf bytes.Buffer
	if _, _, err := SendMessage(&buf, 0, []byte("hello"), ""); err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}

	out := make([]byte, 3) // too small even with the +1 sentinel byte reserved
	if _, _, err := ReceiveMessage(&buf, out); err != ErrBufferTooSmall {
		t.Errorf("ReceiveMessage() error = %v, want ErrBufferTooSmall", err)
	}
}

func TestReceiveMessageOversizeRejectedWithoutOverreading(t *testing.T) {
	// Forge a header claiming a 2 MiB payload, followed by a few body bytes
	// that ReceiveMessage must leave unread.
	h := BuildHeader(0, 2<<20, "")
	buf := bytes.NewBuffer(encode(&h))
	buf.WriteString("body")

	out := make([]byte, 2<<20+1)
	_, _, err := ReceiveMessage(buf, out)
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("ReceiveMessage() error = %v, want ErrPayloadTooLarge", err)
	}
	if buf.Len() != len("body") {
		t.Errorf("ReceiveMessage() consumed body bytes after rejecting the header: %d of %d left", buf.Len(), len("body"))
	}
}

func TestReceiveMessageBadMagic(t *testing.T) {
	raw := make([]byte, HeaderSize)
	raw[0] = 0xff
	buf := bytes.NewBuffer(raw)
	out := make([]byte, 1)
	if _, _, err := ReceiveMessage(buf, out); !errors.Is(err, ErrBadMagic) {
		t.Errorf("ReceiveMessage() error = %v, want ErrBadMagic", err)
	}
}

func TestSendMessageRejectsOversizedPayload(t *testing.T) {
	var buf bytes.Buffer
	big := make([]byte, MaxPayloadSize+1)
	if _, _, err := SendMessage(&buf, 0, big, ""); !errors.Is(err, ErrPayloadTooLarge) {
		t.Errorf("SendMessage() error = %v, want ErrPayloadTooLarge", err)
	}
}

func TestLoopbackRoundTrip(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	defer ln.Close()

	serverDone := make(chan struct{})
	go func() {
		defer close(serverDone)
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		buf := make([]byte, 1024)
		header, n, err := ReceiveMessage(conn, buf)
		if err != nil {
			t.Errorf("server ReceiveMessage() error = %v", err)
			return
		}
		if string(buf[:n]) != `{"u":"a"}` {
			t.Errorf("server got payload %q", buf[:n])
		}
		if header.MsgType != MsgRegisterReq {
			t.Errorf("server got MsgType %#x, want %#x", header.MsgType, MsgRegisterReq)
		}
		if _, _, err := SendMessage(conn, MsgRegisterRes, []byte(`{"ok":true}`), ""); err != nil {
			t.Errorf("server SendMessage() error = %v", err)
		}
	}()

	conn, err := net.DialTimeout("tcp", ln.Addr().String(), time.Second)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	if _, _, err := SendMessage(conn, MsgRegisterReq, []byte(`{"u":"a"}`), ""); err != nil {
		t.Fatalf("client SendMessage() error = %v", err)
	}

	buf := make([]byte, 1024)
	header, n, err := ReceiveMessage(conn, buf)
	if err != nil {
		t.Fatalf("client ReceiveMessage() error = %v", err)
	}
	if string(buf[:n]) != `{"ok":true}` {
		t.Errorf("client got payload %q", buf[:n])
	}
	if header.MsgType != MsgRegisterRes {
		t.Errorf("client got MsgType %#x, want %#x", header.MsgType, MsgRegisterRes)
	}

	<-serverDone
}

func TestReceiveMessagePeerClosedMidHeader(t *testing.T) {
	r, w := net.Pipe()
	go func() {
		w.Write([]byte{0x54, 0x41}) // two bytes of magic, then hang up
		w.Close()
	}()
	out := make([]byte, 1)
	_, _, err := ReceiveMessage(r, out)
	if !errors.Is(err, ErrHeaderReadFailed) {
		t.Fatalf("ReceiveMessage() error = %v, want it to wrap ErrHeaderReadFailed", err)
	}
}
