// Package server implements the accept dispatcher: the goroutine that owns
// the listening socket, spawns one worker per accepted connection, and runs
// every decoded frame through a middleware chain down to a caller-supplied
// handler.
//
// Dispatcher decodes a protocol.Header and dispatches it to whatever
// pipeline.Handler the caller registered — the handler is free to be a
// broadcast-registry lookup, an application router, or anything else; this
// package has no opinion on what it does.
package server

import (
	"context"
	"log"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"classroom-net/codec"
	"classroom-net/pipeline"
	"classroom-net/protocol"
	"classroom-net/transport"
)

// Dispatcher is the accept loop: Running → Stopping → Stopped. A successful
// accept increments activeClients under the mutex,
// mints a monotonically increasing client id, and hands the connection to a
// detached worker goroutine.
type Dispatcher struct {
	baseHandler pipeline.Handler
	middlewares []pipeline.Middleware
	handler     pipeline.Handler

	listener *net.TCPListener

	mu            sync.Mutex
	activeClients int

	nextClientID uint64
	running      atomic.Bool
	wg           sync.WaitGroup
}

// NewDispatcher creates a dispatcher whose frame handler, after passing
// through every registered middleware, is handler.
func NewDispatcher(handler pipeline.Handler) *Dispatcher {
	return &Dispatcher{baseHandler: handler}
}

// Use registers a middleware. Middlewares run in the order they are added
// and are composed into the final chain once, at Run — not per frame.
func (d *Dispatcher) Use(mw pipeline.Middleware) {
	d.middlewares = append(d.middlewares, mw)
}

// Run takes ownership of ln and blocks in the accept loop until Shutdown
// closes it. An accept error while running is logged and the loop goes on;
// an accept error after Shutdown ends the loop. It always returns nil.
func (d *Dispatcher) Run(ln *net.TCPListener) error {
	d.listener = ln
	d.handler = pipeline.Chain(d.middlewares...)(d.baseHandler)
	d.running.Store(true)

	for {
		conn, err := transport.Accept(ln)
		if err != nil {
			if d.running.Load() {
				log.Printf("server: transient accept error: %v", err)
				continue
			}
			return nil
		}

		d.mu.Lock()
		d.activeClients++
		d.mu.Unlock()
		clientID := atomic.AddUint64(&d.nextClientID, 1)

		d.wg.Add(1)
		go d.handleConn(conn, clientID)
	}
}

// ActiveClients returns the number of connections currently being served.
func (d *Dispatcher) ActiveClients() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.activeClients
}

// handleConn runs the sequential read loop for one connection: reads must
// stay single-threaded to track frame boundaries, but each decoded frame is
// dispatched to its own goroutine so a slow handler never blocks the next
// frame on the same connection. A write mutex shared by those goroutines
// keeps reply frames from interleaving on the wire.
func (d *Dispatcher) handleConn(conn net.Conn, clientID uint64) {
	defer d.wg.Done()
	defer func() {
		d.mu.Lock()
		d.activeClients--
		d.mu.Unlock()
		conn.Close()
	}()

	writeMu := &sync.Mutex{}
	buf := make([]byte, protocol.MaxPayloadSize+1)

	for {
		header, n, err := protocol.ReceiveMessage(conn, buf)
		if err != nil {
			return
		}

		if header.MsgType == protocol.MsgHeartbeat {
			continue
		}

		payload := make([]byte, n)
		copy(payload, buf[:n])

		d.wg.Add(1)
		go d.handleFrame(conn, writeMu, clientID, header, payload)
	}
}

// handleFrame runs one frame through the middleware chain and writes the
// reply, if any, back to conn.
func (d *Dispatcher) handleFrame(conn net.Conn, writeMu *sync.Mutex, clientID uint64, header *protocol.Header, payload []byte) {
	defer d.wg.Done()

	replyHeader, replyPayload, err := d.handler(context.Background(), header, payload)
	if err != nil {
		log.Printf("server: client %d msg_type=%#04x handler error: %v", clientID, header.MsgType, err)
		d.writeErrorReply(conn, writeMu, clientID, header, err)
		return
	}
	if replyHeader == nil {
		return
	}

	writeMu.Lock()
	defer writeMu.Unlock()
	if _, _, err := protocol.SendMessage(conn, replyHeader.MsgType, replyPayload, replyHeader.Token()); err != nil {
		log.Printf("server: client %d reply write failed: %v", clientID, err)
	}
}

// writeErrorReply turns a handler error into a binary-encoded Envelope and
// sends it back as a MsgError frame, so a peer gets a structured failure
// instead of a silently dropped request.
func (d *Dispatcher) writeErrorReply(conn net.Conn, writeMu *sync.Mutex, clientID uint64, header *protocol.Header, handlerErr error) {
	env := &codec.Envelope{Code: protocol.AppInternal, Body: []byte(handlerErr.Error())}
	body, err := codec.GetCodec(codec.CodecTypeBinary).Encode(env)
	if err != nil {
		log.Printf("server: client %d failed to encode error envelope: %v", clientID, err)
		return
	}

	writeMu.Lock()
	defer writeMu.Unlock()
	if _, _, err := protocol.SendMessage(conn, protocol.MsgError, body, header.Token()); err != nil {
		log.Printf("server: client %d error reply write failed: %v", clientID, err)
	}
}

// Shutdown stops accepting new connections and waits up to timeout for
// in-flight connections and their pending frame handlers to drain.
func (d *Dispatcher) Shutdown(timeout time.Duration) error {
	if d.listener == nil {
		return ErrNotRunning
	}

	d.running.Store(false)
	d.listener.Close()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return ErrShutdownTimeout
	}
}
