// Package client implements a single-connection request multiplexer: one
// background worker drives one TCP connection, matching replies to the
// oldest outstanding request by default and dispatching server-pushed
// broadcast frames to a registered callback. Message-id correlation is
// offered as an explicit opt-in for callers that need out-of-order
// matching against a peer that echoes request ids back on replies.
package client

import (
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"classroom-net/protocol"
	"classroom-net/transport"
)

// BroadcastHandler receives a server-pushed frame dispatched via the
// MsgRoomStatus broadcast sentinel.
type BroadcastHandler func(msgType uint16, payload []byte)

// Option configures a Multiplexer at construction time.
type Option func(*Multiplexer)

// WithSessionToken sets the token stamped on every outbound frame.
func WithSessionToken(token string) Option {
	return func(m *Multiplexer) { m.sessionToken = token }
}

// WithCorrelationByMessageID switches response matching from the default
// FIFO discipline to matching by the header's message_id, for peers that
// may reply out of order. It only works against a peer that echoes the
// request's message_id back on the reply. The stock server.Dispatcher does
// not do this: it writes every reply through protocol.SendMessage, which
// mints a fresh id, so a message id set on a handler's reply header is not
// sent.
func WithCorrelationByMessageID() Option {
	return func(m *Multiplexer) { m.correlateByID = true }
}

// WithRequestTimeout bounds how long SendRequest waits for a reply before
// returning ErrTimeout. Zero (the default) waits indefinitely.
func WithRequestTimeout(d time.Duration) Option {
	return func(m *Multiplexer) { m.requestTimeout = d }
}

// Multiplexer drives one connection's read/write loop and matches replies
// to requests queued by SendRequest.
type Multiplexer struct {
	conn          net.Conn
	sessionToken  string
	onBroadcast   BroadcastHandler
	correlateByID bool
	requestTimeout time.Duration

	retryCount     int
	retryBaseDelay time.Duration

	mu      sync.Mutex
	queue   []*request
	running atomic.Bool
	stopped chan struct{}
	stopOnce sync.Once
}

// NewMultiplexer creates a multiplexer over conn. onBroadcast may be nil if
// the caller does not care about server-pushed events.
func NewMultiplexer(conn net.Conn, onBroadcast BroadcastHandler, opts ...Option) *Multiplexer {
	m := &Multiplexer{
		conn:        conn,
		onBroadcast: onBroadcast,
		stopped:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start launches the background worker. It must be called once before any
// SendRequest call.
func (m *Multiplexer) Start() {
	m.running.Store(true)
	go m.loop()
}

// Stop halts the worker and completes every outstanding request with
// ErrQueueStopped. It is safe to call more than once and safe to call
// concurrently with Shutdown-by-error.
func (m *Multiplexer) Stop() {
	m.halt(ErrQueueStopped)
}

func (m *Multiplexer) halt(cause error) {
	m.stopOnce.Do(func() {
		m.running.Store(false)
		m.conn.Close()

		m.mu.Lock()
		for _, r := range m.queue {
			if !r.completed {
				r.complete(nil, -1, cause)
			}
		}
		m.queue = nil
		m.mu.Unlock()

		// Closed after the queued requests are completed, so their waiters
		// wake on their own done channel and see cause.
		close(m.stopped)
	})
}

// loop is the single iteration the worker repeats: select-with-timeout
// (emulated via SetReadDeadline, since Go has no raw select(2) on a single
// net.Conn), classify-and-dispatch any frame that arrived, send the oldest
// unsent request, then sweep completed records out of the queue.
func (m *Multiplexer) loop() {
	buf := make([]byte, protocol.MaxPayloadSize+1)
	for m.running.Load() {
		if err := transport.SetTimeout(m.conn, 1, transport.TimeoutRecv); err != nil {
			m.halt(ErrConnectionLost)
			return
		}

		header, n, err := protocol.ReceiveMessage(m.conn, buf)
		switch {
		case err == nil:
			payload := make([]byte, n)
			copy(payload, buf[:n])
			m.dispatch(header, payload)
		case isTimeout(err):
			// Nothing arrived within the 1-second window; fall through to
			// sending the next queued request instead of blocking forever.
		default:
			m.halt(ErrConnectionLost)
			return
		}

		m.trySendNext()
		m.sweep()
	}
}

func (m *Multiplexer) dispatch(header *protocol.Header, payload []byte) {
	if broadcastSentinel(header) {
		if m.onBroadcast != nil {
			m.onBroadcast(header.MsgType, payload)
		}
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.queue {
		if !r.sent || r.completed {
			continue
		}
		if m.correlateByID && r.messageID != header.MessageID {
			continue
		}
		r.complete(payload, 0, nil)
		return
	}
	// No matching waiter — the peer sent an unsolicited or already-timed-out
	// reply. Dropped.
}

func (m *Multiplexer) trySendNext() {
	m.mu.Lock()
	var next *request
	for _, r := range m.queue {
		if !r.sent && !r.completed {
			next = r
			break
		}
	}
	m.mu.Unlock()
	if next == nil {
		return
	}

	header, _, err := protocol.SendMessage(m.conn, next.msgType, next.payload, m.sessionToken)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		next.complete(nil, -1, err)
		return
	}
	next.sent = true
	next.messageID = header.MessageID
}

func (m *Multiplexer) sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.queue[:0]
	for _, r := range m.queue {
		if !r.completed {
			kept = append(kept, r)
		}
	}
	m.queue = kept
}

// SendRequest enqueues (msgType, payload), blocks until the worker
// completes it, and returns the response payload. Multiple goroutines may
// call it concurrently; their requests are serialized by queue order.
func (m *Multiplexer) SendRequest(ctx context.Context, msgType uint16, payload []byte) ([]byte, error) {
	return m.sendRequestAttempt(ctx, msgType, payload, 0)
}

func (m *Multiplexer) sendRequestAttempt(ctx context.Context, msgType uint16, payload []byte, attempt int) ([]byte, error) {
	resp, err := m.sendOnce(ctx, msgType, payload)
	if err == nil || attempt >= m.retryCount || !isRetryable(err) {
		return resp, err
	}

	delay := m.retryBaseDelay * time.Duration(int64(1)<<uint(attempt))
	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return m.sendRequestAttempt(ctx, msgType, payload, attempt+1)
}

func (m *Multiplexer) sendOnce(ctx context.Context, msgType uint16, payload []byte) ([]byte, error) {
	if !m.running.Load() {
		return nil, ErrQueueStopped
	}

	req := newRequest(msgType, payload)
	m.mu.Lock()
	m.queue = append(m.queue, req)
	m.mu.Unlock()
	// Interrupt the worker's in-flight 1-second read wait so a freshly
	// queued request is sent promptly instead of waiting out the rest of
	// the current select-timeout window. SetReadDeadline is safe to call
	// from another goroutine while a Read is outstanding; the worker's
	// next loop iteration sets its own fresh deadline regardless.
	m.conn.SetReadDeadline(time.Now())

	var timeoutCh <-chan time.Time
	if m.requestTimeout > 0 {
		timer := time.NewTimer(m.requestTimeout)
		defer timer.Stop()
		timeoutCh = timer.C
	}

	var waitErr error
	select {
	case <-req.done:
		if req.result != 0 {
			if req.err != nil {
				return nil, req.err
			}
			return nil, ErrConnectionLost
		}
		return req.response, nil
	case <-timeoutCh:
		waitErr = ErrTimeout
	case <-ctx.Done():
		waitErr = ctx.Err()
	case <-m.stopped:
		return nil, ErrQueueStopped
	}

	// Withdraw the abandoned request so it is not sent later and a later
	// reply is not matched to it.
	m.mu.Lock()
	for i, r := range m.queue {
		if r == req {
			m.queue = append(m.queue[:i], m.queue[i+1:]...)
			break
		}
	}
	m.mu.Unlock()
	return nil, waitErr
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func isRetryable(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrConnectionLost)
}
