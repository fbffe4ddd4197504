package client

import "classroom-net/protocol"

// request is one queued or in-flight call. sent and completed are
// independent flags (a request can be enqueued-but-not-yet-sent,
// sent-but-awaiting-reply, or completed), and done is the signaling
// primitive the caller blocks on.
type request struct {
	msgType   uint16
	payload   []byte
	messageID [16]byte // set once the request has actually been sent

	sent      bool
	completed bool
	result    int // 0 = success, -1 = failure
	response  []byte
	err       error

	done chan struct{}
}

func newRequest(msgType uint16, payload []byte) *request {
	cp := make([]byte, len(payload))
	copy(cp, payload)
	return &request{
		msgType: msgType,
		payload: cp,
		done:    make(chan struct{}),
	}
}

func (r *request) complete(resp []byte, result int, err error) {
	r.response = resp
	r.result = result
	r.err = err
	r.completed = true
	close(r.done)
}

// broadcastSentinel reports whether header classifies as a server-pushed
// event rather than a reply to a pending request.
func broadcastSentinel(header *protocol.Header) bool {
	return header.MsgType == protocol.MsgRoomStatus
}
