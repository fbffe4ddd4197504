package codec

// Envelope carries an application error code (from protocol's App*
// constants) and a body. server.Dispatcher uses it to shape the payload of
// an error reply frame when a handler fails.
type Envelope struct {
	Code int32
	Body []byte
}
