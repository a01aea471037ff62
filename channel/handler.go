package channel

// Handler receives every datagram read by the reactors.
//
// buf is only valid for the duration of the call and may be modified in
// place; it is reused for the next datagram. Handle is invoked from both
// the main and the sub reactor goroutines, so implementations must be safe
// for concurrent use and must not block.
type Handler interface {
	Handle(buf []byte, key RouteKey, ctx *Context)
}

// HandlerFunc adapts an ordinary function to the Handler interface.
type HandlerFunc func(buf []byte, key RouteKey, ctx *Context)

// Handle calls f(buf, key, ctx).
func (f HandlerFunc) Handle(buf []byte, key RouteKey, ctx *Context) {
	f(buf, key, ctx)
}
