package channel

import (
	"errors"
	"fmt"

	"github.com/opd-ai/vntchannel/limits"
	"github.com/opd-ai/vntchannel/poll"
)

// drainSocket reads sock until it would block and hands every datagram to
// handler under route key index. Readiness is edge-triggered, so stopping
// early would strand datagrams until the next arrival.
func drainSocket(component string, sock *poll.Socket, index int, buf []byte, handler Handler, ctx *Context) int {
	delivered := 0
	failures := 0
	for {
		n, addr, err := sock.RecvFrom(buf)
		if err != nil {
			if errors.Is(err, poll.ErrWouldBlock) {
				return delivered
			}
			failures++
			newLogger(component, "drainSocket").
				WithIndex(index).
				WithError(err, "recvfrom").
				Error("Failed to receive datagram")
			if failures >= limits.MaxConsecutiveRecvErrors {
				newLogger(component, "drainSocket").
					WithIndex(index).
					WithField("failures", failures).
					Warn("Abandoning drain after repeated receive errors")
				return delivered
			}
			continue
		}
		failures = 0
		dispatch(component, handler, buf[:n], NewRouteKey(false, index, addr), ctx)
		delivered++
	}
}

// dispatch calls the handler, turning a panic into a logged per-datagram
// error.
func dispatch(component string, handler Handler, buf []byte, key RouteKey, ctx *Context) {
	defer func() {
		if r := recover(); r != nil {
			newLogger(component, "dispatch").
				WithRouteKey(key).
				WithField("panic", fmt.Sprint(r)).
				Error("Handler panicked")
		}
	}()
	handler.Handle(buf, key, ctx)
}
