package channel

import (
	"fmt"
	"net/netip"
)

// RouteKey identifies where a datagram came from: the local socket it
// arrived on and the remote endpoint that sent it. A reply sent on the
// socket at Index to Addr reaches the same peer through the same NAT
// mapping.
//
// RouteKey is a comparable value and may be used as a map key.
type RouteKey struct {
	isStream bool
	index    int
	addr     netip.AddrPort
}

// NewRouteKey builds a RouteKey. Callers guarantee index uniqueness.
func NewRouteKey(isStream bool, index int, addr netip.AddrPort) RouteKey {
	return RouteKey{
		isStream: isStream,
		index:    index,
		addr:     addr,
	}
}

// IsStream reports whether the key belongs to a stream channel rather than
// the UDP core.
func (k RouteKey) IsStream() bool {
	return k.isStream
}

// Index returns the process-wide index of the local socket.
func (k RouteKey) Index() int {
	return k.index
}

// Addr returns the remote endpoint.
func (k RouteKey) Addr() netip.AddrPort {
	return k.addr
}

func (k RouteKey) String() string {
	proto := "udp"
	if k.isStream {
		proto = "tcp"
	}
	return fmt.Sprintf("%s#%d %s", proto, k.index, k.addr)
}
