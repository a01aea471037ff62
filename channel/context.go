package channel

import (
	"net"

	"github.com/opd-ai/vntchannel/stop"
)

// Context is the node-wide state shared by both reactors and passed to
// every Handler call. It is created once at startup and is read-only
// afterwards.
type Context struct {
	mainSockets []*net.UDPConn
	manager     *stop.Manager
}

// NewContext creates a Context over the node's main sockets. The order of
// mainSockets fixes their route key indices. A nil manager gets a private
// one.
func NewContext(manager *stop.Manager, mainSockets []*net.UDPConn) *Context {
	if manager == nil {
		manager = stop.NewManager(nil)
	}
	sockets := make([]*net.UDPConn, len(mainSockets))
	copy(sockets, mainSockets)
	return &Context{
		mainSockets: sockets,
		manager:     manager,
	}
}

// MainSockets returns a copy of the ordered main socket list.
func (c *Context) MainSockets() []*net.UDPConn {
	sockets := make([]*net.UDPConn, len(c.mainSockets))
	copy(sockets, c.mainSockets)
	return sockets
}

// ChannelNum returns the number of main sockets. Sub reactor indices start
// at this value.
func (c *Context) ChannelNum() int {
	return len(c.mainSockets)
}

// MainSocket returns the main socket a route key index refers to.
// It reports false for indices owned by the sub reactor.
func (c *Context) MainSocket(index int) (*net.UDPConn, bool) {
	if index < 0 || index >= len(c.mainSockets) {
		return nil, false
	}
	return c.mainSockets[index], true
}

// Manager returns the shutdown coordinator shared by the node.
func (c *Context) Manager() *stop.Manager {
	return c.manager
}

// IsStopped reports whether a global stop has been requested.
func (c *Context) IsStopped() bool {
	return c.manager.IsStopped()
}

// Stop requests a global stop of every registered component.
func (c *Context) Stop() {
	c.manager.Stop()
}
