//go:build linux

package channel

import (
	"net"
	"net/netip"
	"testing"
	"time"

	"github.com/opd-ai/vntchannel/stop"
	"github.com/stretchr/testify/require"
)

const testTimeout = 5 * time.Second

type datagram struct {
	payload string
	key     RouteKey
}

// recorder copies every datagram into a channel for inspection.
type recorder struct {
	ch chan datagram
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan datagram, 1024)}
}

func (r *recorder) Handle(buf []byte, key RouteKey, ctx *Context) {
	r.ch <- datagram{payload: string(buf), key: key}
}

func (r *recorder) next(t *testing.T) datagram {
	t.Helper()
	select {
	case d := <-r.ch:
		return d
	case <-time.After(testTimeout):
		t.Fatal("no datagram delivered")
		return datagram{}
	}
}

func listenUDP(t *testing.T) *net.UDPConn {
	t.Helper()
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func listenUDPs(t *testing.T, n int) []*net.UDPConn {
	t.Helper()
	conns := make([]*net.UDPConn, n)
	for i := range conns {
		conns[i] = listenUDP(t)
	}
	return conns
}

// addrOf returns the local address of conn in the form recvfrom reports it.
func addrOf(conn *net.UDPConn) netip.AddrPort {
	ap := conn.LocalAddr().(*net.UDPAddr).AddrPort()
	return netip.AddrPortFrom(ap.Addr().Unmap(), ap.Port())
}

func sendTo(t *testing.T, from, to *net.UDPConn, payload string) {
	t.Helper()
	_, err := from.WriteToUDPAddrPort([]byte(payload), addrOf(to))
	require.NoError(t, err)
}

func stopAndWait(t *testing.T, manager *stop.Manager) {
	t.Helper()
	manager.Stop()
	require.True(t, manager.WaitTimeout(testTimeout), "reactors did not stop")
}

// runWithTimeout runs fn on its own goroutine and fails the test if it does
// not return in time.
func runWithTimeout(t *testing.T, fn func() error) error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- fn() }()
	select {
	case err := <-done:
		return err
	case <-time.After(testTimeout):
		t.Fatal("reactor loop did not return")
		return nil
	}
}
