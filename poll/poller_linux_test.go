//go:build linux

package poll

import (
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listenLoopback(t *testing.T) *net.UDPConn {
	t.Helper()
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// waitOne runs Wait in a goroutine so a broken wake cannot hang the test binary.
func waitOne(t *testing.T, p *Poller, events []Event) int {
	t.Helper()
	type result struct {
		n   int
		err error
	}
	ch := make(chan result, 1)
	go func() {
		n, err := p.Wait(events)
		ch <- result{n, err}
	}()
	select {
	case r := <-ch:
		require.NoError(t, r.err)
		return r.n
	case <-time.After(5 * time.Second):
		t.Fatal("Wait did not return")
		return 0
	}
}

func TestWakerInterruptsWait(t *testing.T) {
	p, err := New()
	require.NoError(t, err)
	defer p.Close()

	w, err := NewWaker(p, 0)
	require.NoError(t, err)
	defer w.Close()

	go func() {
		time.Sleep(20 * time.Millisecond)
		assert.NoError(t, w.Wake())
	}()

	events := make([]Event, 4)
	n := waitOne(t, p, events)
	require.Equal(t, 1, n)
	assert.Equal(t, Token(0), events[0].Token)
	assert.True(t, events[0].Readable)
	assert.NoError(t, w.Reset())
}

func TestWakerRepeatedWakes(t *testing.T) {
	p, err := New()
	require.NoError(t, err)
	defer p.Close()

	w, err := NewWaker(p, 7)
	require.NoError(t, err)
	defer w.Close()

	for i := 0; i < 3; i++ {
		require.NoError(t, w.Wake())
		events := make([]Event, 1)
		n := waitOne(t, p, events)
		require.Equal(t, 1, n)
		assert.Equal(t, Token(7), events[0].Token)
		require.NoError(t, w.Reset())
	}
}

func TestWakerClosed(t *testing.T) {
	p, err := New()
	require.NoError(t, err)
	defer p.Close()

	w, err := NewWaker(p, 0)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	assert.True(t, errors.Is(w.Wake(), ErrClosed))
}

func TestSocketDrainUntilWouldBlock(t *testing.T) {
	p, err := New()
	require.NoError(t, err)
	defer p.Close()

	conn := listenLoopback(t)
	sock, err := Dup(conn)
	require.NoError(t, err)
	defer sock.Close()
	require.NoError(t, p.Register(sock.Fd(), 3, Readable))

	sender := listenLoopback(t)
	payloads := []string{"one", "two", "three"}
	for _, msg := range payloads {
		_, err := sender.WriteToUDP([]byte(msg), conn.LocalAddr().(*net.UDPAddr))
		require.NoError(t, err)
	}

	events := make([]Event, 4)
	n := waitOne(t, p, events)
	require.Equal(t, 1, n)
	assert.Equal(t, Token(3), events[0].Token)

	buf := make([]byte, 1500)
	var got []string
	for {
		n, from, err := sock.RecvFrom(buf)
		if errors.Is(err, ErrWouldBlock) {
			break
		}
		require.NoError(t, err)
		want := sender.LocalAddr().(*net.UDPAddr).AddrPort()
		assert.Equal(t, want.Addr().Unmap(), from.Addr())
		assert.Equal(t, want.Port(), from.Port())
		got = append(got, string(buf[:n]))
	}
	assert.Equal(t, payloads, got)
}

func TestDeregisterStopsEvents(t *testing.T) {
	p, err := New()
	require.NoError(t, err)
	defer p.Close()

	conn := listenLoopback(t)
	sock, err := Dup(conn)
	require.NoError(t, err)
	defer sock.Close()

	require.NoError(t, p.Register(sock.Fd(), 1, Readable))
	require.NoError(t, p.Deregister(sock.Fd()))
	assert.Error(t, p.Deregister(sock.Fd()))
}

func TestDupClosedConn(t *testing.T) {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	sock, err := Dup(conn)
	assert.Error(t, err)
	assert.Nil(t, sock)
}

func TestAdoptClosesOwner(t *testing.T) {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)

	sock, err := Adopt(conn)
	require.NoError(t, err)
	require.NoError(t, sock.Close())
	require.NoError(t, sock.Close())

	_, err = conn.WriteToUDP([]byte("x"), conn.LocalAddr().(*net.UDPAddr))
	assert.Error(t, err)
}

func TestPollerClosed(t *testing.T) {
	p, err := New()
	require.NoError(t, err)
	require.NoError(t, p.Close())

	_, err = p.Wait(make([]Event, 1))
	assert.True(t, errors.Is(err, ErrClosed))
	assert.True(t, errors.Is(p.Register(0, 1, Readable), ErrClosed))
}
