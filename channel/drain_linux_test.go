//go:build linux

package channel

import (
	"net"
	"os"
	"testing"
	"time"

	"github.com/opd-ai/vntchannel/poll"
	"github.com/opd-ai/vntchannel/stop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMainReactorSurvivesReceiveError(t *testing.T) {
	// Reserve a loopback port, then free it so writes to it are refused.
	reserved := listenUDP(t)
	target := reserved.LocalAddr().(*net.UDPAddr)
	require.NoError(t, reserved.Close())

	conn, err := net.DialUDP("udp4", nil, target)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	// The ICMP port unreachable reply leaves ECONNREFUSED pending on conn.
	_, err = conn.Write([]byte("refused"))
	require.NoError(t, err)

	manager := stop.NewManager(nil)
	defer stopAndWait(t, manager)
	ctx := NewContext(manager, []*net.UDPConn{conn})
	rec := newRecorder()
	_, err = UDPListen(manager, rec, ctx, nil)
	require.NoError(t, err)

	// conn is connected, so only the reserved address may reach it.
	peer, err := net.ListenUDP("udp4", target)
	require.NoError(t, err)
	t.Cleanup(func() { peer.Close() })

	_, err = peer.WriteToUDP([]byte("after error"), conn.LocalAddr().(*net.UDPAddr))
	require.NoError(t, err)

	got := rec.next(t)
	assert.Equal(t, "after error", got.payload)
	assert.Equal(t, 0, got.key.Index())
	assert.False(t, manager.IsStopped())
}

func TestDrainSocketStopsAfterRepeatedErrors(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer w.Close()
	defer r.Close()

	// recvfrom on a pipe fails with ENOTSOCK on every call.
	sock, err := poll.Dup(r)
	require.NoError(t, err)
	defer sock.Close()

	rec := newRecorder()
	ctx := NewContext(nil, nil)
	done := make(chan int, 1)
	go func() {
		done <- drainSocket(mainComponent, sock, 0, make([]byte, 64), rec, ctx)
	}()

	select {
	case n := <-done:
		assert.Equal(t, 0, n)
	case <-time.After(testTimeout):
		t.Fatal("drain did not give up on a failing socket")
	}
	assert.Empty(t, rec.ch)
}
