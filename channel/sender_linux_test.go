//go:build linux

package channel

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSocketSenderQueueFull(t *testing.T) {
	opts := NewOptions()
	opts.ControlQueueSize = 1
	r := newTestSubReactor(t, 1, opts)

	require.NoError(t, r.sender.SwitchToCone())
	assert.ErrorIs(t, r.sender.SwitchToCone(), ErrControlQueueFull)
	assert.Equal(t, 1, r.sender.Pending())
}

func TestSocketSenderRejectsInvalidUpdates(t *testing.T) {
	r := newTestSubReactor(t, 1, nil)
	conn := listenUDP(t)

	err := r.sender.Send(SocketUpdate{Cone: true, Sockets: []*net.UDPConn{conn}})
	assert.ErrorIs(t, err, ErrInvalidUpdate)

	err = r.sender.SwitchToSymmetric([]*net.UDPConn{conn, nil})
	assert.ErrorIs(t, err, ErrInvalidUpdate)
	assert.Equal(t, 0, r.sender.Pending())
}

func TestSocketSenderSignalsNotifier(t *testing.T) {
	r := newTestSubReactor(t, 1, nil)

	assert.False(t, r.notifier.TakeAddSocket())
	require.NoError(t, r.sender.SwitchToSymmetric(nil))
	assert.True(t, r.notifier.TakeAddSocket())
	assert.False(t, r.notifier.IsStop())

	require.NoError(t, r.notifier.Stop())
	assert.True(t, r.notifier.IsStop())
}

func TestUpdateConstructors(t *testing.T) {
	assert.True(t, ConeUpdate().Cone)
	assert.Empty(t, ConeUpdate().Sockets)

	sockets := []*net.UDPConn{listenUDP(t)}
	update := SymmetricUpdate(sockets)
	assert.False(t, update.Cone)
	assert.Equal(t, sockets, update.Sockets)
}
