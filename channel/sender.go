package channel

import (
	"fmt"
	"net"
	"sync"
)

// SocketUpdate is one NAT mode switch for the sub reactor.
type SocketUpdate struct {
	// Cone drops every extra socket. Sockets must be empty when set.
	Cone bool
	// Sockets are added to the symmetric-mode pool. Ownership passes to
	// the reactor, which closes them on the next cone switch or on exit.
	Sockets []*net.UDPConn
}

// ConeUpdate returns the update that reverts to cone mode.
func ConeUpdate() SocketUpdate {
	return SocketUpdate{Cone: true}
}

// SymmetricUpdate returns the update that adds sockets to the pool.
func SymmetricUpdate(sockets []*net.UDPConn) SocketUpdate {
	return SocketUpdate{Sockets: sockets}
}

func (u SocketUpdate) validate() error {
	if u.Cone && len(u.Sockets) > 0 {
		return fmt.Errorf("%w: cone update carries %d sockets", ErrInvalidUpdate, len(u.Sockets))
	}
	for i, conn := range u.Sockets {
		if conn == nil {
			return fmt.Errorf("%w: socket %d is nil", ErrInvalidUpdate, i)
		}
	}
	return nil
}

// SocketSender is the producer end of the sub reactor's control channel.
// It is safe for concurrent use and never blocks.
type SocketSender struct {
	notifier *Notifier
	queue    chan SocketUpdate

	mu     sync.RWMutex
	closed bool
}

func newSocketSender(notifier *Notifier, capacity int) *SocketSender {
	return &SocketSender{
		notifier: notifier,
		queue:    make(chan SocketUpdate, capacity),
	}
}

// Send queues update and wakes the sub reactor. It returns
// ErrReactorStopped once the reactor has exited and ErrControlQueueFull
// when the queue is at capacity; in both cases the caller keeps ownership
// of the sockets.
func (s *SocketSender) Send(update SocketUpdate) error {
	if err := update.validate(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrReactorStopped
	}

	select {
	case s.queue <- update:
	default:
		return ErrControlQueueFull
	}

	if err := s.notifier.NotifyAddSocket(); err != nil {
		return newChannelError("notify", -1, err)
	}
	return nil
}

// SwitchToCone reverts the sub reactor to cone mode.
func (s *SocketSender) SwitchToCone() error {
	return s.Send(ConeUpdate())
}

// SwitchToSymmetric adds sockets at the next free index range.
func (s *SocketSender) SwitchToSymmetric(sockets []*net.UDPConn) error {
	return s.Send(SymmetricUpdate(sockets))
}

// Pending returns the number of queued updates not yet applied.
func (s *SocketSender) Pending() int {
	return len(s.queue)
}

// close rejects further sends and returns every update still queued.
func (s *SocketSender) close() []SocketUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true

	var pending []SocketUpdate
	for {
		select {
		case update := <-s.queue:
			pending = append(pending, update)
		default:
			return pending
		}
	}
}
