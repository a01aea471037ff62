//go:build linux

package poll

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

// Poller is an edge-triggered epoll instance.
// Register and Deregister may be called from any goroutine, Wait only from
// the goroutine that owns the poller.
type Poller struct {
	epfd int
	raw  []unix.EpollEvent

	mu     sync.RWMutex
	closed bool
}

// New creates a new epoll instance.
func New() (*Poller, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("epoll create: %w", err)
	}
	return &Poller{epfd: epfd}, nil
}

// Register adds fd to the interest list under token.
func (p *Poller) Register(fd int, token Token, interest Interest) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}

	ev := unix.EpollEvent{
		Events: unix.EPOLLET,
		Fd:     int32(token),
	}
	if interest&Readable != 0 {
		ev.Events |= unix.EPOLLIN
	}
	if interest&Writable != 0 {
		ev.Events |= unix.EPOLLOUT
	}

	if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return fmt.Errorf("epoll ctl add fd %d %s: %w", fd, token, err)
	}
	return nil
}

// Deregister removes fd from the interest list.
func (p *Poller) Deregister(fd int) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}

	if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, fd, nil); err != nil {
		return fmt.Errorf("epoll ctl del fd %d: %w", fd, err)
	}
	return nil
}

// Wait blocks until at least one registered descriptor is ready and fills
// events. It never times out; use a Waker to interrupt it.
func (p *Poller) Wait(events []Event) (int, error) {
	if len(events) == 0 {
		return 0, errors.New("poll: empty event buffer")
	}
	if cap(p.raw) < len(events) {
		p.raw = make([]unix.EpollEvent, len(events))
	}
	raw := p.raw[:len(events)]

	for {
		p.mu.RLock()
		closed := p.closed
		p.mu.RUnlock()
		if closed {
			return 0, ErrClosed
		}

		n, err := unix.EpollWait(p.epfd, raw, -1)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("epoll wait: %w", err)
		}

		for i := 0; i < n; i++ {
			ev := raw[i]
			events[i] = Event{
				Token:    Token(ev.Fd),
				Readable: ev.Events&(unix.EPOLLIN|unix.EPOLLHUP) != 0,
				Writable: ev.Events&unix.EPOLLOUT != 0,
				Error:    ev.Events&(unix.EPOLLERR|unix.EPOLLHUP) != 0,
			}
		}
		return n, nil
	}
}

// Close releases the epoll descriptor. Registered descriptors are not closed.
func (p *Poller) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return unix.Close(p.epfd)
}

// Waker interrupts a blocked Poller.Wait from another goroutine.
type Waker struct {
	fd int

	mu     sync.RWMutex
	closed bool
}

// NewWaker creates an eventfd and registers it with p under token.
func NewWaker(p *Poller, token Token) (*Waker, error) {
	fd, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	if err != nil {
		return nil, fmt.Errorf("eventfd: %w", err)
	}
	if err := p.Register(fd, token, Readable); err != nil {
		_ = unix.Close(fd)
		return nil, err
	}
	return &Waker{fd: fd}, nil
}

// Wake makes the owning poller return an event for the waker's token.
func (w *Waker) Wake() error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return ErrClosed
	}

	var buf [8]byte
	binary.NativeEndian.PutUint64(buf[:], 1)
	for {
		_, err := unix.Write(w.fd, buf[:])
		switch err {
		case nil:
			return nil
		case unix.EINTR:
			continue
		case unix.EAGAIN:
			// Counter saturated; a reader has not caught up. Reset and retry.
			if err := w.reset(); err != nil {
				return err
			}
			continue
		default:
			return fmt.Errorf("eventfd write: %w", err)
		}
	}
}

// Reset clears the pending wake count.
func (w *Waker) Reset() error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return ErrClosed
	}
	return w.reset()
}

func (w *Waker) reset() error {
	var buf [8]byte
	for {
		_, err := unix.Read(w.fd, buf[:])
		switch err {
		case nil, unix.EAGAIN:
			return nil
		case unix.EINTR:
			continue
		default:
			return fmt.Errorf("eventfd read: %w", err)
		}
	}
}

// Close closes the eventfd. Later calls to Wake return ErrClosed.
func (w *Waker) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	return unix.Close(w.fd)
}
