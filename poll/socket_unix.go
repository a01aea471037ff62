//go:build unix

package poll

import (
	"fmt"
	"io"
	"net/netip"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"
)

// Socket is a duplicated, non-blocking datagram descriptor owned by a
// reactor. Reads go straight to the kernel and never enter the Go runtime
// network poller.
type Socket struct {
	fd int
	// owner is the connection the descriptor was duplicated from when the
	// socket took ownership of it. Close closes it as well.
	owner io.Closer

	mu     sync.Mutex
	closed bool
}

// Dup clones the descriptor behind conn and forces it into non-blocking
// mode. conn stays open and usable by its owner.
func Dup(conn syscall.Conn) (*Socket, error) {
	raw, err := conn.SyscallConn()
	if err != nil {
		return nil, fmt.Errorf("syscall conn: %w", err)
	}

	fd := -1
	var dupErr error
	if err := raw.Control(func(rawfd uintptr) {
		fd, dupErr = unix.Dup(int(rawfd))
	}); err != nil {
		return nil, fmt.Errorf("raw control: %w", err)
	}
	if dupErr != nil {
		return nil, fmt.Errorf("dup: %w", dupErr)
	}

	unix.CloseOnExec(fd)
	if err := unix.SetNonblock(fd, true); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("set nonblock: %w", err)
	}
	return &Socket{fd: fd}, nil
}

// Adopt is Dup followed by a transfer of ownership: closing the returned
// socket also closes conn.
func Adopt(conn interface {
	syscall.Conn
	io.Closer
}) (*Socket, error) {
	s, err := Dup(conn)
	if err != nil {
		return nil, err
	}
	s.owner = conn
	return s, nil
}

// Fd returns the duplicated descriptor.
func (s *Socket) Fd() int {
	return s.fd
}

// RecvFrom reads one datagram into buf. It returns ErrWouldBlock when no
// datagram is pending.
func (s *Socket) RecvFrom(buf []byte) (int, netip.AddrPort, error) {
	for {
		n, from, err := unix.Recvfrom(s.fd, buf, 0)
		switch err {
		case nil:
			return n, sockaddrToAddrPort(from), nil
		case unix.EINTR:
			continue
		case unix.EAGAIN:
			return 0, netip.AddrPort{}, ErrWouldBlock
		default:
			return 0, netip.AddrPort{}, fmt.Errorf("recvfrom fd %d: %w", s.fd, err)
		}
	}
}

// Close closes the duplicated descriptor and, for adopted sockets, the
// original connection. It is safe to call more than once.
func (s *Socket) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	err := unix.Close(s.fd)
	if s.owner != nil {
		if cerr := s.owner.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func sockaddrToAddrPort(sa unix.Sockaddr) netip.AddrPort {
	switch a := sa.(type) {
	case *unix.SockaddrInet4:
		return netip.AddrPortFrom(netip.AddrFrom4(a.Addr), uint16(a.Port))
	case *unix.SockaddrInet6:
		addr := netip.AddrFrom16(a.Addr)
		if a.ZoneId != 0 {
			addr = addr.WithZone(zoneName(a.ZoneId))
		}
		return netip.AddrPortFrom(addr, uint16(a.Port))
	default:
		return netip.AddrPort{}
	}
}
