//go:build !unix

package poll

import (
	"io"
	"net/netip"
	"syscall"
)

// Socket is unavailable on this platform.
type Socket struct{}

// Dup returns ErrUnsupported.
func Dup(conn syscall.Conn) (*Socket, error) {
	return nil, ErrUnsupported
}

// Adopt returns ErrUnsupported.
func Adopt(conn interface {
	syscall.Conn
	io.Closer
}) (*Socket, error) {
	return nil, ErrUnsupported
}

// Fd returns -1.
func (s *Socket) Fd() int {
	return -1
}

// RecvFrom returns ErrUnsupported.
func (s *Socket) RecvFrom(buf []byte) (int, netip.AddrPort, error) {
	return 0, netip.AddrPort{}, ErrUnsupported
}

// Close is a no-op.
func (s *Socket) Close() error {
	return nil
}
