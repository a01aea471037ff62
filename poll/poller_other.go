//go:build !linux

package poll

// Poller is unavailable on this platform.
type Poller struct{}

// New returns ErrUnsupported.
func New() (*Poller, error) {
	return nil, ErrUnsupported
}

// Register returns ErrUnsupported.
func (p *Poller) Register(fd int, token Token, interest Interest) error {
	return ErrUnsupported
}

// Deregister returns ErrUnsupported.
func (p *Poller) Deregister(fd int) error {
	return ErrUnsupported
}

// Wait returns ErrUnsupported.
func (p *Poller) Wait(events []Event) (int, error) {
	return 0, ErrUnsupported
}

// Close is a no-op.
func (p *Poller) Close() error {
	return nil
}

// Waker is unavailable on this platform.
type Waker struct{}

// NewWaker returns ErrUnsupported.
func NewWaker(p *Poller, token Token) (*Waker, error) {
	return nil, ErrUnsupported
}

// Wake returns ErrUnsupported.
func (w *Waker) Wake() error {
	return ErrUnsupported
}

// Reset returns ErrUnsupported.
func (w *Waker) Reset() error {
	return ErrUnsupported
}

// Close is a no-op.
func (w *Waker) Close() error {
	return nil
}
