package poll

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupported indicates the platform has no readiness backend
	ErrUnsupported = errors.New("poll: platform not supported")

	// ErrClosed indicates the poller, waker or socket has been closed
	ErrClosed = errors.New("poll: closed")

	// ErrWouldBlock indicates a non-blocking receive found no pending datagram
	ErrWouldBlock = errors.New("poll: would block")
)

// Token identifies one registration with a Poller.
// Tokens must be non-negative and fit in 31 bits.
type Token int

func (t Token) String() string {
	return fmt.Sprintf("token(%d)", int(t))
}

// Interest selects the readiness a registration is notified about.
type Interest uint8

const (
	// Readable requests notification when data can be read.
	Readable Interest = 1 << iota
	// Writable requests notification when data can be written.
	Writable
)

// Event is one readiness notification returned by Poller.Wait.
type Event struct {
	Token    Token
	Readable bool
	Writable bool
	// Error is set when the descriptor reported an error or hang-up condition.
	Error bool
}
