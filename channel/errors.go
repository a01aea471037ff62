package channel

import (
	"errors"
	"fmt"
)

// Common errors for the UDP channel core
var (
	// ErrReactorStopped indicates the sub reactor has exited and no longer
	// accepts socket updates
	ErrReactorStopped = errors.New("reactor stopped")

	// ErrControlQueueFull indicates too many socket updates are pending
	ErrControlQueueFull = errors.New("control queue full")

	// ErrInvalidUpdate indicates a malformed socket update
	ErrInvalidUpdate = errors.New("invalid socket update")

	// ErrNoMainSockets indicates the context carries no main socket
	ErrNoMainSockets = errors.New("no main sockets")

	// ErrNilHandler indicates no datagram handler was supplied
	ErrNilHandler = errors.New("nil handler")

	// ErrManagerMismatch indicates the reactors would register with a
	// different shutdown coordinator than the one handlers see in Context
	ErrManagerMismatch = errors.New("stop manager differs from context manager")
)

// ChannelError represents a reactor error with the socket it concerns
type ChannelError struct {
	Op    string // operation that caused the error
	Index int    // route key index of the socket, -1 if none
	Err   error  // underlying error
}

func (e *ChannelError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("channel %s socket %d: %v", e.Op, e.Index, e.Err)
	}
	return fmt.Sprintf("channel %s: %v", e.Op, e.Err)
}

func (e *ChannelError) Unwrap() error {
	return e.Err
}

// newChannelError creates a new ChannelError
func newChannelError(op string, index int, err error) *ChannelError {
	return &ChannelError{
		Op:    op,
		Index: index,
		Err:   err,
	}
}
