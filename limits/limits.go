// Package limits provides centralized size and capacity limits for the UDP
// channel core. This ensures consistent validation across the reactors and
// their configuration.
package limits

import (
	"errors"
	"fmt"
)

const (
	// MaxDatagramSize is the receive buffer size used by both reactors (64 KiB).
	// Any IPv4 or IPv6 UDP payload fits without truncation.
	MaxDatagramSize = 64 * 1024

	// MinDatagramSize is the smallest receive buffer accepted by configuration.
	// It matches the IPv6 minimum MTU so a tunnel frame is never cut short.
	MinDatagramSize = 1280

	// ControlQueueCapacity is the number of socket-set updates that may be
	// pending for the sub reactor before producers get channel.ErrControlQueueFull.
	ControlQueueCapacity = 64

	// MaxControlQueueCapacity bounds a configured control queue.
	MaxControlQueueCapacity = 4096

	// SubEventCapacity is the readiness event batch size of the sub reactor.
	SubEventCapacity = 1024

	// MaxEventCapacity bounds a configured event batch.
	MaxEventCapacity = 65536

	// InitialSocketMapCapacity is the starting size of the sub reactor socket map.
	InitialSocketMapCapacity = 32

	// MaxConsecutiveRecvErrors ends a drain loop that keeps failing without
	// ever reaching would-block, so a broken descriptor cannot spin a reactor.
	MaxConsecutiveRecvErrors = 16
)

var (
	// ErrOutOfRange indicates a configured value lies outside its permitted range
	ErrOutOfRange = errors.New("value out of range")
)

// ValidateRange checks that value lies in [lo, hi].
// Returns an error with context naming the offending setting.
func ValidateRange(name string, value, lo, hi int) error {
	if value < lo || value > hi {
		return fmt.Errorf("%w: %s %d not in [%d, %d]", ErrOutOfRange, name, value, lo, hi)
	}
	return nil
}

// ValidateBufferSize validates a receive buffer size against
// MinDatagramSize and MaxDatagramSize.
func ValidateBufferSize(size int) error {
	return ValidateRange("buffer size", size, MinDatagramSize, MaxDatagramSize)
}

// ValidateQueueCapacity validates a control queue capacity.
// A zero capacity would make every update fail, so at least one slot is required.
func ValidateQueueCapacity(capacity int) error {
	return ValidateRange("control queue capacity", capacity, 1, MaxControlQueueCapacity)
}

// ValidateEventCapacity validates a readiness event batch size.
func ValidateEventCapacity(capacity int) error {
	return ValidateRange("event capacity", capacity, 1, MaxEventCapacity)
}

// MainEventCapacity returns the event batch size for a main reactor serving
// socketCount sockets: one slot per socket plus the notifier.
func MainEventCapacity(socketCount int) int {
	if socketCount < 0 {
		socketCount = 0
	}
	return socketCount + 1
}
