package channel

import (
	"github.com/opd-ai/vntchannel/limits"
)

// Options configures the UDP reactors.
type Options struct {
	// BufferSize is the per-reactor receive buffer. Larger datagrams are
	// truncated by the kernel.
	BufferSize int
	// ControlQueueSize bounds the number of pending socket updates.
	ControlQueueSize int
	// SubEventCapacity is the readiness batch size of the sub reactor.
	SubEventCapacity int
}

// NewOptions returns a new Options with sensible defaults.
func NewOptions() *Options {
	return &Options{
		BufferSize:       limits.MaxDatagramSize,
		ControlQueueSize: limits.ControlQueueCapacity,
		SubEventCapacity: limits.SubEventCapacity,
	}
}

// Validate checks every option against the limits package.
func (o *Options) Validate() error {
	if err := limits.ValidateBufferSize(o.BufferSize); err != nil {
		return err
	}
	if err := limits.ValidateQueueCapacity(o.ControlQueueSize); err != nil {
		return err
	}
	return limits.ValidateEventCapacity(o.SubEventCapacity)
}
