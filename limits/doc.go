// Package limits provides centralized size and capacity constants and
// validation functions for the UDP channel core.
//
// # Buffers
//
//   - MaxDatagramSize (64 KiB): receive buffer used by every reactor. One
//     buffer is allocated per reactor goroutine and reused for every
//     datagram, so the handler must copy anything it wants to keep.
//   - MinDatagramSize (1280 bytes): lowest accepted configured buffer size.
//
// # Queues and batches
//
//   - ControlQueueCapacity (64): pending socket-set updates for the sub
//     reactor.
//   - SubEventCapacity (1024): readiness events read per wait by the sub
//     reactor. The main reactor sizes its batch with MainEventCapacity.
//
// # Validation Functions
//
//	if err := limits.ValidateBufferSize(size); err != nil {
//	    return err
//	}
//
// All validation errors wrap ErrOutOfRange and can be matched with errors.Is.
package limits
