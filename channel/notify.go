package channel

import (
	"sync/atomic"

	"github.com/opd-ai/vntchannel/poll"
)

const (
	notifyStop uint32 = 1 << iota
	notifyAddSocket
)

// Notifier wakes a reactor blocked in its readiness wait and records why.
// Stop takes precedence over a pending socket update.
type Notifier struct {
	waker *poll.Waker
	state atomic.Uint32
}

func newNotifier(waker *poll.Waker) *Notifier {
	return &Notifier{waker: waker}
}

// Stop asks the reactor to exit at its next wake-up.
func (n *Notifier) Stop() error {
	n.state.Or(notifyStop)
	return n.waker.Wake()
}

// NotifyAddSocket tells the reactor socket updates are queued.
func (n *Notifier) NotifyAddSocket() error {
	n.state.Or(notifyAddSocket)
	return n.waker.Wake()
}

// Wake interrupts the reactor without recording an intent.
func (n *Notifier) Wake() error {
	return n.waker.Wake()
}

// IsStop reports whether a stop was requested.
func (n *Notifier) IsStop() bool {
	return n.state.Load()&notifyStop != 0
}

// TakeAddSocket reports whether socket updates were signalled since the
// last call and clears the flag.
func (n *Notifier) TakeAddSocket() bool {
	return n.state.And(^notifyAddSocket)&notifyAddSocket != 0
}

// reset clears the wake primitive so the next Wake raises a new event.
func (n *Notifier) reset() error {
	return n.waker.Reset()
}

func (n *Notifier) close() error {
	return n.waker.Close()
}
