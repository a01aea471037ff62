package channel

import (
	"net"

	"github.com/opd-ai/vntchannel/limits"
	"github.com/opd-ai/vntchannel/poll"
)

const subComponent = "subUdp"

// subReactor reads the extra sockets used for port prediction behind a
// symmetric NAT. Its socket map is owned by the reactor goroutine and only
// changes in response to control channel updates.
//
// Extra socket i is registered under token ChannelNum()+i, which is also its
// route key index, so main and extra indices never overlap.
type subReactor struct {
	ctx      *Context
	handler  Handler
	poller   *poll.Poller
	notifier *Notifier
	sender   *SocketSender
	sockets  map[poll.Token]*poll.Socket
	// next is the number of extra sockets registered since the last cone
	// switch; the next symmetric update starts at ChannelNum()+next.
	next   int
	buf    []byte
	events []poll.Event
}

func newSubReactor(ctx *Context, handler Handler, opts *Options) (*subReactor, error) {
	poller, err := poll.New()
	if err != nil {
		return nil, newChannelError("poller", -1, err)
	}
	waker, err := poll.NewWaker(poller, notifyToken)
	if err != nil {
		_ = poller.Close()
		return nil, newChannelError("waker", -1, err)
	}
	notifier := newNotifier(waker)

	return &subReactor{
		ctx:      ctx,
		handler:  handler,
		poller:   poller,
		notifier: notifier,
		sender:   newSocketSender(notifier, opts.ControlQueueSize),
		sockets:  make(map[poll.Token]*poll.Socket, limits.InitialSocketMapCapacity),
		buf:      make([]byte, opts.BufferSize),
		events:   make([]poll.Event, opts.SubEventCapacity),
	}, nil
}

func (r *subReactor) run() error {
	for {
		n, err := r.poller.Wait(r.events)
		if err != nil {
			return newChannelError("wait", -1, err)
		}
		for _, ev := range r.events[:n] {
			if ev.Token == notifyToken {
				if r.notifier.IsStop() {
					newLogger(subComponent, "run").Debug("Sub reactor stop requested")
					return nil
				}
				if err := r.notifier.reset(); err != nil {
					return newChannelError("reset", -1, err)
				}
				if r.notifier.TakeAddSocket() {
					if err := r.applyUpdates(); err != nil {
						return err
					}
				}
				continue
			}

			sock, ok := r.sockets[ev.Token]
			if !ok {
				continue
			}
			drainSocket(subComponent, sock, int(ev.Token), r.buf, r.handler, r.ctx)
		}
	}
}

// applyUpdates drains the control channel without blocking, applying every
// queued update in order. Several sends may share one wake-up.
func (r *subReactor) applyUpdates() error {
	for {
		select {
		case update := <-r.sender.queue:
			if err := r.apply(update); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (r *subReactor) apply(update SocketUpdate) error {
	if update.Cone {
		return r.switchToCone()
	}
	return r.switchToSymmetric(update.Sockets)
}

// switchToCone deregisters and closes every extra socket. All sockets are
// closed even when one fails to deregister; the first failure is returned.
func (r *subReactor) switchToCone() error {
	newLogger(subComponent, "switchToCone").
		WithField("sockets", len(r.sockets)).
		Info("Switching to cone mode")

	var firstErr error
	for token, sock := range r.sockets {
		if err := r.poller.Deregister(sock.Fd()); err != nil && firstErr == nil {
			firstErr = newChannelError("deregister", int(token), err)
		}
		if err := sock.Close(); err != nil {
			newLogger(subComponent, "switchToCone").
				WithIndex(int(token)).
				WithError(err, "close").
				Warn("Failed to close extra socket")
		}
		delete(r.sockets, token)
	}
	r.next = 0
	return firstErr
}

// switchToSymmetric registers sockets after those already in the pool.
// Updates are additive; send a cone update first to replace the pool.
func (r *subReactor) switchToSymmetric(sockets []*net.UDPConn) error {
	base := r.ctx.ChannelNum() + r.next
	newLogger(subComponent, "switchToSymmetric").
		WithField("sockets", len(sockets)).
		WithField("first_index", base).
		Info("Switching to symmetric mode")

	for i, conn := range sockets {
		index := base + i
		sock, err := poll.Adopt(conn)
		if err != nil {
			closeConns(sockets[i:])
			return newChannelError("adopt", index, err)
		}
		token := poll.Token(index)
		if err := r.poller.Register(sock.Fd(), token, poll.Readable); err != nil {
			_ = sock.Close()
			closeConns(sockets[i+1:])
			return newChannelError("register", index, err)
		}
		r.sockets[token] = sock
		r.next++
	}
	return nil
}

// socketCount returns the number of registered extra sockets. Only valid
// from the reactor goroutine or after it has exited.
func (r *subReactor) socketCount() int {
	return len(r.sockets)
}

// close rejects further updates, closes every extra socket including those
// of updates still queued, then releases the notifier and poller.
func (r *subReactor) close() {
	for _, update := range r.sender.close() {
		closeConns(update.Sockets)
	}
	for token, sock := range r.sockets {
		if err := sock.Close(); err != nil {
			newLogger(subComponent, "close").
				WithIndex(int(token)).
				WithError(err, "close").
				Warn("Failed to close extra socket")
		}
		delete(r.sockets, token)
	}
	_ = r.notifier.close()
	_ = r.poller.Close()
}

func closeConns(conns []*net.UDPConn) {
	for _, conn := range conns {
		_ = conn.Close()
	}
}
