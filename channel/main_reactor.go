package channel

import (
	"github.com/opd-ai/vntchannel/limits"
	"github.com/opd-ai/vntchannel/poll"
)

// notifyToken is the registration token of each reactor's notifier.
const notifyToken poll.Token = 0

const mainComponent = "mainUdp"

// mainReactor reads the node's fixed main sockets for the life of the
// process. Main socket i is registered under token i+1.
type mainReactor struct {
	ctx      *Context
	handler  Handler
	poller   *poll.Poller
	notifier *Notifier
	sockets  []*poll.Socket
	buf      []byte
	events   []poll.Event
}

func newMainReactor(ctx *Context, handler Handler, opts *Options) (*mainReactor, error) {
	poller, err := poll.New()
	if err != nil {
		return nil, newChannelError("poller", -1, err)
	}
	waker, err := poll.NewWaker(poller, notifyToken)
	if err != nil {
		_ = poller.Close()
		return nil, newChannelError("waker", -1, err)
	}

	return &mainReactor{
		ctx:      ctx,
		handler:  handler,
		poller:   poller,
		notifier: newNotifier(waker),
		sockets:  make([]*poll.Socket, 0, ctx.ChannelNum()),
		buf:      make([]byte, opts.BufferSize),
		events:   make([]poll.Event, limits.MainEventCapacity(ctx.ChannelNum())),
	}, nil
}

// register clones every main socket into the poller.
func (r *mainReactor) register() error {
	for index, conn := range r.ctx.MainSockets() {
		sock, err := poll.Dup(conn)
		if err != nil {
			return newChannelError("clone", index, err)
		}
		r.sockets = append(r.sockets, sock)
		if err := r.poller.Register(sock.Fd(), poll.Token(index+1), poll.Readable); err != nil {
			return newChannelError("register", index, err)
		}
	}

	newLogger(mainComponent, "register").
		WithField("sockets", len(r.sockets)).
		Debug("Main sockets registered")
	return nil
}

func (r *mainReactor) run() error {
	if err := r.register(); err != nil {
		return err
	}
	return r.loop()
}

// loop blocks on readiness until the notifier fires. The main socket set
// never changes, so any notifier event means stop.
func (r *mainReactor) loop() error {
	for {
		n, err := r.poller.Wait(r.events)
		if err != nil {
			return newChannelError("wait", -1, err)
		}
		for _, ev := range r.events[:n] {
			if ev.Token == notifyToken {
				newLogger(mainComponent, "loop").Debug("Main reactor stop requested")
				return nil
			}
			index := int(ev.Token) - 1
			if index < 0 || index >= len(r.sockets) {
				continue
			}
			drainSocket(mainComponent, r.sockets[index], index, r.buf, r.handler, r.ctx)
		}
	}
}

// close releases the cloned descriptors, the notifier and the poller.
// The caller's main sockets stay open.
func (r *mainReactor) close() {
	for index, sock := range r.sockets {
		if err := sock.Close(); err != nil {
			newLogger(mainComponent, "close").
				WithIndex(index).
				WithError(err, "close").
				Warn("Failed to close cloned main socket")
		}
	}
	r.sockets = nil
	_ = r.notifier.close()
	_ = r.poller.Close()
}
