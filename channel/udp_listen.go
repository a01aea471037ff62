package channel

import (
	"errors"

	"github.com/opd-ai/vntchannel/poll"
	"github.com/opd-ai/vntchannel/stop"
)

const (
	mainListenerName = "main_udp"
	subListenerName  = "sub_udp_listen"
)

// UDPListen starts the main and sub reactors and returns the producer end
// of the sub reactor's control channel.
//
// Both reactors register with manager before either starts. When either
// one exits, for any reason, it stops the whole manager so the node never
// keeps running with half of its receive path. manager must be nil or the
// one ctx was built with, so a handler calling ctx.Stop stops these
// reactors. A nil manager falls back to ctx.Manager() and a nil opts uses
// NewOptions.
func UDPListen(manager *stop.Manager, handler Handler, ctx *Context, opts *Options) (*SocketSender, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if ctx == nil || ctx.ChannelNum() == 0 {
		return nil, ErrNoMainSockets
	}
	if manager == nil {
		manager = ctx.Manager()
	} else if manager != ctx.Manager() {
		return nil, ErrManagerMismatch
	}
	if opts == nil {
		opts = NewOptions()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	mr, mainWorker, err := mainUDPListen(manager, handler, ctx, opts)
	if err != nil {
		return nil, err
	}
	sr, subWorker, err := subUDPListen(manager, handler, ctx, opts)
	if err != nil {
		mr.close()
		mainWorker.Release()
		return nil, err
	}

	go serve(mainComponent, mr.run, mr.close, mainWorker)
	go serve(subComponent, sr.run, sr.close, subWorker)

	newLogger(mainComponent, "UDPListen").
		WithField("main_sockets", ctx.ChannelNum()).
		Info("UDP reactors started")
	return sr.sender, nil
}

func mainUDPListen(manager *stop.Manager, handler Handler, ctx *Context, opts *Options) (*mainReactor, *stop.Worker, error) {
	r, err := newMainReactor(ctx, handler, opts)
	if err != nil {
		return nil, nil, err
	}

	worker, err := manager.AddListener(mainListenerName, func() {
		stopNotifier(mainComponent, r.notifier)
	})
	if err != nil {
		r.close()
		return nil, nil, err
	}
	return r, worker, nil
}

func subUDPListen(manager *stop.Manager, handler Handler, ctx *Context, opts *Options) (*subReactor, *stop.Worker, error) {
	r, err := newSubReactor(ctx, handler, opts)
	if err != nil {
		return nil, nil, err
	}

	worker, err := manager.AddListener(subListenerName, func() {
		stopNotifier(subComponent, r.notifier)
	})
	if err != nil {
		r.close()
		return nil, nil, err
	}
	return r, worker, nil
}

// serve runs one reactor to completion on the calling goroutine. Whatever
// ends the reactor, its resources are released and the rest of the node is
// told to stop.
func serve(component string, run func() error, cleanup func(), worker *stop.Worker) {
	if err := run(); err != nil {
		newLogger(component, "serve").
			WithError(err, "run").
			Error("UDP reactor failed")
	} else {
		newLogger(component, "serve").Debug("UDP reactor stopped")
	}
	cleanup()
	worker.StopAll()
}

// stopNotifier fires a reactor's stop. A reactor that already exited has
// closed its waker, which is not an error here.
func stopNotifier(component string, n *Notifier) {
	if err := n.Stop(); err != nil && !errors.Is(err, poll.ErrClosed) {
		newLogger(component, "stopNotifier").
			WithError(err, "stop").
			Error("Failed to signal reactor stop")
	}
}
