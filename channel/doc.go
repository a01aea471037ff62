// Package channel implements the UDP reception core of a peer-to-peer
// virtual network tunnel.
//
// Two reactors run on dedicated goroutines, each blocked in a single epoll
// wait:
//
//   - the main reactor reads the node's fixed main sockets, index i of
//     Context.MainSockets receiving route key index i;
//   - the sub reactor reads a replaceable pool of extra sockets used for
//     port prediction behind a symmetric NAT. Its sockets receive indices
//     from Context.ChannelNum() upward, so a RouteKey index identifies one
//     socket across both pools.
//
// # Getting Started
//
//	manager := stop.NewManager(nil)
//	ctx := channel.NewContext(manager, mainSockets)
//
//	sender, err := channel.UDPListen(manager, channel.HandlerFunc(
//	    func(buf []byte, key channel.RouteKey, ctx *channel.Context) {
//	        // parse buf; reply later on the socket at key.Index()
//	    }), ctx, nil)
//	if err != nil {
//	    return err
//	}
//
//	// NAT detection decided the local NAT is symmetric.
//	err = sender.SwitchToSymmetric(extraSockets)
//
//	// ... and later that it is a cone NAT after all.
//	err = sender.SwitchToCone()
//
// # Socket Updates
//
// SocketSender never blocks: updates go into a bounded queue and the sub
// reactor is woken through its Notifier. Updates queued before the reactor
// wakes are applied together, in order. Symmetric updates are additive:
// two updates of two sockets each register four sockets. Send a cone
// update first to replace the pool.
//
// # Shutdown
//
// Each reactor registers a listener with the stop.Manager. Calling
// Manager.Stop, Context.Stop or any Worker.StopAll interrupts both waits.
// A reactor that exits on its own, for example after a registration
// failure, stops the manager as well.
package channel
