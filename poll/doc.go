// Package poll provides the OS readiness layer used by the UDP reactors.
//
// A Poller wraps one epoll instance. Descriptors are registered
// edge-triggered under a caller-chosen Token, which is returned verbatim in
// every Event so the caller can map readiness back to its own state without
// a lookup inside this package:
//
//	p, err := poll.New()
//	if err != nil {
//	    return err
//	}
//	defer p.Close()
//
//	waker, err := poll.NewWaker(p, 0)
//	sock, err := poll.Dup(conn)
//	err = p.Register(sock.Fd(), 1, poll.Readable)
//
//	events := make([]poll.Event, 64)
//	n, err := p.Wait(events)
//
// Because registration is edge-triggered a ready socket must be read until
// RecvFrom reports ErrWouldBlock, otherwise later datagrams may never raise
// another event.
//
// A Waker is an eventfd registered with a Poller. Wake is safe to call from
// any goroutine and interrupts a blocked Wait.
//
// Only Linux is supported. On other platforms New and NewWaker return
// ErrUnsupported.
package poll
