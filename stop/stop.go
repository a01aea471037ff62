// Package stop coordinates shutdown across independently started goroutines.
//
// Each long-lived component registers a named callback with a Manager and
// keeps the returned Worker. Any component may trigger a full stop through
// its Worker; every registered callback then runs once, and the Manager
// reports fully stopped after every Worker has released.
package stop

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	// ErrStopped indicates the manager has already been stopped
	ErrStopped = errors.New("stop manager already stopped")

	// ErrDuplicateListener indicates a listener with the same name is registered
	ErrDuplicateListener = errors.New("listener already registered")
)

// Manager is a process-wide registry of stop callbacks.
type Manager struct {
	mu        sync.Mutex
	stopped   bool
	listeners map[string]func()
	// workers counts workers that have not released yet.
	workers int
	// running counts callbacks currently executing inside Stop.
	running   int
	finished  bool
	onStopped func()
	done      chan struct{}
}

// NewManager creates a Manager. onStopped, if non-nil, runs once when the
// manager becomes fully stopped.
func NewManager(onStopped func()) *Manager {
	return &Manager{
		listeners: make(map[string]func()),
		onStopped: onStopped,
		done:      make(chan struct{}),
	}
}

// AddListener registers fn under name. fn runs when any worker calls
// StopAll or when Stop is called.
func (m *Manager) AddListener(name string, fn func()) (*Worker, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped {
		return nil, fmt.Errorf("add listener %q: %w", name, ErrStopped)
	}
	if _, exists := m.listeners[name]; exists {
		return nil, fmt.Errorf("add listener %q: %w", name, ErrDuplicateListener)
	}

	m.listeners[name] = fn
	m.workers++

	logrus.WithFields(logrus.Fields{
		"function": "AddListener",
		"listener": name,
		"workers":  m.workers,
	}).Debug("Stop listener registered")

	return &Worker{name: name, manager: m}, nil
}

// Stop runs every registered callback exactly once. Later calls are no-ops.
// Callbacks run outside the manager lock, so they may call back into it.
func (m *Manager) Stop() {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.stopped = true
	listeners := m.listeners
	m.listeners = make(map[string]func())
	m.running = len(listeners)
	m.mu.Unlock()

	names := make([]string, 0, len(listeners))
	for name := range listeners {
		names = append(names, name)
	}
	sort.Strings(names)

	logrus.WithFields(logrus.Fields{
		"function":  "Stop",
		"listeners": names,
	}).Info("Stopping all listeners")

	for _, name := range names {
		m.runListener(name, listeners[name])
	}

	m.mu.Lock()
	m.tryFinishLocked()
	m.mu.Unlock()
}

func (m *Manager) runListener(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithFields(logrus.Fields{
				"function": "Stop",
				"listener": name,
				"panic":    r,
			}).Error("Stop listener panicked")
		}
		m.mu.Lock()
		m.running--
		m.mu.Unlock()
	}()
	fn()
}

// tryFinishLocked closes done once stop has run every callback and every
// worker has released. m.mu must be held.
func (m *Manager) tryFinishLocked() {
	if m.finished || !m.stopped || m.running > 0 || m.workers > 0 {
		return
	}
	m.finished = true
	close(m.done)

	logrus.WithFields(logrus.Fields{
		"function": "Stop",
	}).Info("All workers stopped")

	if m.onStopped != nil {
		go m.onStopped()
	}
}

// IsStopped reports whether Stop has been triggered.
func (m *Manager) IsStopped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}

// Done returns a channel closed once the manager is fully stopped.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

// Wait blocks until the manager is fully stopped.
func (m *Manager) Wait() {
	<-m.done
}

// WaitTimeout waits up to d for the manager to be fully stopped and reports
// whether it was.
func (m *Manager) WaitTimeout(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-m.done:
		return true
	case <-timer.C:
		return false
	}
}

func (m *Manager) release(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.listeners, name)
	m.workers--

	logrus.WithFields(logrus.Fields{
		"function": "Release",
		"listener": name,
		"workers":  m.workers,
	}).Debug("Stop listener released")

	m.tryFinishLocked()
}

// Worker is a registration handle returned by AddListener.
type Worker struct {
	name    string
	manager *Manager
	once    sync.Once
}

// Name returns the listener name the worker was registered with.
func (w *Worker) Name() string {
	return w.name
}

// StopAll stops the whole manager, running every registered callback
// including those of other workers, then releases w.
func (w *Worker) StopAll() {
	logrus.WithFields(logrus.Fields{
		"function": "StopAll",
		"listener": w.name,
	}).Debug("Worker requested stop of all listeners")

	w.manager.Stop()
	w.Release()
}

// Release marks w as finished without stopping the others. Its callback
// will not run on a later Stop. Safe to call more than once.
func (w *Worker) Release() {
	w.once.Do(func() {
		w.manager.release(w.name)
	})
}
