// Package connectivity tracks whether the remote side is reachable and tells
// subscribers about every change.
//
// A Monitor keeps the last known state and only notifies on real transitions,
// so repeated identical observations never reach subscribers. The initial
// state is offline: an unknown state is treated as unreachable, which makes
// the first successful probe an offline to online edge.
package connectivity

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/traveljournal/internal/logging"
)

// Status reports the last known reachability.
type Status interface {
	Online() bool
}

// Listener is called with the new state after each transition.
type Listener func(online bool)

// Monitor is safe for concurrent use.
type Monitor struct {
	mu        sync.Mutex
	online    bool
	listeners []Listener
	log       logging.Logger
}

func NewMonitor(log logging.Logger) *Monitor {
	return &Monitor{log: log}
}

// Subscribe registers l for the lifetime of the monitor.
func (m *Monitor) Subscribe(l Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, l)
}

func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Report records an observation and notifies listeners when it differs from
// the stored state. It returns true when a transition happened. Listeners run
// synchronously on the caller's goroutine, outside the monitor's lock.
func (m *Monitor) Report(online bool) bool {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return false
	}
	m.online = online
	listeners := append([]Listener(nil), m.listeners...)
	m.mu.Unlock()

	m.log.Info(context.Background(), "connectivity changed", "online", online)
	for _, l := range listeners {
		l(online)
	}
	return true
}
