// go-wlc
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-wlc.
//
// go-wlc is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-wlc is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-wlc; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

// Package presence implements periodic tag liveness supervision for
// transports that lack native presence checking. A Supervisor polls a
// probe at the armed interval; each interval that elapses with the tag
// still present emits an elapsed event, and the first failed probe
// fires the disconnect callback exactly once per arm cycle.
package presence

import (
	"sync"
	"time"

	"github.com/sasha-s/go-deadlock"
)

// ProbeFunc checks that the coupled tag is still in the field. It
// returns an error once the tag has left.
type ProbeFunc func() error

// Event is the completion signal of a supervision watch.
type Event int

const (
	// EventElapsed means one supervision interval passed with the tag
	// still present.
	EventElapsed Event = iota
	// EventDisconnected means a liveness probe failed; the disconnect
	// callback has been invoked.
	EventDisconnected
	// EventStopped means the watch was explicitly disarmed.
	EventStopped
)

// String returns a human readable name for the event.
func (e Event) String() string {
	switch e {
	case EventElapsed:
		return "elapsed"
	case EventDisconnected:
		return "disconnected"
	case EventStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Supervisor arms liveness polling of one coupled tag. At most one
// watch is active at a time; arming while active replaces the previous
// watch.
type Supervisor struct {
	mu    deadlock.Mutex
	probe ProbeFunc
	watch *Watch
}

// NewSupervisor creates a supervisor using the given liveness probe.
func NewSupervisor(probe ProbeFunc) *Supervisor {
	return &Supervisor{probe: probe}
}

// Start arms periodic liveness polling with the given interval and
// disconnect callback, replacing any active watch. The callback fires
// at most once per arm cycle. The returned watch delivers elapsed and
// completion events on its channel.
func (s *Supervisor) Start(interval time.Duration, onDisconnect func()) *Watch {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.watch != nil {
		s.watch.cancel(EventStopped)
	}
	w := newWatch(s.probe, interval, onDisconnect)
	s.watch = w
	go w.run()
	return w
}

// Stop disarms the active watch. It is idempotent.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.watch != nil {
		s.watch.cancel(EventStopped)
		s.watch = nil
	}
}

// Active reports whether a watch is currently armed.
func (s *Supervisor) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.watch != nil && !s.watch.done()
}

// Watch is one arm cycle of the supervisor. It terminates on the first
// failed probe or when canceled; elapsed intervals are reported without
// terminating the watch.
type Watch struct {
	probe        ProbeFunc
	interval     time.Duration
	onDisconnect func()

	events   chan Event
	stop     chan struct{}
	stopOnce sync.Once
	fireOnce sync.Once
	stopped  Event // cause recorded by cancel, for tests
}

func newWatch(probe ProbeFunc, interval time.Duration, onDisconnect func()) *Watch {
	return &Watch{
		probe:        probe,
		interval:     interval,
		onDisconnect: onDisconnect,
		events:       make(chan Event, 4),
		stop:         make(chan struct{}),
	}
}

// Events returns the watch's event channel. The channel is buffered;
// slow consumers lose elapsed events but never the terminal one.
func (w *Watch) Events() <-chan Event {
	return w.events
}

func (w *Watch) run() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stop:
			return
		case <-ticker.C:
			if err := w.probe(); err != nil {
				w.disconnect()
				return
			}
			w.emit(EventElapsed)
		}
	}
}

// disconnect fires the callback and terminal event at most once.
func (w *Watch) disconnect() {
	w.fireOnce.Do(func() {
		w.emit(EventDisconnected)
		if w.onDisconnect != nil {
			w.onDisconnect()
		}
	})
	w.cancel(EventDisconnected)
}

// cancel terminates the watch with the given cause. Subsequent calls
// are no-ops, so Stop stays idempotent.
func (w *Watch) cancel(cause Event) {
	w.stopOnce.Do(func() {
		w.stopped = cause
		if cause == EventStopped {
			w.emit(EventStopped)
		}
		close(w.stop)
	})
}

func (w *Watch) done() bool {
	select {
	case <-w.stop:
		return true
	default:
		return false
	}
}

// emit delivers an event without blocking the supervision goroutine.
func (w *Watch) emit(ev Event) {
	select {
	case w.events <- ev:
	default:
	}
}
