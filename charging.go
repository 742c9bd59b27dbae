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

package wlc

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sasha-s/go-deadlock"
)

// Charger drives one WLC session against a connected tag handle. Ticks,
// timer completions and the disconnect callback are serialized on an
// internal mutex, so the session only ever sees one transition at a
// time.
type Charger struct {
	mu       deadlock.Mutex
	dev      TagDevice
	notifier Notifier
	log      zerolog.Logger
	session  *Session
}

// New creates a Charger for the given tag handle.
func New(dev TagDevice, opts ...Option) (*Charger, error) {
	c := &Charger{
		dev:      dev,
		notifier: nopNotifier{},
		log:      zerolog.Nop(),
		session:  NewSession(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Session returns the session owned by this charger. It must only be
// inspected from the goroutine driving the charger.
func (c *Charger) Session() *Session {
	return c.session
}

// Tick runs one protocol tick: read the tag's NDEF content, classify
// it, step the state machine and apply the requested effects. A
// missing or unrelated message is expected protocol variance and never
// an error; only a failed control write is reported, and even that
// leaves the state machine in a recoverable state.
func (c *Charger) Tick() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var rs RecordSet
	msg, err := c.dev.ReadNDEF()
	switch {
	case err == nil:
		rs = DecodeRecords(msg)
	case errors.Is(err, ErrNoNDEFMessage):
		// Empty mailbox, treated like an unmatched record.
	default:
		c.log.Debug().Err(err).Msg("ndef read failed, treating as unmatched")
	}

	return c.step(rs)
}

// WptCompleted signals that a supervision interval elapsed without a
// disconnect. The loop re-enters at the info-request poll decision.
func (c *Charger) WptCompleted() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.state = StateTimerElapsed
	return c.step(RecordSet{})
}

// Deactivate signals the terminal timer condition, ending the session
// and returning the machine to idle.
func (c *Charger) Deactivate() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.state = StateTimerElapsedExit
	return c.step(RecordSet{})
}

// step advances the session and applies effects. Callers hold c.mu.
func (c *Charger) step(rs RecordSet) error {
	before := c.session.state
	fx := c.session.Step(rs)
	if c.session.state != before {
		c.log.Debug().
			Stringer("session", c.session.id).
			Stringer("from", before).
			Stringer("to", c.session.state).
			Msg("wlc state transition")
	}
	return c.apply(fx)
}

// apply performs the side effects requested by a transition.
func (c *Charger) apply(fx Effects) error {
	var writeErr error
	if fx.WriteControl {
		data, err := EncodeControl(c.session)
		if err != nil {
			// Encoding is total for any valid session; surfacing the
			// error keeps a corrupted session observable anyway.
			writeErr = err
		} else if err := c.dev.WriteNDEF(data); err != nil {
			c.log.Debug().Err(err).Msg("control write failed")
			writeErr = fmt.Errorf("write control message: %w", err)
		}
	}
	if fx.StopPresence {
		c.dev.StopPresenceCheck()
	}
	if fx.StartPresence > 0 {
		c.dev.StartPresenceCheck(fx.StartPresence, c.onTagDisconnected)
	}
	if fx.DeviceInfo != nil {
		c.notifier.OnWlcData(c.session.id, fx.DeviceInfo)
	}
	if fx.DisconnectTag {
		if err := c.dev.Disconnect(); err != nil {
			c.log.Debug().Err(err).Msg("tag disconnect failed")
		}
	}
	return writeErr
}

// onTagDisconnected is the presence supervision callback. Regardless of
// the current state it tears the session down, releases the tag handle
// and notifies the host exactly once.
func (c *Charger) onTagDisconnected() {
	c.mu.Lock()
	defer c.mu.Unlock()

	endedID := c.session.id
	fx := c.session.Disconnected()
	c.log.Debug().Stringer("session", endedID).Msg("tag disconnected, session ended")
	_ = c.apply(fx)
	if fx.SessionEnded {
		c.notifier.OnSessionEnded(endedID)
	}
}
