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
	"fmt"

	"github.com/rs/zerolog"
)

// Option is a functional option for configuring a Charger
type Option func(*Charger) error

// WithNotifier sets the host notifier receiving device info and
// session-ended events
func WithNotifier(n Notifier) Option {
	return func(c *Charger) error {
		if n == nil {
			return fmt.Errorf("notifier must not be nil")
		}
		c.notifier = n
		return nil
	}
}

// WithLogger sets the logger used for state transition traces. The
// default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Charger) error {
		c.log = log
		return nil
	}
}

// WithNegoRetryBudget sets the number of failed negotiation attempts
// tolerated before a session aborts to idle
func WithNegoRetryBudget(n int) Option {
	return func(c *Charger) error {
		if n < 1 {
			return fmt.Errorf("negotiation retry budget must be at least 1, got %d", n)
		}
		c.session.negoBudget = n
		c.session.negoRetry = n
		return nil
	}
}

// WithMaxControlRetries sets the number of unacknowledged control reads
// tolerated before a session aborts to idle
func WithMaxControlRetries(n int) Option {
	return func(c *Charger) error {
		if n < 1 {
			return fmt.Errorf("control retry cap must be at least 1, got %d", n)
		}
		c.session.maxCtlRetry = n
		return nil
	}
}
