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

/*
Package wlc implements the poller side of NFC wireless charging (WLC):
the negotiation and power-transfer control loop a phone-class NFC
controller runs against a charging-capable tag, entirely over NDEF
message exchange.

The library is transport-agnostic. Callers provide a TagDevice exposing
read/write-NDEF primitives plus presence checking on an already
connected tag handle, and drive the Charger once per protocol tick
(on message arrival or timer expiry):

	charger, err := wlc.New(device,
	    wlc.WithNotifier(notifier),
	    wlc.WithLogger(logger),
	)
	if err != nil {
	    log.Fatal(err)
	}

	for tagPresent {
	    if err := charger.Tick(); err != nil {
	        // write failures are reported but never fatal; the
	        // state machine recovers through its retry budgets
	    }
	}

Protocol model:

The charging session walks a fixed set of states (idle, mode requested,
negotiating, control exchange, WPT supervision). All record parsing is
total: a record with the wrong type token, or one shorter than its fixed
field layout, is treated as "not matched" rather than an error, because
heterogeneous and stale tag content is the normal case on this link.
Failed negotiations and unacknowledged control exchanges consume bounded
retry budgets and fall back to the idle state; there are no fatal
protocol errors.

During wireless power transfer the loop arms presence checking on the
tag handle. A disconnect callback tears the session down, emits a single
session-ended notification and leaves the machine ready for the next
tag arrival.

Thread Safety:

Ticks, timer completions and the disconnect callback for one Charger are
serialized internally. A Session must only be manipulated through its
owning Charger or from a single goroutine.
*/
package wlc
