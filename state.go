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

// State identifies a phase of the WLC charging session state machine.
// The numeric values follow the phase numbering of the wireless
// charging specification; value 7 is reserved there and unused here.
type State int

const (
	// StateIdle means no charging session is in progress.
	StateIdle State = 0
	// StateModeRequested means the listener announced charging
	// capability with a mode request.
	StateModeRequested State = 1
	// StateNegotiating means the negotiation-wait indicator is being
	// evaluated.
	StateNegotiating State = 2
	// StateSendControl means the poller is about to transmit its
	// control parameters.
	StateSendControl State = 3
	// StateAwaitControlAck means the poller is waiting for the
	// listener's control acknowledgement.
	StateAwaitControlAck State = 4
	// StateSendControlAlt is the alternate control-send path taken
	// mid-session.
	StateSendControlAlt State = 5
	// StateEvaluateWpt decides whether to start wireless power
	// transfer.
	StateEvaluateWpt State = 6
	// StateCheckInfoRequest is the mid-session poll decision point.
	StateCheckInfoRequest State = 8
	// StateSupervising means power transfer is in progress under
	// presence supervision.
	StateSupervising State = 9
	// StateTimerElapsed means a supervision interval elapsed without a
	// disconnect.
	StateTimerElapsed State = 10
	// StateTimerElapsedExit is the terminal timer condition ending the
	// session.
	StateTimerElapsedExit State = 11
)

// String returns a human readable name for the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateModeRequested:
		return "mode-requested"
	case StateNegotiating:
		return "negotiating"
	case StateSendControl:
		return "send-control"
	case StateAwaitControlAck:
		return "await-control-ack"
	case StateSendControlAlt:
		return "send-control-alt"
	case StateEvaluateWpt:
		return "evaluate-wpt"
	case StateCheckInfoRequest:
		return "check-info-request"
	case StateSupervising:
		return "supervising"
	case StateTimerElapsed:
		return "timer-elapsed"
	case StateTimerElapsedExit:
		return "timer-elapsed-exit"
	default:
		return "unknown"
	}
}
