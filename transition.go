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

import "time"

// Effects enumerates the side effects a transition requests from its
// caller. The step function itself only mutates session state, so the
// state machine stays testable without a transport.
type Effects struct {
	// WriteControl requests encoding the session's control parameters
	// and writing them to the tag.
	WriteControl bool
	// StartPresence arms presence checking with the given interval
	// when non-zero.
	StartPresence time.Duration
	// StopPresence disarms presence checking.
	StopPresence bool
	// DeviceInfo carries the parsed listener device info for the host
	// notifier when non-nil. Emitted once per acknowledged control
	// exchange.
	DeviceInfo map[InfoKey]int
	// SessionEnded requests a single session-ended notification.
	SessionEnded bool
	// DisconnectTag requests disconnecting the tag handle.
	DisconnectTag bool
}

// Step runs one tick of the control loop state machine against the WLC
// records decoded from the tag's current NDEF content. It updates the
// session in place and returns the side effects the caller must apply.
// Unmatched or absent records are expected protocol variance; they
// advance retry counters instead of raising errors.
func (s *Session) Step(msg RecordSet) Effects {
	if s.firstOccurrence {
		// First message of a session: negotiate from a clean slate.
		s.resetValues()
		s.firstOccurrence = false
	}

	var fx Effects
	switch s.state {
	case StateIdle:
		if msg.Capability == nil {
			break
		}
		s.applyCapability(msg.Capability)
		if s.modeReq == ModeReqStatic || s.modeReq == ModeReqNegotiated {
			s.ongoing = true
			s.state = StateModeRequested
		}

	case StateModeRequested:
		// Awaiting the negotiation outcome; refresh the indicator if
		// the listener re-announced, then let state 2 evaluate it.
		if msg.Capability != nil {
			s.applyCapability(msg.Capability)
		}
		s.state = StateNegotiating

	case StateNegotiating:
		if s.negoWait == NegoWaitFailed {
			if s.negoRetry > 0 {
				s.negoRetry--
			}
			if s.negoRetry == 0 {
				s.abort(&fx)
			}
			s.state = StateIdle
			break
		}
		// Continue indicator, or static mode with no negotiation.
		s.state = StateSendControl

	case StateSendControl:
		fx.WriteControl = true
		s.state = StateAwaitControlAck

	case StateAwaitControlAck:
		if msg.Control == nil {
			if s.ctlRetry >= s.maxCtlRetry {
				s.ctlRetry = 0
				s.abort(&fx)
				s.state = StateIdle
				break
			}
			s.ctlRetry++
			break
		}
		s.applyControl(msg.Control)
		if msg.StaticInfo != nil {
			s.applyStaticInfo(msg.StaticInfo)
		}
		if msg.PowerInfo != nil {
			s.applyPowerInfo(msg.PowerInfo)
		}
		fx.DeviceInfo = s.deviceInfoSnapshot()
		s.ctlRetry = 0
		s.state = StateEvaluateWpt

	case StateSendControlAlt:
		fx.WriteControl = true
		s.state = StateEvaluateWpt

	case StateEvaluateWpt:
		if s.wptReq == WptReqStart && s.wptDurationMs > 0 {
			fx.StartPresence = time.Duration(s.wptDurationMs) * time.Millisecond
			s.presenceActive = true
			s.state = StateSupervising
			break
		}
		s.state = StateCheckInfoRequest

	case StateCheckInfoRequest:
		if s.wptInfoReq == 1 {
			s.state = StateSendControl
		} else {
			s.state = StateAwaitControlAck
		}

	case StateSupervising:
		// Explicit re-entry signals normal completion of transfer.
		fx.StopPresence = true
		s.presenceActive = false
		s.ongoing = false
		s.state = StateIdle

	case StateTimerElapsed:
		s.state = StateCheckInfoRequest

	case StateTimerElapsedExit:
		fx.StopPresence = true
		s.presenceActive = false
		s.ongoing = false
		s.state = StateIdle
	}
	return fx
}

// abort clears the presence indicator and marks the session no longer
// ongoing. Retry exhaustion is a normal outcome of an unreliable link,
// so no error surfaces beyond the state reset.
func (s *Session) abort(fx *Effects) {
	if s.presenceActive {
		fx.StopPresence = true
	}
	s.presenceActive = false
	s.ongoing = false
}

// Disconnected handles the asynchronous tag-disconnect callback. It
// unconditionally tears the session down: the tag handle is released, a
// single session-ended notification goes out, and firstOccurrence is
// re-armed so the next detected tag starts a clean session.
func (s *Session) Disconnected() Effects {
	s.Reset()
	return Effects{
		DisconnectTag: true,
		SessionEnded:  true,
	}
}
