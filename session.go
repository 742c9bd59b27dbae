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
	"time"

	"github.com/google/uuid"
)

// unsetValue marks a negotiated parameter or device-info entry whose
// value has not been received from the listener yet. Accessors expose
// this as a comma-ok result.
const unsetValue = -1

const (
	// DefaultNegoRetryBudget is the number of failed negotiation
	// attempts tolerated before a session aborts to idle.
	DefaultNegoRetryBudget = 3
	// DefaultMaxControlRetries is the number of unacknowledged control
	// reads tolerated before a session aborts to idle.
	DefaultMaxControlRetries = 3
)

// InfoKey names an entry of the listener device-info mapping reported
// to the host notifier.
type InfoKey string

const (
	// InfoProductID is the listener product identifier.
	InfoProductID InfoKey = "product_id"
	// InfoBatteryLevel is the listener battery level in percent.
	InfoBatteryLevel InfoKey = "battery_level"
	// InfoTemperature is the listener battery temperature.
	InfoTemperature InfoKey = "temperature"
	// InfoState is the listener charge state.
	InfoState InfoKey = "state"
	// InfoReceivedPower is the power received by the listener during
	// transfer.
	InfoReceivedPower InfoKey = "received_power"
)

// Session is the mutable protocol state of one charging attempt. It is
// owned exclusively by its Charger; all ticks are serialized there. The
// zero-state of a session is idle and resumable, so nothing persists
// across a disconnect beyond the configured budgets.
type Session struct {
	id              uuid.UUID
	state           State
	ongoing         bool
	firstOccurrence bool
	presenceActive  bool

	negoBudget  int // configured negotiation retry budget
	negoRetry   int // remaining negotiation retries
	ctlRetry    int // control-ack retries used so far
	maxCtlRetry int

	// Negotiated parameters, unsetValue until received.
	modeReq       int
	negoWait      int
	errorFlag     int
	batteryStatus int
	batteryLevel  int
	wptReq        int
	wptInfoReq    int
	wptDurationMs int
	powerAdjReq   int
	holdOffWt     time.Duration

	info map[InfoKey]int
}

// NewSession creates an idle session with default retry budgets.
func NewSession() *Session {
	s := &Session{
		id:          uuid.New(),
		negoBudget:  DefaultNegoRetryBudget,
		maxCtlRetry: DefaultMaxControlRetries,
		info:        make(map[InfoKey]int),
	}
	s.Reset()
	return s
}

// ID returns the session identity used in logs and notifications. The
// identity is regenerated on every reset so each physical charging
// attempt is distinguishable.
func (s *Session) ID() uuid.UUID { return s.id }

// State returns the current protocol state.
func (s *Session) State() State { return s.state }

// Ongoing reports whether a charging session has been accepted and is
// still in progress.
func (s *Session) Ongoing() bool { return s.ongoing }

// PresenceActive reports whether presence supervision is currently
// armed on the tag handle.
func (s *Session) PresenceActive() bool { return s.presenceActive }

// BatteryLevel returns the listener battery level in percent, if known.
func (s *Session) BatteryLevel() (int, bool) {
	return s.batteryLevel, s.batteryLevel != unsetValue
}

// BatteryStatus returns the listener battery status, if known.
func (s *Session) BatteryStatus() (int, bool) {
	return s.batteryStatus, s.batteryStatus != unsetValue
}

// ErrorFlag returns the listener error flag, if known.
func (s *Session) ErrorFlag() (int, bool) {
	return s.errorFlag, s.errorFlag != unsetValue
}

// WptDuration returns the negotiated power transfer duration, if set.
func (s *Session) WptDuration() (time.Duration, bool) {
	if s.wptDurationMs <= 0 {
		return 0, false
	}
	return time.Duration(s.wptDurationMs) * time.Millisecond, true
}

// DeviceInfo returns a copy of the listener device-info mapping.
// Entries not yet reported hold -1.
func (s *Session) DeviceInfo() map[InfoKey]int {
	return s.deviceInfoSnapshot()
}

// Reset returns the session to a clean idle state: all negotiated
// parameters unset, counters restored to their budgets, a fresh session
// identity, and firstOccurrence armed so the next detected tag starts
// over.
func (s *Session) Reset() {
	s.id = uuid.New()
	s.state = StateIdle
	s.ongoing = false
	s.firstOccurrence = true
	s.presenceActive = false
	s.negoRetry = s.negoBudget
	s.ctlRetry = 0
	s.resetValues()
}

// resetValues restores every negotiated parameter and device-info entry
// to unset. Battery level, battery status and all info entries read -1
// afterwards regardless of prior values.
func (s *Session) resetValues() {
	s.modeReq = unsetValue
	s.negoWait = unsetValue
	s.errorFlag = unsetValue
	s.batteryStatus = unsetValue
	s.batteryLevel = unsetValue
	s.wptReq = unsetValue
	s.wptInfoReq = unsetValue
	s.wptDurationMs = unsetValue
	s.powerAdjReq = unsetValue
	s.holdOffWt = 0
	for _, k := range []InfoKey{
		InfoProductID, InfoBatteryLevel, InfoTemperature, InfoState, InfoReceivedPower,
	} {
		s.info[k] = unsetValue
	}
}

// applyCapability stores the fields of a received capability record.
func (s *Session) applyCapability(c *Capability) {
	s.modeReq = c.ModeReq
	s.negoWait = c.NegoWait
}

// applyControl stores the fields of a received control record.
func (s *Session) applyControl(ctl *Control) {
	s.errorFlag = ctl.ErrorFlag
	s.batteryStatus = ctl.BatteryStatus
	s.wptReq = ctl.WptReq
	s.wptInfoReq = ctl.WptInfoReq
	s.wptDurationMs = int(ctl.WptDuration / time.Millisecond)
	s.powerAdjReq = ctl.PowerAdjReq
	s.holdOffWt = ctl.HoldOffWt
	if ctl.BatteryLevel != unsetValue {
		s.batteryLevel = ctl.BatteryLevel
		s.info[InfoBatteryLevel] = ctl.BatteryLevel
	}
}

// applyStaticInfo merges a received static information record into the
// device-info mapping.
func (s *Session) applyStaticInfo(info *StaticInfo) {
	if info.ProductID != unsetValue {
		s.info[InfoProductID] = info.ProductID
	}
	if info.BatteryLevel != unsetValue {
		s.batteryLevel = info.BatteryLevel
		s.info[InfoBatteryLevel] = info.BatteryLevel
	}
	if info.Temperature != unsetValue {
		s.info[InfoTemperature] = info.Temperature
	}
	if info.State != unsetValue {
		s.info[InfoState] = info.State
	}
}

// applyPowerInfo merges a received power information record into the
// device-info mapping.
func (s *Session) applyPowerInfo(info *PowerInfo) {
	s.info[InfoReceivedPower] = info.ReceivedPower
	s.info[InfoTemperature] = info.Temperature
	s.info[InfoState] = info.State
}

func (s *Session) deviceInfoSnapshot() map[InfoKey]int {
	snapshot := make(map[InfoKey]int, len(s.info))
	for k, v := range s.info {
		snapshot[k] = v
	}
	return snapshot
}
