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

// WLC record type tokens. These are NFC Forum well-known types defined
// by the wireless charging specification and matched byte-exact.
const (
	// TypeCapability identifies the listener's capability announcement
	// record (WLCCAP).
	TypeCapability = "WLCCAP"
	// TypeControl identifies the control record carrying negotiated
	// parameters (WLCCTL).
	TypeControl = "WLCCTL"
	// TypeStaticInfo identifies the listener static information record
	// (WLCSTAI), co-located with a control record.
	TypeStaticInfo = "WLCSTAI"
	// TypePowerInfo identifies the power information record (WLCPI),
	// co-located with a control record.
	TypePowerInfo = "WLCPI"
	// TypeModeReqInfo identifies the poller's mode request information
	// record (WLCMRI), written alongside the poller control record.
	TypeModeReqInfo = "WLCMRI"
)

// Minimum payload sizes of the fixed record layouts. Shorter payloads
// are treated as "not matched" by the codec, never as faults.
const (
	capabilityMinLen = 5
	controlMinLen    = 6
	staticInfoMinLen = 5
	powerInfoMinLen  = 4
)

// Mode request values announced in a capability record.
const (
	// ModeReqNone means the listener requested no charging mode.
	ModeReqNone = 0
	// ModeReqStatic requests static (non-negotiated) charging.
	ModeReqStatic = 1
	// ModeReqNegotiated requests negotiated charging.
	ModeReqNegotiated = 2
)

// Negotiation-wait indicator values.
const (
	// NegoWaitNone means no negotiation outcome has been signaled yet.
	NegoWaitNone = 0
	// NegoWaitFailed means the negotiation attempt failed and may be
	// retried within the budget.
	NegoWaitFailed = 1
	// NegoWaitContinue means negotiation succeeded and the control
	// exchange should proceed.
	NegoWaitContinue = 2
)

// WPT request values carried in a control record.
const (
	// WptReqStart requests the poller to start power transfer.
	WptReqStart = 0
	// WptReqStop requests the poller to stop power transfer.
	WptReqStop = 1
)

// wptDurationUnit is the granularity of the WPT duration code in a
// control record: duration = code * 250ms, code range 0..31.
const wptDurationUnit = 250 * time.Millisecond

// Capability holds the fields of a WLCCAP record.
//
// Payload layout (big-endian, fixed offsets):
//
//	[0] protocol version (major high nibble, minor low nibble)
//	[1] config: bits 7-6 mode request, bits 5-2 wait time interval
//	    maximum, bits 1-0 negotiation-wait indicator
//	[2] capability wait time, x10 ms
//	[3] negotiation wait time, x10 ms
//	[4] wait time interval, x10 ms
type Capability struct {
	Version  byte
	ModeReq  int
	WtIntMax int
	NegoWait int
	CapWt    time.Duration
	NegoWt   time.Duration
	WtInt    time.Duration
}

// Control holds the fields of a WLCCTL record.
//
// Payload layout:
//
//	[0] bit 7 error flag, bits 6-5 battery status, bits 4-0 hold-off
//	    wait time in ms
//	[1] bits 7-6 WPT request, bits 5-1 WPT duration code (x250 ms),
//	    bit 0 WPT information request
//	[2] power adjust request
//	[3] battery level in percent, 0xFF when unknown
//	[4] reserved
//	[5] reserved
type Control struct {
	ErrorFlag     int
	BatteryStatus int
	HoldOffWt     time.Duration
	WptReq        int
	WptDuration   time.Duration
	WptInfoReq    int
	PowerAdjReq   int
	BatteryLevel  int // -1 when the listener reports it unknown
}

// StaticInfo holds the fields of a WLCSTAI record.
//
// Payload layout:
//
//	[0] presence flags: bit 0 product id, bit 1 battery level,
//	    bit 2 temperature, bit 3 listener state
//	[1] product id
//	[2] battery level in percent
//	[3] battery temperature
//	[4] listener state
type StaticInfo struct {
	ProductID    int // -1 when absent
	BatteryLevel int
	Temperature  int
	State        int
}

// PowerInfo holds the fields of a WLCPI record.
//
// Payload layout:
//
//	[0] received power
//	[1] transmitted power
//	[2] battery temperature
//	[3] listener state
type PowerInfo struct {
	ReceivedPower    int
	TransmittedPower int
	Temperature      int
	State            int
}

// RecordSet holds the WLC records decoded from one NDEF message. Fields
// are nil when the message carried no matching record; that is the
// normal case for heterogeneous tag content.
type RecordSet struct {
	Capability *Capability
	Control    *Control
	StaticInfo *StaticInfo
	PowerInfo  *PowerInfo
}
