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
	"time"

	ndef "github.com/hsanjuan/go-ndef"
	"github.com/hsanjuan/go-ndef/types/generic"
)

// recordPayload finds the first well-known record of the given type in
// the message and returns its raw payload. A missing record, a type
// token mismatch or a payload shorter than the fixed layout all yield
// "not matched"; the tag link routinely carries unrelated records.
func recordPayload(msg *ndef.Message, rtype string, minLen int) ([]byte, bool) {
	if msg == nil {
		return nil, false
	}
	for _, rec := range msg.Records {
		if rec == nil || rec.TNF() != ndef.NFCForumWellKnownType || rec.Type() != rtype {
			continue
		}
		payload, err := rec.Payload()
		if err != nil {
			continue
		}
		raw := payload.Marshal()
		if len(raw) < minLen {
			continue
		}
		return raw, true
	}
	return nil, false
}

// DecodeCapability extracts the WLCCAP record from msg. The second
// return value reports whether a matching record was found.
func DecodeCapability(msg *ndef.Message) (*Capability, bool) {
	raw, ok := recordPayload(msg, TypeCapability, capabilityMinLen)
	if !ok {
		return nil, false
	}
	return &Capability{
		Version:  raw[0],
		ModeReq:  int(raw[1]>>6) & 0x03,
		WtIntMax: int(raw[1]>>2) & 0x0F,
		NegoWait: int(raw[1]) & 0x03,
		CapWt:    time.Duration(raw[2]) * 10 * time.Millisecond,
		NegoWt:   time.Duration(raw[3]) * 10 * time.Millisecond,
		WtInt:    time.Duration(raw[4]) * 10 * time.Millisecond,
	}, true
}

// DecodeControl extracts the WLCCTL record from msg.
func DecodeControl(msg *ndef.Message) (*Control, bool) {
	raw, ok := recordPayload(msg, TypeControl, controlMinLen)
	if !ok {
		return nil, false
	}
	ctl := &Control{
		ErrorFlag:     int(raw[0]>>7) & 0x01,
		BatteryStatus: int(raw[0]>>5) & 0x03,
		HoldOffWt:     time.Duration(raw[0]&0x1F) * time.Millisecond,
		WptReq:        int(raw[1]>>6) & 0x03,
		WptDuration:   time.Duration(raw[1]>>1&0x1F) * wptDurationUnit,
		WptInfoReq:    int(raw[1]) & 0x01,
		PowerAdjReq:   int(raw[2]),
		BatteryLevel:  int(raw[3]),
	}
	if raw[3] == 0xFF {
		ctl.BatteryLevel = -1
	}
	return ctl, true
}

// DecodeStaticInfo extracts the WLCSTAI record from msg. Fields whose
// presence flag is clear are reported as -1.
func DecodeStaticInfo(msg *ndef.Message) (*StaticInfo, bool) {
	raw, ok := recordPayload(msg, TypeStaticInfo, staticInfoMinLen)
	if !ok {
		return nil, false
	}
	info := &StaticInfo{ProductID: -1, BatteryLevel: -1, Temperature: -1, State: -1}
	if raw[0]&0x01 != 0 {
		info.ProductID = int(raw[1])
	}
	if raw[0]&0x02 != 0 {
		info.BatteryLevel = int(raw[2])
	}
	if raw[0]&0x04 != 0 {
		info.Temperature = int(raw[3])
	}
	if raw[0]&0x08 != 0 {
		info.State = int(raw[4])
	}
	return info, true
}

// DecodePowerInfo extracts the WLCPI record from msg.
func DecodePowerInfo(msg *ndef.Message) (*PowerInfo, bool) {
	raw, ok := recordPayload(msg, TypePowerInfo, powerInfoMinLen)
	if !ok {
		return nil, false
	}
	return &PowerInfo{
		ReceivedPower:    int(raw[0]),
		TransmittedPower: int(raw[1]),
		Temperature:      int(raw[2]),
		State:            int(raw[3]),
	}, true
}

// DecodeRecords decodes every WLC record present in msg. All decoders
// are total; a nil or foreign message simply yields an empty set.
func DecodeRecords(msg *ndef.Message) RecordSet {
	var rs RecordSet
	rs.Capability, _ = DecodeCapability(msg)
	rs.Control, _ = DecodeControl(msg)
	rs.StaticInfo, _ = DecodeStaticInfo(msg)
	rs.PowerInfo, _ = DecodePowerInfo(msg)
	return rs
}

// EncodeControl serializes the session's current negotiated parameters
// into an NDEF message holding a WLCCTL record plus the poller's WLCMRI
// mode request record. It succeeds for any valid session state; unset
// parameters encode as their wire defaults.
func EncodeControl(s *Session) ([]byte, error) {
	ctl := make([]byte, controlMinLen)
	ctl[0] = byte(clampField(s.errorFlag, 0x01))<<7 |
		byte(clampField(s.batteryStatus, 0x03))<<5 |
		byte(s.holdOffWt/time.Millisecond)&0x1F
	ctl[1] = byte(clampField(s.wptReq, 0x03))<<6 |
		byte(clampDurationCode(s.wptDurationMs))<<1 |
		byte(clampField(s.wptInfoReq, 0x01))
	ctl[2] = byte(clampField(s.powerAdjReq, 0xFF))
	if s.batteryLevel == unsetValue {
		ctl[3] = 0xFF
	} else {
		ctl[3] = byte(clampField(s.batteryLevel, 0xFE))
	}

	mri := []byte{byte(clampField(s.modeReq, 0x03)), 0x00}

	msg := ndef.NewMessageFromRecords(
		ndef.NewRecord(ndef.NFCForumWellKnownType, TypeControl, "", generic.New(ctl)),
		ndef.NewRecord(ndef.NFCForumWellKnownType, TypeModeReqInfo, "", generic.New(mri)),
	)
	raw, err := msg.Marshal()
	if err != nil {
		return nil, fmt.Errorf("marshal control message: %w", err)
	}
	return raw, nil
}

// clampField maps an unset (-1) parameter to its zero wire value and
// bounds the rest to the field width.
func clampField(v, maxVal int) int {
	if v < 0 {
		return 0
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// clampDurationCode converts a WPT duration in ms to its 5-bit wire
// code in units of 250ms.
func clampDurationCode(ms int) int {
	if ms <= 0 {
		return 0
	}
	code := ms / int(wptDurationUnit/time.Millisecond)
	if code > 0x1F {
		code = 0x1F
	}
	return code
}
