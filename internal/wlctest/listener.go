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

// Package wlctest provides a scripted virtual WLC listener for tests
// and the simulator. The listener plays the tag side of a charging
// session: its NDEF mailbox holds whatever record the script placed
// there, writes from the poller are captured, and presence checking is
// backed by a real supervisor polling the listener's presence flag.
package wlctest

import (
	"sync"
	"time"

	wlc "github.com/ZaparooProject/go-wlc"
	"github.com/ZaparooProject/go-wlc/presence"
	ndef "github.com/hsanjuan/go-ndef"
	"github.com/hsanjuan/go-ndef/types/generic"
)

// ControlScript describes the control acknowledgement a scripted
// listener places in its mailbox.
type ControlScript struct {
	ErrorFlag     int
	BatteryStatus int
	WptReq        int
	WptDuration   time.Duration
	WptInfoReq    int
	BatteryLevel  int // -1 encodes "unknown"
	ProductID     int // >= 0 adds a static info record
}

// Listener is a virtual WLC listener implementing wlc.TagDevice.
type Listener struct {
	mu          sync.Mutex
	mailbox     []byte
	writes      [][]byte
	present     bool
	disconnects int
	sup         *presence.Supervisor
}

// NewListener creates a present listener with an empty mailbox.
func NewListener() *Listener {
	l := &Listener{present: true}
	l.sup = presence.NewSupervisor(l.probe)
	return l
}

// ScriptCapability places a capability announcement in the mailbox.
func (l *Listener) ScriptCapability(modeReq, negoWait int) {
	payload := []byte{
		0x10, // protocol version 1.0
		byte(modeReq&0x03)<<6 | byte(negoWait&0x03),
		0x0A, // capability wait time, 100ms
		0x0A, // negotiation wait time, 100ms
		0x0A, // wait time interval, 100ms
	}
	l.script(record(wlc.TypeCapability, payload))
}

// ScriptControlAck places a control acknowledgement, and optionally a
// static info record, in the mailbox.
func (l *Listener) ScriptControlAck(cs ControlScript) {
	ctl := make([]byte, 6)
	ctl[0] = byte(cs.ErrorFlag&0x01)<<7 | byte(cs.BatteryStatus&0x03)<<5
	ctl[1] = byte(cs.WptReq&0x03)<<6 |
		(byte(cs.WptDuration/(250*time.Millisecond))&0x1F)<<1 |
		byte(cs.WptInfoReq&0x01)
	if cs.BatteryLevel < 0 {
		ctl[3] = 0xFF
	} else {
		ctl[3] = byte(cs.BatteryLevel)
	}

	records := []*ndef.Record{record(wlc.TypeControl, ctl)}
	if cs.ProductID >= 0 {
		stai := []byte{0x03, byte(cs.ProductID), byte(max(cs.BatteryLevel, 0)), 0x00, 0x00}
		records = append(records, record(wlc.TypeStaticInfo, stai))
	}
	l.script(records...)
}

// ScriptForeignRecord places an unrelated well-known record in the
// mailbox, simulating stale or heterogeneous tag content.
func (l *Listener) ScriptForeignRecord() {
	l.script(record("T", []byte{0x02, 'e', 'n', 'h', 'i'}))
}

// ClearMailbox empties the mailbox so reads report no message.
func (l *Listener) ClearMailbox() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.mailbox = nil
}

// Writes returns the NDEF messages the poller wrote, oldest first.
func (l *Listener) Writes() [][]byte {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([][]byte, len(l.writes))
	copy(out, l.writes)
	return out
}

// Remove takes the listener out of the field; the next liveness probe
// fails.
func (l *Listener) Remove() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.present = false
}

// DisconnectCalls reports how many times the poller released the
// handle.
func (l *Listener) DisconnectCalls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.disconnects
}

// ReadNDEF implements wlc.TagDevice.
func (l *Listener) ReadNDEF() (*ndef.Message, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.present {
		return nil, wlc.ErrTagGone
	}
	if l.mailbox == nil {
		return nil, wlc.ErrNoNDEFMessage
	}
	msg := &ndef.Message{}
	if _, err := msg.Unmarshal(l.mailbox); err != nil {
		return nil, err
	}
	return msg, nil
}

// WriteNDEF implements wlc.TagDevice.
func (l *Listener) WriteNDEF(data []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.present {
		return wlc.ErrTagGone
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	l.writes = append(l.writes, stored)
	return nil
}

// StartPresenceCheck implements wlc.TagDevice.
func (l *Listener) StartPresenceCheck(interval time.Duration, onDisconnect func()) {
	l.sup.Start(interval, onDisconnect)
}

// StopPresenceCheck implements wlc.TagDevice.
func (l *Listener) StopPresenceCheck() {
	l.sup.Stop()
}

// Disconnect implements wlc.TagDevice.
func (l *Listener) Disconnect() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.disconnects++
	l.present = false
	return nil
}

func (l *Listener) probe() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.present {
		return wlc.ErrTagGone
	}
	return nil
}

func (l *Listener) script(records ...*ndef.Record) {
	msg := ndef.NewMessageFromRecords(records...)
	raw, err := msg.Marshal()
	if err != nil {
		// Scripts are fixed-layout; a marshal failure is a test bug.
		panic(err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.mailbox = raw
}

func record(rtype string, payload []byte) *ndef.Record {
	return ndef.NewRecord(ndef.NFCForumWellKnownType, rtype, "", generic.New(payload))
}
