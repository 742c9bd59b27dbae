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
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	ndef "github.com/hsanjuan/go-ndef"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type presenceStart struct {
	interval time.Duration
	callback func()
}

// mockDevice is a scriptable TagDevice recording every interaction.
type mockDevice struct {
	mu             sync.Mutex
	msg            *ndef.Message
	readErr        error
	writeErr       error
	writes         [][]byte
	presenceStarts []presenceStart
	presenceStops  int
	disconnects    int
}

func (m *mockDevice) ReadNDEF() (*ndef.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	if m.msg == nil {
		return nil, ErrNoNDEFMessage
	}
	return m.msg, nil
}

func (m *mockDevice) WriteNDEF(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.writes = append(m.writes, data)
	return nil
}

func (m *mockDevice) StartPresenceCheck(interval time.Duration, onDisconnect func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.presenceStarts = append(m.presenceStarts, presenceStart{interval: interval, callback: onDisconnect})
}

func (m *mockDevice) StopPresenceCheck() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.presenceStops++
}

func (m *mockDevice) Disconnect() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disconnects++
	return nil
}

// recordingNotifier counts host notifications.
type recordingNotifier struct {
	mu      sync.Mutex
	wlcData []map[InfoKey]int
	ended   []uuid.UUID
}

func (n *recordingNotifier) OnWlcData(_ uuid.UUID, info map[InfoKey]int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.wlcData = append(n.wlcData, info)
}

func (n *recordingNotifier) OnSessionEnded(session uuid.UUID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.ended = append(n.ended, session)
}

func newTestCharger(t *testing.T, dev *mockDevice) (*Charger, *recordingNotifier) {
	t.Helper()
	notifier := &recordingNotifier{}
	charger, err := New(dev, WithNotifier(notifier))
	require.NoError(t, err)
	return charger, notifier
}

func TestNew_OptionValidation(t *testing.T) {
	t.Parallel()

	_, err := New(&mockDevice{}, WithNotifier(nil))
	require.Error(t, err)

	_, err = New(&mockDevice{}, WithNegoRetryBudget(0))
	require.Error(t, err)

	_, err = New(&mockDevice{}, WithMaxControlRetries(0))
	require.Error(t, err)

	charger, err := New(&mockDevice{}, WithNegoRetryBudget(5), WithMaxControlRetries(2))
	require.NoError(t, err)
	assert.Equal(t, 5, charger.Session().negoRetry)
	assert.Equal(t, 2, charger.Session().maxCtlRetry)
}

func TestCharger_CapabilityStartsSession(t *testing.T) {
	t.Parallel()

	dev := &mockDevice{msg: wellKnownMessage(TypeCapability, []byte{0x10, 0x82, 0x0A, 0x0A, 0x0A})}
	charger, _ := newTestCharger(t, dev)

	require.NoError(t, charger.Tick())

	assert.Equal(t, StateModeRequested, charger.Session().State())
	assert.True(t, charger.Session().Ongoing())
}

func TestCharger_EmptyMailboxStaysIdle(t *testing.T) {
	t.Parallel()

	dev := &mockDevice{}
	charger, _ := newTestCharger(t, dev)

	require.NoError(t, charger.Tick())

	assert.Equal(t, StateIdle, charger.Session().State())
	assert.False(t, charger.Session().PresenceActive())
}

func TestCharger_ReadErrorIsNotFatal(t *testing.T) {
	t.Parallel()

	dev := &mockDevice{readErr: errors.New("transceive failed")}
	charger, _ := newTestCharger(t, dev)

	require.NoError(t, charger.Tick())
	assert.Equal(t, StateIdle, charger.Session().State())
}

func TestCharger_SendControlWritesValidMessage(t *testing.T) {
	t.Parallel()

	dev := &mockDevice{}
	charger, _ := newTestCharger(t, dev)
	charger.Session().firstOccurrence = false
	charger.Session().state = StateSendControl

	require.NoError(t, charger.Tick())

	assert.Equal(t, StateAwaitControlAck, charger.Session().State())
	require.Len(t, dev.writes, 1)

	msg := &ndef.Message{}
	_, err := msg.Unmarshal(dev.writes[0])
	require.NoError(t, err)
	_, ok := DecodeControl(msg)
	assert.True(t, ok, "written message must carry a control record")
}

func TestCharger_SendControlWriteFailure(t *testing.T) {
	t.Parallel()

	dev := &mockDevice{writeErr: errors.New("tag busy")}
	charger, _ := newTestCharger(t, dev)
	charger.Session().firstOccurrence = false
	charger.Session().state = StateSendControl

	err := charger.Tick()
	require.Error(t, err)
	// The machine still advances; the ack phase's retry budget covers
	// the lost write.
	assert.Equal(t, StateAwaitControlAck, charger.Session().State())
}

func TestCharger_ControlAckNotifiesHostOnce(t *testing.T) {
	t.Parallel()

	ctl := []byte{0x40, 0x00, 0x00, 0x2A, 0x00, 0x00} // battery status 2, level 42
	stai := []byte{0x01, 0x07, 0x00, 0x00, 0x00}      // product id 7
	dev := &mockDevice{msg: twoRecordMessage(TypeControl, ctl, TypeStaticInfo, stai)}
	charger, notifier := newTestCharger(t, dev)
	charger.Session().firstOccurrence = false
	charger.Session().state = StateAwaitControlAck

	require.NoError(t, charger.Tick())

	assert.Equal(t, StateEvaluateWpt, charger.Session().State())
	require.Len(t, notifier.wlcData, 1)
	assert.Equal(t, 42, notifier.wlcData[0][InfoBatteryLevel])
	assert.Equal(t, 7, notifier.wlcData[0][InfoProductID])
}

func TestCharger_ControlAckRetriesThenAborts(t *testing.T) {
	t.Parallel()

	dev := &mockDevice{msg: wellKnownMessage(TypePowerInfo, []byte{0x00, 0x00, 0x00, 0x00})}
	charger, notifier := newTestCharger(t, dev)
	s := charger.Session()
	s.firstOccurrence = false
	s.state = StateAwaitControlAck

	for i := 1; i <= DefaultMaxControlRetries; i++ {
		require.NoError(t, charger.Tick())
		assert.Equal(t, i, s.ctlRetry)
		assert.Equal(t, StateAwaitControlAck, s.State())
	}

	require.NoError(t, charger.Tick())
	assert.Zero(t, s.ctlRetry)
	assert.Equal(t, StateIdle, s.State())
	assert.False(t, s.PresenceActive())
	assert.Empty(t, notifier.wlcData)
}

func TestCharger_EvaluateWptArmsPresence(t *testing.T) {
	t.Parallel()

	dev := &mockDevice{}
	charger, _ := newTestCharger(t, dev)
	s := charger.Session()
	s.firstOccurrence = false
	s.state = StateEvaluateWpt
	s.wptReq = WptReqStart
	s.wptDurationMs = 5000

	require.NoError(t, charger.Tick())

	assert.Equal(t, StateSupervising, s.State())
	require.Len(t, dev.presenceStarts, 1)
	assert.Equal(t, 5*time.Second, dev.presenceStarts[0].interval)
	assert.NotNil(t, dev.presenceStarts[0].callback)
}

func TestCharger_DisconnectCallbackTearsDownSession(t *testing.T) {
	t.Parallel()

	dev := &mockDevice{}
	charger, notifier := newTestCharger(t, dev)
	s := charger.Session()
	s.firstOccurrence = false
	s.state = StateEvaluateWpt
	s.wptReq = WptReqStart
	s.wptDurationMs = 5000

	require.NoError(t, charger.Tick())
	require.Len(t, dev.presenceStarts, 1)

	endedID := s.ID()
	dev.presenceStarts[0].callback()

	assert.Equal(t, StateIdle, s.State())
	assert.False(t, s.Ongoing())
	assert.True(t, s.firstOccurrence)
	assert.Equal(t, 1, dev.disconnects)
	require.Len(t, notifier.ended, 1)
	assert.Equal(t, endedID, notifier.ended[0])
}

func TestCharger_SupervisingCompletionStopsPresence(t *testing.T) {
	t.Parallel()

	dev := &mockDevice{}
	charger, _ := newTestCharger(t, dev)
	s := charger.Session()
	s.firstOccurrence = false
	s.state = StateSupervising
	s.presenceActive = true

	require.NoError(t, charger.Tick())

	assert.Equal(t, StateIdle, s.State())
	assert.Equal(t, 1, dev.presenceStops)
}

func TestCharger_WptCompleted(t *testing.T) {
	t.Parallel()

	dev := &mockDevice{}
	charger, _ := newTestCharger(t, dev)
	s := charger.Session()
	s.firstOccurrence = false
	s.wptInfoReq = 1

	require.NoError(t, charger.WptCompleted())

	// Timer elapsed re-enters at the info-request decision; the
	// following ticks resend the control parameters.
	assert.Equal(t, StateCheckInfoRequest, s.State())
	require.NoError(t, charger.Tick())
	assert.Equal(t, StateSendControl, s.State())
	require.NoError(t, charger.Tick())
	assert.Equal(t, StateAwaitControlAck, s.State())
	require.Len(t, dev.writes, 1)
}

func TestCharger_Deactivate(t *testing.T) {
	t.Parallel()

	dev := &mockDevice{}
	charger, _ := newTestCharger(t, dev)
	s := charger.Session()
	s.firstOccurrence = false
	s.state = StateSupervising
	s.ongoing = true

	require.NoError(t, charger.Deactivate())

	assert.Equal(t, StateIdle, s.State())
	assert.False(t, s.Ongoing())
	assert.Equal(t, 1, dev.presenceStops)
}
