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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSession_Defaults(t *testing.T) {
	t.Parallel()

	s := NewSession()
	assert.Equal(t, StateIdle, s.State())
	assert.False(t, s.Ongoing())
	assert.False(t, s.PresenceActive())
	assert.True(t, s.firstOccurrence)
	assert.Equal(t, DefaultNegoRetryBudget, s.negoRetry)
	assert.Zero(t, s.ctlRetry)

	_, ok := s.BatteryLevel()
	assert.False(t, ok)
	_, ok = s.WptDuration()
	assert.False(t, ok)
}

func TestSession_ResetValues(t *testing.T) {
	t.Parallel()

	s := NewSession()
	s.batteryLevel = 50
	s.batteryStatus = 2
	s.errorFlag = 1
	s.wptDurationMs = 5000
	s.info[InfoBatteryLevel] = 80
	s.info[InfoProductID] = 7

	s.resetValues()

	assert.Equal(t, -1, s.batteryLevel)
	assert.Equal(t, -1, s.batteryStatus)
	assert.Equal(t, -1, s.errorFlag)
	assert.Equal(t, -1, s.wptDurationMs)
	for key, v := range s.info {
		assert.Equal(t, -1, v, "info entry %s must reset to -1", key)
	}
}

func TestSession_ResetRestartsAttempt(t *testing.T) {
	t.Parallel()

	s := NewSession()
	prevID := s.ID()
	s.state = StateSupervising
	s.ongoing = true
	s.presenceActive = true
	s.firstOccurrence = false
	s.negoRetry = 0
	s.ctlRetry = 2

	s.Reset()

	assert.Equal(t, StateIdle, s.State())
	assert.False(t, s.Ongoing())
	assert.False(t, s.PresenceActive())
	assert.True(t, s.firstOccurrence)
	assert.Equal(t, DefaultNegoRetryBudget, s.negoRetry)
	assert.Zero(t, s.ctlRetry)
	assert.NotEqual(t, prevID, s.ID(), "each attempt gets a fresh identity")
}

func TestSession_ApplyControl(t *testing.T) {
	t.Parallel()

	s := NewSession()
	s.applyControl(&Control{
		ErrorFlag:     1,
		BatteryStatus: 2,
		WptReq:        WptReqStart,
		WptDuration:   5 * time.Second,
		WptInfoReq:    1,
		BatteryLevel:  42,
	})

	ef, ok := s.ErrorFlag()
	require.True(t, ok)
	assert.Equal(t, 1, ef)

	bs, ok := s.BatteryStatus()
	require.True(t, ok)
	assert.Equal(t, 2, bs)

	bl, ok := s.BatteryLevel()
	require.True(t, ok)
	assert.Equal(t, 42, bl)

	d, ok := s.WptDuration()
	require.True(t, ok)
	assert.Equal(t, 5*time.Second, d)

	assert.Equal(t, 42, s.info[InfoBatteryLevel])
}

func TestSession_ApplyControl_UnknownBatteryLevelKeepsPrior(t *testing.T) {
	t.Parallel()

	s := NewSession()
	s.batteryLevel = 37
	s.applyControl(&Control{BatteryLevel: -1})

	bl, ok := s.BatteryLevel()
	require.True(t, ok)
	assert.Equal(t, 37, bl)
}

func TestSession_ApplyStaticAndPowerInfo(t *testing.T) {
	t.Parallel()

	s := NewSession()
	s.applyStaticInfo(&StaticInfo{ProductID: 7, BatteryLevel: 80, Temperature: 25, State: 1})
	s.applyPowerInfo(&PowerInfo{ReceivedPower: 50, TransmittedPower: 60, Temperature: 30, State: 2})

	assert.Equal(t, 7, s.info[InfoProductID])
	assert.Equal(t, 80, s.info[InfoBatteryLevel])
	assert.Equal(t, 50, s.info[InfoReceivedPower])
	// Power info is fresher than static info for shared fields.
	assert.Equal(t, 30, s.info[InfoTemperature])
	assert.Equal(t, 2, s.info[InfoState])
}

func TestSession_DeviceInfoIsACopy(t *testing.T) {
	t.Parallel()

	s := NewSession()
	snapshot := s.DeviceInfo()
	snapshot[InfoBatteryLevel] = 99

	assert.Equal(t, -1, s.info[InfoBatteryLevel])
}
