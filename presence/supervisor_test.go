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

package presence

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupervisor_ElapsedIntervals(t *testing.T) {
	t.Parallel()

	sup := NewSupervisor(func() error { return nil })
	watch := sup.Start(10*time.Millisecond, func() {
		t.Error("disconnect must not fire while the probe succeeds")
	})
	defer sup.Stop()

	select {
	case ev := <-watch.Events():
		assert.Equal(t, EventElapsed, ev)
	case <-time.After(time.Second):
		t.Fatal("no elapsed event within deadline")
	}
	assert.True(t, sup.Active())
}

func TestSupervisor_DisconnectFiresOnce(t *testing.T) {
	t.Parallel()

	var gone atomic.Bool
	var fired atomic.Int32
	probe := func() error {
		if gone.Load() {
			return errors.New("tag gone")
		}
		return nil
	}

	sup := NewSupervisor(probe)
	watch := sup.Start(5*time.Millisecond, func() { fired.Add(1) })
	gone.Store(true)

	require.Eventually(t, func() bool { return fired.Load() == 1 },
		time.Second, 5*time.Millisecond)

	// The watch terminated; no further callbacks arrive.
	assert.Eventually(t, func() bool { return !sup.Active() },
		time.Second, 5*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load())

	drained := false
	for !drained {
		select {
		case ev := <-watch.Events():
			if ev == EventDisconnected {
				drained = true
			}
		case <-time.After(time.Second):
			t.Fatal("no disconnected event within deadline")
		}
	}
}

func TestSupervisor_StopIsIdempotent(t *testing.T) {
	t.Parallel()

	var fired atomic.Int32
	sup := NewSupervisor(func() error { return nil })
	sup.Start(5*time.Millisecond, func() { fired.Add(1) })

	sup.Stop()
	sup.Stop()

	assert.False(t, sup.Active())
	time.Sleep(30 * time.Millisecond)
	assert.Zero(t, fired.Load(), "a stopped watch never fires the callback")
}

func TestSupervisor_StartReplacesActiveWatch(t *testing.T) {
	t.Parallel()

	sup := NewSupervisor(func() error { return nil })
	first := sup.Start(5*time.Millisecond, nil)
	second := sup.Start(5*time.Millisecond, nil)
	defer sup.Stop()

	assert.True(t, first.done(), "previous watch is canceled on re-arm")
	assert.False(t, second.done())
	assert.Equal(t, EventStopped, first.stopped)
}
