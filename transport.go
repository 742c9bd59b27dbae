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
	ndef "github.com/hsanjuan/go-ndef"
)

// TagDevice is the connected tag handle the control loop drives. It is
// provided by the underlying NFC stack; radio-level polling, technology
// detection and anticollision all live below this interface. The handle
// is exclusively owned by the active session for its duration.
type TagDevice interface {
	// ReadNDEF returns the tag's current NDEF content. Implementations
	// return ErrNoNDEFMessage when the tag holds no readable message.
	ReadNDEF() (*ndef.Message, error)

	// WriteNDEF replaces the tag's NDEF content with the given
	// marshaled message.
	WriteNDEF(data []byte) error

	// StartPresenceCheck arms periodic liveness polling of the coupled
	// tag. The callback fires at most once per arm cycle and is the
	// sole trigger for the disconnect path.
	StartPresenceCheck(interval time.Duration, onDisconnect func())

	// StopPresenceCheck disarms liveness polling. It is idempotent.
	StopPresenceCheck()

	// Disconnect releases the tag handle.
	Disconnect() error
}

// Notifier receives session events for the host layer. Implementations
// must not call back into the Charger from these methods.
type Notifier interface {
	// OnWlcData is called once per successfully acknowledged control
	// exchange with the parsed listener device info. Entries not yet
	// reported by the listener hold -1.
	OnWlcData(session uuid.UUID, info map[InfoKey]int)

	// OnSessionEnded is called exactly once per disconnect.
	OnSessionEnded(session uuid.UUID)
}

// nopNotifier is the default when no notifier is configured.
type nopNotifier struct{}

func (nopNotifier) OnWlcData(uuid.UUID, map[InfoKey]int) {}
func (nopNotifier) OnSessionEnded(uuid.UUID)             {}
