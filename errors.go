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

import "errors"

var (
	// ErrNoNDEFMessage indicates the tag currently holds no readable
	// NDEF message. During a tick this is expected protocol variance,
	// not a failure: the control loop treats it like an unmatched
	// record and advances its retry counters.
	ErrNoNDEFMessage = errors.New("no NDEF message available on tag")

	// ErrTagGone indicates the tag handle no longer responds. Transport
	// implementations return it from probe and write operations once
	// the tag has left the field.
	ErrTagGone = errors.New("tag left the field")
)
