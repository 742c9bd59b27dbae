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

// wlcsim drives a full wireless charging session against a simulated
// WLC listener: capability announcement, negotiation, control
// exchange, a supervised power transfer phase and finally the listener
// leaving the field.
package main

import (
	"flag"
	"os"
	"time"

	wlc "github.com/ZaparooProject/go-wlc"
	"github.com/ZaparooProject/go-wlc/internal/wlctest"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type consoleNotifier struct {
	log zerolog.Logger
}

func (n consoleNotifier) OnWlcData(session uuid.UUID, info map[wlc.InfoKey]int) {
	ev := n.log.Info().Stringer("session", session)
	for k, v := range info {
		if v >= 0 {
			ev = ev.Int(string(k), v)
		}
	}
	ev.Msg("listener device info")
}

func (n consoleNotifier) OnSessionEnded(session uuid.UUID) {
	n.log.Info().Stringer("session", session).Msg("charging session ended")
}

func main() {
	wptDuration := flag.Duration("wpt", time.Second, "negotiated WPT duration")
	debug := flag.Bool("debug", false, "log state transitions")
	flag.Parse()

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).With().Timestamp().Logger()

	listener := wlctest.NewListener()
	charger, err := wlc.New(listener,
		wlc.WithLogger(log),
		wlc.WithNotifier(consoleNotifier{log: log}),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("creating charger")
	}

	tick := func() {
		if err := charger.Tick(); err != nil {
			log.Warn().Err(err).Msg("tick")
		}
	}

	// Listener arrives and announces negotiated charging.
	listener.ScriptCapability(wlc.ModeReqNegotiated, wlc.NegoWaitContinue)
	for charger.Session().State() != wlc.StateAwaitControlAck {
		tick()
	}
	log.Info().Int("writes", len(listener.Writes())).Msg("control parameters written")

	// Listener acknowledges and requests power transfer.
	listener.ScriptControlAck(wlctest.ControlScript{
		BatteryStatus: 2,
		WptReq:        wlc.WptReqStart,
		WptDuration:   *wptDuration,
		BatteryLevel:  42,
		ProductID:     7,
	})
	tick() // parse acknowledgement
	tick() // evaluate WPT, arm presence supervision
	log.Info().
		Stringer("state", charger.Session().State()).
		Bool("presence", charger.Session().PresenceActive()).
		Msg("power transfer supervised")

	// One supervision interval elapses, loop re-polls the info request.
	time.Sleep(*wptDuration + 100*time.Millisecond)
	if err := charger.WptCompleted(); err != nil {
		log.Warn().Err(err).Msg("wpt completion")
	}
	tick()

	// Listener leaves the field; supervision fires the disconnect path.
	listener.Remove()
	time.Sleep(*wptDuration + 100*time.Millisecond)
	log.Info().
		Stringer("state", charger.Session().State()).
		Int("disconnects", listener.DisconnectCalls()).
		Msg("simulation finished")
}
