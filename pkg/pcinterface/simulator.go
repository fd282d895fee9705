// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package pcinterface

import (
	"bytes"
	"math/rand"
	"sync"

	"github.com/Thermoquad/intergastat/pkg/intergas"
)

// SimulatedLink is an in-memory Link that answers each QueryCommand with
// the next frame from its source. Replies are delivered in chunks the way
// a UART hands them over.
type SimulatedLink struct {
	mu      sync.Mutex
	next    func() []byte
	pending []byte
	chunk   int
	closed  bool
	queries int
}

// NewSimulatedLink answers queries with frames from sim
func NewSimulatedLink(sim *Simulator) *SimulatedLink {
	return &SimulatedLink{next: sim.Frame, chunk: 8}
}

// NewScriptedLink answers queries with the given replies in order, then
// stays silent
func NewScriptedLink(replies ...[]byte) *SimulatedLink {
	i := 0
	next := func() []byte {
		if i >= len(replies) {
			return nil
		}
		r := replies[i]
		i++
		return r
	}
	return &SimulatedLink{next: next, chunk: 8}
}

// Queries returns the number of queries received
func (l *SimulatedLink) Queries() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.queries
}

func (l *SimulatedLink) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return 0, ErrLinkClosed
	}
	if bytes.Equal(p, QueryCommand) {
		l.queries++
		l.pending = append(l.pending, l.next()...)
	}
	return len(p), nil
}

func (l *SimulatedLink) Read(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return 0, ErrLinkClosed
	}
	if len(l.pending) == 0 {
		return 0, nil
	}
	n := len(p)
	if n > l.chunk {
		n = l.chunk
	}
	n = copy(p[:n], l.pending)
	l.pending = l.pending[n:]
	return n, nil
}

func (l *SimulatedLink) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}

// ResetInputBuffer discards an unread reply
func (l *SimulatedLink) ResetInputBuffer() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pending = nil
	return nil
}

// simulated operating cycle, one entry per poll
var simulatedCycle = []struct {
	display uint8
	ticks   int
}{
	{intergas.DisplayCHActive, 15},
	{intergas.DisplayCHPostRun, 5},
	{intergas.DisplayDHW, 5},
	{intergas.DisplayDHWPostRun, 2},
	{intergas.DisplayCHIdle, 3},
}

// Simulator produces plausible status frames cycling through heating,
// hot water and idle phases
type Simulator struct {
	mu             sync.Mutex
	rng            *rand.Rand
	tick           int
	pressureSensor bool
	flow           float64
}

// NewSimulator returns a simulator seeded for reproducible output.
// withPressureSensor controls secondary flag bit 5.
func NewSimulator(seed int64, withPressureSensor bool) *Simulator {
	return &Simulator{
		rng:            rand.New(rand.NewSource(seed)),
		pressureSensor: withPressureSensor,
		flow:           40,
	}
}

func (s *Simulator) phase() uint8 {
	total := 0
	for _, p := range simulatedCycle {
		total += p.ticks
	}
	t := s.tick % total
	for _, p := range simulatedCycle {
		if t < p.ticks {
			return p.display
		}
		t -= p.ticks
	}
	return intergas.DisplayCHIdle
}

func (s *Simulator) jitter(spread float64) float64 {
	return (s.rng.Float64()*2 - 1) * spread
}

// Fields returns the raw contents of the next frame
func (s *Simulator) Fields() intergas.RawFields {
	s.mu.Lock()
	defer s.mu.Unlock()

	display := s.phase()
	s.tick++

	burning := display == intergas.DisplayCHActive || display == intergas.DisplayDHW
	hotWater := display == intergas.DisplayDHW || display == intergas.DisplayDHWPostRun
	pumping := display != intergas.DisplayCHIdle

	// Flow temperature climbs while burning and decays otherwise
	if burning {
		s.flow += (70 - s.flow) * 0.2
	} else {
		s.flow += (35 - s.flow) * 0.1
	}
	flow := s.flow + s.jitter(0.5)
	ret := flow - 8 - s.jitter(1)

	var fanSetpoint, fan, pwm, ioCurrent float64
	if burning {
		fanSetpoint = 45
		fan = fanSetpoint + s.jitter(2)
		pwm = 40 + s.jitter(5)
		ioCurrent = 5 + s.jitter(1)
	}

	values := [12]float64{
		flow + 12 + s.jitter(2),  // flue
		flow,                     // flow
		ret,                      // return
		48 + s.jitter(1),         // domestic hot water
		flow - 2 + s.jitter(0.5), // boiler
		8 + s.jitter(2),          // outdoor
		0,                        // pressure, set below
		60,                       // temperature setpoint
		fanSetpoint,
		fan,
		pwm,
		ioCurrent,
	}
	if s.pressureSensor {
		values[6] = 1.5 + s.jitter(0.1)
	}

	var fields intergas.RawFields
	for i, v := range values {
		fields.Readings[i] = encodeNearest(intergas.FixedPointFromFloat(v))
	}
	fields.DisplayCode = display
	fields.PrimaryFlags = intergas.PrimaryFlags{
		GeneralPowerSwitch: true,
		TapWaterSwitch:     hotWater,
		RoomThermostat:     display == intergas.DisplayCHActive,
		Pump:               pumping,
		ThreeWayValve:      hotWater,
	}
	fields.SecondaryFlags = intergas.SecondaryFlags{
		GasValve:              burning,
		IOSignal:              burning,
		PressureSensorPresent: s.pressureSensor,
	}
	return fields
}

// Frame returns the next 32-byte frame
func (s *Simulator) Frame() []byte {
	return intergas.EncodeFrame(s.Fields())
}

// encodeNearest returns the closest representable reading at or below v.
// Small negative values have no encoding and are clamped to zero.
func encodeNearest(v intergas.FixedPoint) intergas.RawReading {
	if v < 0 {
		v = 0
	}
	for ; v >= 0; v-- {
		if r, ok := intergas.EncodeFixedPoint(v); ok {
			return r
		}
	}
	return intergas.RawReading{}
}
