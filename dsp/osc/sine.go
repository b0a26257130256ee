// Package osc provides low-frequency oscillators for modulation sources.
package osc

import "math"

// Sine is a phase-accumulator sine LFO. Phase is kept in cycles, in [0, 1).
//
// The zero value starts at phase 0.
type Sine struct {
	phase float64
}

// Advance returns sin(2*pi*phase) for the current phase and then moves the
// phase forward by frequency/sampleRate, wrapping once past 1.
//
// Precondition (not checked): 0 <= frequency < sampleRate, so a single
// subtraction always brings the phase back into [0, 1).
func (s *Sine) Advance(frequency, sampleRate float64) float64 {
	v := math.Sin(s.phase * 2 * math.Pi)

	s.phase += frequency / sampleRate
	if s.phase >= 1 {
		s.phase--
	}

	return v
}

// Phase returns the current phase in cycles.
func (s *Sine) Phase() float64 { return s.phase }

// SetPhase moves the oscillator to p cycles, wrapped into [0, 1).
func (s *Sine) SetPhase(p float64) {
	p -= math.Floor(p)
	if p >= 1 {
		p = 0
	}
	s.phase = p
}

// Reset returns the phase to 0.
func (s *Sine) Reset() { s.phase = 0 }
