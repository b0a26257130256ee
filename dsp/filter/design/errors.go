package design

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidSampleRate is returned for non-positive or non-finite sample rates.
	ErrInvalidSampleRate = errors.New("design: sample rate must be > 0 and finite")
	// ErrFrequencyOutOfRange is returned when a frequency is not in (0, Nyquist).
	ErrFrequencyOutOfRange = errors.New("design: frequency must be in (0, sampleRate/2)")
	// ErrInvalidQ is returned for non-positive or non-finite Q.
	ErrInvalidQ = errors.New("design: Q must be > 0 and finite")
)

// ValidateBandpass checks the preconditions of [Bandpass].
func ValidateBandpass(freq, q, sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("%w: %f", ErrInvalidSampleRate, sampleRate)
	}

	if freq <= 0 || freq >= sampleRate/2 || math.IsNaN(freq) || math.IsInf(freq, 0) {
		return fmt.Errorf("%w: freq=%f sampleRate=%f", ErrFrequencyOutOfRange, freq, sampleRate)
	}

	if q <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		return fmt.Errorf("%w: %f", ErrInvalidQ, q)
	}

	return nil
}
