package design

import (
	"math"

	"github.com/cwbudde/blade/dsp/filter/biquad"
)

// Bandpass designs an RBJ constant-skirt-gain bandpass biquad centered at
// freq (Hz) with quality factor q. The peak gain at freq equals q.
//
//	w0    = 2*pi*freq/sampleRate
//	alpha = sin(w0) / (2*q)
//	b0 = sin(w0)/2, b1 = 0, b2 = -sin(w0)/2
//	a0 = 1 + alpha, a1 = -2*cos(w0), a2 = 1 - alpha
//
// Preconditions (not checked): sampleRate > 0, 0 < freq < sampleRate/2,
// q > 0. The filter is stable for every input satisfying them; q >= 1
// keeps the poles comfortably inside the unit circle across the audio band.
func Bandpass(freq, q, sampleRate float64) biquad.Coefficients {
	w0 := 2 * math.Pi * freq / sampleRate
	sw, cw := math.Sincos(w0)
	alpha := sw / (2 * q)

	invA0 := 1 / (1 + alpha)
	b0 := 0.5 * sw * invA0

	return biquad.Coefficients{
		B0: b0,
		B1: 0,
		B2: -b0,
		A1: -2 * cw * invA0,
		A2: (1 - alpha) * invA0,
	}
}

// CheckedBandpass validates its arguments with [ValidateBandpass] and
// then designs the filter with [Bandpass].
func CheckedBandpass(freq, q, sampleRate float64) (biquad.Coefficients, error) {
	if err := ValidateBandpass(freq, q, sampleRate); err != nil {
		return biquad.Coefficients{}, err
	}

	return Bandpass(freq, q, sampleRate), nil
}
