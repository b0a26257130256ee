// Package stream feeds test signals through a BLADE processor for offline
// rendering and for audio backends that pull float32 PCM from an
// io.Reader.
package stream

import (
	"fmt"
	"math/rand"

	"github.com/cwbudde/blade/dsp/core"
	"github.com/cwbudde/blade/dsp/osc"
)

// Source fills stereo blocks with input signal.
type Source interface {
	Fill(left, right []float64)
}

// Tone is a sine at a fixed frequency on both channels.
type Tone struct {
	freqHz     float64
	amplitude  float64
	sampleRate float64
	osc        osc.Sine
}

// NewTone returns a sine source. freqHz must lie below sampleRate/2.
func NewTone(freqHz, amplitude, sampleRate float64) (*Tone, error) {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return nil, fmt.Errorf("tone sample rate must be > 0 and finite: %f", sampleRate)
	}
	if freqHz <= 0 || freqHz >= sampleRate/2 {
		return nil, fmt.Errorf("tone frequency must be in (0, %f): %f", sampleRate/2, freqHz)
	}

	return &Tone{freqHz: freqHz, amplitude: amplitude, sampleRate: sampleRate}, nil
}

// Fill implements [Source].
func (t *Tone) Fill(left, right []float64) {
	for i := range left {
		v := t.amplitude * t.osc.Advance(t.freqHz, t.sampleRate)
		left[i] = v
		right[i] = v
	}
}

// Noise is uniform white noise, independent per channel.
type Noise struct {
	amplitude float64
	rng       *rand.Rand
}

// NewNoise returns a seeded noise source.
func NewNoise(seed int64, amplitude float64) *Noise {
	return &Noise{amplitude: amplitude, rng: rand.New(rand.NewSource(seed))}
}

// Fill implements [Source].
func (n *Noise) Fill(left, right []float64) {
	for i := range left {
		left[i] = (n.rng.Float64()*2 - 1) * n.amplitude
		right[i] = (n.rng.Float64()*2 - 1) * n.amplitude
	}
}
