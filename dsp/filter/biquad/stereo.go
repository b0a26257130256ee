//nolint:funcorder
package biquad

import (
	"sync"

	"github.com/cwbudde/algo-vecmath/cpu"

	"github.com/cwbudde/blade/dsp/core"
	archregistry "github.com/cwbudde/blade/dsp/filter/biquad/internal/arch/registry"
)

// StereoState is the delay-line history of a [Stereo] filter: one vector
// per tap, one lane per channel.
type StereoState struct {
	D0, D1 core.Frame
}

// Stereo is a two-lane biquad. Both channels share one set of
// coefficients and advance through the Direct Form II Transposed
// recursion together.
//
// The zero value is a silent filter (all coefficients zero) with zero state.
type Stereo struct {
	Coefficients

	d0, d1 core.Frame
}

var (
	stereoBlockImpl     archregistry.ProcessStereoFn
	stereoBlockInitOnce sync.Once
)

// NewStereo returns a Stereo filter with the given coefficients and zero state.
func NewStereo(c Coefficients) *Stereo {
	return &Stereo{Coefficients: c}
}

// ProcessFrame runs one filter step over both lanes and returns the output
// frame. It does not allocate or branch and is safe to call from a
// real-time audio callback.
func (s *Stereo) ProcessFrame(x core.Frame) core.Frame {
	b0, b1, b2 := s.B0, s.B1, s.B2
	a1, a2 := s.A1, s.A2

	yl := b0*x[0] + s.d0[0]
	yr := b0*x[1] + s.d0[1]

	s.d0[0] = b1*x[0] - a1*yl + s.d1[0]
	s.d0[1] = b1*x[1] - a1*yr + s.d1[1]

	s.d1[0] = b2*x[0] - a2*yl
	s.d1[1] = b2*x[1] - a2*yr

	return core.Frame{yl, yr}
}

// ProcessBlock filters left and right in place with the current
// (fixed) coefficients. Both slices must have the same length. Zero-alloc.
//
// The kernel is picked once per process from the registered
// implementations for the running CPU.
func (s *Stereo) ProcessBlock(left, right []float64) {
	if len(left) == 0 {
		return
	}
	_ = right[len(left)-1] // bounds check hint

	stereoBlockInitOnce.Do(initStereoBlockKernel)

	coeffs := archregistry.Coefficients{
		B0: s.B0,
		B1: s.B1,
		B2: s.B2,
		A1: s.A1,
		A2: s.A2,
	}

	s.d0, s.d1 = stereoBlockImpl(coeffs, s.d0, s.d1, left, right[:len(left)])
}

func initStereoBlockKernel() {
	entry := archregistry.Global.Lookup(cpu.DetectFeatures())
	if entry == nil {
		panic("biquad: no stereo kernel registered (missing generic fallback?)")
	}

	if entry.ProcessStereo == nil {
		panic("biquad: selected kernel missing ProcessStereo")
	}

	stereoBlockImpl = entry.ProcessStereo
}

// Reset clears both delay-line vectors. Coefficients are kept.
func (s *Stereo) Reset() {
	s.d0 = core.Frame{}
	s.d1 = core.Frame{}
}

// State returns a copy of the delay-line vectors.
func (s *Stereo) State() StereoState {
	return StereoState{D0: s.d0, D1: s.d1}
}

// SetState restores a previously saved delay-line state.
func (s *Stereo) SetState(state StereoState) {
	s.d0 = state.D0
	s.d1 = state.D1
}
