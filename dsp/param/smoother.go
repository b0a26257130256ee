package param

import "math"

// DefaultRampMs is the ramp duration used by [NewLinearSmoother] when
// given a non-positive duration.
const DefaultRampMs = 20.0

// LinearSmoother turns step changes of a control value into linear ramps
// of fixed duration. It is a stateful stream: call [LinearSmoother.Next]
// exactly once per sample, in order.
type LinearSmoother struct {
	rampMs float64

	current   float64
	target    float64
	step      float64
	stepsLeft int
}

// NewLinearSmoother returns a smoother whose ramps last rampMs
// milliseconds. Value and target start at 0.
func NewLinearSmoother(rampMs float64) *LinearSmoother {
	if rampMs <= 0 || math.IsNaN(rampMs) || math.IsInf(rampMs, 0) {
		rampMs = DefaultRampMs
	}

	return &LinearSmoother{rampMs: rampMs}
}

// RampMs returns the ramp duration in milliseconds.
func (s *LinearSmoother) RampMs() float64 { return s.rampMs }

// RampSamples returns the ramp length in samples at sampleRate.
func (s *LinearSmoother) RampSamples(sampleRate float64) int {
	return int(math.Round(s.rampMs / 1000 * sampleRate))
}

// SetTarget starts a ramp from the current value to target. Setting the
// target it is already heading for keeps the running ramp, so hosts may
// call this once per block with an unchanged value.
func (s *LinearSmoother) SetTarget(sampleRate, target float64) {
	if target == s.target {
		return
	}

	s.target = target

	steps := s.RampSamples(sampleRate)
	if steps <= 0 {
		s.current = target
		s.step = 0
		s.stepsLeft = 0
		return
	}

	s.stepsLeft = steps
	s.step = (target - s.current) / float64(steps)
}

// Next advances one sample and returns the new value. The last step of a
// ramp lands exactly on the target, which is then held.
func (s *LinearSmoother) Next() float64 {
	if s.stepsLeft > 0 {
		s.stepsLeft--
		if s.stepsLeft == 0 {
			s.current = s.target
		} else {
			s.current += s.step
		}
	}

	return s.current
}

// Reset snaps value and target to value with no ramp.
func (s *LinearSmoother) Reset(value float64) {
	s.current = value
	s.target = value
	s.step = 0
	s.stepsLeft = 0
}

// Value returns the current value without advancing.
func (s *LinearSmoother) Value() float64 { return s.current }

// Target returns the value being ramped to.
func (s *LinearSmoother) Target() float64 { return s.target }

// StepsLeft returns the number of samples until the ramp completes.
func (s *LinearSmoother) StepsLeft() int { return s.stepsLeft }

// IsSmoothing reports whether a ramp is in progress.
func (s *LinearSmoother) IsSmoothing() bool { return s.stepsLeft > 0 }
