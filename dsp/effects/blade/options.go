package blade

import (
	"fmt"
	"math"

	"github.com/cwbudde/blade/dsp/param"
)

const (
	defaultNyquistSafetyRatio = 0.49
	defaultMinCenterHz        = 20.0
)

// Option mutates processor construction parameters.
type Option func(*config) error

type config struct {
	extended     bool
	rampMs       float64
	nyquistRatio float64
	minCenterHz  float64
}

func defaultConfig() config {
	return config{
		rampMs:       param.DefaultRampMs,
		nyquistRatio: defaultNyquistSafetyRatio,
		minCenterHz:  defaultMinCenterHz,
	}
}

// WithExtendedControls enables the extended tier: center, range and
// resonance are taken from each [Snapshot] instead of the fixed
// 1000 Hz / 500 Hz / Q 2 base settings.
func WithExtendedControls() Option {
	return func(cfg *config) error {
		cfg.extended = true
		return nil
	}
}

// WithRampMs sets how long an LFO rate change takes, in milliseconds (> 0).
func WithRampMs(ms float64) Option {
	return func(cfg *config) error {
		if ms <= 0 || math.IsNaN(ms) || math.IsInf(ms, 0) {
			return fmt.Errorf("blade ramp must be > 0 and finite: %f", ms)
		}

		cfg.rampMs = ms

		return nil
	}
}

// WithNyquistSafetyRatio sets the upper limit of the swept center
// frequency as a fraction of the sample rate, in (0, 0.5).
func WithNyquistSafetyRatio(ratio float64) Option {
	return func(cfg *config) error {
		if ratio <= 0 || ratio >= 0.5 || math.IsNaN(ratio) {
			return fmt.Errorf("blade nyquist safety ratio must be in (0, 0.5): %f", ratio)
		}

		cfg.nyquistRatio = ratio

		return nil
	}
}

// WithMinCenterHz sets the lower limit of the swept center frequency (> 0).
func WithMinCenterHz(hz float64) Option {
	return func(cfg *config) error {
		if hz <= 0 || math.IsNaN(hz) || math.IsInf(hz, 0) {
			return fmt.Errorf("blade min center frequency must be > 0 and finite: %f", hz)
		}

		cfg.minCenterHz = hz

		return nil
	}
}
