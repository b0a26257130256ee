package blade

import (
	"fmt"
	"math"

	"github.com/cwbudde/blade/dsp/core"
	"github.com/cwbudde/blade/dsp/filter/biquad"
	"github.com/cwbudde/blade/dsp/filter/design"
	"github.com/cwbudde/blade/dsp/osc"
	"github.com/cwbudde/blade/dsp/param"
)

// Processor is the BLADE audio core. It is owned by a single audio
// callback; none of its methods may be called concurrently.
type Processor struct {
	cfg config

	sampleRate  float64
	minCenterHz float64
	maxCenterHz float64
	ready       bool

	lfoRate  *param.LinearSmoother
	lfo      osc.Sine
	filter   biquad.Stereo
	centerHz float64
}

// New creates a processor. It must be initialized with a sample rate
// before it processes audio.
func New(opts ...Option) (*Processor, error) {
	cfg := defaultConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	return &Processor{
		cfg:      cfg,
		lfoRate:  param.NewLinearSmoother(cfg.rampMs),
		centerHz: DefaultCenterHz,
	}, nil
}

// Initialize prepares the processor for sampleRate and sets the filter to
// the snapshot's (unmodulated) center and resonance. Transient state is
// kept; hosts call [Processor.Reset] afterwards on activation.
func (p *Processor) Initialize(sampleRate float64, s Snapshot) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("blade sample rate must be > 0 and finite: %f", sampleRate)
	}

	maxCenter := sampleRate * p.cfg.nyquistRatio
	if maxCenter <= p.cfg.minCenterHz {
		return fmt.Errorf("blade sample rate too low for a %0.1f Hz minimum center: %f", p.cfg.minCenterHz, sampleRate)
	}

	p.sampleRate = sampleRate
	p.minCenterHz = p.cfg.minCenterHz
	p.maxCenterHz = maxCenter
	p.ready = true

	s = p.resolve(s.Clamped())
	p.centerHz = p.clampCenter(s.CenterHz)
	p.filter.Coefficients = design.Bandpass(p.centerHz, s.Resonance, p.sampleRate)

	return nil
}

// Reset clears transient state: the LFO rate snaps to speed's frequency
// (it is left alone when speed is Off), the LFO phase returns to 0 and the
// filter delay lines are zeroed. Coefficients are unchanged.
func (p *Processor) Reset(speed Speed) {
	if hz, ok := speed.lfoHz(); ok {
		p.lfoRate.Reset(hz)
	}
	p.lfo.Reset()
	p.filter.Reset()
}

// ResetParams is [Processor.Reset] with the speed read from params.
func (p *Processor) ResetParams(params *Params) {
	p.Reset(params.Speed())
}

// ProcessSample processes one stereo frame with the parameters in s.
//
// s must hold in-range values (see [Snapshot.Clamped]); [Params.Snapshot]
// always does. Before [Processor.Initialize] the input is returned as is.
func (p *Processor) ProcessSample(s Snapshot, in core.Frame) core.Frame {
	if !p.ready {
		return in
	}
	return p.step(p.resolve(s), in)
}

// Process filters left and right in place using one snapshot for the
// whole block. The snapshot is clamped into range first.
func (p *Processor) Process(s Snapshot, left, right []float64) error {
	if len(left) != len(right) {
		return fmt.Errorf("%w: left=%d right=%d", ErrLengthMismatch, len(left), len(right))
	}

	if !p.ready {
		return ErrNotInitialized
	}

	s = p.resolve(s.Clamped())
	for i := range left {
		y := p.step(s, core.Frame{left[i], right[i]})
		left[i], right[i] = y[0], y[1]
	}

	return nil
}

// ProcessParams takes one snapshot of params and processes the block.
func (p *Processor) ProcessParams(params *Params, left, right []float64) error {
	return p.Process(params.Snapshot(), left, right)
}

// ProcessInterleaved filters an LRLR float32 buffer in place.
func (p *Processor) ProcessInterleaved(s Snapshot, buf []float32) error {
	if len(buf)%2 != 0 {
		return fmt.Errorf("%w: interleaved length %d is odd", ErrLengthMismatch, len(buf))
	}

	if !p.ready {
		return ErrNotInitialized
	}

	s = p.resolve(s.Clamped())
	for i := 0; i < len(buf); i += 2 {
		y := p.step(s, core.Frame{float64(buf[i]), float64(buf[i+1])})
		buf[i], buf[i+1] = float32(y[0]), float32(y[1])
	}

	return nil
}

// step runs one frame. The LFO always advances so its phase stays
// continuous across Off; the filter only runs while the fan is on.
func (p *Processor) step(s Snapshot, in core.Frame) core.Frame {
	hz, active := s.Speed.lfoHz()
	if active {
		p.lfoRate.SetTarget(p.sampleRate, hz)
	}

	lfo := p.lfo.Advance(p.lfoRate.Next(), p.sampleRate)
	if !active {
		return in
	}

	p.centerHz = p.clampCenter(math.FMA(s.RangeHz, lfo, s.CenterHz))
	p.filter.Coefficients = design.Bandpass(p.centerHz, s.Resonance, p.sampleRate)

	return p.filter.ProcessFrame(in)
}

// resolve applies the tier: the base tier ignores the host's sweep
// settings.
func (p *Processor) resolve(s Snapshot) Snapshot {
	if p.cfg.extended {
		return s
	}
	return Snapshot{
		Speed:     s.Speed,
		CenterHz:  DefaultCenterHz,
		RangeHz:   DefaultRangeHz,
		Resonance: DefaultResonance,
	}
}

func (p *Processor) clampCenter(hz float64) float64 {
	return math.Min(math.Max(hz, p.minCenterHz), p.maxCenterHz)
}

// SampleRate returns the sample rate set by Initialize, 0 before.
func (p *Processor) SampleRate() float64 { return p.sampleRate }

// Extended reports whether the extended controls are enabled.
func (p *Processor) Extended() bool { return p.cfg.extended }

// LFOPhase returns the LFO phase in cycles, in [0, 1).
func (p *Processor) LFOPhase() float64 { return p.lfo.Phase() }

// LFOFrequency returns the current (smoothed) LFO rate in Hz.
func (p *Processor) LFOFrequency() float64 { return p.lfoRate.Value() }

// CurrentCenterHz returns the most recent modulated center frequency.
func (p *Processor) CurrentCenterHz() float64 { return p.centerHz }

// Coefficients returns the filter coefficients in use.
func (p *Processor) Coefficients() biquad.Coefficients { return p.filter.Coefficients }

// FilterState returns a copy of the filter delay lines.
func (p *Processor) FilterState() biquad.StereoState { return p.filter.State() }

// CenterLimits returns the clamp applied to the modulated center
// frequency at the current sample rate.
func (p *Processor) CenterLimits() (minHz, maxHz float64) {
	return p.minCenterHz, p.maxCenterHz
}
