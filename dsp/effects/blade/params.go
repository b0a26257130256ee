package blade

import (
	"fmt"
	"sync/atomic"

	"github.com/cwbudde/blade/dsp/param"
)

// Base-tier sweep settings. The extended tier starts from the same values.
const (
	DefaultCenterHz  = 1000.0
	DefaultRangeHz   = 500.0
	DefaultResonance = 2.0
)

// Host-declared parameter ranges of the extended tier.
var (
	CenterRange    = param.Range{Min: 500, Max: 5000, Default: DefaultCenterHz}
	SweepRange     = param.Range{Min: 100, Max: 2000, Default: DefaultRangeHz}
	ResonanceRange = param.Range{Min: 1, Max: 4, Default: DefaultResonance}
)

// Snapshot is the parameter set the audio path reads for one block.
type Snapshot struct {
	Speed     Speed
	CenterHz  float64
	RangeHz   float64
	Resonance float64
}

// DefaultSnapshot returns the base-tier settings with the fan Off.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Speed:     SpeedOff,
		CenterHz:  DefaultCenterHz,
		RangeHz:   DefaultRangeHz,
		Resonance: DefaultResonance,
	}
}

// Clamped returns s with every value forced into its declared range.
// Undefined speeds become Off.
func (s Snapshot) Clamped() Snapshot {
	if !s.Speed.Valid() {
		s.Speed = SpeedOff
	}
	s.CenterHz = CenterRange.Clamp(s.CenterHz)
	s.RangeHz = SweepRange.Clamp(s.RangeHz)
	s.Resonance = ResonanceRange.Clamp(s.Resonance)
	return s
}

// Params holds the live parameter values shared between a control
// goroutine and the audio callback. Writers clamp into range; readers
// never block. The zero value is not usable, use [NewParams].
type Params struct {
	speed     atomic.Int32
	center    param.Float
	sweep     param.Float
	resonance param.Float
}

// NewParams returns parameters at their defaults (fan Off).
func NewParams() *Params {
	p := &Params{}
	p.center.Store(DefaultCenterHz)
	p.sweep.Store(DefaultRangeHz)
	p.resonance.Store(DefaultResonance)
	return p
}

// Speed returns the current fan speed.
func (p *Params) Speed() Speed {
	return Speed(p.speed.Load())
}

// SetSpeed publishes s.
func (p *Params) SetSpeed(s Speed) error {
	if !s.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownSpeed, int32(s))
	}
	p.speed.Store(int32(s))
	return nil
}

// CycleSpeed atomically advances the fan to the next speed and returns
// it. Concurrent clicks each advance the ring by one.
func (p *Params) CycleSpeed() Speed {
	for {
		old := p.speed.Load()
		next := Speed(old).Cycle()
		if p.speed.CompareAndSwap(old, int32(next)) {
			return next
		}
	}
}

// CenterHz returns the sweep center in Hz.
func (p *Params) CenterHz() float64 { return p.center.Load() }

// SetCenterHz clamps v into [CenterRange] and publishes it. The stored
// value is returned.
func (p *Params) SetCenterHz(v float64) float64 {
	v = CenterRange.Clamp(v)
	p.center.Store(v)
	return v
}

// RangeHz returns the sweep range in Hz.
func (p *Params) RangeHz() float64 { return p.sweep.Load() }

// SetRangeHz clamps v into [SweepRange] and publishes it.
func (p *Params) SetRangeHz(v float64) float64 {
	v = SweepRange.Clamp(v)
	p.sweep.Store(v)
	return v
}

// Resonance returns the filter Q.
func (p *Params) Resonance() float64 { return p.resonance.Load() }

// SetResonance clamps v into [ResonanceRange] and publishes it.
func (p *Params) SetResonance(v float64) float64 {
	v = ResonanceRange.Clamp(v)
	p.resonance.Store(v)
	return v
}

// Snapshot reads the latest value of every parameter. The four loads are
// individually atomic; a write racing the snapshot shows up either in
// this block or the next.
func (p *Params) Snapshot() Snapshot {
	return Snapshot{
		Speed:     p.Speed(),
		CenterHz:  p.CenterHz(),
		RangeHz:   p.RangeHz(),
		Resonance: p.Resonance(),
	}
}
