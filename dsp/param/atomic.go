package param

import (
	"math"
	"sync/atomic"
)

// Float is a float64 that one goroutine may write while another reads it
// without blocking. The zero value holds 0.
type Float struct {
	bits atomic.Uint64
}

// NewFloat returns a Float holding v.
func NewFloat(v float64) *Float {
	f := &Float{}
	f.Store(v)
	return f
}

// Load returns the latest stored value.
func (f *Float) Load() float64 {
	return math.Float64frombits(f.bits.Load())
}

// Store publishes v.
func (f *Float) Store(v float64) {
	f.bits.Store(math.Float64bits(v))
}

// Range is an inclusive parameter range with a default value.
type Range struct {
	Min, Max, Default float64
}

// Clamp limits v into the range; NaN maps to Default.
func (r Range) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return r.Default
	}
	return math.Min(math.Max(v, r.Min), r.Max)
}

// Contains reports whether v lies inside the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}
