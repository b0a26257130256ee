//go:build arm64 && !purego

package neon

import (
	"github.com/cwbudde/algo-vecmath/cpu"

	"github.com/cwbudde/blade/dsp/filter/biquad/internal/arch/registry"
)

func init() {
	registry.Global.Register(registry.OpEntry{
		Name:          "neon",
		SIMDLevel:     cpu.SIMDNEON,
		Priority:      15,
		ProcessStereo: processStereo,
	})
}

// processStereo holds the two lanes side by side, the layout a float64x2
// NEON register uses, and runs the recursion lane-wise.
func processStereo(c registry.Coefficients, d0, d1 [2]float64, left, right []float64) (newD0, newD1 [2]float64) {
	b0 := [2]float64{c.B0, c.B0}
	b1 := [2]float64{c.B1, c.B1}
	b2 := [2]float64{c.B2, c.B2}
	a1 := [2]float64{c.A1, c.A1}
	a2 := [2]float64{c.A2, c.A2}

	for i := range left {
		x := [2]float64{left[i], right[i]}

		var y [2]float64
		for lane := range 2 {
			y[lane] = b0[lane]*x[lane] + d0[lane]
			d0[lane] = b1[lane]*x[lane] - a1[lane]*y[lane] + d1[lane]
			d1[lane] = b2[lane]*x[lane] - a2[lane]*y[lane]
		}

		left[i], right[i] = y[0], y[1]
	}

	return d0, d1
}
