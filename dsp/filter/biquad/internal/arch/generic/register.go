package generic

import (
	"github.com/cwbudde/algo-vecmath/cpu"

	"github.com/cwbudde/blade/dsp/filter/biquad/internal/arch/registry"
)

func init() {
	registry.Global.Register(registry.OpEntry{
		Name:          "generic",
		SIMDLevel:     cpu.SIMDNone,
		Priority:      0,
		ProcessStereo: processStereo,
	})
}

// ProcessStereo is the portable reference kernel, exported for parity tests.
func ProcessStereo(c registry.Coefficients, d0, d1 [2]float64, left, right []float64) (newD0, newD1 [2]float64) {
	return processStereo(c, d0, d1, left, right)
}

func processStereo(c registry.Coefficients, d0, d1 [2]float64, left, right []float64) (newD0, newD1 [2]float64) {
	b0, b1, b2 := c.B0, c.B1, c.B2
	a1, a2 := c.A1, c.A2

	for i := range left {
		xl, xr := left[i], right[i]

		yl := b0*xl + d0[0]
		yr := b0*xr + d0[1]

		d0[0] = b1*xl - a1*yl + d1[0]
		d0[1] = b1*xr - a1*yr + d1[1]

		d1[0] = b2*xl - a2*yl
		d1[1] = b2*xr - a2*yr

		left[i] = yl
		right[i] = yr
	}

	return d0, d1
}
