//go:build amd64 && !purego

package avx2

import (
	"github.com/cwbudde/algo-vecmath/cpu"

	"github.com/cwbudde/blade/dsp/filter/biquad/internal/arch/registry"
)

func init() {
	registry.Global.Register(registry.OpEntry{
		Name:          "avx2",
		SIMDLevel:     cpu.SIMDAVX2,
		Priority:      20,
		ProcessStereo: processStereo,
	})
}

// processStereo keeps both lanes' delay lines in locals and unrolls two
// frames per iteration so the scheduler can interleave the lanes.
// TODO: replace with an explicit AVX2 asm kernel packing L/R into one register.
func processStereo(c registry.Coefficients, d0, d1 [2]float64, left, right []float64) (newD0, newD1 [2]float64) {
	b0, b1, b2 := c.B0, c.B1, c.B2
	a1, a2 := c.A1, c.A2

	d0l, d0r := d0[0], d0[1]
	d1l, d1r := d1[0], d1[1]

	i := 0
	n := len(left)
	for ; i+1 < n; i += 2 {
		xl0, xr0 := left[i], right[i]
		yl0 := b0*xl0 + d0l
		yr0 := b0*xr0 + d0r
		nd0l := b1*xl0 - a1*yl0 + d1l
		nd0r := b1*xr0 - a1*yr0 + d1r
		nd1l := b2*xl0 - a2*yl0
		nd1r := b2*xr0 - a2*yr0

		xl1, xr1 := left[i+1], right[i+1]
		yl1 := b0*xl1 + nd0l
		yr1 := b0*xr1 + nd0r
		d0l = b1*xl1 - a1*yl1 + nd1l
		d0r = b1*xr1 - a1*yr1 + nd1r
		d1l = b2*xl1 - a2*yl1
		d1r = b2*xr1 - a2*yr1

		left[i], right[i] = yl0, yr0
		left[i+1], right[i+1] = yl1, yr1
	}

	if i < n {
		xl, xr := left[i], right[i]
		yl := b0*xl + d0l
		yr := b0*xr + d0r
		d0l = b1*xl - a1*yl + d1l
		d0r = b1*xr - a1*yr + d1r
		d1l = b2*xl - a2*yl
		d1r = b2*xr - a2*yr
		left[i], right[i] = yl, yr
	}

	return [2]float64{d0l, d0r}, [2]float64{d1l, d1r}
}
