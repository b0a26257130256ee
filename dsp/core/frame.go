package core

// Frame is one stereo sample pair. Lane 0 is left, lane 1 is right.
//
// Stereo processors step both lanes through identical recursions, so a
// Frame is passed and returned by value and never escapes to the heap.
type Frame [2]float64

// Left returns lane 0.
func (f Frame) Left() float64 { return f[0] }

// Right returns lane 1.
func (f Frame) Right() float64 { return f[1] }

// Scale returns f with both lanes multiplied by g.
func (f Frame) Scale(g float64) Frame {
	return Frame{f[0] * g, f[1] * g}
}

// Interleave writes left/right into dst as LRLR float32 samples.
// dst must hold at least 2*len(left) values and right must match left.
func Interleave(dst []float32, left, right []float64) {
	_ = dst[2*len(left)-1]
	_ = right[len(left)-1]
	for i := range left {
		dst[2*i] = float32(left[i])
		dst[2*i+1] = float32(right[i])
	}
}

// Deinterleave splits an LRLR float32 buffer into left/right.
// Both destinations must hold at least len(src)/2 values.
func Deinterleave(left, right []float64, src []float32) {
	n := len(src) / 2
	if n == 0 {
		return
	}
	_ = left[n-1]
	_ = right[n-1]
	for i := range n {
		left[i] = float64(src[2*i])
		right[i] = float64(src[2*i+1])
	}
}
