// Package biquad provides biquad (second-order IIR) filter runtime primitives.
//
// A [Section] implements Direct Form II Transposed processing for a single
// channel. A [Stereo] runs the same recursion over both lanes of a
// [core.Frame] in lockstep, with one delay-line vector per tap, and is the
// filter used by the swept bandpass effect.
//
// Coefficients are plain values: callers that modulate the filter replace
// them every sample without touching the delay lines. Coefficient design
// (bandpass and friends) lives in dsp/filter/design.
package biquad
