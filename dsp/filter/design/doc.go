// Package design provides biquad coefficient designers.
//
// The functions in this package produce coefficients consumable by
// dsp/filter/biquad. [Bandpass] is written for per-sample use on an audio
// thread: it has no branches and no validation, so its preconditions are
// the caller's job. [CheckedBandpass] validates first and is meant for
// setup paths.
package design
