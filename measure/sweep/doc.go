// Package sweep measures how a swept filter reshapes a test signal over
// time.
//
// The signal is cut into overlapping frames. For each frame the analyzer
// reports the peak and RMS level (the amplitude envelope) and the spectral
// centroid of the Hann-windowed frame (where the passband currently sits).
// The summary gives the envelope depth in dB and how often the envelope
// dips, which for a tone held at the sweep center is twice the LFO rate.
//
// RMS uses a fast square root when built with the fastmath tag.
package sweep
