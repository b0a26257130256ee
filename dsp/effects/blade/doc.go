// Package blade implements the BLADE "fan" effect: a stereo bandpass whose
// center frequency is swept by a sine LFO. The LFO rate is chosen by a
// four-position fan [Speed]; in the extended tier the host also controls
// the sweep center, sweep range and filter resonance.
//
// Per sample the [Processor] ramps the LFO rate toward the speed's
// frequency (20 ms linear ramp), advances the LFO, places the passband at
// range*lfo + center, designs a fresh constant-skirt-gain bandpass and runs
// it over the stereo frame. With the fan Off the LFO keeps turning but the
// audio passes through dry and the filter history is left untouched, so
// switching back on resumes without a click.
//
// [Params] is the boundary between a control goroutine (UI, automation)
// and the audio callback: setters clamp to the declared ranges and publish
// atomically, and the audio path takes a [Snapshot] once per block.
package blade
