package blade

import (
	"fmt"
	"strings"
	"time"
)

// Speed is the fan position. The zero value is [SpeedOff].
type Speed int32

const (
	SpeedOff Speed = iota
	SpeedFast
	SpeedMedium
	SpeedSlow

	numSpeeds
)

// LFO rates per speed in Hz. A faster fan spins the LFO faster.
const (
	FastHz   = 35.0
	MediumHz = 20.0
	SlowHz   = 5.0
)

var speedHz = [numSpeeds]float64{
	SpeedOff:    0,
	SpeedFast:   FastHz,
	SpeedMedium: MediumHz,
	SpeedSlow:   SlowHz,
}

var speedNames = [numSpeeds]string{
	SpeedOff:    "off",
	SpeedFast:   "fast",
	SpeedMedium: "medium",
	SpeedSlow:   "slow",
}

// Frame periods of the spinning-fan animation shown by control surfaces.
var speedFramePeriod = [numSpeeds]time.Duration{
	SpeedFast:   14 * time.Millisecond,
	SpeedMedium: 30 * time.Millisecond,
	SpeedSlow:   60 * time.Millisecond,
}

// Speeds lists every speed in cycle order.
func Speeds() []Speed {
	return []Speed{SpeedOff, SpeedFast, SpeedMedium, SpeedSlow}
}

// Valid reports whether s is one of the four defined speeds.
func (s Speed) Valid() bool {
	return s >= SpeedOff && s < numSpeeds
}

// Active reports whether s is a defined speed other than Off.
func (s Speed) Active() bool {
	return s > SpeedOff && s < numSpeeds
}

// Cycle returns the next position in the ring Off→Fast→Medium→Slow→Off.
// Undefined values are treated as Off.
func (s Speed) Cycle() Speed {
	if !s.Valid() {
		s = SpeedOff
	}
	return (s + 1) % numSpeeds
}

// Frequency returns the LFO rate for s in Hz. Off has no rate and
// returns [ErrSpeedOff].
func (s Speed) Frequency() (float64, error) {
	switch {
	case s == SpeedOff:
		return 0, ErrSpeedOff
	case !s.Valid():
		return 0, fmt.Errorf("%w: %d", ErrUnknownSpeed, int32(s))
	}
	return speedHz[s], nil
}

// lfoHz is the table lookup used on the audio path; ok is false for Off
// and undefined values.
func (s Speed) lfoHz() (hz float64, ok bool) {
	if !s.Active() {
		return 0, false
	}
	return speedHz[s], true
}

// FramePeriod returns how long each frame of the fan animation is shown.
// ok is false when the fan is stopped.
func (s Speed) FramePeriod() (period time.Duration, ok bool) {
	if !s.Active() {
		return 0, false
	}
	return speedFramePeriod[s], true
}

// String returns the lower-case speed name.
func (s Speed) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Speed(%d)", int32(s))
	}
	return speedNames[s]
}

// ParseSpeed parses a speed name, case-insensitively.
func ParseSpeed(name string) (Speed, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for s, candidate := range speedNames {
		if n == candidate {
			return Speed(s), nil
		}
	}
	return SpeedOff, fmt.Errorf("%w: %q", ErrUnknownSpeed, name)
}
