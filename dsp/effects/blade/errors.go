package blade

import "errors"

var (
	// ErrSpeedOff is returned when asking the Off speed for its LFO frequency.
	ErrSpeedOff = errors.New("blade: speed Off has no LFO frequency")
	// ErrUnknownSpeed is returned for speed values outside Off..Slow.
	ErrUnknownSpeed = errors.New("blade: unknown speed")
	// ErrNotInitialized is returned by block processing before Initialize.
	ErrNotInitialized = errors.New("blade: processor not initialized")
	// ErrLengthMismatch is returned when left and right blocks differ in length.
	ErrLengthMismatch = errors.New("blade: left and right buffers must have the same length")
)
