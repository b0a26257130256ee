package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cwbudde/blade/dsp/effects/blade"
)

var fanGlyphs = [...]rune{'|', '/', '-', '\\'}

// stoppedPoll is how often a stopped fan checks for a restart.
const stoppedPoll = 60 * time.Millisecond

// fan is the terminal rendition of the fan animation: one glyph per frame,
// advancing at the speed's frame period and holding still while Off.
type fan struct {
	frame int
}

// next returns the glyph to draw for speed and how long to show it.
func (f *fan) next(speed blade.Speed) (rune, time.Duration) {
	period, ok := speed.FramePeriod()
	if !ok {
		return fanGlyphs[f.frame], stoppedPoll
	}

	f.frame = (f.frame + 1) % len(fanGlyphs)
	return fanGlyphs[f.frame], period
}

func spin(ctx context.Context, params *blade.Params, w io.Writer) {
	var f fan

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			speed := params.Speed()
			glyph, wait := f.next(speed)
			fmt.Fprintf(w, "\r%c %-6s", glyph, speed)
			timer.Reset(wait)
		}
	}
}
