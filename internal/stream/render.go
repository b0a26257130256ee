package stream

import (
	"fmt"

	"github.com/cwbudde/blade/dsp/core"
	"github.com/cwbudde/blade/dsp/effects/blade"
)

// Render processes frames of src through proc in host-sized blocks,
// snapshotting params once per block, and returns the stereo output.
func Render(src Source, proc *blade.Processor, params *blade.Params, pc core.ProcessorConfig, frames int) (left, right []float64, err error) {
	if src == nil {
		return nil, nil, errNilSource
	}
	if frames < 0 {
		return nil, nil, fmt.Errorf("render frame count must be >= 0: %d", frames)
	}

	block := pc.BlockSize
	if block <= 0 {
		block = core.DefaultProcessorConfig().BlockSize
	}

	left = make([]float64, frames)
	right = make([]float64, frames)
	for start := 0; start < frames; start += block {
		end := min(start+block, frames)
		l, r := left[start:end], right[start:end]

		src.Fill(l, r)
		if err := proc.ProcessParams(params, l, r); err != nil {
			return nil, nil, err
		}
	}

	return left, right, nil
}
