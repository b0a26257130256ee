package stream

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"sync"

	"github.com/cwbudde/blade/dsp/core"
	"github.com/cwbudde/blade/dsp/effects/blade"
)

const bytesPerFrame = 8 // two float32 lanes

var errNilSource = errors.New("stream source must not be nil")

// Reader renders processed audio on demand as interleaved float32
// little-endian stereo, the layout oto's FormatFloat32LE expects.
//
// Every Read takes one parameter snapshot, so control changes land on
// callback boundaries.
type Reader struct {
	mu     sync.Mutex
	src    Source
	proc   *blade.Processor
	params *blade.Params

	left, right []float64
	pcm         []float32
	remaining   int // frames until EOF; < 0 streams forever
}

// NewReader returns an endless reader. proc must be initialized.
func NewReader(src Source, proc *blade.Processor, params *blade.Params) (*Reader, error) {
	if src == nil {
		return nil, errNilSource
	}
	if proc == nil || proc.SampleRate() == 0 {
		return nil, blade.ErrNotInitialized
	}

	return &Reader{src: src, proc: proc, params: params, remaining: -1}, nil
}

// Limit makes the reader return io.EOF after frames more frames.
func (r *Reader) Limit(frames int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remaining = max(frames, 0)
}

// Read implements io.Reader. Only whole frames are written.
func (r *Reader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.remaining == 0 {
		return 0, io.EOF
	}

	frames := len(p) / bytesPerFrame
	if r.remaining > 0 {
		frames = min(frames, r.remaining)
	}
	if frames == 0 {
		return 0, nil
	}

	r.grow(frames)
	left, right := r.left[:frames], r.right[:frames]

	r.src.Fill(left, right)
	if err := r.proc.ProcessParams(r.params, left, right); err != nil {
		return 0, err
	}

	pcm := r.pcm[:2*frames]
	core.Interleave(pcm, left, right)
	for i, v := range pcm {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(v))
	}

	if r.remaining > 0 {
		r.remaining -= frames
	}

	return frames * bytesPerFrame, nil
}

// Close implements io.Closer.
func (r *Reader) Close() error { return nil }

func (r *Reader) grow(frames int) {
	if cap(r.left) < frames {
		r.left = make([]float64, frames)
		r.right = make([]float64, frames)
		r.pcm = make([]float32, 2*frames)
	}
}
