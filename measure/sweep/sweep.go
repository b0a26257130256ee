package sweep

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/blade/dsp/core"
	"github.com/cwbudde/blade/dsp/window"
)

var errEmptySignal = errors.New("sweep signal must not be empty")

// Frame is the measurement of one analysis frame.
type Frame struct {
	Start      int     // first sample of the frame
	TimeSec    float64 // frame center in seconds
	Peak       float64 // max |x|
	RMS        float64
	CentroidHz float64 // spectral centroid; 0 for a silent frame
}

// Result is the full analysis of one signal.
type Result struct {
	Frames []Frame

	MinRMS, MaxRMS           float64
	DepthDB                  float64 // 20*log10(MaxRMS/MinRMS); +Inf if a frame is silent
	MinCentroid, MaxCentroid float64
	DipRateHz                float64 // envelope dips per second
}

// Analyzer measures envelope and spectral centroid frame by frame. It
// reuses its FFT plan and scratch buffers; it is not safe for concurrent
// use.
type Analyzer struct {
	sampleRate float64
	size       int
	hop        int
	fftSize    int

	coeffs []float64
	frame  []float64
	spec   []complex128
	fftIn  []complex128
	re, im []float64
	power  []float64

	plan *algofft.Plan[complex128]
}

// NewAnalyzer creates an analyzer. The frame length defaults to the
// processor block size and the hop to half a frame.
func NewAnalyzer(pc core.ProcessorConfig, opts ...Option) (*Analyzer, error) {
	if pc.SampleRate <= 0 || math.IsNaN(pc.SampleRate) || math.IsInf(pc.SampleRate, 0) {
		return nil, fmt.Errorf("sweep sample rate must be > 0 and finite: %f", pc.SampleRate)
	}

	cfg := config{windowSize: pc.BlockSize, windowType: window.TypeHann}
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if cfg.windowSize < 16 {
		return nil, fmt.Errorf("sweep window size must be >= 16: %d", cfg.windowSize)
	}
	if cfg.hopSize == 0 {
		cfg.hopSize = cfg.windowSize / 2
	}

	fftSize := nextPowerOfTwo(cfg.windowSize)
	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("sweep fft plan: %w", err)
	}

	bins := fftSize/2 + 1

	return &Analyzer{
		sampleRate: pc.SampleRate,
		size:       cfg.windowSize,
		hop:        cfg.hopSize,
		fftSize:    fftSize,
		coeffs:     window.Generate(cfg.windowType, cfg.windowSize, window.WithPeriodic()),
		frame:      make([]float64, cfg.windowSize),
		spec:       make([]complex128, fftSize),
		fftIn:      make([]complex128, fftSize),
		re:         make([]float64, bins),
		im:         make([]float64, bins),
		power:      make([]float64, bins),
		plan:       plan,
	}, nil
}

// WindowSize returns the frame length in samples.
func (a *Analyzer) WindowSize() int { return a.size }

// HopSize returns the distance between frames in samples.
func (a *Analyzer) HopSize() int { return a.hop }

// Analyze measures signal. Signals shorter than one frame are analyzed as
// a single zero-padded frame.
func (a *Analyzer) Analyze(signal []float64) (Result, error) {
	if len(signal) == 0 {
		return Result{}, errEmptySignal
	}

	n := 1
	if len(signal) > a.size {
		n = (len(signal)-a.size)/a.hop + 1
	}

	res := Result{
		Frames:      make([]Frame, 0, n),
		MinRMS:      math.Inf(1),
		MinCentroid: math.Inf(1),
	}

	for i := range n {
		start := i * a.hop
		end := min(start+a.size, len(signal))

		f, err := a.measure(signal[start:end])
		if err != nil {
			return Result{}, err
		}

		f.Start = start
		f.TimeSec = (float64(start) + float64(a.size)/2) / a.sampleRate
		res.Frames = append(res.Frames, f)

		res.MinRMS = math.Min(res.MinRMS, f.RMS)
		res.MaxRMS = math.Max(res.MaxRMS, f.RMS)
		res.MinCentroid = math.Min(res.MinCentroid, f.CentroidHz)
		res.MaxCentroid = math.Max(res.MaxCentroid, f.CentroidHz)
	}

	switch {
	case res.MaxRMS == 0:
		res.DepthDB = 0
	case res.MinRMS == 0:
		res.DepthDB = math.Inf(1)
	default:
		res.DepthDB = core.LinearToDB(res.MaxRMS / res.MinRMS)
	}

	res.DipRateHz = dipRate(res.Frames, float64(len(signal))/a.sampleRate)

	return res, nil
}

func (a *Analyzer) measure(seg []float64) (Frame, error) {
	copy(a.frame, seg)
	clear(a.frame[len(seg):])

	var f Frame
	f.Peak = vecmath.MaxAbs(a.frame)
	f.RMS = mathSqrt(vecmath.DotProduct(a.frame, a.frame) / float64(len(seg)))

	if err := window.ApplyCoefficientsInPlace(a.frame, a.coeffs); err != nil {
		return Frame{}, err
	}

	for i := range a.fftIn {
		if i < a.size {
			a.fftIn[i] = complex(a.frame[i], 0)
		} else {
			a.fftIn[i] = 0
		}
	}

	if err := a.plan.Forward(a.spec, a.fftIn); err != nil {
		return Frame{}, fmt.Errorf("sweep fft: %w", err)
	}

	for k := range a.re {
		a.re[k] = real(a.spec[k])
		a.im[k] = imag(a.spec[k])
	}
	vecmath.Power(a.power, a.re, a.im)

	binHz := a.sampleRate / float64(a.fftSize)
	var num, den float64
	for k, p := range a.power {
		num += float64(k) * binHz * p
		den += p
	}
	if den > 0 {
		f.CentroidHz = num / den
	}

	return f, nil
}

// dipRate counts downward crossings of the mean RMS level per second.
func dipRate(frames []Frame, durationSec float64) float64 {
	if len(frames) < 3 || durationSec <= 0 {
		return 0
	}

	mean := 0.0
	for _, f := range frames {
		mean += f.RMS
	}
	mean /= float64(len(frames))

	dips := 0
	above := frames[0].RMS >= mean
	for _, f := range frames[1:] {
		now := f.RMS >= mean
		if above && !now {
			dips++
		}
		above = now
	}

	return float64(dips) / durationSec
}

// Analyze is a one-shot helper around [NewAnalyzer].
func Analyze(signal []float64, pc core.ProcessorConfig, opts ...Option) (Result, error) {
	a, err := NewAnalyzer(pc, opts...)
	if err != nil {
		return Result{}, err
	}
	return a.Analyze(signal)
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
