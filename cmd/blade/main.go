// Command blade runs the BLADE fan effect over a test signal.
//
// Usage:
//
//	blade [flags]
//
// Offline (the default) it renders the processed signal and prints the
// sweep analysis: envelope and spectral centroid per frame plus the
// modulation depth and dip rate. With -play the output is streamed to the
// default audio device.
//
// Examples:
//
//	blade -speed slow
//	blade -speed fast -noise -window 256
//	blade -extended -center 2500 -range 2000 -resonance 4 -speed medium
//	blade -play -cycle 3s
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"text/tabwriter"
	"time"

	"github.com/cwbudde/blade/dsp/core"
	"github.com/cwbudde/blade/dsp/effects/blade"
	"github.com/cwbudde/blade/internal/stream"
	"github.com/cwbudde/blade/measure/sweep"
)

type options struct {
	speed     blade.Speed
	centerHz  float64
	rangeHz   float64
	resonance float64
	extended  bool

	sampleRate float64
	blockSize  int
	seconds    float64
	toneHz     float64
	noise      bool

	window int
	rows   int

	play  bool
	cycle time.Duration
}

func main() {
	var (
		opts      options
		speedName string
	)

	flag.StringVar(&speedName, "speed", "slow", "fan speed: off, fast, medium, slow")
	flag.Float64Var(&opts.centerHz, "center", blade.DefaultCenterHz, "sweep center in Hz (extended tier)")
	flag.Float64Var(&opts.rangeHz, "range", blade.DefaultRangeHz, "sweep range in Hz (extended tier)")
	flag.Float64Var(&opts.resonance, "resonance", blade.DefaultResonance, "filter Q (extended tier)")
	flag.BoolVar(&opts.extended, "extended", false, "enable the extended controls")
	flag.Float64Var(&opts.sampleRate, "rate", 48000, "sample rate in Hz")
	flag.IntVar(&opts.blockSize, "block", 512, "host block size in frames")
	flag.Float64Var(&opts.seconds, "seconds", 1, "signal length (offline) or play time, 0 plays until interrupted")
	flag.Float64Var(&opts.toneHz, "tone", 1000, "input tone frequency in Hz")
	flag.BoolVar(&opts.noise, "noise", false, "use white noise instead of the tone")
	flag.IntVar(&opts.window, "window", 1024, "analysis window length in samples")
	flag.IntVar(&opts.rows, "rows", 20, "maximum analysis rows to print")
	flag.BoolVar(&opts.play, "play", false, "stream to the audio device instead of analyzing")
	flag.DurationVar(&opts.cycle, "cycle", 0, "click the fan button at this interval (0 = never)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: blade [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Runs the BLADE swept bandpass over a test signal.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  blade -speed slow\n")
		fmt.Fprintf(os.Stderr, "  blade -speed fast -noise -window 256\n")
		fmt.Fprintf(os.Stderr, "  blade -play -cycle 3s\n")
	}
	flag.Parse()

	speed, err := blade.ParseSpeed(speedName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	opts.speed = speed

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	proc, params, err := newProcessor(opts)
	if err != nil {
		return err
	}

	src, err := newSource(opts)
	if err != nil {
		return err
	}

	if opts.play {
		return play(opts, src, proc, params)
	}

	pc := core.ApplyProcessorOptions(core.WithSampleRate(opts.sampleRate), core.WithBlockSize(opts.blockSize))
	left, err := renderOffline(opts, src, proc, params, pc)
	if err != nil {
		return err
	}

	res, err := sweep.Analyze(left, pc, sweep.WithWindowSize(opts.window))
	if err != nil {
		return err
	}

	return printAnalysis(opts, res)
}

func newProcessor(opts options) (*blade.Processor, *blade.Params, error) {
	var popts []blade.Option
	if opts.extended {
		popts = append(popts, blade.WithExtendedControls())
	}

	proc, err := blade.New(popts...)
	if err != nil {
		return nil, nil, err
	}

	params := blade.NewParams()
	if err := params.SetSpeed(opts.speed); err != nil {
		return nil, nil, err
	}
	params.SetCenterHz(opts.centerHz)
	params.SetRangeHz(opts.rangeHz)
	params.SetResonance(opts.resonance)

	if err := proc.Initialize(opts.sampleRate, params.Snapshot()); err != nil {
		return nil, nil, err
	}
	proc.ResetParams(params)

	return proc, params, nil
}

func newSource(opts options) (stream.Source, error) {
	if opts.noise {
		return stream.NewNoise(1, 0.5), nil
	}
	return stream.NewTone(opts.toneHz, 0.5, opts.sampleRate)
}

// renderOffline renders the left channel. With a cycle interval the fan
// button is clicked between segments, as a user would.
func renderOffline(opts options, src stream.Source, proc *blade.Processor, params *blade.Params, pc core.ProcessorConfig) ([]float64, error) {
	total := int(math.Round(opts.seconds * opts.sampleRate))
	if total <= 0 {
		return nil, fmt.Errorf("signal length must be > 0: %f s", opts.seconds)
	}

	segment := total
	if opts.cycle > 0 {
		segment = max(1, int(math.Round(opts.cycle.Seconds()*opts.sampleRate)))
	}

	out := make([]float64, 0, total)
	for len(out) < total {
		n := min(segment, total-len(out))
		left, _, err := stream.Render(src, proc, params, pc, n)
		if err != nil {
			return nil, err
		}
		out = append(out, left...)

		if opts.cycle > 0 {
			params.CycleSpeed()
		}
	}

	return out, nil
}

func printAnalysis(opts options, res sweep.Result) error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Time [s]\tPeak\tRMS [dB]\tCentroid [Hz]\n")
	fmt.Fprintf(tw, "--------\t----\t--------\t-------------\n")

	step := 1
	if opts.rows > 0 && len(res.Frames) > opts.rows {
		step = (len(res.Frames) + opts.rows - 1) / opts.rows
	}
	for i := 0; i < len(res.Frames); i += step {
		f := res.Frames[i]
		fmt.Fprintf(tw, "%.3f\t%.4f\t%.2f\t%.1f\n", f.TimeSec, f.Peak, core.LinearToDB(f.RMS), f.CentroidHz)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}

	fmt.Printf("\nspeed=%s extended=%t frames=%d\n", opts.speed, opts.extended, len(res.Frames))
	fmt.Printf("depth=%.2f dB dips=%.2f Hz centroid=%.1f..%.1f Hz\n",
		res.DepthDB, res.DipRateHz, res.MinCentroid, res.MaxCentroid)

	return nil
}
