package blade

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/blade/dsp/core"
	"github.com/cwbudde/blade/dsp/filter/biquad"
	"github.com/cwbudde/blade/dsp/filter/design"
	"github.com/cwbudde/blade/internal/testutil"
)

const testSampleRate = 48000.0

func newTestProcessor(t *testing.T, speed Speed, opts ...Option) *Processor {
	t.Helper()

	p, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := p.Initialize(testSampleRate, DefaultSnapshot()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	p.Reset(speed)

	return p
}

func snapshotAt(speed Speed) Snapshot {
	s := DefaultSnapshot()
	s.Speed = speed
	return s
}

func TestNewOptionValidation(t *testing.T) {
	tests := []struct {
		name    string
		opt     Option
		wantErr bool
	}{
		{name: "nil option", opt: nil},
		{name: "extended", opt: WithExtendedControls()},
		{name: "ramp", opt: WithRampMs(5)},
		{name: "ramp zero", opt: WithRampMs(0), wantErr: true},
		{name: "ramp nan", opt: WithRampMs(math.NaN()), wantErr: true},
		{name: "ratio", opt: WithNyquistSafetyRatio(0.45)},
		{name: "ratio at nyquist", opt: WithNyquistSafetyRatio(0.5), wantErr: true},
		{name: "ratio zero", opt: WithNyquistSafetyRatio(0), wantErr: true},
		{name: "min center", opt: WithMinCenterHz(40)},
		{name: "min center negative", opt: WithMinCenterHz(-1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opt)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestInitializeValidation(t *testing.T) {
	for _, sr := range []float64{0, -48000, math.NaN(), math.Inf(1), 40} {
		p, err := New()
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if err := p.Initialize(sr, DefaultSnapshot()); err == nil {
			t.Fatalf("Initialize(%v) expected error", sr)
		}
		if p.SampleRate() != 0 {
			t.Fatalf("failed Initialize(%v) left sample rate %v", sr, p.SampleRate())
		}
	}
}

func TestInitializeSetsCoefficients(t *testing.T) {
	p := newTestProcessor(t, SpeedOff)

	want := design.Bandpass(1000, 2, testSampleRate)
	if got := p.Coefficients(); got != want {
		t.Fatalf("Coefficients() = %+v, want %+v", got, want)
	}

	lo, hi := p.CenterLimits()
	if lo != 20 || hi != testSampleRate*0.49 {
		t.Fatalf("CenterLimits() = %v, %v", lo, hi)
	}
}

func TestProcessBeforeInitialize(t *testing.T) {
	p, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	in := core.Frame{0.25, -0.5}
	if got := p.ProcessSample(snapshotAt(SpeedFast), in); got != in {
		t.Fatalf("ProcessSample() before Initialize = %v, want passthrough", got)
	}

	buf := make([]float64, 4)
	if err := p.Process(snapshotAt(SpeedFast), buf, buf); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("Process() error = %v, want ErrNotInitialized", err)
	}
	if err := p.ProcessInterleaved(snapshotAt(SpeedFast), make([]float32, 4)); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("ProcessInterleaved() error = %v, want ErrNotInitialized", err)
	}
}

func TestProcessLengthMismatch(t *testing.T) {
	p := newTestProcessor(t, SpeedFast)
	before := p.LFOPhase()

	if err := p.Process(snapshotAt(SpeedFast), make([]float64, 3), make([]float64, 4)); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("Process() error = %v, want ErrLengthMismatch", err)
	}
	if err := p.ProcessInterleaved(snapshotAt(SpeedFast), make([]float32, 5)); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("ProcessInterleaved() error = %v, want ErrLengthMismatch", err)
	}
	if p.LFOPhase() != before {
		t.Fatal("rejected block advanced the LFO")
	}
}

func TestOffIsExactBypass(t *testing.T) {
	p := newTestProcessor(t, SpeedSlow)

	// Put energy in the filter first.
	left, right := testutil.StereoSine(1000, testSampleRate, 0.5, 480)
	if err := p.Process(snapshotAt(SpeedSlow), left, right); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	stateBefore := p.FilterState()
	coeffsBefore := p.Coefficients()
	if stateBefore == (biquad.StereoState{}) {
		t.Fatal("expected non-zero filter state after active block")
	}

	inL := testutil.DeterministicNoise(1, 0.8, 960)
	inR := testutil.DeterministicNoise(2, 0.8, 960)
	outL := append([]float64(nil), inL...)
	outR := append([]float64(nil), inR...)
	if err := p.Process(snapshotAt(SpeedOff), outL, outR); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	for i := range inL {
		if outL[i] != inL[i] || outR[i] != inR[i] {
			t.Fatalf("sample %d changed in bypass: got (%v,%v) want (%v,%v)", i, outL[i], outR[i], inL[i], inR[i])
		}
	}
	if p.FilterState() != stateBefore {
		t.Fatal("bypass touched the filter delay lines")
	}
	if p.Coefficients() != coeffsBefore {
		t.Fatal("bypass changed the coefficients")
	}

	// 480 + 960 samples at 5 Hz is 0.15 cycles.
	if got := p.LFOPhase(); math.Abs(got-0.15) > 1e-9 {
		t.Fatalf("LFOPhase() = %v, want 0.15 (LFO keeps running while Off)", got)
	}
}

func TestResetMatchesFreshProcessor(t *testing.T) {
	used := newTestProcessor(t, SpeedFast)
	noiseL := testutil.DeterministicNoise(3, 0.5, 2000)
	noiseR := testutil.DeterministicNoise(4, 0.5, 2000)
	if err := used.Process(snapshotAt(SpeedFast), noiseL, noiseR); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	used.Reset(SpeedMedium)
	if used.LFOPhase() != 0 {
		t.Fatalf("LFOPhase() after Reset = %v", used.LFOPhase())
	}
	if used.FilterState() != (biquad.StereoState{}) {
		t.Fatalf("FilterState() after Reset = %+v", used.FilterState())
	}
	if used.LFOFrequency() != MediumHz {
		t.Fatalf("LFOFrequency() after Reset = %v, want %v", used.LFOFrequency(), MediumHz)
	}

	fresh := newTestProcessor(t, SpeedMedium)

	aL, aR := testutil.StereoSine(700, testSampleRate, 0.7, 4096)
	bL := append([]float64(nil), aL...)
	bR := append([]float64(nil), aR...)

	if err := used.Process(snapshotAt(SpeedMedium), aL, aR); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if err := fresh.Process(snapshotAt(SpeedMedium), bL, bR); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, aL, bL, 0)
	testutil.RequireSliceNearlyEqual(t, aR, bR, 0)
}

func TestResetOffKeepsLFORate(t *testing.T) {
	p := newTestProcessor(t, SpeedFast)
	p.Reset(SpeedOff)

	if p.LFOFrequency() != FastHz {
		t.Fatalf("LFOFrequency() = %v, want %v", p.LFOFrequency(), FastHz)
	}
	if p.LFOPhase() != 0 {
		t.Fatalf("LFOPhase() = %v", p.LFOPhase())
	}
}

func TestSpeedChangeRampsLFORate(t *testing.T) {
	p := newTestProcessor(t, SpeedSlow)
	rampSamples := int(math.Round(0.020 * testSampleRate))

	in := core.Frame{}
	s := snapshotAt(SpeedFast)

	p.ProcessSample(s, in)
	if got, want := p.LFOFrequency(), SlowHz+(FastHz-SlowHz)/float64(rampSamples); math.Abs(got-want) > 1e-9 {
		t.Fatalf("first ramp step = %v, want %v", got, want)
	}

	for range rampSamples/2 - 1 {
		p.ProcessSample(s, in)
	}
	// Re-targeting every sample must not restart the ramp.
	if got := p.LFOFrequency(); math.Abs(got-(SlowHz+FastHz)/2) > 1e-9 {
		t.Fatalf("half-way rate = %v, want %v", got, (SlowHz+FastHz)/2)
	}

	for range rampSamples / 2 {
		p.ProcessSample(s, in)
	}
	if got := p.LFOFrequency(); got != FastHz {
		t.Fatalf("rate after ramp = %v, want %v", got, FastHz)
	}
}

func TestOffLetsRunningRampFinish(t *testing.T) {
	p := newTestProcessor(t, SpeedSlow)

	for range 100 {
		p.ProcessSample(snapshotAt(SpeedFast), core.Frame{})
	}
	for range 2000 {
		p.ProcessSample(snapshotAt(SpeedOff), core.Frame{})
	}

	if got := p.LFOFrequency(); got != FastHz {
		t.Fatalf("LFOFrequency() = %v, want %v", got, FastHz)
	}
}

func TestBaseTierIgnoresHostSweepSettings(t *testing.T) {
	host := Snapshot{Speed: SpeedSlow, CenterHz: 4000, RangeHz: 2000, Resonance: 4}

	base := newTestProcessor(t, SpeedSlow)
	ref := newTestProcessor(t, SpeedSlow)
	ext := newTestProcessor(t, SpeedSlow, WithExtendedControls())

	aL, aR := testutil.StereoSine(1000, testSampleRate, 0.5, 4800)
	bL, bR := testutil.StereoSine(1000, testSampleRate, 0.5, 4800)
	cL, cR := testutil.StereoSine(1000, testSampleRate, 0.5, 4800)

	if err := base.Process(host, aL, aR); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if err := ref.Process(snapshotAt(SpeedSlow), bL, bR); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if err := ext.Process(host, cL, cR); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, aL, bL, 0)
	testutil.RequireSliceNearlyEqual(t, aR, bR, 0)

	if diff, _ := testutil.MaxAbsDiff(aL, cL); diff < 1e-3 {
		t.Fatalf("extended tier ignored host settings (max diff %v)", diff)
	}
	if base.Extended() || !ext.Extended() {
		t.Fatal("Extended() does not reflect the construction option")
	}
}

func TestExtendedCenterClampedToLowerLimit(t *testing.T) {
	p := newTestProcessor(t, SpeedSlow, WithExtendedControls())
	s := Snapshot{Speed: SpeedSlow, CenterHz: 500, RangeHz: 2000, Resonance: 1}

	lo, hi := math.Inf(1), math.Inf(-1)
	out := make([]float64, 0, 9600)
	for i := range 9600 { // one 5 Hz cycle
		x := math.Sin(2 * math.Pi * 300 * float64(i) / testSampleRate)
		y := p.ProcessSample(s, core.Frame{x, x})
		out = append(out, y[0])

		lo = math.Min(lo, p.CurrentCenterHz())
		hi = math.Max(hi, p.CurrentCenterHz())
	}

	if lo != 20 {
		t.Fatalf("lowest center = %v, want clamp at 20 Hz", lo)
	}
	if hi > 2500 || hi < 2499 {
		t.Fatalf("highest center = %v, want ~2500", hi)
	}
	testutil.RequireFinite(t, out)
	if c := p.Coefficients(); !c.Stable() {
		t.Fatal("coefficients unstable")
	}
}

func TestExtendedCenterClampedBelowNyquist(t *testing.T) {
	p, err := New(WithExtendedControls())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := p.Initialize(8000, DefaultSnapshot()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	p.Reset(SpeedFast)

	_, hi := p.CenterLimits()
	s := Snapshot{Speed: SpeedFast, CenterHz: 5000, RangeHz: 100, Resonance: 4}
	for range 1000 {
		y := p.ProcessSample(s, core.Frame{1, -1})
		if math.IsNaN(y[0]) || math.IsInf(y[0], 0) {
			t.Fatalf("non-finite output %v", y)
		}
		if p.CurrentCenterHz() != hi {
			t.Fatalf("center = %v, want upper clamp %v", p.CurrentCenterHz(), hi)
		}
	}
}

func TestLanesIndependent(t *testing.T) {
	p := newTestProcessor(t, SpeedFast)

	left := testutil.DeterministicNoise(5, 0.9, 2048)
	right := make([]float64, len(left))
	if err := p.Process(snapshotAt(SpeedFast), left, right); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	for i, v := range right {
		if v != 0 {
			t.Fatalf("right[%d] = %v, want 0 for a silent right input", i, v)
		}
	}
	if testutil.PeakAbs(left) == 0 {
		t.Fatal("left lane produced silence")
	}
}

func TestAllSpeedsStayFinite(t *testing.T) {
	for _, speed := range Speeds() {
		for _, extended := range []bool{false, true} {
			var opts []Option
			if extended {
				opts = append(opts, WithExtendedControls())
			}
			p := newTestProcessor(t, speed, opts...)

			for _, s := range []Snapshot{
				{Speed: speed, CenterHz: 500, RangeHz: 2000, Resonance: 4},
				{Speed: speed, CenterHz: 5000, RangeHz: 2000, Resonance: 1},
			} {
				left := testutil.DeterministicNoise(6, 1, 9600)
				right := testutil.DeterministicNoise(7, 1, 9600)
				if err := p.Process(s, left, right); err != nil {
					t.Fatalf("Process() error = %v", err)
				}
				testutil.RequireFinite(t, left)
				testutil.RequireFinite(t, right)
			}
		}
	}
}

func TestProcessInterleavedMatchesProcess(t *testing.T) {
	a := newTestProcessor(t, SpeedMedium)
	b := newTestProcessor(t, SpeedMedium)
	s := snapshotAt(SpeedMedium)

	const n = 1024
	buf := make([]float32, 2*n)
	left := make([]float64, n)
	right := make([]float64, n)
	for i := range n {
		buf[2*i] = float32(math.Sin(2 * math.Pi * 900 * float64(i) / testSampleRate))
		buf[2*i+1] = float32(0.5 * math.Cos(2*math.Pi*1300*float64(i)/testSampleRate))
		left[i] = float64(buf[2*i])
		right[i] = float64(buf[2*i+1])
	}

	if err := a.ProcessInterleaved(s, buf); err != nil {
		t.Fatalf("ProcessInterleaved() error = %v", err)
	}
	if err := b.Process(s, left, right); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	for i := range n {
		if buf[2*i] != float32(left[i]) || buf[2*i+1] != float32(right[i]) {
			t.Fatalf("frame %d: interleaved (%v,%v) != planar (%v,%v)", i, buf[2*i], buf[2*i+1], left[i], right[i])
		}
	}
}

func TestProcessParamsUsesSnapshot(t *testing.T) {
	params := NewParams()
	if err := params.SetSpeed(SpeedFast); err != nil {
		t.Fatal(err)
	}
	params.SetCenterHz(2000)

	a := newTestProcessor(t, SpeedFast, WithExtendedControls())
	b := newTestProcessor(t, SpeedFast, WithExtendedControls())

	aL, aR := testutil.StereoSine(2000, testSampleRate, 0.5, 512)
	bL, bR := testutil.StereoSine(2000, testSampleRate, 0.5, 512)

	if err := a.ProcessParams(params, aL, aR); err != nil {
		t.Fatalf("ProcessParams() error = %v", err)
	}
	if err := b.Process(params.Snapshot(), bL, bR); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, aL, bL, 0)
	testutil.RequireSliceNearlyEqual(t, aR, bR, 0)
}

func TestProcessSampleDoesNotAllocate(t *testing.T) {
	p := newTestProcessor(t, SpeedFast, WithExtendedControls())
	s := snapshotAt(SpeedFast)
	in := core.Frame{0.1, -0.1}

	allocs := testing.AllocsPerRun(1000, func() {
		in = p.ProcessSample(s, in)
	})
	if allocs != 0 {
		t.Fatalf("ProcessSample allocates: %v allocs/op", allocs)
	}

	left := make([]float64, 256)
	right := make([]float64, 256)
	allocs = testing.AllocsPerRun(100, func() {
		_ = p.Process(s, left, right)
	})
	if allocs != 0 {
		t.Fatalf("Process allocates: %v allocs/op", allocs)
	}
}
