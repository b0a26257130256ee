package stream

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/cwbudde/blade/dsp/core"
	"github.com/cwbudde/blade/dsp/effects/blade"
	"github.com/cwbudde/blade/internal/testutil"
)

func newProcessor(t *testing.T, speed blade.Speed) (*blade.Processor, *blade.Params) {
	t.Helper()

	p, err := blade.New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := p.Initialize(48000, blade.DefaultSnapshot()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	p.Reset(speed)

	params := blade.NewParams()
	if err := params.SetSpeed(speed); err != nil {
		t.Fatalf("SetSpeed() error = %v", err)
	}

	return p, params
}

func decode(b []byte) []float32 {
	out := make([]float32, len(b)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out
}

func TestNewToneValidation(t *testing.T) {
	tests := []struct {
		name    string
		freq    float64
		sr      float64
		wantErr bool
	}{
		{name: "ok", freq: 1000, sr: 48000},
		{name: "zero freq", freq: 0, sr: 48000, wantErr: true},
		{name: "nyquist", freq: 24000, sr: 48000, wantErr: true},
		{name: "bad rate", freq: 1000, sr: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTone(tt.freq, 1, tt.sr)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewTone() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestToneFill(t *testing.T) {
	tone, err := NewTone(1000, 0.5, 48000)
	if err != nil {
		t.Fatal(err)
	}

	left := make([]float64, 300)
	right := make([]float64, 300)
	tone.Fill(left[:100], right[:100])
	tone.Fill(left[100:], right[100:])

	testutil.RequireSliceNearlyEqual(t, left, testutil.DeterministicSine(1000, 48000, 0.5, 300), 1e-9)
	testutil.RequireSliceNearlyEqual(t, right, left, 0)
}

func TestNoiseDeterministic(t *testing.T) {
	a, b := NewNoise(9, 1), NewNoise(9, 1)

	al, ar := make([]float64, 64), make([]float64, 64)
	bl, br := make([]float64, 64), make([]float64, 64)
	a.Fill(al, ar)
	b.Fill(bl, br)

	testutil.RequireSliceNearlyEqual(t, al, bl, 0)
	testutil.RequireSliceNearlyEqual(t, ar, br, 0)
	if diff, _ := testutil.MaxAbsDiff(al, ar); diff == 0 {
		t.Fatal("noise channels should be independent")
	}
	if peak := testutil.PeakAbs(al); peak > 1 {
		t.Fatalf("noise peak %v exceeds amplitude", peak)
	}
}

func TestNewReaderValidation(t *testing.T) {
	proc, params := newProcessor(t, blade.SpeedOff)

	if _, err := NewReader(nil, proc, params); err == nil {
		t.Fatal("expected error for nil source")
	}

	raw, err := blade.New()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewReader(NewNoise(1, 1), raw, params); !errors.Is(err, blade.ErrNotInitialized) {
		t.Fatalf("NewReader() error = %v, want ErrNotInitialized", err)
	}
}

func TestReaderBypassEncodesInput(t *testing.T) {
	proc, params := newProcessor(t, blade.SpeedOff)
	tone, err := NewTone(440, 0.25, 48000)
	if err != nil {
		t.Fatal(err)
	}

	r, err := NewReader(tone, proc, params)
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}

	buf := make([]byte, 8*128+5) // trailing partial frame is left alone
	n, err := r.Read(buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if n != 8*128 {
		t.Fatalf("Read() = %d bytes, want %d", n, 8*128)
	}

	got := decode(buf[:n])
	want := testutil.DeterministicSine(440, 48000, 0.25, 128)
	for i, w := range want {
		if math.Abs(float64(got[2*i])-w) > 1e-6 || got[2*i] != got[2*i+1] {
			t.Fatalf("frame %d: got (%v,%v), want %v", i, got[2*i], got[2*i+1], w)
		}
	}
}

func TestReaderLimit(t *testing.T) {
	proc, params := newProcessor(t, blade.SpeedFast)
	r, err := NewReader(NewNoise(2, 0.5), proc, params)
	if err != nil {
		t.Fatal(err)
	}
	r.Limit(1000)

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(data) != 1000*8 {
		t.Fatalf("read %d bytes, want %d", len(data), 1000*8)
	}

	if n, err := r.Read(make([]byte, 64)); n != 0 || !errors.Is(err, io.EOF) {
		t.Fatalf("Read() after limit = %d, %v", n, err)
	}
}

func TestReaderMatchesRender(t *testing.T) {
	const frames = 4096
	pc := core.ApplyProcessorOptions(core.WithBlockSize(512))

	procA, params := newProcessor(t, blade.SpeedMedium)
	procB, _ := newProcessor(t, blade.SpeedMedium)

	r, err := NewReader(NewNoise(3, 0.5), procA, params)
	if err != nil {
		t.Fatal(err)
	}
	r.Limit(frames)
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	got := decode(data)

	left, right, err := Render(NewNoise(3, 0.5), procB, params, pc, frames)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	want := make([]float32, 2*frames)
	core.Interleave(want, left, right)
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d: reader %v, render %v", i, got[i], want[i])
		}
	}
}

func TestRenderValidation(t *testing.T) {
	proc, params := newProcessor(t, blade.SpeedOff)
	pc := core.DefaultProcessorConfig()

	if _, _, err := Render(nil, proc, params, pc, 10); err == nil {
		t.Fatal("expected error for nil source")
	}
	if _, _, err := Render(NewNoise(1, 1), proc, params, pc, -1); err == nil {
		t.Fatal("expected error for negative frame count")
	}

	left, right, err := Render(NewNoise(1, 1), proc, params, pc, 0)
	if err != nil || len(left) != 0 || len(right) != 0 {
		t.Fatalf("Render(0) = %d, %d, %v", len(left), len(right), err)
	}
}
