package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/cwbudde/blade/dsp/effects/blade"
	"github.com/cwbudde/blade/internal/stream"
)

// play streams the processed source to the default output. The oto
// callback is the audio path; this goroutine is the control path that
// clicks the fan button and draws the fan.
func play(opts options, src stream.Source, proc *blade.Processor, params *blade.Params) error {
	r, err := stream.NewReader(src, proc, params)
	if err != nil {
		return err
	}

	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   int(opts.sampleRate),
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   0,
	})
	if err != nil {
		return fmt.Errorf("audio device: %w", err)
	}
	<-ready

	player := otoCtx.NewPlayer(r)
	defer player.Close()
	player.Play()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if opts.seconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(opts.seconds*float64(time.Second)))
		defer cancel()
	}

	go spin(ctx, params, os.Stderr)

	var clicks <-chan time.Time
	if opts.cycle > 0 {
		ticker := time.NewTicker(opts.cycle)
		defer ticker.Stop()
		clicks = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(os.Stderr)
			return player.Err()
		case <-clicks:
			params.CycleSpeed()
		}
	}
}
