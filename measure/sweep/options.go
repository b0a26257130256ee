package sweep

import (
	"fmt"

	"github.com/cwbudde/blade/dsp/window"
)

// Option mutates analyzer construction parameters.
type Option func(*config) error

type config struct {
	windowSize int
	hopSize    int
	windowType window.Type
}

// WithWindowSize sets the frame length in samples (>= 16). It overrides
// the processor block size.
func WithWindowSize(n int) Option {
	return func(cfg *config) error {
		if n < 16 {
			return fmt.Errorf("sweep window size must be >= 16: %d", n)
		}

		cfg.windowSize = n

		return nil
	}
}

// WithHopSize sets the distance between frame starts in samples (> 0).
func WithHopSize(n int) Option {
	return func(cfg *config) error {
		if n <= 0 {
			return fmt.Errorf("sweep hop size must be > 0: %d", n)
		}

		cfg.hopSize = n

		return nil
	}
}

// WithWindowType selects the spectral analysis window.
func WithWindowType(t window.Type) Option {
	return func(cfg *config) error {
		cfg.windowType = t
		return nil
	}
}
