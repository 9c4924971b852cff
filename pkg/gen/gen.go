// Package gen contains the entrainment tone generators. Each generator
// is a pure function from a section schedule and parameters to a stereo
// buffer; nothing here mutates shared state.
package gen

import (
	"errors"
	"fmt"

	"github.com/driftsignal/entrain/pkg/audio"
)

// Default edge fades, long enough to avoid clicks without being audible
// as a level move.
const (
	DefaultFadeIn  = 5.0
	DefaultFadeOut = 8.0
)

// ErrNonPositiveDuration is returned when a generator is asked for a
// zero or negative length render.
var ErrNonPositiveDuration = errors.New("gen: total duration must be positive")

// Params carries the knobs shared by every generator.
type Params struct {
	Rate     int     // sample rate in Hz
	Duration float64 // total render length in seconds
	Carrier  float64 // carrier frequency in Hz
	Amp      float64 // peak amplitude in [0, 1]
	FadeIn   float64 // edge fade-in seconds
	FadeOut  float64 // edge fade-out seconds
}

// validate checks the fatal preconditions shared by all generators.
func (p Params) validate() error {
	if p.Duration <= 0 {
		return fmt.Errorf("%w: got %g", ErrNonPositiveDuration, p.Duration)
	}
	if p.Rate <= 0 {
		return fmt.Errorf("gen: sample rate must be positive, got %d", p.Rate)
	}
	return nil
}

// alloc returns the zero-filled output buffer for these params.
func (p Params) alloc() *audio.Buffer {
	return audio.NewSeconds(p.Rate, p.Duration)
}

// finish applies the edge fades, falling back to the defaults when a
// fade is unset.
func (p Params) finish(buf *audio.Buffer) {
	in := p.FadeIn
	if in <= 0 {
		in = DefaultFadeIn
	}
	out := p.FadeOut
	if out <= 0 {
		out = DefaultFadeOut
	}
	buf.FadeEdges(in, out)
}
