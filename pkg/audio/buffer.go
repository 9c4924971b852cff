// Package audio defines the stereo buffer that every stage of the engine
// exchanges, from tone generation through mastering.
package audio

import (
	"math"

	"github.com/driftsignal/entrain/pkg/dsp"
)

// Buffer is a stereo sample buffer with an associated sample rate. Both
// channels always have the same length; mono sources duplicate into both.
type Buffer struct {
	L, R []float64
	Rate int
}

// NewFrames allocates a zero-filled stereo buffer of the given frame count.
func NewFrames(rate, frames int) *Buffer {
	return &Buffer{
		L:    make([]float64, frames),
		R:    make([]float64, frames),
		Rate: rate,
	}
}

// NewSeconds allocates a zero-filled buffer covering the given duration.
// The frame count is round(rate * seconds).
func NewSeconds(rate int, seconds float64) *Buffer {
	return NewFrames(rate, int(math.Round(float64(rate)*seconds)))
}

// Frames returns the per-channel sample count.
func (b *Buffer) Frames() int {
	return len(b.L)
}

// Duration returns the buffer length in seconds.
func (b *Buffer) Duration() float64 {
	return float64(len(b.L)) / float64(b.Rate)
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	out := NewFrames(b.Rate, b.Frames())
	copy(out.L, b.L)
	copy(out.R, b.R)
	return out
}

// PadTo extends the buffer with silence to the given frame count.
// A buffer that is already long enough is left untouched; padding never
// truncates.
func (b *Buffer) PadTo(frames int) {
	if b.Frames() >= frames {
		return
	}
	l := make([]float64, frames)
	r := make([]float64, frames)
	copy(l, b.L)
	copy(r, b.R)
	b.L = l
	b.R = r
}

// Peak returns the largest absolute sample across both channels.
func (b *Buffer) Peak() float64 {
	return math.Max(dsp.Peak(b.L), dsp.Peak(b.R))
}

// RMS returns the combined RMS of both channels.
func (b *Buffer) RMS() float64 {
	l := dsp.RMS(b.L)
	r := dsp.RMS(b.R)
	return math.Sqrt((l*l + r*r) / 2.0)
}

// DCOffset returns the mean sample value across both channels.
func (b *Buffer) DCOffset() float64 {
	return (dsp.Mean(b.L) + dsp.Mean(b.R)) / 2.0
}

// Gain scales both channels by a linear factor in place.
func (b *Buffer) Gain(g float64) {
	dsp.Scale(b.L, g)
	dsp.Scale(b.R, g)
}

// GainDB scales both channels by a dB value in place.
func (b *Buffer) GainDB(db float64) {
	b.Gain(dsp.DBToLinear(db))
}

// Add sums another buffer into this one, bounded by the shorter length.
func (b *Buffer) Add(o *Buffer) {
	dsp.Add(b.L, o.L)
	dsp.Add(b.R, o.R)
}

// AddScaled sums a gain-scaled buffer into this one.
func (b *Buffer) AddScaled(o *Buffer, g float64) {
	dsp.AddScaled(b.L, o.L, g)
	dsp.AddScaled(b.R, o.R, g)
}

// AddAt sums another buffer into this one starting at the given frame,
// discarding whatever runs past the end. Used for sparse effect placement.
func (b *Buffer) AddAt(o *Buffer, frame int) {
	if frame >= b.Frames() {
		return
	}
	start := frame
	if start < 0 {
		start = 0
	}
	n := b.Frames() - start
	if o.Frames() < n {
		n = o.Frames()
	}
	for i := 0; i < n; i++ {
		b.L[start+i] += o.L[i]
		b.R[start+i] += o.R[i]
	}
}

// FadeEdges applies linear fade-in and fade-out ramps of the given
// lengths in seconds. Fades longer than half the buffer are clamped so
// the ramps never cross.
func (b *Buffer) FadeEdges(fadeIn, fadeOut float64) {
	frames := b.Frames()
	if frames == 0 {
		return
	}

	inFrames := int(fadeIn * float64(b.Rate))
	outFrames := int(fadeOut * float64(b.Rate))
	if inFrames > frames/2 {
		inFrames = frames / 2
	}
	if outFrames > frames/2 {
		outFrames = frames / 2
	}

	for i := 0; i < inFrames; i++ {
		g := float64(i) / float64(inFrames)
		b.L[i] *= g
		b.R[i] *= g
	}
	for i := 0; i < outFrames; i++ {
		g := float64(i) / float64(outFrames)
		idx := frames - 1 - i
		b.L[idx] *= g
		b.R[idx] *= g
	}
}
