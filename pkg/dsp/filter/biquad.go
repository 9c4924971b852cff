// Package filter provides the biquad filter used for all EQ moves in the
// engine: masking dips, spectral motion sweeps, and the mastering shelves.
package filter

import "math"

// Biquad implements a second-order IIR filter, Direct Form I, with
// independent state per channel so one design can run a stereo pair.
type Biquad struct {
	b0, b1, b2 float64
	a1, a2     float64

	x1, x2 []float64
	y1, y2 []float64
}

// NewBiquad creates a biquad with state for the given number of channels.
func NewBiquad(channels int) *Biquad {
	return &Biquad{
		x1: make([]float64, channels),
		x2: make([]float64, channels),
		y1: make([]float64, channels),
		y2: make([]float64, channels),
	}
}

// Reset clears the filter state on every channel.
func (f *Biquad) Reset() {
	for i := range f.x1 {
		f.x1[i] = 0
		f.x2[i] = 0
		f.y1[i] = 0
		f.y2[i] = 0
	}
}

// setCoefficients normalizes by a0 and stores the coefficient set.
func (f *Biquad) setCoefficients(b0, b1, b2, a0, a1, a2 float64) {
	inv := 1.0 / a0
	f.b0 = b0 * inv
	f.b1 = b1 * inv
	f.b2 = b2 * inv
	f.a1 = a1 * inv
	f.a2 = a2 * inv
}

// Process filters one channel's buffer in place.
func (f *Biquad) Process(buf []float64, channel int) {
	x1 := f.x1[channel]
	x2 := f.x2[channel]
	y1 := f.y1[channel]
	y2 := f.y2[channel]

	for i := range buf {
		x0 := buf[i]
		y0 := f.b0*x0 + f.b1*x1 + f.b2*x2 - f.a1*y1 - f.a2*y2
		x2, x1 = x1, x0
		y2, y1 = y1, y0
		buf[i] = y0
	}

	f.x1[channel] = x1
	f.x2[channel] = x2
	f.y1[channel] = y1
	f.y2[channel] = y2
}

// ProcessStereo filters a stereo pair in place. Requires two channels
// of state.
func (f *Biquad) ProcessStereo(left, right []float64) {
	f.Process(left, 0)
	f.Process(right, 1)
}

// SetLowpass configures the filter as a lowpass at the given frequency.
func (f *Biquad) SetLowpass(sampleRate, frequency, q float64) {
	omega := 2.0 * math.Pi * frequency / sampleRate
	sinw := math.Sin(omega)
	cosw := math.Cos(omega)
	alpha := sinw / (2.0 * q)

	f.setCoefficients(
		(1.0-cosw)/2.0, 1.0-cosw, (1.0-cosw)/2.0,
		1.0+alpha, -2.0*cosw, 1.0-alpha,
	)
}

// SetHighpass configures the filter as a highpass at the given frequency.
func (f *Biquad) SetHighpass(sampleRate, frequency, q float64) {
	omega := 2.0 * math.Pi * frequency / sampleRate
	sinw := math.Sin(omega)
	cosw := math.Cos(omega)
	alpha := sinw / (2.0 * q)

	f.setCoefficients(
		(1.0+cosw)/2.0, -(1.0 + cosw), (1.0+cosw)/2.0,
		1.0+alpha, -2.0*cosw, 1.0-alpha,
	)
}

// SetPeaking configures a peaking EQ band. Negative gain cuts, which is
// how the masking dip is realized.
func (f *Biquad) SetPeaking(sampleRate, frequency, q, gainDB float64) {
	omega := 2.0 * math.Pi * frequency / sampleRate
	sinw := math.Sin(omega)
	cosw := math.Cos(omega)
	amp := math.Pow(10.0, gainDB/40.0)
	alpha := sinw / (2.0 * q)

	f.setCoefficients(
		1.0+alpha*amp, -2.0*cosw, 1.0-alpha*amp,
		1.0+alpha/amp, -2.0*cosw, 1.0-alpha/amp,
	)
}

// SetLowShelf configures a low shelf, the mastering chain's warmth band.
func (f *Biquad) SetLowShelf(sampleRate, frequency, q, gainDB float64) {
	omega := 2.0 * math.Pi * frequency / sampleRate
	sinw := math.Sin(omega)
	cosw := math.Cos(omega)
	amp := math.Pow(10.0, gainDB/40.0)
	alpha := sinw / (2.0 * q)
	beta := 2.0 * math.Sqrt(amp) * alpha

	f.setCoefficients(
		amp*((amp+1)-(amp-1)*cosw+beta),
		2.0*amp*((amp-1)-(amp+1)*cosw),
		amp*((amp+1)-(amp-1)*cosw-beta),
		(amp+1)+(amp-1)*cosw+beta,
		-2.0*((amp-1)+(amp+1)*cosw),
		(amp+1)+(amp-1)*cosw-beta,
	)
}

// SetHighShelf configures a high shelf.
func (f *Biquad) SetHighShelf(sampleRate, frequency, q, gainDB float64) {
	omega := 2.0 * math.Pi * frequency / sampleRate
	sinw := math.Sin(omega)
	cosw := math.Cos(omega)
	amp := math.Pow(10.0, gainDB/40.0)
	alpha := sinw / (2.0 * q)
	beta := 2.0 * math.Sqrt(amp) * alpha

	f.setCoefficients(
		amp*((amp+1)+(amp-1)*cosw+beta),
		-2.0*amp*((amp-1)+(amp+1)*cosw),
		amp*((amp+1)+(amp-1)*cosw-beta),
		(amp+1)-(amp-1)*cosw+beta,
		2.0*((amp-1)-(amp+1)*cosw),
		(amp+1)-(amp-1)*cosw-beta,
	)
}
