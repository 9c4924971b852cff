// Package adaptive shapes the summed entrainment bed around the session
// stage and the narration: spectral motion, masking correction, reverb
// steering, dynamic-range architecture, and spatial animation.
package adaptive

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/driftsignal/entrain/pkg/audio"
	"github.com/driftsignal/entrain/pkg/dsp"
	"github.com/driftsignal/entrain/pkg/dsp/envelope"
)

// Voice analysis constants. The formant search window covers the band
// that carries narration intelligibility.
const (
	formantLow   = 300.0
	formantHigh  = 3500.0
	fftSize      = 4096
	maxFFTFrames = 100

	envAttack  = 0.010
	envRelease = 0.150
)

// DefaultFormantHz is the masking dip center used when no voice is
// available to analyze.
const DefaultFormantHz = 1000.0

// VoiceProfile is the narration-derived input to masking correction: a
// per-frame amplitude envelope normalized to [0, 1], and the dominant
// formant band center.
type VoiceProfile struct {
	Envelope  []float64
	FormantHz float64
}

// AnalyzeVoice derives a VoiceProfile from the narration buffer.
func AnalyzeVoice(v *audio.Buffer) *VoiceProfile {
	mono := make([]float64, v.Frames())
	for i := range mono {
		mono[i] = (v.L[i] + v.R[i]) * 0.5
	}

	env := envelope.Track(mono, float64(v.Rate), envAttack, envRelease)
	if peak := dsp.Peak(env); peak > 0 {
		dsp.Scale(env, 1.0/peak)
	}

	return &VoiceProfile{
		Envelope:  env,
		FormantHz: dominantFormant(mono, v.Rate),
	}
}

// dominantFormant averages magnitude spectra over evenly spaced windows
// and returns the strongest bin in the formant band.
func dominantFormant(mono []float64, rate int) float64 {
	if len(mono) < fftSize {
		return DefaultFormantHz
	}

	fft := fourier.NewFFT(fftSize)
	accum := make([]float64, fftSize/2+1)
	window := hann(fftSize)
	seq := make([]float64, fftSize)

	hops := (len(mono) - fftSize) / fftSize
	if hops < 1 {
		hops = 1
	}
	if hops > maxFFTFrames {
		hops = maxFFTFrames
	}
	step := (len(mono) - fftSize) / hops

	for h := 0; h < hops; h++ {
		start := h * step
		for i := 0; i < fftSize; i++ {
			seq[i] = mono[start+i] * window[i]
		}
		coeffs := fft.Coefficients(nil, seq)
		for i, c := range coeffs {
			accum[i] += math.Hypot(real(c), imag(c))
		}
	}

	binHz := float64(rate) / fftSize
	lowBin := int(formantLow / binHz)
	highBin := int(formantHigh / binHz)
	if highBin >= len(accum) {
		highBin = len(accum) - 1
	}

	best := lowBin
	for i := lowBin; i <= highBin; i++ {
		if accum[i] > accum[best] {
			best = i
		}
	}
	if accum[best] <= 0 {
		return DefaultFormantHz
	}
	return float64(best) * binHz
}

func hann(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 * (1.0 - math.Cos(dsp.TwoPi*float64(i)/float64(n-1)))
	}
	return w
}

// envelopeMean returns the mean envelope value over a frame range,
// clamped to the profile length.
func (v *VoiceProfile) envelopeMean(start, end int) float64 {
	if len(v.Envelope) == 0 {
		return 0
	}
	if end > len(v.Envelope) {
		end = len(v.Envelope)
	}
	if start >= end {
		return 0
	}
	sum := 0.0
	for i := start; i < end; i++ {
		sum += v.Envelope[i]
	}
	return sum / float64(end-start)
}
