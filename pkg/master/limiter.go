package master

import (
	"math"

	"github.com/driftsignal/entrain/pkg/audio"
	"github.com/driftsignal/entrain/pkg/dsp"
)

// Limiter defaults. The ceiling is a true-peak target, stricter than the
// sample peak, so downstream lossy encoding cannot clip.
const (
	DefaultCeilingDB = -1.5
	limiterLookahead = 0.005 // seconds
	limiterRelease   = 0.050 // seconds
	oversampleFactor = 4
)

// Limiter is a lookahead brick-wall limiter with an oversampled
// true-peak estimate. It is the final stage of the chain on every path.
type Limiter struct {
	sampleRate float64
	ceiling    float64 // linear
}

// NewLimiter creates a limiter for the given sample rate and ceiling in
// dBTP.
func NewLimiter(sampleRate float64, ceilingDB float64) *Limiter {
	if ceilingDB > 0 {
		ceilingDB = 0
	}
	return &Limiter{
		sampleRate: sampleRate,
		ceiling:    dsp.DBToLinear(ceilingDB),
	}
}

// Process limits a buffer in place so its true peak never exceeds the
// ceiling.
func (l *Limiter) Process(b *audio.Buffer) {
	frames := b.Frames()
	if frames == 0 {
		return
	}

	// Per-frame target gain from the linked true-peak estimate.
	target := make([]float64, frames)
	for i := 0; i < frames; i++ {
		peak := math.Max(l.truePeakAt(b.L, i), l.truePeakAt(b.R, i))
		if peak > l.ceiling {
			target[i] = l.ceiling / peak
		} else {
			target[i] = 1.0
		}
	}

	// Lookahead: hold the minimum gain over the upcoming window so the
	// reduction is already in place when the peak arrives.
	look := int(limiterLookahead * l.sampleRate)
	if look < 1 {
		look = 1
	}
	held := slidingMin(target, look)

	// Smooth releases so gain recovery is inaudible; attacks follow the
	// held minimum instantly.
	releaseCoef := math.Exp(-1.0 / (limiterRelease * l.sampleRate))
	gain := 1.0
	for i := 0; i < frames; i++ {
		if held[i] < gain {
			gain = held[i]
		} else {
			gain = held[i] + releaseCoef*(gain-held[i])
		}
		b.L[i] *= gain
		b.R[i] *= gain
	}
}

// truePeakAt estimates the reconstructed peak around frame i by linear
// interpolation at oversampleFactor points between neighbours.
func (l *Limiter) truePeakAt(buf []float64, i int) float64 {
	cur := math.Abs(buf[i])
	if i+1 >= len(buf) {
		return cur
	}
	next := buf[i+1]
	peak := cur
	for k := 1; k < oversampleFactor; k++ {
		frac := float64(k) / oversampleFactor
		v := math.Abs(buf[i] + (next-buf[i])*frac)
		if v > peak {
			peak = v
		}
	}
	if a := math.Abs(next); a > peak {
		peak = a
	}
	return peak
}

// slidingMin returns, for each index, the minimum of src over the next
// window samples. Monotonic deque, linear time.
func slidingMin(src []float64, window int) []float64 {
	n := len(src)
	out := make([]float64, n)
	deque := make([]int, 0, window)

	for i := n - 1; i >= 0; i-- {
		// Front indexes fall out of [i, i+window).
		for len(deque) > 0 && deque[0] >= i+window {
			deque = deque[1:]
		}
		for len(deque) > 0 && src[deque[len(deque)-1]] >= src[i] {
			deque = deque[:len(deque)-1]
		}
		deque = append(deque, i)
		out[i] = src[deque[0]]
	}
	return out
}

// TruePeak returns the oversampled peak of the whole buffer, linear.
func TruePeak(b *audio.Buffer) float64 {
	l := &Limiter{sampleRate: float64(b.Rate)}
	peak := 0.0
	for i := 0; i < b.Frames(); i++ {
		p := math.Max(l.truePeakAt(b.L, i), l.truePeakAt(b.R, i))
		if p > peak {
			peak = p
		}
	}
	return peak
}
