// Package dsp provides the low-level signal primitives shared by the
// generators, the adaptive processor, and the mastering chain.
package dsp

import "math"

// MinDB is treated as silence in dB conversions.
const MinDB = -200.0

// Common engine constants.
const (
	TwoPi = 2.0 * math.Pi

	// PeakSafety is the post-mix peak ceiling; anything above it
	// triggers a uniform rescale.
	PeakSafety = 0.95
)

// DBToLinear converts a decibel value to linear amplitude.
// Values at or below MinDB return 0.
func DBToLinear(db float64) float64 {
	if db <= MinDB {
		return 0
	}
	return math.Pow(10.0, db/20.0)
}

// LinearToDB converts a linear amplitude to decibels.
// Returns MinDB for values <= 0.
func LinearToDB(linear float64) float64 {
	if linear <= 0 {
		return MinDB
	}
	return 20.0 * math.Log10(linear)
}

// Clear zeroes a buffer.
func Clear(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// Scale multiplies a buffer by a constant in place.
func Scale(buf []float64, g float64) {
	for i := range buf {
		buf[i] *= g
	}
}

// Add adds src into dst, bounded by the shorter of the two.
func Add(dst, src []float64) {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	for i := 0; i < n; i++ {
		dst[i] += src[i]
	}
}

// AddScaled adds gain-scaled src into dst.
func AddScaled(dst, src []float64, g float64) {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	for i := 0; i < n; i++ {
		dst[i] += src[i] * g
	}
}

// Peak returns the maximum absolute value in a buffer.
func Peak(buf []float64) float64 {
	peak := 0.0
	for _, s := range buf {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	return peak
}

// RMS returns the root mean square of a buffer.
func RMS(buf []float64) float64 {
	if len(buf) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range buf {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(buf)))
}

// Mean returns the arithmetic mean of a buffer (its DC offset).
func Mean(buf []float64) float64 {
	if len(buf) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range buf {
		sum += s
	}
	return sum / float64(len(buf))
}

// Clip limits samples to [-limit, limit] in place.
func Clip(buf []float64, limit float64) {
	for i := range buf {
		if buf[i] > limit {
			buf[i] = limit
		} else if buf[i] < -limit {
			buf[i] = -limit
		}
	}
}
