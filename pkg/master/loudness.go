// Package master implements the mastering chain: loudness normalization,
// warmth/presence EQ, bounded stereo widening, and true-peak limiting.
// Stage order is fixed; the limiter always runs last.
package master

import (
	"math"

	"github.com/driftsignal/entrain/pkg/audio"
	"github.com/driftsignal/entrain/pkg/dsp/filter"
)

// DefaultTargetLUFS is the streaming-delivery loudness target.
const DefaultTargetLUFS = -14.0

// Gating constants from the integrated-loudness measurement method:
// 400 ms blocks with 75% overlap, -70 LUFS absolute gate, relative gate
// 10 LU under the ungated mean.
const (
	blockSeconds    = 0.400
	blockOverlap    = 0.75
	absoluteGateLU  = -70.0
	relativeGateLU  = -10.0
	loudnessOffset  = -0.691
	silenceLoudness = -100.0
)

// MeasureLUFS returns the integrated loudness of a buffer in LUFS,
// K-weighted and gated. Silent input reports silenceLoudness.
func MeasureLUFS(b *audio.Buffer) float64 {
	work := b.Clone()
	kWeight(work)

	blockFrames := int(blockSeconds * float64(b.Rate))
	if blockFrames <= 0 || work.Frames() < blockFrames {
		return silenceLoudness
	}
	hop := int(float64(blockFrames) * (1.0 - blockOverlap))
	if hop < 1 {
		hop = 1
	}

	var powers []float64
	for start := 0; start+blockFrames <= work.Frames(); start += hop {
		p := 0.0
		for i := start; i < start+blockFrames; i++ {
			p += work.L[i]*work.L[i] + work.R[i]*work.R[i]
		}
		powers = append(powers, p/float64(blockFrames))
	}
	if len(powers) == 0 {
		return silenceLoudness
	}

	// Absolute gate.
	var gated []float64
	for _, p := range powers {
		if blockLoudness(p) > absoluteGateLU {
			gated = append(gated, p)
		}
	}
	if len(gated) == 0 {
		return silenceLoudness
	}

	// Relative gate at mean - 10 LU.
	mean := 0.0
	for _, p := range gated {
		mean += p
	}
	mean /= float64(len(gated))
	threshold := blockLoudness(mean) + relativeGateLU

	sum := 0.0
	count := 0
	for _, p := range gated {
		if blockLoudness(p) > threshold {
			sum += p
			count++
		}
	}
	if count == 0 {
		return silenceLoudness
	}
	return blockLoudness(sum / float64(count))
}

func blockLoudness(power float64) float64 {
	if power <= 0 {
		return silenceLoudness
	}
	return loudnessOffset + 10.0*math.Log10(power)
}

// kWeight applies the K-weighting pre-filter in place: a high shelf
// modelling head diffraction and a low-cut.
func kWeight(b *audio.Buffer) {
	rate := float64(b.Rate)

	shelf := filter.NewBiquad(2)
	shelf.SetHighShelf(rate, 1681.0, 0.707, 4.0)
	shelf.ProcessStereo(b.L, b.R)

	highpass := filter.NewBiquad(2)
	highpass.SetHighpass(rate, 38.0, 0.5)
	highpass.ProcessStereo(b.L, b.R)
}

// Normalize applies the uniform gain that brings the buffer to the
// target integrated loudness and returns the measured input loudness and
// the gain applied in dB. Silence is left untouched.
func Normalize(b *audio.Buffer, targetLUFS float64) (measured, gainDB float64) {
	measured = MeasureLUFS(b)
	if measured <= silenceLoudness {
		return measured, 0
	}
	gainDB = targetLUFS - measured
	b.GainDB(gainDB)
	return measured, gainDB
}
