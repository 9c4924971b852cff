// Package dynamics provides the stereo-linked compressor behind the
// stage-dependent dynamic-range architecture.
package dynamics

import (
	"math"

	"github.com/driftsignal/entrain/pkg/dsp/envelope"
)

// Compressor is a feed-forward soft-knee compressor. Stage presets move
// its threshold and ratio over the course of a session.
type Compressor struct {
	sampleRate float64

	threshold  float64 // dB
	ratio      float64
	kneeWidth  float64 // dB
	makeupGain float64 // dB

	detector *envelope.Follower
}

// NewCompressor creates a compressor with gentle defaults.
func NewCompressor(sampleRate float64) *Compressor {
	return &Compressor{
		sampleRate: sampleRate,
		threshold:  -20.0,
		ratio:      2.0,
		kneeWidth:  4.0,
		detector:   envelope.NewFollower(sampleRate, 0.005, 0.120),
	}
}

// SetThreshold sets the threshold in dB.
func (c *Compressor) SetThreshold(db float64) {
	c.threshold = db
}

// SetRatio sets the compression ratio; 1 disables gain reduction.
func (c *Compressor) SetRatio(ratio float64) {
	c.ratio = math.Max(1.0, ratio)
}

// SetKnee sets the soft-knee width in dB.
func (c *Compressor) SetKnee(widthDB float64) {
	c.kneeWidth = math.Max(0.0, widthDB)
}

// SetMakeupGain sets the post-compression makeup gain in dB.
func (c *Compressor) SetMakeupGain(db float64) {
	c.makeupGain = db
}

// SetTimes sets the detector attack and release in seconds.
func (c *Compressor) SetTimes(attack, release float64) {
	c.detector.SetAttack(attack)
	c.detector.SetRelease(release)
}

// gainReduction computes reduction in dB for a detected level in dB.
func (c *Compressor) gainReduction(levelDB float64) float64 {
	lower := c.threshold - c.kneeWidth/2
	upper := c.threshold + c.kneeWidth/2

	if levelDB <= lower {
		return 0.0
	}
	slope := 1.0 - 1.0/c.ratio
	if levelDB >= upper {
		return (levelDB - c.threshold) * slope
	}
	// Quadratic interpolation through the knee.
	kneePos := (levelDB - lower) / c.kneeWidth
	return kneePos * kneePos * (levelDB - c.threshold + c.kneeWidth/2) * slope * 0.5
}

// ProcessStereo compresses a stereo pair in place with linked detection,
// so the image never shifts under gain reduction.
func (c *Compressor) ProcessStereo(left, right []float64) {
	n := len(left)
	if len(right) < n {
		n = len(right)
	}
	for i := 0; i < n; i++ {
		linked := math.Max(math.Abs(left[i]), math.Abs(right[i]))
		env := c.detector.Next(linked)

		levelDB := MinLevelDB
		if env > 0 {
			levelDB = 20.0 * math.Log10(env)
		}

		gainDB := -c.gainReduction(levelDB) + c.makeupGain
		gain := math.Pow(10.0, gainDB/20.0)
		left[i] *= gain
		right[i] *= gain
	}
}

// MinLevelDB is the floor reported for a silent detector.
const MinLevelDB = -96.0

// Reset clears the detector state.
func (c *Compressor) Reset() {
	c.detector.Reset()
}
