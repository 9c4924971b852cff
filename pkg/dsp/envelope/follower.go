// Package envelope provides amplitude envelope tracking for the masking
// correction and dynamics stages.
package envelope

import "math"

// Follower tracks the amplitude envelope of a signal with separate
// attack and release time constants.
type Follower struct {
	sampleRate float64

	attack  float64
	release float64

	attackCoef  float64
	releaseCoef float64

	value float64
}

// NewFollower creates a follower with the given time constants in seconds.
func NewFollower(sampleRate, attack, release float64) *Follower {
	f := &Follower{sampleRate: sampleRate}
	f.SetAttack(attack)
	f.SetRelease(release)
	return f
}

// SetAttack sets the attack time in seconds.
func (f *Follower) SetAttack(seconds float64) {
	f.attack = math.Max(0.0001, seconds)
	f.attackCoef = coef(f.attack, f.sampleRate)
}

// SetRelease sets the release time in seconds.
func (f *Follower) SetRelease(seconds float64) {
	f.release = math.Max(0.001, seconds)
	f.releaseCoef = coef(f.release, f.sampleRate)
}

func coef(seconds, sampleRate float64) float64 {
	return math.Exp(-1.0 / (seconds * sampleRate))
}

// Next feeds one sample and returns the current envelope value.
func (f *Follower) Next(sample float64) float64 {
	in := math.Abs(sample)
	c := f.releaseCoef
	if in > f.value {
		c = f.attackCoef
	}
	f.value = in + c*(f.value-in)
	return f.value
}

// Reset clears the follower state.
func (f *Follower) Reset() {
	f.value = 0
}

// Track runs the follower over a whole buffer and returns the envelope.
func Track(buf []float64, sampleRate, attack, release float64) []float64 {
	f := NewFollower(sampleRate, attack, release)
	env := make([]float64, len(buf))
	for i, s := range buf {
		env[i] = f.Next(s)
	}
	return env
}
