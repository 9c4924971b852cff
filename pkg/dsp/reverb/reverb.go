// Package reverb implements a Schroeder reverberator whose decay time is
// steered per session stage to expand and contract the perceived space.
package reverb

import "math"

// Comb delay tunings in samples at 44.1 kHz, rescaled to the running
// sample rate at construction. Right channel is offset for decorrelation.
var (
	combTunings    = []int{1116, 1188, 1277, 1356, 1422, 1491, 1557, 1617}
	allpassTunings = []int{556, 441, 341, 225}
)

const stereoSpread = 23
const tuningRate = 44100.0

type comb struct {
	buffer   []float64
	index    int
	feedback float64
	filtered float64
	damp     float64
}

func newComb(delay int) *comb {
	return &comb{buffer: make([]float64, delay), feedback: 0.84, damp: 0.2}
}

func (c *comb) process(in float64) float64 {
	out := c.buffer[c.index]
	c.filtered = out*(1.0-c.damp) + c.filtered*c.damp
	c.buffer[c.index] = in + c.feedback*c.filtered
	c.index++
	if c.index >= len(c.buffer) {
		c.index = 0
	}
	return out
}

func (c *comb) reset() {
	for i := range c.buffer {
		c.buffer[i] = 0
	}
	c.index = 0
	c.filtered = 0
}

type allpass struct {
	buffer   []float64
	index    int
	feedback float64
}

func newAllpass(delay int) *allpass {
	return &allpass{buffer: make([]float64, delay), feedback: 0.5}
}

func (a *allpass) process(in float64) float64 {
	buffered := a.buffer[a.index]
	out := buffered - in
	a.buffer[a.index] = in + a.feedback*buffered
	a.index++
	if a.index >= len(a.buffer) {
		a.index = 0
	}
	return out
}

func (a *allpass) reset() {
	for i := range a.buffer {
		a.buffer[i] = 0
	}
	a.index = 0
}

// Reverb is a stereo Schroeder reverberator: parallel damped combs into
// serial allpass diffusers per channel.
type Reverb struct {
	sampleRate float64

	combsL, combsR []*comb
	allL, allR     []*allpass

	decay float64
	wet   float64
}

// New creates a reverb for the given sample rate with a 2 s decay and a
// conservative default wet mix.
func New(sampleRate float64) *Reverb {
	r := &Reverb{
		sampleRate: sampleRate,
		wet:        0.25,
	}
	scale := sampleRate / tuningRate
	for _, t := range combTunings {
		r.combsL = append(r.combsL, newComb(scaled(t, scale)))
		r.combsR = append(r.combsR, newComb(scaled(t+stereoSpread, scale)))
	}
	for _, t := range allpassTunings {
		r.allL = append(r.allL, newAllpass(scaled(t, scale)))
		r.allR = append(r.allR, newAllpass(scaled(t+stereoSpread, scale)))
	}
	r.SetDecay(2.0)
	return r
}

func scaled(samples int, scale float64) int {
	n := int(float64(samples) * scale)
	if n < 1 {
		n = 1
	}
	return n
}

// SetDecay sets the RT60 decay time in seconds. Comb feedback is derived
// from the classic -60 dB relation feedback = 0.001^(delay/decay).
func (r *Reverb) SetDecay(seconds float64) {
	r.decay = math.Max(0.1, seconds)
	set := func(cs []*comb) {
		for _, c := range cs {
			delay := float64(len(c.buffer)) / r.sampleRate
			c.feedback = math.Pow(0.001, delay/r.decay)
		}
	}
	set(r.combsL)
	set(r.combsR)
}

// SetWet sets the wet mix in [0, 1].
func (r *Reverb) SetWet(wet float64) {
	r.wet = math.Max(0.0, math.Min(1.0, wet))
}

// Decay returns the current decay time in seconds.
func (r *Reverb) Decay() float64 {
	return r.decay
}

// ProcessStereo reverberates a stereo pair in place.
func (r *Reverb) ProcessStereo(left, right []float64) {
	n := len(left)
	if len(right) < n {
		n = len(right)
	}
	dry := 1.0 - r.wet
	for i := 0; i < n; i++ {
		inL := left[i]
		inR := right[i]

		wetL := 0.0
		for _, c := range r.combsL {
			wetL += c.process(inL)
		}
		wetR := 0.0
		for _, c := range r.combsR {
			wetR += c.process(inR)
		}
		for _, a := range r.allL {
			wetL = a.process(wetL)
		}
		for _, a := range r.allR {
			wetR = a.process(wetR)
		}

		left[i] = inL*dry + wetL*r.wet*0.125
		right[i] = inR*dry + wetR*r.wet*0.125
	}
}

// Reset clears all internal delay lines.
func (r *Reverb) Reset() {
	for _, c := range r.combsL {
		c.reset()
	}
	for _, c := range r.combsR {
		c.reset()
	}
	for _, a := range r.allL {
		a.reset()
	}
	for _, a := range r.allR {
		a.reset()
	}
}
