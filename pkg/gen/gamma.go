package gen

import (
	"math"

	"github.com/driftsignal/entrain/pkg/audio"
	"github.com/driftsignal/entrain/pkg/dsp"
)

// Gamma burst envelope times. Attack is fast so the burst reads as a
// punctuation; release is a little slower to avoid a hard cutoff.
const (
	burstAttack  = 0.05
	burstRelease = 0.30
)

// GammaBurst is a point-in-time insight accent: a short high-frequency
// binaural burst layered into an otherwise continuous bed.
type GammaBurst struct {
	Time     float64 // onset in seconds
	Duration float64 // burst length in seconds
	Freq     float64 // inter-aural beat frequency, typically 40+ Hz
	BoostDB  float64 // level relative to the layer amplitude
}

// overlay adds the burst into an already rendered binaural buffer.
func (g GammaBurst) overlay(buf *audio.Buffer, p Params) {
	if g.Duration <= 0 || g.Time >= p.Duration {
		return
	}
	frames := int(g.Duration * float64(p.Rate))
	start := int(g.Time * float64(p.Rate))
	dt := 1.0 / float64(p.Rate)
	amp := p.Amp * dsp.DBToLinear(g.BoostDB)

	var phaseL, phaseR float64
	freqL := p.Carrier - g.Freq/2.0
	freqR := p.Carrier + g.Freq/2.0

	for i := 0; i < frames; i++ {
		idx := start + i
		if idx >= buf.Frames() {
			break
		}
		env := burstEnvelope(float64(i)*dt, g.Duration)
		buf.L[idx] += amp * env * math.Sin(phaseL)
		buf.R[idx] += amp * env * math.Sin(phaseR)
		phaseL = wrap(phaseL + dsp.TwoPi*freqL*dt)
		phaseR = wrap(phaseR + dsp.TwoPi*freqR*dt)
	}
}

// burstEnvelope shapes the burst: linear attack, unity hold, linear
// release. Short bursts shrink both ramps so they never cross.
func burstEnvelope(t, duration float64) float64 {
	attack := burstAttack
	release := burstRelease
	if attack+release > duration {
		scale := duration / (attack + release)
		attack *= scale
		release *= scale
	}
	switch {
	case t < attack:
		return t / attack
	case t > duration-release:
		return (duration - t) / release
	default:
		return 1.0
	}
}
