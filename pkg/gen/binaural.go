package gen

import (
	"math"

	"github.com/driftsignal/entrain/pkg/audio"
	"github.com/driftsignal/entrain/pkg/dsp"
	"github.com/driftsignal/entrain/pkg/schedule"
)

// Relative levels for the optional harmonic stack: sub-octave, second
// and third harmonic under the fundamental.
var harmonicStack = []struct {
	ratio float64
	level float64
}{
	{0.5, 0.30},
	{2.0, 0.20},
	{3.0, 0.10},
}

// BinauralOptions extends the base parameters for the binaural layer.
type BinauralOptions struct {
	// Drift, when set, replaces the fixed carrier with a scheduled
	// carrier trajectory across the session.
	Drift *schedule.Schedule
	// Harmonics adds the sub/2nd/3rd stack for a richer timbre.
	Harmonics bool
	// Bursts are punctuating gamma overlays layered onto the bed.
	Bursts []GammaBurst
}

// Binaural renders the binaural beat layer: each ear gets an independent
// sine at carrier -/+ beat/2. The perceived beat is the inter-aural
// difference; neither channel contains it.
func Binaural(beats *schedule.Schedule, p Params, opts BinauralOptions) (*audio.Buffer, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	buf := p.alloc()
	dt := 1.0 / float64(p.Rate)

	norm := 1.0
	if opts.Harmonics {
		for _, h := range harmonicStack {
			norm += h.level
		}
	}
	amp := p.Amp / norm

	var phaseL, phaseR float64
	var harmL, harmR [3]float64

	for i := range buf.L {
		t := float64(i) * dt
		carrier := p.Carrier
		if opts.Drift != nil {
			carrier = opts.Drift.ValueAt(t)
		}
		beat := beats.ValueAt(t)

		freqL := carrier - beat/2.0
		freqR := carrier + beat/2.0

		buf.L[i] = amp * math.Sin(phaseL)
		buf.R[i] = amp * math.Sin(phaseR)
		phaseL = wrap(phaseL + dsp.TwoPi*freqL*dt)
		phaseR = wrap(phaseR + dsp.TwoPi*freqR*dt)

		if opts.Harmonics {
			for h, def := range harmonicStack {
				buf.L[i] += amp * def.level * math.Sin(harmL[h])
				buf.R[i] += amp * def.level * math.Sin(harmR[h])
				harmL[h] = wrap(harmL[h] + dsp.TwoPi*freqL*def.ratio*dt)
				harmR[h] = wrap(harmR[h] + dsp.TwoPi*freqR*def.ratio*dt)
			}
		}
	}

	for _, burst := range opts.Bursts {
		burst.overlay(buf, p)
	}

	p.finish(buf)
	return buf, nil
}

// wrap keeps a phase accumulator in [0, 2*Pi) so precision holds over
// hour-long renders.
func wrap(phase float64) float64 {
	if phase >= dsp.TwoPi {
		return phase - dsp.TwoPi
	}
	return phase
}
