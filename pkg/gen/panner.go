package gen

import (
	"math"

	"github.com/driftsignal/entrain/pkg/audio"
	"github.com/driftsignal/entrain/pkg/dsp"
	"github.com/driftsignal/entrain/pkg/dsp/pan"
	"github.com/driftsignal/entrain/pkg/schedule"
)

// PanningBeat renders a carrier amplitude-modulated at the scheduled
// beat frequency, swept left/right with the constant-power law at an
// independent pan rate.
func PanningBeat(beats *schedule.Schedule, p Params, panRate float64) (*audio.Buffer, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if panRate <= 0 {
		panRate = 0.1
	}

	buf := p.alloc()
	dt := 1.0 / float64(p.Rate)

	var carrierPhase, beatPhase, panPhase float64
	for i := range buf.L {
		t := float64(i) * dt
		beat := beats.ValueAt(t)

		// Full-depth tremolo at the beat rate.
		tremolo := 0.5 * (1.0 + math.Sin(beatPhase))
		mono := p.Amp * tremolo * math.Sin(carrierPhase)

		// Pan angle sweeps the full [0, Pi/2] arc.
		theta := (math.Sin(panPhase) + 1.0) * math.Pi / 4.0
		gl, gr := pan.ConstantPower(theta)
		buf.L[i] = mono * gl
		buf.R[i] = mono * gr

		carrierPhase = wrap(carrierPhase + dsp.TwoPi*p.Carrier*dt)
		beatPhase = wrap(beatPhase + dsp.TwoPi*beat*dt)
		panPhase = wrap(panPhase + dsp.TwoPi*panRate*dt)
	}

	p.finish(buf)
	return buf, nil
}
