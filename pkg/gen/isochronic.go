package gen

import (
	"math"

	"github.com/driftsignal/entrain/pkg/audio"
	"github.com/driftsignal/entrain/pkg/dsp"
	"github.com/driftsignal/entrain/pkg/schedule"
)

// PulseShape selects the isochronic gating envelope.
type PulseShape int

const (
	// PulseSine gates with a half-wave rectified sine, the smoother
	// of the two shapes.
	PulseSine PulseShape = iota
	// PulseSquare gates hard on/off at 50% duty for the strongest
	// entrainment stimulus.
	PulseSquare
)

// Isochronic renders a single carrier tone pulsed on and off at the
// scheduled beat frequency.
func Isochronic(beats *schedule.Schedule, p Params, shape PulseShape) (*audio.Buffer, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	buf := p.alloc()
	dt := 1.0 / float64(p.Rate)

	var carrierPhase, pulsePhase float64
	for i := range buf.L {
		t := float64(i) * dt
		beat := beats.ValueAt(t)

		env := 0.0
		switch shape {
		case PulseSquare:
			if pulsePhase < 0.5 {
				env = 1.0
			}
		default:
			env = math.Max(0.0, math.Sin(dsp.TwoPi*pulsePhase))
		}

		s := p.Amp * env * math.Sin(carrierPhase)
		buf.L[i] = s
		buf.R[i] = s

		carrierPhase = wrap(carrierPhase + dsp.TwoPi*p.Carrier*dt)
		pulsePhase += beat * dt
		if pulsePhase >= 1.0 {
			pulsePhase -= math.Floor(pulsePhase)
		}
	}

	p.finish(buf)
	return buf, nil
}
