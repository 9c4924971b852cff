package gen

import (
	"math"

	"github.com/driftsignal/entrain/pkg/audio"
	"github.com/driftsignal/entrain/pkg/dsp"
	"github.com/driftsignal/entrain/pkg/schedule"
)

// Monaural renders the monaural beat layer: the two component tones at
// carrier -/+ beat/2 are summed into one signal and written identically
// to both channels. The beat is physically present in the waveform, so
// it works without headphones.
func Monaural(beats *schedule.Schedule, p Params) (*audio.Buffer, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	buf := p.alloc()
	dt := 1.0 / float64(p.Rate)

	// Halved so the summed pair peaks at Amp.
	amp := p.Amp * 0.5

	var phaseLo, phaseHi float64
	for i := range buf.L {
		t := float64(i) * dt
		beat := beats.ValueAt(t)
		freqLo := p.Carrier - beat/2.0
		freqHi := p.Carrier + beat/2.0

		s := amp * (math.Sin(phaseLo) + math.Sin(phaseHi))
		buf.L[i] = s
		buf.R[i] = s

		phaseLo = wrap(phaseLo + dsp.TwoPi*freqLo*dt)
		phaseHi = wrap(phaseHi + dsp.TwoPi*freqHi*dt)
	}

	p.finish(buf)
	return buf, nil
}
