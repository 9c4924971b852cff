package gen

import (
	"math"

	"github.com/driftsignal/entrain/pkg/audio"
	"github.com/driftsignal/entrain/pkg/dsp"
	"github.com/driftsignal/entrain/pkg/schedule"
)

// AMTone renders an amplitude-modulated carrier. The modulator frequency
// follows the schedule; used for the gamma range (40-200 Hz) where
// binaural and isochronic perception breaks down. The output is
// renormalized by (1+depth) so the peak never exceeds Amp.
func AMTone(mods *schedule.Schedule, p Params, depth float64) (*audio.Buffer, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if depth < 0 {
		depth = 0
	} else if depth > 1 {
		depth = 1
	}

	buf := p.alloc()
	dt := 1.0 / float64(p.Rate)
	norm := 1.0 / (1.0 + depth)

	var carrierPhase, modPhase float64
	for i := range buf.L {
		t := float64(i) * dt
		mod := mods.ValueAt(t)

		s := p.Amp * norm * (1.0 + depth*math.Sin(modPhase)) * math.Sin(carrierPhase)
		buf.L[i] = s
		buf.R[i] = s

		carrierPhase = wrap(carrierPhase + dsp.TwoPi*p.Carrier*dt)
		modPhase = wrap(modPhase + dsp.TwoPi*mod*dt)
	}

	p.finish(buf)
	return buf, nil
}
