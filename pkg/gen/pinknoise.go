package gen

import (
	"github.com/driftsignal/entrain/pkg/audio"
	"github.com/driftsignal/entrain/pkg/dsp/noise"
)

// PinkNoise renders the ambient noise bed. The stereo variant runs two
// independently seeded banks so the channels decorrelate; mono duplicates
// a single bank into both.
func PinkNoise(p Params, seed int64, stereo bool) (*audio.Buffer, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	buf := p.alloc()

	left := noise.NewPink(seed)
	if stereo {
		right := noise.NewPink(seed + 1)
		for i := range buf.L {
			buf.L[i] = p.Amp * left.Next()
			buf.R[i] = p.Amp * right.Next()
		}
	} else {
		for i := range buf.L {
			s := p.Amp * left.Next()
			buf.L[i] = s
			buf.R[i] = s
		}
	}

	p.finish(buf)
	return buf, nil
}
