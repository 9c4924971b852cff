package master

import (
	"github.com/driftsignal/entrain/pkg/audio"
	"github.com/driftsignal/entrain/pkg/dsp/filter"
)

// Tone-shaping defaults: a gentle low-shelf for warmth plus a presence
// band for narration clarity.
const (
	warmthFreq   = 150.0
	warmthGainDB = 2.5
	warmthQ      = 0.707

	presenceFreq   = 2500.0
	presenceGainDB = 1.5
	presenceQ      = 1.0
)

// ToneEQ applies the warmth and presence bands in place.
func ToneEQ(b *audio.Buffer) {
	rate := float64(b.Rate)

	warmth := filter.NewBiquad(2)
	warmth.SetLowShelf(rate, warmthFreq, warmthQ, warmthGainDB)
	warmth.ProcessStereo(b.L, b.R)

	presence := filter.NewBiquad(2)
	presence.SetPeaking(rate, presenceFreq, presenceQ, presenceGainDB)
	presence.ProcessStereo(b.L, b.R)
}
