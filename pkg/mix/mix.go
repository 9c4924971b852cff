// Package mix sums the voice and entrainment stems under a fixed gain
// plan. Gain staging is static here; anything adaptive happens upstream
// in the adaptive processor.
package mix

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/driftsignal/entrain/pkg/audio"
	"github.com/driftsignal/entrain/pkg/dsp"
)

// Well-known stem names.
const (
	StemVoice      = "voice"
	StemBinaural   = "binaural"
	StemMonaural   = "monaural"
	StemIsochronic = "isochronic"
	StemAMTones    = "am_tones"
	StemPanning    = "panning"
	StemPinkNoise  = "pink_noise"
	StemSFX        = "sfx"
	StemSignature  = "signature"
)

// StemSet maps layer names to rendered stems. Disabled layers are simply
// absent, never present as silence.
type StemSet map[string]*audio.Buffer

// Plan maps stem names to fixed gains in dB. Stems missing from the plan
// mix at unity.
type Plan map[string]float64

// DefaultPlan is the production gain staging: voice on top, entrainment
// beds well underneath, effects in between.
func DefaultPlan() Plan {
	return Plan{
		StemVoice:      0.0,
		StemBinaural:   -28.0,
		StemMonaural:   -30.0,
		StemIsochronic: -30.0,
		StemAMTones:    -32.0,
		StemPanning:    -32.0,
		StemPinkNoise:  -30.0,
		StemSFX:        -18.0,
		StemSignature:  -24.0,
	}
}

// Mix errors.
var (
	ErrNoStems      = errors.New("mix: no stems to mix")
	ErrRateMismatch = errors.New("mix: stem sample rate mismatch")
)

// Mix aligns all stems and sums them under the plan's gains.
//
// The voice stem is authoritative for total duration when present:
// shorter beds are zero-padded and longer beds are trimmed to it.
// Without a voice stem the longest stem wins and nothing is trimmed.
// If the summed peak exceeds the safety threshold the whole mix is
// rescaled uniformly, with a warning that the gain plan needs fixing.
func Mix(stems StemSet, plan Plan, rate int) (*audio.Buffer, error) {
	if len(stems) == 0 {
		return nil, ErrNoStems
	}
	for name, stem := range stems {
		if stem.Rate != rate {
			return nil, fmt.Errorf("%w: stem %q is %d Hz, want %d", ErrRateMismatch, name, stem.Rate, rate)
		}
	}

	frames := 0
	if voice, ok := stems[StemVoice]; ok {
		frames = voice.Frames()
	} else {
		for _, stem := range stems {
			if stem.Frames() > frames {
				frames = stem.Frames()
			}
		}
	}

	out := audio.NewFrames(rate, frames)
	for name, stem := range stems {
		gainDB := 0.0
		if db, ok := plan[name]; ok {
			gainDB = db
		}
		// AddScaled is bounded by the shorter buffer, which is also
		// how over-long beds get trimmed to the voice.
		out.AddScaled(stem, dsp.DBToLinear(gainDB))
	}

	if peak := out.Peak(); peak > dsp.PeakSafety {
		out.Gain(dsp.PeakSafety / peak)
		log.WithFields(log.Fields{
			"peak":      peak,
			"threshold": dsp.PeakSafety,
		}).Warn("mix peak exceeded safety threshold, rescaled; revisit the gain plan")
	}
	return out, nil
}
