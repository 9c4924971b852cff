package gen

import (
	"math"

	"github.com/driftsignal/entrain/pkg/audio"
	"github.com/driftsignal/entrain/pkg/dsp"
)

// The signature motif is rendered identically at the start and end of
// every session to build a conditioned association. Fixed by design:
// not schedule-driven, not preset-driven.
const (
	SignatureDuration = 6.0   // seconds
	signatureBase     = 136.1 // Hz, base carrier
	signatureBeat     = 8.0   // Hz, binaural spread
	signatureShimmer  = 0.5   // Hz, shimmer tremolo rate
	signatureDepth    = 0.3   // shimmer depth
	signatureFadeIn   = 0.5   // seconds
	signatureFadeOut  = 1.5   // seconds
)

// Signature renders the fixed session motif: a short binaural pair on
// the base carrier with a slow shimmer envelope.
func Signature(rate int, amp float64) *audio.Buffer {
	buf := audio.NewSeconds(rate, SignatureDuration)
	dt := 1.0 / float64(rate)

	freqL := signatureBase - signatureBeat/2.0
	freqR := signatureBase + signatureBeat/2.0

	var phaseL, phaseR, shimmerPhase float64
	for i := range buf.L {
		shimmer := 1.0 - signatureDepth*0.5*(1.0+math.Sin(shimmerPhase))
		buf.L[i] = amp * shimmer * math.Sin(phaseL)
		buf.R[i] = amp * shimmer * math.Sin(phaseR)

		phaseL = wrap(phaseL + dsp.TwoPi*freqL*dt)
		phaseR = wrap(phaseR + dsp.TwoPi*freqR*dt)
		shimmerPhase = wrap(shimmerPhase + dsp.TwoPi*signatureShimmer*dt)
	}

	buf.FadeEdges(signatureFadeIn, signatureFadeOut)
	return buf
}
