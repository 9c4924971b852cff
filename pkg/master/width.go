package master

import (
	"github.com/driftsignal/entrain/pkg/audio"
	"github.com/driftsignal/entrain/pkg/dsp/pan"
)

// MaxWidth bounds the mid/side widening; pushing past this starts to
// produce audible phase artifacts on mono playback.
const MaxWidth = 2.0

// Widen scales the side channel by the given width factor, clamped to
// [0, MaxWidth].
func Widen(b *audio.Buffer, width float64) {
	if width < 0 {
		width = 0
	} else if width > MaxWidth {
		width = MaxWidth
	}
	pan.Width(b.L, b.R, width)
}
