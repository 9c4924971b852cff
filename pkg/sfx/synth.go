package sfx

import (
	"math"
	"strings"

	"github.com/driftsignal/entrain/pkg/audio"
	"github.com/driftsignal/entrain/pkg/dsp"
	"github.com/driftsignal/entrain/pkg/dsp/filter"
	"github.com/driftsignal/entrain/pkg/dsp/noise"
)

// Patch names for fresh effect synthesis.
const (
	patchChime = "chime"
	patchRiser = "riser"
	patchWash  = "wash"
	patchPulse = "pulse"
)

// patchKeywords routes a freeform description to a patch.
var patchKeywords = map[string][]string{
	patchChime: {"chime", "bell", "ting", "crystal", "sparkle"},
	patchRiser: {"rise", "riser", "sweep", "ascend", "lift", "shimmer"},
	patchWash:  {"wash", "wave", "ocean", "breath", "wind", "water"},
	patchPulse: {"pulse", "heartbeat", "drum", "throb", "deep"},
}

// Synthesize renders a fresh effect for a description that missed the
// library. The patch is chosen by keyword; unknown descriptions get the
// wash, the least intrusive of the set.
func Synthesize(description string, rate int, duration float64) *audio.Buffer {
	if duration <= 0 {
		duration = DefaultDuration
	}
	switch choosePatch(description) {
	case patchChime:
		return synthChime(rate, duration)
	case patchRiser:
		return synthRiser(rate, duration)
	case patchPulse:
		return synthPulse(rate, duration)
	default:
		return synthWash(rate, duration)
	}
}

func choosePatch(description string) string {
	desc := strings.ToLower(description)
	for patch, words := range patchKeywords {
		for _, w := range words {
			if strings.Contains(desc, w) {
				return patch
			}
		}
	}
	return patchWash
}

// synthChime layers a few inharmonic partials with exponential decay.
func synthChime(rate int, duration float64) *audio.Buffer {
	buf := audio.NewSeconds(rate, duration)
	dt := 1.0 / float64(rate)

	partials := []struct {
		freq, level float64
	}{
		{660.0, 0.5},
		{1247.0, 0.3},
		{1773.0, 0.15},
		{2511.0, 0.05},
	}

	for i := range buf.L {
		t := float64(i) * dt
		decay := math.Exp(-3.0 * t / duration)
		s := 0.0
		for _, p := range partials {
			s += p.level * math.Sin(dsp.TwoPi*p.freq*t)
		}
		s *= decay
		buf.L[i] = s
		buf.R[i] = s
	}
	buf.FadeEdges(0.005, 0.1)
	return buf
}

// synthRiser sweeps a sine geometrically upward under a swelling level.
func synthRiser(rate int, duration float64) *audio.Buffer {
	buf := audio.NewSeconds(rate, duration)
	dt := 1.0 / float64(rate)

	const fromHz, toHz = 200.0, 1200.0
	var phase float64
	for i := range buf.L {
		t := float64(i) * dt
		u := t / duration
		freq := fromHz * math.Pow(toHz/fromHz, u)
		level := 0.6 * u
		s := level * math.Sin(phase)
		buf.L[i] = s
		buf.R[i] = s
		phase += dsp.TwoPi * freq * dt
		if phase >= dsp.TwoPi {
			phase -= dsp.TwoPi
		}
	}
	buf.FadeEdges(0.01, 0.2)
	return buf
}

// synthWash swells filtered pink noise in and out.
func synthWash(rate int, duration float64) *audio.Buffer {
	buf := audio.NewSeconds(rate, duration)
	left := noise.NewPink(11)
	right := noise.NewPink(12)
	dt := 1.0 / float64(rate)

	half := duration / 2.0
	for i := range buf.L {
		t := float64(i) * dt
		level := 0.0
		if t < half {
			level = t / half
		} else {
			level = (duration - t) / half
		}
		level *= 0.5
		buf.L[i] = level * left.Next()
		buf.R[i] = level * right.Next()
	}

	lp := filter.NewBiquad(2)
	lp.SetLowpass(float64(rate), 1200.0, 0.707)
	lp.ProcessStereo(buf.L, buf.R)
	return buf
}

// synthPulse beats a low sine at 1 Hz with a soft per-beat envelope.
func synthPulse(rate int, duration float64) *audio.Buffer {
	buf := audio.NewSeconds(rate, duration)
	dt := 1.0 / float64(rate)

	const beatHz = 1.0
	const toneHz = 60.0
	var phase float64
	for i := range buf.L {
		t := float64(i) * dt
		beatPos := math.Mod(t*beatHz, 1.0)
		env := math.Exp(-6.0 * beatPos)
		s := 0.6 * env * math.Sin(phase)
		buf.L[i] = s
		buf.R[i] = s
		phase += dsp.TwoPi * toneHz * dt
		if phase >= dsp.TwoPi {
			phase -= dsp.TwoPi
		}
	}
	buf.FadeEdges(0.05, 0.3)
	return buf
}
