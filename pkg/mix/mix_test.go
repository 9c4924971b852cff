package mix

import (
	"errors"
	"math"
	"testing"

	"github.com/driftsignal/entrain/pkg/audio"
)

func sineStem(rate, frames int, freq, amp float64) *audio.Buffer {
	b := audio.NewFrames(rate, frames)
	for i := range b.L {
		s := amp * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))
		b.L[i] = s
		b.R[i] = s
	}
	return b
}

func TestMixIdentity(t *testing.T) {
	rate := 48000
	voice := sineStem(rate, 4800, 200, 0.5)

	out, err := Mix(StemSet{StemVoice: voice}, Plan{StemVoice: 0}, rate)
	if err != nil {
		t.Fatal(err)
	}
	for i := range out.L {
		if out.L[i] != voice.L[i] {
			t.Fatalf("0 dB single-stem mix must be the identity, diverged at %d", i)
		}
	}
}

func TestMixVoiceAuthoritative(t *testing.T) {
	rate := 48000
	voice := sineStem(rate, 4800, 200, 0.5)
	longBed := sineStem(rate, 9600, 100, 0.5)  // twice the voice
	shortBed := sineStem(rate, 2400, 100, 0.5) // half the voice

	out, err := Mix(StemSet{
		StemVoice:    voice,
		StemBinaural: longBed,
		StemSFX:      shortBed,
	}, DefaultPlan(), rate)
	if err != nil {
		t.Fatal(err)
	}
	if out.Frames() != voice.Frames() {
		t.Errorf("Frames() = %d, want the voice's %d", out.Frames(), voice.Frames())
	}
}

func TestMixLongestWinsWithoutVoice(t *testing.T) {
	rate := 48000
	out, err := Mix(StemSet{
		StemBinaural:  sineStem(rate, 1000, 100, 0.1),
		StemPinkNoise: sineStem(rate, 3000, 100, 0.1),
	}, DefaultPlan(), rate)
	if err != nil {
		t.Fatal(err)
	}
	if out.Frames() != 3000 {
		t.Errorf("Frames() = %d, want 3000", out.Frames())
	}
}

func TestMixDefaultPlanStaysUnderSafety(t *testing.T) {
	rate := 48000
	frames := 48000
	out, err := Mix(StemSet{
		StemVoice:     sineStem(rate, frames, 220, 0.7),
		StemBinaural:  sineStem(rate, frames, 200, 0.8),
		StemPinkNoise: sineStem(rate, frames, 90, 0.3),
	}, DefaultPlan(), rate)
	if err != nil {
		t.Fatal(err)
	}
	// A healthy voice level plus beds at -28/-30 dB stays under the
	// rescale threshold, so the voice passes through unscathed.
	if peak := out.Peak(); peak > 0.95 {
		t.Errorf("peak %g above the safety threshold", peak)
	}
}

func TestMixPeakSafetyRescale(t *testing.T) {
	rate := 48000
	loud := sineStem(rate, 4800, 200, 1.0)
	out, err := Mix(StemSet{
		StemVoice: loud,
		StemSFX:   loud.Clone(),
	}, Plan{StemVoice: 0, StemSFX: 0}, rate)
	if err != nil {
		t.Fatal(err)
	}
	peak := out.Peak()
	if peak > 0.95+1e-9 {
		t.Errorf("rescaled peak %g, want <= 0.95", peak)
	}
	if peak < 0.94 {
		t.Errorf("rescaled peak %g, want pinned at the threshold", peak)
	}
}

func TestMixUnknownStemDefaultsToUnity(t *testing.T) {
	rate := 48000
	b := sineStem(rate, 100, 200, 0.25)
	out, err := Mix(StemSet{"custom": b}, Plan{}, rate)
	if err != nil {
		t.Fatal(err)
	}
	if out.L[25] != b.L[25] {
		t.Error("stems missing from the plan must mix at 0 dB")
	}
}

func TestMixErrors(t *testing.T) {
	if _, err := Mix(StemSet{}, Plan{}, 48000); !errors.Is(err, ErrNoStems) {
		t.Errorf("empty set: got %v, want ErrNoStems", err)
	}

	wrong := sineStem(44100, 100, 200, 0.1)
	if _, err := Mix(StemSet{StemVoice: wrong}, Plan{}, 48000); !errors.Is(err, ErrRateMismatch) {
		t.Errorf("rate mismatch: got %v, want ErrRateMismatch", err)
	}
}
