package adaptive

import (
	"math"
	"testing"

	"github.com/driftsignal/entrain/pkg/audio"
	"github.com/driftsignal/entrain/pkg/stage"
)

func voiceBuffer(rate int, seconds, freq, amp float64) *audio.Buffer {
	b := audio.NewSeconds(rate, seconds)
	for i := range b.L {
		s := amp * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))
		b.L[i] = s
		b.R[i] = s
	}
	return b
}

func TestAnalyzeVoiceEnvelope(t *testing.T) {
	rate := 48000
	v := audio.NewSeconds(rate, 2)
	// Speech-like burst in the middle, silence around it.
	for i := rate / 2; i < rate; i++ {
		s := 0.6 * math.Sin(2*math.Pi*700*float64(i)/float64(rate))
		v.L[i] = s
		v.R[i] = s
	}

	prof := AnalyzeVoice(v)
	if len(prof.Envelope) != v.Frames() {
		t.Fatalf("envelope length %d, want %d", len(prof.Envelope), v.Frames())
	}

	peak := 0.0
	for _, e := range prof.Envelope {
		if e < 0 || e > 1 {
			t.Fatalf("envelope value %g out of [0, 1]", e)
		}
		if e > peak {
			peak = e
		}
	}
	if math.Abs(peak-1.0) > 1e-9 {
		t.Errorf("envelope peak %g, want normalized to 1", peak)
	}

	// Quiet region before the burst, loud inside it.
	quiet := prof.envelopeMean(0, rate/4)
	loud := prof.envelopeMean(rate*3/4, rate)
	if loud < quiet*5 {
		t.Errorf("envelope does not follow the burst: quiet %g, loud %g", quiet, loud)
	}
}

func TestAnalyzeVoiceFormant(t *testing.T) {
	rate := 48000
	v := voiceBuffer(rate, 2, 1000, 0.5)
	prof := AnalyzeVoice(v)

	// A pure 1 kHz tone should put the dominant band near 1 kHz
	// within one FFT bin.
	binHz := float64(rate) / fftSize
	if math.Abs(prof.FormantHz-1000) > 2*binHz {
		t.Errorf("FormantHz = %g, want ~1000", prof.FormantHz)
	}
}

func TestAnalyzeVoiceShortInputFallsBack(t *testing.T) {
	v := audio.NewFrames(48000, 100) // shorter than one FFT window
	prof := AnalyzeVoice(v)
	if prof.FormantHz != DefaultFormantHz {
		t.Errorf("FormantHz = %g, want fallback %g", prof.FormantHz, DefaultFormantHz)
	}
}

func TestProcessorStageLatch(t *testing.T) {
	rate := 8000
	plan, err := stage.NewPlan(10)
	if err != nil {
		t.Fatal(err)
	}

	p := New(rate, plan, nil)
	bed := voiceBuffer(rate, 12, 100, 0.1) // runs past the plan's end
	p.Process(bed)

	if p.Stage() != stage.Return {
		t.Errorf("final stage %v, want Return", p.Stage())
	}
}

func TestProcessorStaysBounded(t *testing.T) {
	rate := 8000
	plan, err := stage.NewPlan(20)
	if err != nil {
		t.Fatal(err)
	}

	voice := voiceBuffer(rate, 20, 800, 0.5)
	p := New(rate, plan, AnalyzeVoice(voice))

	bed := voiceBuffer(rate, 20, 150, 0.1)
	p.Process(bed)

	if peak := bed.Peak(); peak > 1.0 {
		t.Errorf("processed bed peak %g, expected headroom preserved", peak)
	}
	if bed.RMS() == 0 {
		t.Error("processed bed went silent")
	}
}

func TestProcessorNilVoiceStaticDip(t *testing.T) {
	rate := 8000
	plan, err := stage.NewPlan(5)
	if err != nil {
		t.Fatal(err)
	}
	p := New(rate, plan, nil)
	bed := voiceBuffer(rate, 5, 150, 0.1)
	p.Process(bed) // must not panic without a profile
	if bed.RMS() == 0 {
		t.Error("bed went silent under the static dip path")
	}
}

func TestPresetsCoverEveryStage(t *testing.T) {
	for s := stage.Induction; s <= stage.Return; s++ {
		pre, ok := presets[s]
		if !ok {
			t.Fatalf("no preset for stage %v", s)
		}
		if pre.sweepCenter <= 0 || pre.reverbDecay <= 0 || pre.compRatio < 1 {
			t.Errorf("stage %v preset has nonsensical values: %+v", s, pre)
		}
		if pre.width < 0 || pre.width > 2 {
			t.Errorf("stage %v width %g out of range", s, pre.width)
		}
	}
}

func TestJourneyIsTheWidestStage(t *testing.T) {
	j := presets[stage.Journey]
	for s, pre := range presets {
		if s == stage.Journey {
			continue
		}
		if pre.width > j.width {
			t.Errorf("stage %v width %g exceeds journey's %g", s, pre.width, j.width)
		}
		if pre.reverbDecay > j.reverbDecay {
			t.Errorf("stage %v decay %g exceeds journey's %g", s, pre.reverbDecay, j.reverbDecay)
		}
	}
}
