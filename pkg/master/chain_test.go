package master

import (
	"math"
	"testing"

	"github.com/driftsignal/entrain/pkg/audio"
	"github.com/driftsignal/entrain/pkg/dsp"
)

func TestProcessSilenceStaysSilent(t *testing.T) {
	b := audio.NewSeconds(48000, 5)
	rep := Process(b, DefaultOptions())

	if b.Peak() != 0 {
		t.Error("mastering silence produced signal")
	}
	if rep.InputLUFS != silenceLoudness {
		t.Errorf("InputLUFS = %g, want %g", rep.InputLUFS, silenceLoudness)
	}
	if rep.OutputPeak != 0 {
		t.Errorf("OutputPeak = %g, want 0", rep.OutputPeak)
	}
}

func TestProcessFullChain(t *testing.T) {
	b := stereoSine(48000, 5, 997, 0.02)
	rep := Process(b, DefaultOptions())

	if rep.GainDB <= 0 {
		t.Errorf("quiet input should be normalized upward, gain %g", rep.GainDB)
	}
	if rep.OutputPeak > dsp.DBToLinear(DefaultCeilingDB)*1.01 {
		t.Errorf("output peak %g above the ceiling", rep.OutputPeak)
	}
	if got := MeasureLUFS(b); math.Abs(got-DefaultTargetLUFS) > 2.0 {
		t.Errorf("final loudness %g, want near %g", got, DefaultTargetLUFS)
	}
}

func TestProcessNormalizeOnlyConverges(t *testing.T) {
	opts := Options{Normalize: true, TargetLUFS: -14, Limit: true, CeilingDB: -1.5}

	b := stereoSine(48000, 5, 997, 0.05)
	Process(b, opts)
	rep := Process(b, opts)

	// A second pass over already-normalized material is a near no-op.
	if math.Abs(rep.GainDB) > 0.2 {
		t.Errorf("second-pass gain %g dB, want ~0", rep.GainDB)
	}
}

func TestProcessStagesCanBeDisabled(t *testing.T) {
	b := stereoSine(48000, 2, 440, 0.3)
	orig := b.Clone()
	rep := Process(b, Options{})

	for i := range b.L {
		if b.L[i] != orig.L[i] {
			t.Fatal("all-off chain must not touch the buffer")
		}
	}
	if rep.GainDB != 0 {
		t.Errorf("all-off gain %g, want 0", rep.GainDB)
	}
}

func TestWidenClamps(t *testing.T) {
	b := audio.NewFrames(48000, 2)
	b.L[0], b.R[0] = 1, 0

	clamped := b.Clone()
	Widen(clamped, 99)
	bounded := b.Clone()
	Widen(bounded, MaxWidth)
	if clamped.L[0] != bounded.L[0] || clamped.R[0] != bounded.R[0] {
		t.Error("width above MaxWidth must clamp")
	}

	mono := b.Clone()
	Widen(mono, 0)
	if mono.L[0] != mono.R[0] {
		t.Error("width 0 must collapse to mono")
	}
}

func TestToneEQGentle(t *testing.T) {
	b := stereoSine(48000, 2, 997, 0.3)
	before := b.RMS()
	ToneEQ(b)
	after := b.RMS()

	// Both bands are low-order and a few dB at most; midband level
	// moves only slightly.
	if ratio := after / before; ratio < 0.7 || ratio > 1.5 {
		t.Errorf("midband RMS ratio %g after tone EQ", ratio)
	}
}
