package audio

import (
	"math"
	"path/filepath"
	"testing"
)

func TestWAVRoundTrip(t *testing.T) {
	rate := 48000
	b := NewSeconds(rate, 0.25)
	for i := range b.L {
		ph := 2 * math.Pi * 220 * float64(i) / float64(rate)
		b.L[i] = 0.6 * math.Sin(ph)
		b.R[i] = 0.3 * math.Sin(ph)
	}

	path := filepath.Join(t.TempDir(), "tone.wav")
	if err := SaveWAV(path, b); err != nil {
		t.Fatal(err)
	}

	got, err := LoadWAV(path, rate)
	if err != nil {
		t.Fatal(err)
	}
	if got.Rate != rate {
		t.Errorf("Rate = %d, want %d", got.Rate, rate)
	}
	if got.Frames() != b.Frames() {
		t.Fatalf("Frames() = %d, want %d", got.Frames(), b.Frames())
	}

	// 16-bit quantization bounds the round-trip error.
	const tol = 2.0 / 32768
	for i := 0; i < b.Frames(); i += 97 {
		if math.Abs(got.L[i]-b.L[i]) > tol || math.Abs(got.R[i]-b.R[i]) > tol {
			t.Fatalf("frame %d: got (%g, %g), want (%g, %g)",
				i, got.L[i], got.R[i], b.L[i], b.R[i])
		}
	}
}

func TestLoadWAVResamples(t *testing.T) {
	src := NewSeconds(44100, 0.5)
	for i := range src.L {
		ph := 2 * math.Pi * 110 * float64(i) / 44100
		src.L[i] = 0.5 * math.Sin(ph)
		src.R[i] = src.L[i]
	}
	path := filepath.Join(t.TempDir(), "44k.wav")
	if err := SaveWAV(path, src); err != nil {
		t.Fatal(err)
	}

	got, err := LoadWAV(path, 48000)
	if err != nil {
		t.Fatal(err)
	}
	if got.Rate != 48000 {
		t.Errorf("Rate = %d, want 48000", got.Rate)
	}
	want := int(0.5 * 48000)
	if diff := got.Frames() - want; diff < -16 || diff > 16 {
		t.Errorf("resampled Frames() = %d, want about %d", got.Frames(), want)
	}
}

func TestLoadWAVMissingFile(t *testing.T) {
	if _, err := LoadWAV(filepath.Join(t.TempDir(), "absent.wav"), 48000); err == nil {
		t.Error("expected an error for a missing file")
	}
}
