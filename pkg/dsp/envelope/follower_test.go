package envelope

import (
	"math"
	"testing"
)

func TestFollowerAttackRise(t *testing.T) {
	f := NewFollower(48000, 0.001, 0.1)

	// Step from silence to full scale: after several attack time
	// constants the envelope must be close to the input.
	var v float64
	for i := 0; i < 48000/100; i++ { // 10 ms
		v = f.Next(1.0)
	}
	if v < 0.99 {
		t.Errorf("envelope %g after 10x the attack time, want ~1", v)
	}
}

func TestFollowerReleaseDecay(t *testing.T) {
	f := NewFollower(48000, 0.001, 0.05)
	for i := 0; i < 4800; i++ {
		f.Next(1.0)
	}

	// One release time constant of silence decays to ~1/e.
	var v float64
	for i := 0; i < int(0.05*48000); i++ {
		v = f.Next(0)
	}
	if math.Abs(v-1.0/math.E) > 0.02 {
		t.Errorf("after one release constant, envelope %g, want ~%g", v, 1.0/math.E)
	}
}

func TestFollowerTracksMagnitude(t *testing.T) {
	f := NewFollower(48000, 0.001, 0.001)
	v := f.Next(-0.8)
	if v <= 0 {
		t.Errorf("negative input must still raise the envelope, got %g", v)
	}
}

func TestFollowerReset(t *testing.T) {
	f := NewFollower(48000, 0.01, 0.1)
	f.Next(1.0)
	f.Reset()
	if f.value != 0 {
		t.Error("Reset must clear the state")
	}
}

func TestTrack(t *testing.T) {
	buf := make([]float64, 1000)
	for i := 500; i < 1000; i++ {
		buf[i] = 0.5
	}
	env := Track(buf, 48000, 0.0001, 0.01)
	if len(env) != len(buf) {
		t.Fatalf("envelope length %d, want %d", len(env), len(buf))
	}
	if env[499] != 0 {
		t.Errorf("envelope before the step = %g, want 0", env[499])
	}
	if env[999] < 0.45 {
		t.Errorf("envelope at the end = %g, want ~0.5", env[999])
	}
}
