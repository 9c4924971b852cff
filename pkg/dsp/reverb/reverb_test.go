package reverb

import (
	"math"
	"testing"
)

func impulseResponse(r *Reverb, n int) ([]float64, []float64) {
	left := make([]float64, n)
	right := make([]float64, n)
	left[0] = 1
	right[0] = 1
	r.ProcessStereo(left, right)
	return left, right
}

func TestImpulseProducesTail(t *testing.T) {
	r := New(48000)
	r.SetWet(0.5)
	left, right := impulseResponse(r, 48000)

	// Energy must appear well after the direct sound.
	tail := 0.0
	for i := 24000; i < 48000; i++ {
		tail += left[i]*left[i] + right[i]*right[i]
	}
	if tail == 0 {
		t.Error("no reverb tail half a second after the impulse")
	}
}

func TestDecayControlsTailLength(t *testing.T) {
	window := func(decay float64) float64 {
		r := New(48000)
		r.SetWet(1)
		r.SetDecay(decay)
		left, _ := impulseResponse(r, 2*48000)
		sum := 0.0
		for i := 48000; i < 2*48000; i++ {
			sum += left[i] * left[i]
		}
		return sum
	}

	short := window(0.3)
	long := window(4.0)
	if long <= short*10 {
		t.Errorf("late-tail energy: decay 4 s = %g, decay 0.3 s = %g; expected a clear separation", long, short)
	}
}

func TestDecayClampsLow(t *testing.T) {
	r := New(48000)
	r.SetDecay(-1)
	if r.Decay() != 0.1 {
		t.Errorf("Decay() = %g, want clamp at 0.1", r.Decay())
	}
}

func TestWetZeroIsDry(t *testing.T) {
	r := New(48000)
	r.SetWet(0)
	left := make([]float64, 4096)
	right := make([]float64, 4096)
	for i := range left {
		left[i] = math.Sin(float64(i) * 0.01)
		right[i] = left[i]
	}
	orig := append([]float64(nil), left...)
	r.ProcessStereo(left, right)
	for i := range left {
		if left[i] != orig[i] {
			t.Fatalf("dry-only output changed at %d", i)
		}
	}
}

func TestChannelsDecorrelate(t *testing.T) {
	r := New(48000)
	r.SetWet(1)
	left, right := impulseResponse(r, 24000)

	same := true
	for i := range left {
		if left[i] != right[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("stereo spread should decorrelate the channels")
	}
}

func TestReset(t *testing.T) {
	r := New(48000)
	r.SetWet(1)
	a, _ := impulseResponse(r, 8192)
	r.Reset()
	b, _ := impulseResponse(r, 8192)
	for i := range a {
		if a[i] != b[i] {
			t.Fatal("Reset must restore a clean state")
		}
	}
}

func TestOutputBounded(t *testing.T) {
	r := New(48000)
	r.SetWet(0.3)
	r.SetDecay(3)
	n := 48000
	left := make([]float64, n)
	right := make([]float64, n)
	for i := range left {
		left[i] = 0.5 * math.Sin(2*math.Pi*220*float64(i)/48000)
		right[i] = left[i]
	}
	r.ProcessStereo(left, right)
	for i := range left {
		if math.Abs(left[i]) > 2.0 || math.Abs(right[i]) > 2.0 {
			t.Fatalf("output blew up at %d: %g", i, left[i])
		}
	}
}
