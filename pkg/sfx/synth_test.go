package sfx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChoosePatch(t *testing.T) {
	cases := []struct {
		description string
		want        string
	}{
		{"crystal bell", "chime"},
		{"rising sweep", "riser"},
		{"ocean waves breaking", "wash"},
		{"slow heartbeat", "pulse"},
		{"completely unknown description", "wash"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, choosePatch(tc.description), "description %q", tc.description)
	}
}

func TestSynthesizePatches(t *testing.T) {
	rate := 8000
	for _, desc := range []string{"chime", "riser", "wash", "pulse", "unknown"} {
		buf := Synthesize(desc, rate, 2)
		assert.Equal(t, 2*rate, buf.Frames(), "patch %q", desc)
		assert.Greater(t, buf.Peak(), 0.0, "patch %q is silent", desc)
		assert.LessOrEqual(t, buf.Peak(), 1.0, "patch %q clips", desc)
	}
}

func TestSynthesizeDefaultDuration(t *testing.T) {
	buf := Synthesize("chime", 8000, 0)
	assert.Equal(t, int(DefaultDuration*8000), buf.Frames())
}
