package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftsignal/entrain/pkg/master"
)

const validManifest = `
session: evening-descent
voice: narration.wav
layers:
  binaural:
    enabled: true
    carrier: 200
    amp: 0.8
    schedule:
      - start: 0
        end: 300
        freq_start: 10
        freq_end: 6
      - start: 300
        end: 600
        freq_start: 6
        freq_end: 4
        curve: logarithmic
  pink_noise:
    enabled: true
    amp: 0.5
    stereo: true
mix:
  binaural: -26
master:
  target_lufs: -16
`

func TestParseValidManifest(t *testing.T) {
	m, err := Parse([]byte(validManifest), "test.yaml")
	require.NoError(t, err)

	assert.Equal(t, "evening-descent", m.Session)
	assert.Equal(t, DefaultSampleRate, m.SampleRate)
	assert.Equal(t, "narration.wav", m.VoicePath)
	assert.True(t, m.Layers.Binaural.Enabled)
	assert.Len(t, m.Layers.Binaural.Schedule, 2)
	assert.Equal(t, -26.0, m.Mix["binaural"])
	assert.False(t, m.FractionalTimes)

	opts := m.Master.Options()
	assert.Equal(t, -16.0, opts.TargetLUFS)
	assert.True(t, opts.Normalize)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	bad := "voice: v.wav\nvolume: 11\n"
	_, err := Parse([]byte(bad), "test.yaml")
	assert.Error(t, err, "typos must fail loudly")
}

func TestValidateRequiresVoice(t *testing.T) {
	m := &Manifest{}
	assert.ErrorIs(t, m.Validate(), ErrNoVoice)
}

func TestValidateAmplitudeRange(t *testing.T) {
	m := &Manifest{VoicePath: "v.wav"}
	m.Layers.Binaural.Enabled = true
	m.Layers.Binaural.Amp = 1.5
	m.Layers.Binaural.Schedule = []SectionEntry{{Start: 0, End: 10, FreqStart: 8, FreqEnd: 8}}
	assert.ErrorIs(t, m.Validate(), ErrBadAmplitude)
}

func TestValidateRequiresSchedule(t *testing.T) {
	m := &Manifest{VoicePath: "v.wav"}
	m.Layers.Isochronic.Enabled = true
	m.Layers.Isochronic.Amp = 0.5
	assert.ErrorIs(t, m.Validate(), ErrNoSchedule)
}

func TestValidatePulseShape(t *testing.T) {
	m := &Manifest{VoicePath: "v.wav"}
	m.Layers.Isochronic.Enabled = true
	m.Layers.Isochronic.Amp = 0.5
	m.Layers.Isochronic.Pulse = "triangle"
	m.Layers.Isochronic.Schedule = []SectionEntry{{Start: 0, End: 10, FreqStart: 4, FreqEnd: 4}}
	assert.Error(t, m.Validate())
}

func TestValidateSampleRateFloor(t *testing.T) {
	m := &Manifest{VoicePath: "v.wav", SampleRate: 4000}
	assert.Error(t, m.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.True(t, le.NotFound)
}

func TestLoadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validManifest), 0o644))
	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "evening-descent", m.Session)
}

func TestBuildSchedule(t *testing.T) {
	s, err := BuildSchedule([]SectionEntry{
		{Start: 0, End: 100, FreqStart: 10, FreqEnd: 5},
	})
	require.NoError(t, err)
	assert.Equal(t, 10.0, s.ValueAt(0))
	assert.Equal(t, 5.0, s.ValueAt(100))

	_, err = BuildSchedule([]SectionEntry{
		{Start: 0, End: 100, FreqStart: 10, FreqEnd: 5, Curve: "wavy"},
	})
	assert.Error(t, err)
}

func TestBursts(t *testing.T) {
	got := Bursts([]BurstEntry{{Time: 240, Duration: 8, Frequency: 40, BoostDB: 4}})
	require.Len(t, got, 1)
	assert.Equal(t, 240.0, got[0].Time)
	assert.Equal(t, 40.0, got[0].Freq)
}

func TestMasteringTriState(t *testing.T) {
	off := false
	m := Mastering{Widen: &off, CeilingDB: -2}
	opts := m.Options()

	assert.False(t, opts.Widen, "explicit false must stick")
	assert.True(t, opts.Normalize, "absent keys keep defaults")
	assert.Equal(t, -2.0, opts.CeilingDB)
	assert.Equal(t, master.DefaultTargetLUFS, opts.TargetLUFS)
}
