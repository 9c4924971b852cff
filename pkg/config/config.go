// Package config defines the typed session manifest. All keys are
// validated once at load time; generators never see raw manifest data.
package config

import (
	"errors"
	"fmt"

	"github.com/driftsignal/entrain/pkg/gen"
	"github.com/driftsignal/entrain/pkg/master"
	"github.com/driftsignal/entrain/pkg/schedule"
	"github.com/driftsignal/entrain/pkg/sfx"
)

// DefaultSampleRate is the project delivery rate.
const DefaultSampleRate = 48000

// Validation errors.
var (
	ErrNoVoice      = errors.New("config: voice path is required")
	ErrBadAmplitude = errors.New("config: amplitude must be in [0, 1]")
	ErrNoSchedule   = errors.New("config: enabled layer needs a schedule")
)

// SectionEntry is one schedule row as authored in the manifest.
type SectionEntry struct {
	Start     float64 `yaml:"start"`
	End       float64 `yaml:"end"`
	FreqStart float64 `yaml:"freq_start"`
	FreqEnd   float64 `yaml:"freq_end"`
	Curve     string  `yaml:"curve,omitempty"`
}

// BurstEntry declares one gamma burst.
type BurstEntry struct {
	Time      float64 `yaml:"time"`
	Duration  float64 `yaml:"duration"`
	Frequency float64 `yaml:"frequency"`
	BoostDB   float64 `yaml:"gain_boost_db"`
}

// Layer is the common per-layer configuration.
type Layer struct {
	Enabled  bool           `yaml:"enabled"`
	Carrier  float64        `yaml:"carrier"`
	Amp      float64        `yaml:"amp"`
	FadeIn   float64        `yaml:"fade_in,omitempty"`
	FadeOut  float64        `yaml:"fade_out,omitempty"`
	Schedule []SectionEntry `yaml:"schedule"`
}

// Layers collects every entrainment layer.
type Layers struct {
	Binaural struct {
		Layer     `yaml:",inline"`
		Harmonics bool           `yaml:"harmonics,omitempty"`
		Drift     []SectionEntry `yaml:"carrier_drift,omitempty"`
		Bursts    []BurstEntry   `yaml:"gamma_bursts,omitempty"`
	} `yaml:"binaural"`

	Monaural struct {
		Layer `yaml:",inline"`
	} `yaml:"monaural"`

	Isochronic struct {
		Layer `yaml:",inline"`
		Pulse string `yaml:"pulse,omitempty"` // sine | square
	} `yaml:"isochronic"`

	AMTones struct {
		Layer `yaml:",inline"`
		Depth float64 `yaml:"depth,omitempty"`
	} `yaml:"am_tones"`

	Panning struct {
		Layer   `yaml:",inline"`
		PanRate float64 `yaml:"pan_rate,omitempty"`
	} `yaml:"panning"`

	PinkNoise struct {
		Enabled bool    `yaml:"enabled"`
		Amp     float64 `yaml:"amp"`
		Seed    int64   `yaml:"seed,omitempty"`
		Stereo  bool    `yaml:"stereo"`
	} `yaml:"pink_noise"`

	Signature struct {
		Enabled bool    `yaml:"enabled"`
		Amp     float64 `yaml:"amp"`
	} `yaml:"signature"`
}

// Mastering mirrors master.Options with tri-state toggles so an absent
// key means "use the default", not "off".
type Mastering struct {
	Normalize  *bool   `yaml:"normalize,omitempty"`
	TargetLUFS float64 `yaml:"target_lufs,omitempty"`
	EQ         *bool   `yaml:"eq,omitempty"`
	Widen      *bool   `yaml:"widen,omitempty"`
	Width      float64 `yaml:"width,omitempty"`
	Limit      *bool   `yaml:"limit,omitempty"`
	CeilingDB  float64 `yaml:"ceiling_db,omitempty"`
}

// Options resolves the manifest mastering block against the defaults.
func (m Mastering) Options() master.Options {
	opts := master.DefaultOptions()
	if m.Normalize != nil {
		opts.Normalize = *m.Normalize
	}
	if m.TargetLUFS != 0 {
		opts.TargetLUFS = m.TargetLUFS
	}
	if m.EQ != nil {
		opts.EQ = *m.EQ
	}
	if m.Widen != nil {
		opts.Widen = *m.Widen
	}
	if m.Width != 0 {
		opts.Width = m.Width
	}
	if m.Limit != nil {
		opts.Limit = *m.Limit
	}
	if m.CeilingDB != 0 {
		opts.CeilingDB = m.CeilingDB
	}
	return opts
}

// SFX configures the effect timeline.
type SFX struct {
	Script     string           `yaml:"script,omitempty"`      // marker-annotated narration
	ScriptPath string           `yaml:"script_path,omitempty"` // or a file holding it
	Alignment  []sfx.AlignPoint `yaml:"alignment,omitempty"`
	LibraryDir string           `yaml:"library_dir,omitempty"`
	Threshold  float64          `yaml:"match_threshold,omitempty"`
	Persist    *bool            `yaml:"persist,omitempty"`
}

// Manifest is the full session description.
type Manifest struct {
	Session      string             `yaml:"session"`
	Preset       string             `yaml:"preset,omitempty"`
	SampleRate   int                `yaml:"sample_rate,omitempty"`
	VoicePath    string             `yaml:"voice"`
	StageMarkers []float64          `yaml:"stage_markers,omitempty"`
	Layers       Layers             `yaml:"layers"`
	Mix          map[string]float64 `yaml:"mix,omitempty"`
	Master       Mastering          `yaml:"master,omitempty"`
	SFX          SFX                `yaml:"sfx,omitempty"`

	// FractionalTimes marks schedule/burst/marker times as fractions of
	// the session length, to be scaled by the voice duration at render
	// time. Set when a preset supplies the layers.
	FractionalTimes bool `yaml:"-"`
}

// Validate checks the manifest and applies defaults. It is the single
// gate between authored YAML and the engine.
func (m *Manifest) Validate() error {
	if m.SampleRate == 0 {
		m.SampleRate = DefaultSampleRate
	}
	if m.SampleRate < 8000 {
		return fmt.Errorf("config: sample rate %d is too low", m.SampleRate)
	}
	if m.VoicePath == "" {
		return ErrNoVoice
	}

	check := func(name string, enabled bool, amp float64, entries []SectionEntry) error {
		if !enabled {
			return nil
		}
		if amp < 0 || amp > 1 {
			return fmt.Errorf("%w: layer %s has amp %g", ErrBadAmplitude, name, amp)
		}
		if len(entries) == 0 {
			return fmt.Errorf("%w: %s", ErrNoSchedule, name)
		}
		if _, err := BuildSchedule(entries); err != nil {
			return fmt.Errorf("config: layer %s: %w", name, err)
		}
		return nil
	}

	l := &m.Layers
	if err := check("binaural", l.Binaural.Enabled, l.Binaural.Amp, l.Binaural.Schedule); err != nil {
		return err
	}
	if len(l.Binaural.Drift) > 0 {
		if _, err := BuildSchedule(l.Binaural.Drift); err != nil {
			return fmt.Errorf("config: binaural carrier drift: %w", err)
		}
	}
	if err := check("monaural", l.Monaural.Enabled, l.Monaural.Amp, l.Monaural.Schedule); err != nil {
		return err
	}
	if err := check("isochronic", l.Isochronic.Enabled, l.Isochronic.Amp, l.Isochronic.Schedule); err != nil {
		return err
	}
	if p := l.Isochronic.Pulse; p != "" && p != "sine" && p != "square" {
		return fmt.Errorf("config: isochronic pulse must be sine or square, got %q", p)
	}
	if err := check("am_tones", l.AMTones.Enabled, l.AMTones.Amp, l.AMTones.Schedule); err != nil {
		return err
	}
	if err := check("panning", l.Panning.Enabled, l.Panning.Amp, l.Panning.Schedule); err != nil {
		return err
	}
	if l.PinkNoise.Enabled && (l.PinkNoise.Amp < 0 || l.PinkNoise.Amp > 1) {
		return fmt.Errorf("%w: layer pink_noise has amp %g", ErrBadAmplitude, l.PinkNoise.Amp)
	}
	if l.Signature.Enabled && (l.Signature.Amp < 0 || l.Signature.Amp > 1) {
		return fmt.Errorf("%w: layer signature has amp %g", ErrBadAmplitude, l.Signature.Amp)
	}
	return nil
}

// BuildSchedule converts manifest entries into a validated schedule.
func BuildSchedule(entries []SectionEntry) (*schedule.Schedule, error) {
	sections := make([]schedule.Section, 0, len(entries))
	for i, e := range entries {
		curve, err := schedule.ParseCurve(e.Curve)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		sections = append(sections, schedule.Section{
			Start: e.Start,
			End:   e.End,
			From:  e.FreqStart,
			To:    e.FreqEnd,
			Curve: curve,
		})
	}
	return schedule.New(sections)
}

// Bursts converts manifest burst entries to generator bursts.
func Bursts(entries []BurstEntry) []gen.GammaBurst {
	out := make([]gen.GammaBurst, 0, len(entries))
	for _, e := range entries {
		out = append(out, gen.GammaBurst{
			Time:     e.Time,
			Duration: e.Duration,
			Freq:     e.Frequency,
			BoostDB:  e.BoostDB,
		})
	}
	return out
}
