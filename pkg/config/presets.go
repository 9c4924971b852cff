package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Preset is a named parameter bundle: layer settings, burst timing and
// stage markers authored against a unit timeline. Section times, burst
// times and stage markers are fractions of the session length and get
// scaled to the voice duration at render time.
type Preset struct {
	Name         string             `yaml:"name"`
	Description  string             `yaml:"description,omitempty"`
	Layers       Layers             `yaml:"layers"`
	Mix          map[string]float64 `yaml:"mix,omitempty"`
	StageMarkers []float64          `yaml:"stage_markers,omitempty"`
}

var presetRegistry = map[string]Preset{}

// RegisterPreset adds or replaces a named preset.
func RegisterPreset(p Preset) {
	presetRegistry[p.Name] = p
}

// PresetNames lists the registered presets, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presetRegistry))
	for n := range presetRegistry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// LoadPresetFile registers every preset in a YAML file, overriding
// builtins of the same name.
func LoadPresetFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("presets %s: %w", path, err)
	}
	var list []Preset
	if err := yaml.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("presets %s: %w", path, err)
	}
	for _, p := range list {
		if p.Name == "" {
			return fmt.Errorf("presets %s: preset without a name", path)
		}
		RegisterPreset(p)
	}
	return nil
}

// ApplyPreset fills the manifest's layers, mix and stage markers from a
// registered preset. Manifest-level settings win over the preset.
func ApplyPreset(m *Manifest, name string) error {
	p, ok := presetRegistry[name]
	if !ok {
		return fmt.Errorf("config: unknown preset %q (have %v)", name, PresetNames())
	}

	if !anyLayerEnabled(&m.Layers) {
		m.Layers = p.Layers
		m.FractionalTimes = true
	}
	if m.Mix == nil && p.Mix != nil {
		m.Mix = p.Mix
	}
	if m.StageMarkers == nil && p.StageMarkers != nil {
		m.StageMarkers = p.StageMarkers
	}
	return nil
}

func anyLayerEnabled(l *Layers) bool {
	return l.Binaural.Enabled || l.Monaural.Enabled || l.Isochronic.Enabled ||
		l.AMTones.Enabled || l.Panning.Enabled || l.PinkNoise.Enabled ||
		l.Signature.Enabled
}

// Builtin presets. Times are unit-timeline fractions.
func init() {
	deepTheta := Preset{
		Name:        "deep-theta",
		Description: "theta descent for deep trance work",
	}
	deepTheta.Layers.Binaural.Enabled = true
	deepTheta.Layers.Binaural.Carrier = 200
	deepTheta.Layers.Binaural.Amp = 0.8
	deepTheta.Layers.Binaural.Harmonics = true
	deepTheta.Layers.Binaural.Schedule = []SectionEntry{
		{Start: 0.0, End: 0.15, FreqStart: 10, FreqEnd: 7},
		{Start: 0.15, End: 0.35, FreqStart: 7, FreqEnd: 4.5, Curve: "logarithmic"},
		{Start: 0.35, End: 0.75, FreqStart: 4.5, FreqEnd: 4.5},
		{Start: 0.75, End: 1.0, FreqStart: 4.5, FreqEnd: 9},
	}
	deepTheta.Layers.PinkNoise.Enabled = true
	deepTheta.Layers.PinkNoise.Amp = 0.5
	deepTheta.Layers.PinkNoise.Stereo = true
	deepTheta.Layers.Signature.Enabled = true
	deepTheta.Layers.Signature.Amp = 0.6
	RegisterPreset(deepTheta)

	gammaInsight := Preset{
		Name:        "gamma-insight",
		Description: "theta base with punctuated gamma bursts",
	}
	gammaInsight.Layers.Binaural.Enabled = true
	gammaInsight.Layers.Binaural.Carrier = 220
	gammaInsight.Layers.Binaural.Amp = 0.8
	gammaInsight.Layers.Binaural.Schedule = []SectionEntry{
		{Start: 0.0, End: 0.35, FreqStart: 9, FreqEnd: 6},
		{Start: 0.35, End: 1.0, FreqStart: 6, FreqEnd: 6},
	}
	gammaInsight.Layers.Binaural.Bursts = []BurstEntry{
		{Time: 0.40, Duration: 8, Frequency: 40, BoostDB: 4},
		{Time: 0.55, Duration: 8, Frequency: 40, BoostDB: 4},
		{Time: 0.70, Duration: 10, Frequency: 60, BoostDB: 5},
	}
	gammaInsight.Layers.AMTones.Enabled = true
	gammaInsight.Layers.AMTones.Carrier = 400
	gammaInsight.Layers.AMTones.Amp = 0.6
	gammaInsight.Layers.AMTones.Depth = 0.8
	gammaInsight.Layers.AMTones.Schedule = []SectionEntry{
		{Start: 0.0, End: 1.0, FreqStart: 40, FreqEnd: 40},
	}
	gammaInsight.Layers.PinkNoise.Enabled = true
	gammaInsight.Layers.PinkNoise.Amp = 0.4
	gammaInsight.Layers.PinkNoise.Stereo = true
	RegisterPreset(gammaInsight)

	deltaDrift := Preset{
		Name:        "delta-drift",
		Description: "slow descent into delta for sleep sessions",
	}
	deltaDrift.Layers.Monaural.Enabled = true
	deltaDrift.Layers.Monaural.Carrier = 150
	deltaDrift.Layers.Monaural.Amp = 0.7
	deltaDrift.Layers.Monaural.Schedule = []SectionEntry{
		{Start: 0.0, End: 0.25, FreqStart: 8, FreqEnd: 4, Curve: "logarithmic"},
		{Start: 0.25, End: 0.60, FreqStart: 4, FreqEnd: 1.5, Curve: "logarithmic"},
		{Start: 0.60, End: 1.0, FreqStart: 1.5, FreqEnd: 1.5},
	}
	deltaDrift.Layers.Isochronic.Enabled = true
	deltaDrift.Layers.Isochronic.Carrier = 120
	deltaDrift.Layers.Isochronic.Amp = 0.5
	deltaDrift.Layers.Isochronic.Pulse = "sine"
	deltaDrift.Layers.Isochronic.Schedule = []SectionEntry{
		{Start: 0.0, End: 1.0, FreqStart: 3, FreqEnd: 1.5},
	}
	deltaDrift.Layers.PinkNoise.Enabled = true
	deltaDrift.Layers.PinkNoise.Amp = 0.6
	deltaDrift.Layers.PinkNoise.Stereo = true
	RegisterPreset(deltaDrift)
}
