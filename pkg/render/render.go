// Package render orchestrates a full session render: voice in, stems
// out, one mastered deliverable.
package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/driftsignal/entrain/pkg/adaptive"
	"github.com/driftsignal/entrain/pkg/audio"
	"github.com/driftsignal/entrain/pkg/config"
	"github.com/driftsignal/entrain/pkg/gen"
	"github.com/driftsignal/entrain/pkg/master"
	"github.com/driftsignal/entrain/pkg/mix"
	"github.com/driftsignal/entrain/pkg/schedule"
	"github.com/driftsignal/entrain/pkg/sfx"
	"github.com/driftsignal/entrain/pkg/stage"
)

// bedStem is the internal name for the pre-mixed entrainment bed.
const bedStem = "bed"

// Result holds everything a render produces.
type Result struct {
	Duration float64
	Stems    mix.StemSet
	Master   *audio.Buffer
	Report   master.Report
}

// Engine renders one session from a validated manifest.
type Engine struct {
	m *config.Manifest

	// OnPhase, when set, is called as each pipeline phase begins.
	OnPhase func(name string)
}

// New creates an engine for the manifest.
func New(m *config.Manifest) *Engine {
	return &Engine{m: m}
}

func (e *Engine) phase(name string) {
	if e.OnPhase != nil {
		e.OnPhase(name)
	}
	log.WithField("phase", name).Info("render phase")
}

// Render runs the full pipeline. Cancelling the context aborts between
// phases and discards in-flight buffers.
func (e *Engine) Render(ctx context.Context) (*Result, error) {
	m := e.m
	rate := m.SampleRate

	e.phase("voice")
	voice, err := audio.LoadWAV(m.VoicePath, rate)
	if err != nil {
		return nil, err
	}
	duration := voice.Duration()
	if duration <= 0 {
		return nil, fmt.Errorf("render: voice %s is empty", m.VoicePath)
	}

	// Preset-supplied timelines are unit fractions of the session.
	scale := 1.0
	if m.FractionalTimes {
		scale = duration
	}

	plan, err := e.stagePlan(duration, scale)
	if err != nil {
		return nil, err
	}

	e.phase("generators")
	stems, err := e.renderLayers(ctx, duration, scale)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.phase("sfx")
	sfxStem, err := e.renderSFX(duration)
	if err != nil {
		return nil, err
	}
	if sfxStem != nil {
		stems[mix.StemSFX] = sfxStem
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	gains := e.mixPlan()

	e.phase("adaptive")
	bed, err := mix.Mix(stems, gains, rate)
	if err != nil {
		return nil, err
	}
	proc := adaptive.New(rate, plan, adaptive.AnalyzeVoice(voice))
	proc.Process(bed)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.phase("mix")
	final, err := mix.Mix(mix.StemSet{
		mix.StemVoice: voice,
		bedStem:       bed,
	}, mix.Plan{
		mix.StemVoice: gains[mix.StemVoice],
		bedStem:       0, // layer gains already applied in the bed
	}, rate)
	if err != nil {
		return nil, err
	}

	e.phase("master")
	report := master.Process(final, m.Master.Options())

	stems[mix.StemVoice] = voice
	return &Result{
		Duration: duration,
		Stems:    stems,
		Master:   final,
		Report:   report,
	}, nil
}

// stagePlan builds the stage plan from explicit markers when present,
// proportional breakpoints otherwise.
func (e *Engine) stagePlan(duration, scale float64) (*stage.Plan, error) {
	if len(e.m.StageMarkers) > 0 {
		markers := make([]float64, len(e.m.StageMarkers))
		for i, t := range e.m.StageMarkers {
			markers[i] = t * scale
		}
		return stage.NewPlanWithMarkers(duration, markers)
	}
	return stage.NewPlan(duration)
}

// renderLayers fans the enabled tone generators out across workers.
// Each generator reads only the immutable schedules and writes its own
// stem, so the only synchronization is the final join.
func (e *Engine) renderLayers(ctx context.Context, duration, scale float64) (mix.StemSet, error) {
	l := &e.m.Layers
	rate := e.m.SampleRate

	stems := make(mix.StemSet)
	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)

	add := func(name string, f func() (*audio.Buffer, error)) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			buf, err := f()
			if err != nil {
				return fmt.Errorf("layer %s: %w", name, err)
			}
			mu.Lock()
			stems[name] = buf
			mu.Unlock()
			log.WithFields(log.Fields{"layer": name, "frames": buf.Frames()}).Debug("layer rendered")
			return nil
		})
	}

	params := func(c config.Layer) gen.Params {
		return gen.Params{
			Rate:     rate,
			Duration: duration,
			Carrier:  c.Carrier,
			Amp:      c.Amp,
			FadeIn:   c.FadeIn,
			FadeOut:  c.FadeOut,
		}
	}

	if l.Binaural.Enabled {
		add(mix.StemBinaural, func() (*audio.Buffer, error) {
			beats, err := e.buildSchedule(l.Binaural.Schedule, scale)
			if err != nil {
				return nil, err
			}
			opts := gen.BinauralOptions{Harmonics: l.Binaural.Harmonics}
			if len(l.Binaural.Drift) > 0 {
				if opts.Drift, err = e.buildSchedule(l.Binaural.Drift, scale); err != nil {
					return nil, err
				}
			}
			opts.Bursts = config.Bursts(l.Binaural.Bursts)
			if e.m.FractionalTimes {
				for i := range opts.Bursts {
					opts.Bursts[i].Time *= scale
				}
			}
			return gen.Binaural(beats, params(l.Binaural.Layer), opts)
		})
	}

	if l.Monaural.Enabled {
		add(mix.StemMonaural, func() (*audio.Buffer, error) {
			beats, err := e.buildSchedule(l.Monaural.Schedule, scale)
			if err != nil {
				return nil, err
			}
			return gen.Monaural(beats, params(l.Monaural.Layer))
		})
	}

	if l.Isochronic.Enabled {
		add(mix.StemIsochronic, func() (*audio.Buffer, error) {
			beats, err := e.buildSchedule(l.Isochronic.Schedule, scale)
			if err != nil {
				return nil, err
			}
			shape := gen.PulseSine
			if l.Isochronic.Pulse == "square" {
				shape = gen.PulseSquare
			}
			return gen.Isochronic(beats, params(l.Isochronic.Layer), shape)
		})
	}

	if l.AMTones.Enabled {
		add(mix.StemAMTones, func() (*audio.Buffer, error) {
			mods, err := e.buildSchedule(l.AMTones.Schedule, scale)
			if err != nil {
				return nil, err
			}
			depth := l.AMTones.Depth
			if depth == 0 {
				depth = 0.8
			}
			return gen.AMTone(mods, params(l.AMTones.Layer), depth)
		})
	}

	if l.Panning.Enabled {
		add(mix.StemPanning, func() (*audio.Buffer, error) {
			beats, err := e.buildSchedule(l.Panning.Schedule, scale)
			if err != nil {
				return nil, err
			}
			return gen.PanningBeat(beats, params(l.Panning.Layer), l.Panning.PanRate)
		})
	}

	if l.PinkNoise.Enabled {
		add(mix.StemPinkNoise, func() (*audio.Buffer, error) {
			seed := l.PinkNoise.Seed
			if seed == 0 {
				seed = 1
			}
			return gen.PinkNoise(gen.Params{
				Rate:     rate,
				Duration: duration,
				Amp:      l.PinkNoise.Amp,
			}, seed, l.PinkNoise.Stereo)
		})
	}

	if l.Signature.Enabled {
		add(mix.StemSignature, func() (*audio.Buffer, error) {
			return signatureStem(rate, duration, l.Signature.Amp), nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stems, nil
}

// signatureStem places the fixed motif at the start and end of the
// session.
func signatureStem(rate int, duration float64, amp float64) *audio.Buffer {
	stem := audio.NewSeconds(rate, duration)
	motif := gen.Signature(rate, amp)
	stem.AddAt(motif, 0)
	tail := stem.Frames() - motif.Frames()
	if tail > 0 {
		stem.AddAt(motif, tail)
	}
	return stem
}

// buildSchedule converts manifest entries, scaling unit times for
// preset-derived manifests.
func (e *Engine) buildSchedule(entries []config.SectionEntry, scale float64) (*schedule.Schedule, error) {
	if !e.m.FractionalTimes {
		return config.BuildSchedule(entries)
	}
	scaled := make([]config.SectionEntry, len(entries))
	copy(scaled, entries)
	for i := range scaled {
		scaled[i].Start *= scale
		scaled[i].End *= scale
	}
	return config.BuildSchedule(scaled)
}

// renderSFX parses the narration markup and renders the effect stem.
// Returns nil when the manifest has no script configured.
func (e *Engine) renderSFX(duration float64) (*audio.Buffer, error) {
	c := e.m.SFX
	script := c.Script
	if script == "" && c.ScriptPath != "" {
		data, err := os.ReadFile(c.ScriptPath)
		if err != nil {
			return nil, fmt.Errorf("render: sfx script: %w", err)
		}
		script = string(data)
	}
	if script == "" {
		return nil, nil
	}

	markers := sfx.ParseMarkers(script)
	if len(markers) == 0 {
		return nil, nil
	}
	sfx.Resolve(markers, sfx.Alignment(c.Alignment))

	var lib *sfx.Library
	if c.LibraryDir != "" {
		var err error
		lib, err = sfx.OpenLibrary(c.LibraryDir, c.Threshold)
		if err != nil {
			return nil, err
		}
	}

	tl := sfx.NewTimeline(lib, e.m.SampleRate)
	if c.Persist != nil {
		tl.Persist = *c.Persist
	}
	return tl.Render(markers, duration), nil
}

// mixPlan resolves the manifest's gain overrides over the default plan.
func (e *Engine) mixPlan() mix.Plan {
	plan := mix.DefaultPlan()
	for name, db := range e.m.Mix {
		plan[name] = db
	}
	return plan
}

// WriteOutputs writes one WAV per stem plus the mastered deliverable
// into dir. File handles are scoped inside SaveWAV on every path.
func (r *Result) WriteOutputs(dir, session string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("render: output dir %s: %w", dir, err)
	}
	for name, stem := range r.Stems {
		path := filepath.Join(dir, fmt.Sprintf("%s-%s.wav", session, name))
		if err := audio.SaveWAV(path, stem); err != nil {
			return err
		}
	}
	return audio.SaveWAV(filepath.Join(dir, session+"-master.wav"), r.Master)
}
