package adaptive

import (
	"math"

	log "github.com/sirupsen/logrus"

	"github.com/driftsignal/entrain/pkg/audio"
	"github.com/driftsignal/entrain/pkg/dsp"
	"github.com/driftsignal/entrain/pkg/dsp/dynamics"
	"github.com/driftsignal/entrain/pkg/dsp/filter"
	"github.com/driftsignal/entrain/pkg/dsp/pan"
	"github.com/driftsignal/entrain/pkg/dsp/reverb"
	"github.com/driftsignal/entrain/pkg/stage"
)

// Processing granularity: parameters are re-evaluated per block, which
// is plenty for modulations with periods of tens of seconds.
const blockSeconds = 0.1

// staticMaskDB is the fallback dip applied when no voice envelope is
// available.
const staticMaskDB = 3.0

// Processor applies the stage- and voice-aware shaping to the summed
// entrainment bed. It never touches the voice itself.
type Processor struct {
	rate  int
	plan  *stage.Plan
	voice *VoiceProfile

	sweep   *filter.Biquad
	mask    *filter.Biquad
	comp    *dynamics.Compressor
	reverb  *reverb.Reverb
	current stage.Stage
	warned  bool
}

// New creates a processor. voice may be nil; masking then degrades to a
// fixed static dip.
func New(rate int, plan *stage.Plan, voice *VoiceProfile) *Processor {
	return &Processor{
		rate:    rate,
		plan:    plan,
		voice:   voice,
		sweep:   filter.NewBiquad(2),
		mask:    filter.NewBiquad(2),
		comp:    dynamics.NewCompressor(float64(rate)),
		reverb:  reverb.New(float64(rate)),
		current: stage.Induction,
	}
}

// Process shapes the bed in place, walking the session block by block.
// The stage machine only ever moves forward.
func (p *Processor) Process(bed *audio.Buffer) {
	if p.voice == nil || len(p.voice.Envelope) == 0 {
		if !p.warned {
			log.Warn("no voice envelope available, masking correction degraded to a static dip")
			p.warned = true
		}
	}

	blockFrames := int(blockSeconds * float64(p.rate))
	if blockFrames < 1 {
		blockFrames = 1
	}

	frames := bed.Frames()
	for start := 0; start < frames; start += blockFrames {
		end := start + blockFrames
		if end > frames {
			end = frames
		}
		mid := (float64(start) + float64(end)) / 2.0 / float64(p.rate)

		// Strictly forward: never fall back to an earlier stage even
		// if the plan is queried past its end.
		if s := p.plan.At(mid); s > p.current {
			p.current = s
		}
		pre := presets[p.current]

		p.configureBlock(pre, mid, start, end)
		p.processBlock(bed, pre, mid, start, end)
	}
}

// configureBlock updates the stage-dependent processors for one block.
func (p *Processor) configureBlock(pre preset, mid float64, start, end int) {
	rate := float64(p.rate)

	// Spectral motion: the peaking band's center sweeps around the
	// stage's center frequency on a slow sine.
	sweepPos := math.Sin(dsp.TwoPi * pre.sweepRate * mid)
	center := pre.sweepCenter * math.Pow(2.0, sweepPos*pre.sweepSpan)
	p.sweep.SetPeaking(rate, center, 1.2, pre.sweepGainDB)

	// Masking correction: dip the bed at the voice's formant band in
	// proportion to how loud the narration currently is.
	formant := DefaultFormantHz
	depth := staticMaskDB
	if p.voice != nil {
		formant = p.voice.FormantHz
		if len(p.voice.Envelope) > 0 {
			depth = pre.maskDepthDB * p.voice.envelopeMean(start, end)
		}
	}
	p.mask.SetPeaking(rate, formant, 2.0, -depth)

	p.comp.SetThreshold(pre.compThreshold)
	p.comp.SetRatio(pre.compRatio)
	p.reverb.SetDecay(pre.reverbDecay)
	p.reverb.SetWet(pre.reverbWet)
}

// processBlock runs the shaping order: dynamics, spectral motion,
// masking, reverb, then spatial animation.
func (p *Processor) processBlock(bed *audio.Buffer, pre preset, mid float64, start, end int) {
	left := bed.L[start:end]
	right := bed.R[start:end]

	p.comp.ProcessStereo(left, right)
	p.sweep.ProcessStereo(left, right)
	p.mask.ProcessStereo(left, right)
	p.reverb.ProcessStereo(left, right)

	pan.Width(left, right, pre.width)

	// Pan oscillation: constant-power balance drift around center,
	// compensated so a centered signal passes at unity.
	pos := pre.panDepth * math.Sin(dsp.TwoPi*pre.panRate*mid)
	gl, gr := pan.Position(pos)
	dsp.Scale(left, gl*math.Sqrt2)
	dsp.Scale(right, gr*math.Sqrt2)
}

// Stage returns the stage the processor last ran in.
func (p *Processor) Stage() stage.Stage {
	return p.current
}
