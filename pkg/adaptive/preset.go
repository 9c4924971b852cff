package adaptive

import "github.com/driftsignal/entrain/pkg/stage"

// preset is the per-stage parameter bundle consumed by the processor's
// sub-behaviors.
type preset struct {
	// Spectral motion: a slow peaking-EQ sweep that keeps the bed from
	// sounding static. Rate in Hz of the sweep LFO, span in octaves
	// around the center, gain of the moving band.
	sweepRate   float64
	sweepCenter float64
	sweepSpan   float64
	sweepGainDB float64

	// Masking correction depth at full voice level.
	maskDepthDB float64

	// Reverb steering.
	reverbDecay float64
	reverbWet   float64

	// Dynamic-range architecture.
	compThreshold float64
	compRatio     float64

	// Spatial animation.
	width    float64
	panRate  float64
	panDepth float64
}

// Stage presets: tight and close in induction, widest and loosest in
// journey, contracting again toward return.
var presets = map[stage.Stage]preset{
	stage.Induction: {
		sweepRate: 1.0 / 25.0, sweepCenter: 800, sweepSpan: 0.5, sweepGainDB: 1.5,
		maskDepthDB: 6.0,
		reverbDecay: 1.2, reverbWet: 0.15,
		compThreshold: -24.0, compRatio: 3.0,
		width: 1.0, panRate: 0.05, panDepth: 0.10,
	},
	stage.Deepening: {
		sweepRate: 1.0 / 35.0, sweepCenter: 600, sweepSpan: 0.8, sweepGainDB: 2.0,
		maskDepthDB: 6.0,
		reverbDecay: 3.5, reverbWet: 0.25,
		compThreshold: -26.0, compRatio: 2.5,
		width: 1.2, panRate: 0.04, panDepth: 0.18,
	},
	stage.Journey: {
		sweepRate: 1.0 / 50.0, sweepCenter: 500, sweepSpan: 1.2, sweepGainDB: 2.5,
		maskDepthDB: 5.0,
		reverbDecay: 4.5, reverbWet: 0.30,
		compThreshold: -30.0, compRatio: 1.5,
		width: 1.4, panRate: 0.03, panDepth: 0.25,
	},
	stage.Integration: {
		sweepRate: 1.0 / 35.0, sweepCenter: 700, sweepSpan: 0.8, sweepGainDB: 2.0,
		maskDepthDB: 6.0,
		reverbDecay: 2.5, reverbWet: 0.22,
		compThreshold: -28.0, compRatio: 2.0,
		width: 1.1, panRate: 0.04, panDepth: 0.15,
	},
	stage.Return: {
		sweepRate: 1.0 / 20.0, sweepCenter: 900, sweepSpan: 0.4, sweepGainDB: 1.0,
		maskDepthDB: 7.0,
		reverbDecay: 1.0, reverbWet: 0.12,
		compThreshold: -24.0, compRatio: 3.0,
		width: 0.9, panRate: 0.06, panDepth: 0.08,
	},
}
