package master

import (
	log "github.com/sirupsen/logrus"

	"github.com/driftsignal/entrain/pkg/audio"
	"github.com/driftsignal/entrain/pkg/dsp"
)

// Options toggles the chain stages. Order is not configurable:
// normalization must run before widening (widening shifts perceived
// loudness) and the limiter is always last.
type Options struct {
	Normalize  bool
	TargetLUFS float64

	EQ bool

	Widen bool
	Width float64

	Limit     bool
	CeilingDB float64
}

// DefaultOptions runs the full chain at the production targets.
func DefaultOptions() Options {
	return Options{
		Normalize:  true,
		TargetLUFS: DefaultTargetLUFS,
		EQ:         true,
		Widen:      true,
		Width:      1.2,
		Limit:      true,
		CeilingDB:  DefaultCeilingDB,
	}
}

// Report summarizes what the chain did to the buffer.
type Report struct {
	InputLUFS  float64
	GainDB     float64
	OutputPeak float64
}

// Process runs the mastering chain in place and returns a report.
func Process(b *audio.Buffer, opts Options) Report {
	var rep Report
	rep.InputLUFS = silenceLoudness

	if opts.Normalize {
		rep.InputLUFS, rep.GainDB = Normalize(b, opts.TargetLUFS)
	}
	if opts.EQ {
		ToneEQ(b)
	}
	if opts.Widen {
		Widen(b, opts.Width)
	}
	if opts.Limit {
		before := TruePeak(b)
		ceiling := dsp.DBToLinear(opts.CeilingDB)
		NewLimiter(float64(b.Rate), opts.CeilingDB).Process(b)
		if before > ceiling {
			log.WithFields(log.Fields{
				"true_peak": dsp.LinearToDB(before),
				"ceiling":   opts.CeilingDB,
			}).Warn("true peak exceeded ceiling before limiting; revisit upstream gain")
		}
	}

	rep.OutputPeak = b.Peak()
	return rep
}
