// Package schedule defines the section timeline consumed by every tone
// generator: ordered time intervals carrying a start/end parameter value
// and an interpolation law.
package schedule

import (
	"errors"
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
)

// Curve selects the interpolation law within a section.
type Curve int

const (
	// CurveLinear interpolates the parameter linearly across the section.
	CurveLinear Curve = iota
	// CurveLog interpolates geometrically; both endpoints must be
	// strictly positive or the section degrades to linear.
	CurveLog
)

// ParseCurve maps a manifest string to a Curve.
func ParseCurve(s string) (Curve, error) {
	switch s {
	case "", "linear":
		return CurveLinear, nil
	case "logarithmic", "log":
		return CurveLog, nil
	default:
		return CurveLinear, fmt.Errorf("unknown curve %q", s)
	}
}

// Section is one interval of the timeline. The parameter moves from
// From at Start to To at End under the section's curve.
type Section struct {
	Start float64
	End   float64
	From  float64
	To    float64
	Curve Curve
}

// Validation errors.
var (
	ErrEmpty          = errors.New("schedule: no sections")
	ErrInvalidSection = errors.New("schedule: invalid section")
	ErrOverlap        = errors.New("schedule: sections overlap or are out of order")
)

// Schedule is an ordered, non-overlapping sequence of sections. It is
// immutable once built; gaps between sections hold the previous value.
type Schedule struct {
	sections []Section
}

// New validates the sections and builds a schedule. Ordering and bounds
// problems are fatal; a logarithmic section with a non-positive endpoint
// is a common authoring mistake and degrades to linear with a warning.
func New(sections []Section) (*Schedule, error) {
	if len(sections) == 0 {
		return nil, ErrEmpty
	}
	out := make([]Section, len(sections))
	copy(out, sections)

	for i := range out {
		sec := &out[i]
		if sec.Start < 0 || sec.Start >= sec.End {
			return nil, fmt.Errorf("%w: section %d spans [%g, %g]", ErrInvalidSection, i, sec.Start, sec.End)
		}
		if i > 0 && sec.Start < out[i-1].End {
			return nil, fmt.Errorf("%w: section %d starts at %g before %g", ErrOverlap, i, sec.Start, out[i-1].End)
		}
		if sec.Curve == CurveLog && (sec.From <= 0 || sec.To <= 0) {
			log.WithFields(log.Fields{
				"section": i,
				"from":    sec.From,
				"to":      sec.To,
			}).Warn("logarithmic curve needs positive endpoints, using linear")
			sec.Curve = CurveLinear
		}
	}
	return &Schedule{sections: out}, nil
}

// Constant builds a single-section schedule holding one value for the
// given duration.
func Constant(value, duration float64) (*Schedule, error) {
	return New([]Section{{Start: 0, End: duration, From: value, To: value}})
}

// Sections returns a copy of the section list.
func (s *Schedule) Sections() []Section {
	out := make([]Section, len(s.sections))
	copy(out, s.sections)
	return out
}

// Span returns the first start and last end time.
func (s *Schedule) Span() (start, end float64) {
	return s.sections[0].Start, s.sections[len(s.sections)-1].End
}

// ValueAt evaluates the instantaneous parameter at time t. Before the
// first section it holds the first value; in gaps and past the end it
// holds the most recent section's end value.
func (s *Schedule) ValueAt(t float64) float64 {
	if t <= s.sections[0].Start {
		return s.sections[0].From
	}
	held := s.sections[0].From
	for i := range s.sections {
		sec := &s.sections[i]
		if t < sec.Start {
			return held
		}
		if t < sec.End {
			return sec.value(t)
		}
		held = sec.To
	}
	return held
}

// value interpolates within the section; t must be in [Start, End).
func (sec *Section) value(t float64) float64 {
	u := (t - sec.Start) / (sec.End - sec.Start)
	if sec.Curve == CurveLog {
		return sec.From * math.Pow(sec.To/sec.From, u)
	}
	return sec.From + (sec.To-sec.From)*u
}
