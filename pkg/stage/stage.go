// Package stage models the five-phase arc of a session. The adaptive
// processor keys all of its parameter presets off the current stage.
package stage

import (
	"errors"
	"fmt"
	"sort"
)

// Stage is one phase of the session arc. Progression is strictly
// forward; Return is terminal.
type Stage int

const (
	// Induction is the opening settling-in phase.
	Induction Stage = iota
	// Deepening carries the descent toward the session core.
	Deepening
	// Journey is the core of the session.
	Journey
	// Integration consolidates before the ascent.
	Integration
	// Return re-orients toward ordinary wakefulness.
	Return
)

// Count is the number of stages in the arc.
const Count = 5

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case Induction:
		return "induction"
	case Deepening:
		return "deepening"
	case Journey:
		return "journey"
	case Integration:
		return "integration"
	case Return:
		return "return"
	default:
		return "unknown"
	}
}

// Default stage proportions of the total session duration.
var fractions = [Count]float64{0.15, 0.20, 0.40, 0.15, 0.10}

// Plan errors.
var (
	ErrNonPositiveDuration = errors.New("stage: total duration must be positive")
	ErrBadMarkers          = errors.New("stage: markers must be 4 ascending times inside the session")
)

// Plan maps elapsed time to a stage. Boundaries come from fixed
// proportions of the total duration, or from explicit markers.
type Plan struct {
	total float64
	// ends[i] is the end time of stage i; ends[Count-1] == total.
	ends [Count]float64
}

// NewPlan builds a plan from proportional breakpoints.
func NewPlan(total float64) (*Plan, error) {
	if total <= 0 {
		return nil, ErrNonPositiveDuration
	}
	p := &Plan{total: total}
	acc := 0.0
	for i, f := range fractions {
		acc += f * total
		p.ends[i] = acc
	}
	p.ends[Count-1] = total
	return p, nil
}

// NewPlanWithMarkers builds a plan from four explicit stage-transition
// times. Markers must be strictly ascending and inside (0, total).
func NewPlanWithMarkers(total float64, markers []float64) (*Plan, error) {
	if total <= 0 {
		return nil, ErrNonPositiveDuration
	}
	if len(markers) != Count-1 || !sort.Float64sAreSorted(markers) {
		return nil, fmt.Errorf("%w: got %v", ErrBadMarkers, markers)
	}
	for i, m := range markers {
		if m <= 0 || m >= total || (i > 0 && m == markers[i-1]) {
			return nil, fmt.Errorf("%w: got %v", ErrBadMarkers, markers)
		}
	}
	p := &Plan{total: total}
	copy(p.ends[:], markers)
	p.ends[Count-1] = total
	return p, nil
}

// Total returns the session duration covered by the plan.
func (p *Plan) Total() float64 {
	return p.total
}

// At returns the stage active at elapsed time t. Times past the end stay
// in Return.
func (p *Plan) At(t float64) Stage {
	for i := 0; i < Count-1; i++ {
		if t < p.ends[i] {
			return Stage(i)
		}
	}
	return Return
}

// Bounds returns the start and end time of a stage.
func (p *Plan) Bounds(s Stage) (start, end float64) {
	if s > 0 {
		start = p.ends[s-1]
	}
	return start, p.ends[s]
}

// Durations returns the per-stage durations; they always sum to Total.
func (p *Plan) Durations() [Count]float64 {
	var out [Count]float64
	prev := 0.0
	for i, e := range p.ends {
		out[i] = e - prev
		prev = e
	}
	return out
}

// Progress returns how far through stage s the time t is, in [0, 1].
func (p *Plan) Progress(t float64, s Stage) float64 {
	start, end := p.Bounds(s)
	if end <= start {
		return 0
	}
	u := (t - start) / (end - start)
	if u < 0 {
		return 0
	}
	if u > 1 {
		return 1
	}
	return u
}
