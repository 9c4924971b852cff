package schedule

import (
	"errors"
	"math"
	"testing"
)

func TestNewValidation(t *testing.T) {
	cases := []struct {
		name     string
		sections []Section
		wantErr  error
	}{
		{"empty", nil, ErrEmpty},
		{"negative start", []Section{{Start: -1, End: 10}}, ErrInvalidSection},
		{"zero span", []Section{{Start: 5, End: 5}}, ErrInvalidSection},
		{"inverted", []Section{{Start: 10, End: 5}}, ErrInvalidSection},
		{"overlap", []Section{
			{Start: 0, End: 60, From: 10, To: 6},
			{Start: 30, End: 90, From: 6, To: 4},
		}, ErrOverlap},
		{"ok with gap", []Section{
			{Start: 0, End: 60, From: 10, To: 6},
			{Start: 120, End: 180, From: 6, To: 4},
		}, nil},
	}

	for _, tc := range cases {
		_, err := New(tc.sections)
		if tc.wantErr == nil {
			if err != nil {
				t.Errorf("%s: unexpected error %v", tc.name, err)
			}
			continue
		}
		if !errors.Is(err, tc.wantErr) {
			t.Errorf("%s: got %v, want %v", tc.name, err, tc.wantErr)
		}
	}
}

func TestValueAtLinear(t *testing.T) {
	s, err := New([]Section{
		{Start: 0, End: 100, From: 10, To: 6},
		{Start: 200, End: 300, From: 6, To: 4},
	})
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		t    float64
		want float64
	}{
		{-5, 10},  // before the timeline holds the first value
		{0, 10},   // at the first section start
		{50, 8},   // midpoint of the first ramp
		{150, 6},  // gap holds the previous end value
		{250, 5},  // midpoint of the second ramp
		{1000, 4}, // past the end holds the final value
	}
	for _, tc := range cases {
		got := s.ValueAt(tc.t)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("ValueAt(%g) = %g, want %g", tc.t, got, tc.want)
		}
	}
}

func TestValueAtLog(t *testing.T) {
	s, err := New([]Section{{Start: 0, End: 100, From: 10, To: 2.5, Curve: CurveLog}})
	if err != nil {
		t.Fatal(err)
	}

	// Geometric interpolation: the mid value is the geometric mean.
	got := s.ValueAt(50)
	want := math.Sqrt(10 * 2.5)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("mid value = %g, want %g", got, want)
	}
}

func TestLogDegradesToLinear(t *testing.T) {
	s, err := New([]Section{{Start: 0, End: 10, From: 0, To: 8, Curve: CurveLog}})
	if err != nil {
		t.Fatal(err)
	}
	if s.sections[0].Curve != CurveLinear {
		t.Error("non-positive endpoint should degrade the curve to linear")
	}
	if got := s.ValueAt(5); math.Abs(got-4) > 1e-9 {
		t.Errorf("degraded section midpoint = %g, want 4", got)
	}
}

func TestConstant(t *testing.T) {
	s, err := Constant(7.83, 600)
	if err != nil {
		t.Fatal(err)
	}
	for _, at := range []float64{0, 300, 599.9, 600, 10000} {
		if got := s.ValueAt(at); got != 7.83 {
			t.Errorf("ValueAt(%g) = %g, want 7.83", at, got)
		}
	}
	start, end := s.Span()
	if start != 0 || end != 600 {
		t.Errorf("Span() = (%g, %g), want (0, 600)", start, end)
	}
}

func TestParseCurve(t *testing.T) {
	cases := []struct {
		in      string
		want    Curve
		wantErr bool
	}{
		{"", CurveLinear, false},
		{"linear", CurveLinear, false},
		{"log", CurveLog, false},
		{"logarithmic", CurveLog, false},
		{"exponential", CurveLinear, true},
	}
	for _, tc := range cases {
		got, err := ParseCurve(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseCurve(%q) error = %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseCurve(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestSectionsReturnsCopy(t *testing.T) {
	s, err := Constant(1, 10)
	if err != nil {
		t.Fatal(err)
	}
	s.Sections()[0].From = 99
	if s.ValueAt(0) != 1 {
		t.Error("mutating the returned slice must not affect the schedule")
	}
}
