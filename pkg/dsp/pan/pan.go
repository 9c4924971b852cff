// Package pan provides constant-power panning and mid/side width control.
package pan

import "math"

// ConstantPower returns left/right gains for a pan angle theta in
// [0, Pi/2]: 0 is hard left, Pi/4 center, Pi/2 hard right. Total power
// stays constant across the sweep.
func ConstantPower(theta float64) (left, right float64) {
	if theta < 0 {
		theta = 0
	} else if theta > math.Pi/2 {
		theta = math.Pi / 2
	}
	return math.Cos(theta), math.Sin(theta)
}

// Position converts a pan position in [-1, 1] (left..right) to the
// constant-power gain pair.
func Position(pos float64) (left, right float64) {
	if pos < -1 {
		pos = -1
	} else if pos > 1 {
		pos = 1
	}
	return ConstantPower((pos + 1.0) * math.Pi / 4.0)
}

// Width scales the side signal of a stereo pair in place.
// 0 collapses to mono, 1 leaves the image untouched, >1 widens.
func Width(left, right []float64, width float64) {
	n := len(left)
	if len(right) < n {
		n = len(right)
	}
	for i := 0; i < n; i++ {
		mid := (left[i] + right[i]) * 0.5
		side := (left[i] - right[i]) * 0.5 * width
		left[i] = mid + side
		right[i] = mid - side
	}
}
