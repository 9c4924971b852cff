// Package noise provides the pink noise source behind the ambient bed.
package noise

import "math/rand"

const rows = 16

// Pink generates 1/f noise with the Voss-McCartney algorithm: a bank of
// independently held random rows, each refreshed at a binary-subdivided
// rate, summed with a fresh white sample.
type Pink struct {
	rng *rand.Rand

	values [rows]float64
	sum    float64
	index  int
	scale  float64
}

// NewPink creates a pink noise generator with the given seed so renders
// are reproducible.
func NewPink(seed int64) *Pink {
	p := &Pink{
		rng:   rand.New(rand.NewSource(seed)),
		scale: 1.0 / float64(rows+1),
	}
	for i := range p.values {
		p.values[i] = p.white()
		p.sum += p.values[i]
	}
	return p
}

func (p *Pink) white() float64 {
	return p.rng.Float64()*2.0 - 1.0
}

// Next returns the next pink noise sample in [-1, 1].
func (p *Pink) Next() float64 {
	p.index++
	if p.index >= 1<<rows {
		p.index = 0
	}

	if p.index != 0 {
		// Trailing zero count selects which row to refresh.
		row := 0
		n := p.index
		for n&1 == 0 {
			n >>= 1
			row++
		}
		if row < rows {
			p.sum -= p.values[row]
			p.values[row] = p.white()
			p.sum += p.values[row]
		}
	}

	out := (p.sum + p.white()) * p.scale
	if out > 1.0 {
		out = 1.0
	} else if out < -1.0 {
		out = -1.0
	}
	return out
}

// Fill fills a buffer with pink noise.
func (p *Pink) Fill(buf []float64) {
	for i := range buf {
		buf[i] = p.Next()
	}
}
