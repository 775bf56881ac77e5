// Package testvec draws random dot-product test cases for the convolution
// forward unit.
package testvec

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
)

// Case is one dot-product test: Output = Dot(Input, Weights) + Bias.
type Case struct {
	Input   []float32
	Weights []float32
	Bias    float32
	Output  float32
}

// Options configures a Generator.
type Options struct {
	Length int     // elements per input/weight vector
	Lower  float64 // inclusive
	Upper  float64 // exclusive, unless Lower == Upper
	Bias   bool
	Seed   int64 // 0 draws a fresh seed
}

// Generator produces Cases from a seeded PCG stream.
type Generator struct {
	opts Options
	seed int64
	rng  *rand.Rand
}

func NewGenerator(opts Options) (*Generator, error) {
	if opts.Length < 1 {
		return nil, fmt.Errorf("testvec: vector length must be at least 1, got %d", opts.Length)
	}
	if math.IsNaN(opts.Lower) || math.IsNaN(opts.Upper) || opts.Lower > opts.Upper {
		return nil, fmt.Errorf("testvec: invalid sampling range [%v, %v)", opts.Lower, opts.Upper)
	}

	seed := opts.Seed
	for seed == 0 {
		seed = rand.Int64()
	}

	return &Generator{
		opts: opts,
		seed: seed,
		rng:  rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)),
	}, nil
}

// Seed returns the seed actually in use, so a run can be replayed.
func (g *Generator) Seed() int64 { return g.seed }

// Next draws a fresh Case. The returned slices are not reused.
func (g *Generator) Next() Case {
	c := Case{
		Input:   g.vector(),
		Weights: g.vector(),
	}

	sum := Dot(c.Input, c.Weights)
	if g.opts.Bias {
		c.Bias = g.sample()
		sum += float64(c.Bias)
	}
	c.Output = float32(sum)

	return c
}

func (g *Generator) vector() []float32 {
	v := make([]float32, g.opts.Length)
	for i := range v {
		v[i] = g.sample()
	}
	return v
}

// sample draws uniformly from [Lower, Upper). Values that round up to Upper
// in float32 are pulled back to the next float32 below it.
func (g *Generator) sample() float32 {
	lo, hi := g.opts.Lower, g.opts.Upper
	if lo == hi {
		return float32(lo)
	}

	v := float32(lo + (hi-lo)*g.rng.Float64())
	for float64(v) >= hi {
		v = math.Nextafter32(v, float32(math.Inf(-1)))
	}
	return v
}

// Dot returns the dot product of a and b accumulated in float64.
// len(a) must equal len(b).
func Dot(a, b []float32) float64 {
	return floats.Dot(widen(a), widen(b))
}

func widen(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}
