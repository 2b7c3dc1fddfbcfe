// Package rng abstracts the source of randomness used by player assignment,
// prize draws and code generation, so tests can substitute deterministic
// sequences for the ambient generator.
package rng

import "math/rand/v2"

// Source yields uniform random values. *rand.Rand from math/rand/v2
// satisfies it, which is what tests use with a fixed seed.
type Source interface {
	IntN(n int) int
	Float64() float64
}

type systemSource struct{}

func (systemSource) IntN(n int) int   { return rand.IntN(n) }
func (systemSource) Float64() float64 { return rand.Float64() }

// System returns the process-wide seeded source.
func System() Source { return systemSource{} }
