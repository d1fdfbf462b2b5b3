// Package random provides small seeded integer-stream generators.
// Every generator is fully determined by its seed, its kind and the
// sequence of calls made on it, so a seed reproduces a whole level.
package random

import (
	"errors"
	"math"
)

var (
	ErrEmptyInput     = errors.New("random: cannot choose from an empty list")
	ErrWeightMismatch = errors.New("random: weights and items differ in length")
	ErrZeroWeight     = errors.New("random: weights sum to zero")
	ErrInvalidLength  = errors.New("random: lfsr length must be between 1 and 31")
	ErrEmptyTaps      = errors.New("random: lfsr needs at least one tap")
	ErrInvalidTap     = errors.New("random: lfsr tap outside register")
)

// Generator is a deterministic 32-bit stream.
type Generator interface {
	// Next advances the state and returns the new 32-bit value.
	Next() uint32

	// Float returns Next scaled into [0, 1).
	Float() float64

	// Seed returns the value the generator was constructed with.
	Seed() uint32
}

// belowOne is the largest float64 strictly less than 1.
var belowOne = math.Nextafter(1, 0)

// toFloat scales v by MaxUint32. A value of MaxUint32 would give exactly 1,
// which is pulled back below 1 so callers can index with floor(f*n).
func toFloat(v uint32) float64 {
	f := float64(v) / math.MaxUint32
	if f >= 1 {
		return belowOne
	}
	return f
}

// Choice returns a uniformly drawn element of items.
func Choice[T any](g Generator, items []T) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, ErrEmptyInput
	}
	return items[int(g.Float()*float64(len(items)))], nil
}

// WeightedChoice draws a scalar in [0, sum(weights)) and returns the first
// item whose cumulative weight exceeds it.
func WeightedChoice[T any](g Generator, items []T, weights []uint32) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, ErrEmptyInput
	}
	if len(items) != len(weights) {
		return zero, ErrWeightMismatch
	}

	var total uint64
	for _, w := range weights {
		total += uint64(w)
	}
	if total == 0 {
		return zero, ErrZeroWeight
	}

	pick := g.Float() * float64(total)
	var cumulative uint64
	for i, w := range weights {
		cumulative += uint64(w)
		if pick < float64(cumulative) {
			return items[i], nil
		}
	}

	// Float rounding at the very top of the range.
	for i := len(weights) - 1; i >= 0; i-- {
		if weights[i] > 0 {
			return items[i], nil
		}
	}
	return zero, ErrZeroWeight
}
