// Package dice provides the randomness abstraction for the wasteland combat
// engine. Every random draw made by the engine flows through a Source, so a
// simulation run is a pure function of its inputs plus the seed it was given.
package dice

// Source is the randomness provider for the combat engine.
//
// Implementations need not be safe for concurrent use; one simulation run
// owns its Source exclusively.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
	// Float64 returns a random float64 in [0, 1).
	Float64() float64
}

// Chance reports whether a draw from src falls below p.
// p <= 0 never succeeds and p >= 1 always succeeds; neither consumes a draw.
func Chance(src Source, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return src.Float64() < p
}

// Between returns a uniformly distributed value in [lo, hi).
//
// Precondition: lo <= hi.
func Between(src Source, lo, hi float64) float64 {
	return lo + (hi-lo)*src.Float64()
}

// Pick returns a uniformly chosen element of options.
//
// Precondition: len(options) > 0.
func Pick[T any](src Source, options []T) T {
	return options[src.Intn(len(options))]
}
