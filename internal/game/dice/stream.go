package dice

import "math/rand/v2"

// Stream is a seedable, copyable pseudo-random Source.
//
// Invariant: Stream is a plain value. Copying a Stream forks the sequence, so
// two copies produce identical draws from the point of the copy onward. The
// combat engine relies on this to thread RNG state through each tick (seed in,
// state out) without sharing a generator between runs.
type Stream struct {
	pcg rand.PCG
}

// streamIncrement is mixed into the second PCG word so a zero seed still
// produces a well-distributed sequence.
const streamIncrement = 0x9e3779b97f4a7c15

// NewStream returns a Stream seeded with seed.
//
// Postcondition: two Streams created with the same seed produce the same sequence.
func NewStream(seed uint64) Stream {
	return Stream{pcg: *rand.NewPCG(seed, seed^streamIncrement)}
}

// Intn returns a random int in [0, n).
//
// Precondition: n > 0. Panics with "dice: Intn called with n <= 0" otherwise.
func (s *Stream) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	return int(s.pcg.Uint64() % uint64(n))
}

// Float64 returns a random float64 in [0, 1) with 53 bits of precision.
func (s *Stream) Float64() float64 {
	return float64(s.pcg.Uint64()>>11) / (1 << 53)
}
