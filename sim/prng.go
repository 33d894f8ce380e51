package sim

import "github.com/brawlnet/rollback/bnerr"

// RNG is a XorShift32 generator with explicit, copyable state. The zero
// value is invalid — zero is the algorithm's absorbing state and is
// rejected at construction so a live RNG can never get stuck there.
type RNG struct {
	state uint32
}

// NewRNG constructs an RNG from a non-zero seed.
func NewRNG(seed uint32) (RNG, error) {
	if seed == 0 {
		return RNG{}, bnerr.New(bnerr.InvalidArgument, "rng seed must be non-zero")
	}
	return RNG{state: seed}, nil
}

// State returns the current raw word, e.g. for hashing or persistence.
func (r RNG) State() uint32 { return r.state }

// RNGFromState reconstructs an RNG from a previously observed state
// word, e.g. when restoring a snapshot. The word must be non-zero.
func RNGFromState(state uint32) (RNG, error) {
	return NewRNG(state)
}

// Next advances the generator and returns the new raw 32-bit word.
func (r *RNG) Next() uint32 {
	x := r.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	r.state = x
	return x
}

// Bounded returns a uniform integer in [0, n) using Lemire's
// multiply-high method, redrawing only the rare biased draws. n must be
// non-zero.
func (r *RNG) Bounded(n uint32) (uint32, error) {
	if n == 0 {
		return 0, bnerr.New(bnerr.InvalidArgument, "rng bound must be non-zero")
	}

	// 64-bit multiply-high: (next * n) >> 32. Lemire's method avoids a
	// modulo bias without needing rejection sampling in the common case.
	threshold := -n % n
	for {
		x := r.Next()
		m := uint64(x) * uint64(n)
		lo := uint32(m)
		if lo >= threshold {
			return uint32(m >> 32), nil
		}
	}
}

// NextInt returns a uniform integer in [min, max). max must be strictly
// greater than min.
func (r *RNG) NextInt(min, max int32) (int32, error) {
	if max <= min {
		return 0, bnerr.Newf(bnerr.InvalidArgument, "nextint: max %d must be greater than min %d", max, min)
	}
	span := uint32(max - min)
	v, err := r.Bounded(span)
	if err != nil {
		return 0, err
	}
	return min + int32(v), nil
}
