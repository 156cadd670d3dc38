// Package prng provides the seedable pseudo-random number generator the
// world and market generators draw from. Regenerating a cell or a market
// table must yield the same bytes every time, so the generator is a plain
// LCG with pinned constants and 32-bit wrapping multiply semantics rather
// than math/rand, whose sequence is not part of any compatibility contract.
package prng

import "math"

const (
	lcgMod = 2147483647 // 2^31 - 1
	lcgMul = 1103515245
	lcgInc = 12345
)

// PRNG is a deterministic linear congruential generator. The zero value is
// not usable; construct with New. Instances are not safe for concurrent
// use — callers generating cells in parallel must use one PRNG per cell.
type PRNG struct {
	seed int64
}

// New returns a generator seeded with s.
func New(s int64) *PRNG {
	p := &PRNG{}
	p.Seed(s)
	return p
}

// Seed resets the generator state. The seed is normalized into
// [1, 2147483646]: reduced mod 2^31-1, made non-negative, and bumped to 1
// if it lands on 0 (an LCG stuck at 0 with no increment never recovers;
// with this one it simply degenerates the first draw).
func (p *PRNG) Seed(s int64) {
	s %= lcgMod
	if s < 0 {
		s = -s
	}
	if s == 0 {
		s = 1
	}
	p.seed = s
}

// next advances the state: seed' = (1103515245*seed + 12345) mod (2^31-1),
// where the multiply wraps like a signed 32-bit operation. The wrap is the
// contract: it is what makes the sequence reproducible bit-for-bit across
// runtimes, so it must not be "fixed" into a 64-bit multiply.
func (p *PRNG) next() int64 {
	prod := int32(uint32(lcgMul) * uint32(p.seed))
	s := (int64(prod) + lcgInc) % lcgMod
	if s < 0 {
		s += lcgMod
	}
	p.seed = s
	return s
}

// Float returns the next value in [0, 1).
func (p *PRNG) Float() float64 {
	return float64(p.next()) / float64(lcgMod)
}

// IntBetween returns an integer in [floor(min), floor(max)), drawn as
// floor(min + Float()*(max-min)). Fractional bounds are allowed: the star
// count draw passes 0.5x and 1.5x of a fractional per-cell average.
func (p *PRNG) IntBetween(min, max float64) int {
	return int(math.Floor(min + p.Float()*(max-min)))
}

// FloatBetween returns a float in [min, max).
func (p *PRNG) FloatBetween(min, max float64) float64 {
	return p.Float()*(max-min) + min
}
