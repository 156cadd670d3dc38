package prng

// Seed derivation: pure functions turning spatial or station identity into
// a PRNG seed in [1, 2147483646]. One canonical mixing formula each —
// historical revisions of the reference system disagreed on the mixing, so
// these are pinned here and applied uniformly (see DESIGN.md).

// Default spatial hashing primes.
const (
	PrimeX = 73856093
	PrimeY = 19349663
	PrimeZ = 83492791
)

// imul32 multiplies with signed 32-bit wrapping semantics.
func imul32(a, b int32) int32 {
	return int32(uint32(a) * uint32(b))
}

// CellSeed derives the seed for the cell at (cx, cy):
// hash = imul(cx, p1) XOR imul(cy, p2); hash = imul(hash, p3);
// seed = abs(hash mod 2^31-1) + 1.
func CellSeed(cx, cy int, p1, p2, p3 int32) int64 {
	h := imul32(int32(cx), p1) ^ imul32(int32(cy), p2)
	h = imul32(h, p3)
	s := int64(h) % lcgMod
	if s < 0 {
		s = -s
	}
	return s + 1
}

// CombineSeed derives a station-market seed from the world seed, the
// station's position, and a visit suffix. A 31-based rolling hash folds the
// inputs, then the murmur3 fmix32 avalanche spreads low-entropy inputs
// (neighboring stations, small suffixes) across the full state space.
func CombineSeed(worldSeed int64, x, y float64, suffix int64) int64 {
	h := worldSeed
	h = h*31 + int64(floorF(x))
	h = h*31 + int64(floorF(y))
	h = h*31 + suffix

	u := uint32(h)
	u ^= u >> 16
	u *= 0x85ebca6b
	u ^= u >> 13
	u *= 0xc2b2ae35
	u ^= u >> 16

	return int64(u%uint32(lcgMod-1)) + 1
}

func floorF(f float64) int64 {
	i := int64(f)
	if f < 0 && float64(i) != f {
		i--
	}
	return i
}
