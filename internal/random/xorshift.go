package random

// XorShift is Marsaglia's 32-bit xorshift with the (13, 17, 5) triple.
// A zero seed yields a stream of zeros; callers pick non-zero seeds.
type XorShift struct {
	seed  uint32
	state uint32
}

// NewXorShift creates a generator whose first state is the seed itself.
func NewXorShift(seed uint32) *XorShift {
	return &XorShift{seed: seed, state: seed}
}

// Next implements Generator.
func (x *XorShift) Next() uint32 {
	x.state ^= x.state << 13
	x.state ^= x.state >> 17
	x.state ^= x.state << 5
	return x.state
}

// Float implements Generator.
func (x *XorShift) Float() float64 {
	return toFloat(x.Next())
}

// Seed implements Generator.
func (x *XorShift) Seed() uint32 {
	return x.seed
}

// State returns the current internal state without advancing it.
func (x *XorShift) State() uint32 {
	return x.state
}
