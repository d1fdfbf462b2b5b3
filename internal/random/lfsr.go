package random

import "fmt"

// LFSR is a Fibonacci linear-feedback shift register of up to 31 bits.
// Each step shifts the register left by one and feeds in the XOR of the
// tapped bits.
type LFSR struct {
	seed   uint32
	state  uint32
	length uint8
	mask   uint32
	taps   []uint8
}

// NewLFSR creates a register of the given bit length. Taps are bit
// positions, counted from 0 at the least significant bit.
func NewLFSR(seed uint32, length uint8, taps []uint8) (*LFSR, error) {
	if length == 0 || length >= 32 {
		return nil, fmt.Errorf("%w (was %d)", ErrInvalidLength, length)
	}
	if len(taps) == 0 {
		return nil, ErrEmptyTaps
	}
	for _, t := range taps {
		if t >= length {
			return nil, fmt.Errorf("%w: tap %d, length %d", ErrInvalidTap, t, length)
		}
	}

	mask := uint32(1)<<length - 1
	return &LFSR{
		seed:   seed,
		state:  seed & mask,
		length: length,
		mask:   mask,
		taps:   append([]uint8(nil), taps...),
	}, nil
}

// Next implements Generator.
func (r *LFSR) Next() uint32 {
	var bit uint32
	for _, t := range r.taps {
		bit ^= r.state >> t
	}
	bit &= 1

	r.state = ((r.state << 1) | bit) & r.mask
	return r.state
}

// Float implements Generator.
func (r *LFSR) Float() float64 {
	return toFloat(r.Next())
}

// Seed implements Generator.
func (r *LFSR) Seed() uint32 {
	return r.seed
}

// Length returns the register width in bits.
func (r *LFSR) Length() uint8 {
	return r.length
}
