package bitrange

import (
	"lukechampine.com/uint128"

	"github.com/wippyai/bitpack/errors"
)

// Bits128 is the width of uint128.Uint128.
const Bits128 = 128

// Mask128 returns width low ones as a 128-bit value; widths of 128 or more
// yield uint128.Max.
func Mask128(width uint) uint128.Uint128 {
	if width >= Bits128 {
		return uint128.Max
	}
	return uint128.From64(1).Lsh(width).Sub64(1)
}

// Not128 returns the bitwise complement of x.
func Not128(x uint128.Uint128) uint128.Uint128 {
	return x.Xor(uint128.Max)
}

// GetBit128 returns bit i of x as 0 or 1.
func GetBit128(x uint128.Uint128, i uint) (uint128.Uint128, error) {
	if i >= Bits128 {
		return uint128.Zero, errors.InvalidRange(i, i+1, Bits128)
	}
	return x.Rsh(i).And64(1), nil
}

// SetBit128 returns x with bit i replaced by the low bit of b.
func SetBit128(x uint128.Uint128, i uint, b uint128.Uint128) (uint128.Uint128, error) {
	if i >= Bits128 {
		return x, errors.InvalidRange(i, i+1, Bits128)
	}
	bit := uint128.From64(1).Lsh(i)
	return x.And(Not128(bit)).Or(b.And64(1).Lsh(i)), nil
}

// GetBits128 returns bits [start, end) of x shifted down to bit 0.
func GetBits128(x uint128.Uint128, start, end uint) (uint128.Uint128, error) {
	r := Range{Start: start, End: end}
	if err := r.Check(Bits128); err != nil {
		return uint128.Zero, err
	}
	return x.Rsh(start).And(Mask128(r.Width())), nil
}

// SetBits128 returns x with bits [start, end) replaced by the low end-start
// bits of v.
func SetBits128(x uint128.Uint128, start, end uint, v uint128.Uint128) (uint128.Uint128, error) {
	r := Range{Start: start, End: end}
	if err := r.Check(Bits128); err != nil {
		return x, err
	}
	return Insert128(x, start, Mask128(r.Width()), v), nil
}

// Extract128 is the unchecked form of GetBits128 used once a range has been
// validated: (x >> offset) & mask.
func Extract128(x uint128.Uint128, offset uint, mask uint128.Uint128) uint128.Uint128 {
	return x.Rsh(offset).And(mask)
}

// Insert128 is the unchecked form of SetBits128:
// (x &^ (mask << offset)) | ((v & mask) << offset).
func Insert128(x uint128.Uint128, offset uint, mask, v uint128.Uint128) uint128.Uint128 {
	return x.And(Not128(mask.Lsh(offset))).Or(v.And(mask).Lsh(offset))
}
