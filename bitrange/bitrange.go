package bitrange

import (
	"github.com/wippyai/bitpack/errors"
)

// Unsigned is the set of native storage integers.
type Unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Range is a half-open bit range [Start, End).
type Range struct {
	Start uint
	End   uint
}

// Width returns End-Start, or 0 for an inverted range.
func (r Range) Width() uint {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

// Check validates r against a value of the given bit width.
func (r Range) Check(bits uint) error {
	if r.Start >= r.End || r.End > bits {
		return errors.InvalidRange(r.Start, r.End, bits)
	}
	return nil
}

// BitsOf returns the bit width of T.
func BitsOf[T Unsigned]() uint {
	var n uint
	for m := ^T(0); m != 0; m >>= 1 {
		n++
	}
	return n
}

// Mask returns width low ones in T. A width at or above the size of T yields
// the all-ones value rather than shifting by the full width.
func Mask[T Unsigned](width uint) T {
	if width >= BitsOf[T]() {
		return ^T(0)
	}
	return T(1)<<width - 1
}

// GetBit returns bit i of x as 0 or 1.
func GetBit[T Unsigned](x T, i uint) (T, error) {
	if i >= BitsOf[T]() {
		return 0, errors.InvalidRange(i, i+1, BitsOf[T]())
	}
	return (x >> i) & 1, nil
}

// SetBit returns x with bit i replaced by the low bit of b.
func SetBit[T Unsigned](x T, i uint, b T) (T, error) {
	if i >= BitsOf[T]() {
		return x, errors.InvalidRange(i, i+1, BitsOf[T]())
	}
	return (x &^ (T(1) << i)) | ((b & 1) << i), nil
}

// GetBits returns bits [start, end) of x shifted down to bit 0.
func GetBits[T Unsigned](x T, start, end uint) (T, error) {
	r := Range{Start: start, End: end}
	if err := r.Check(BitsOf[T]()); err != nil {
		return 0, err
	}
	return (x >> start) & Mask[T](r.Width()), nil
}

// SetBits returns x with bits [start, end) replaced by the low end-start
// bits of v. Bits of v above the range are discarded.
func SetBits[T Unsigned](x T, start, end uint, v T) (T, error) {
	r := Range{Start: start, End: end}
	if err := r.Check(BitsOf[T]()); err != nil {
		return x, err
	}
	mask := Mask[T](r.Width())
	return (x &^ (mask << start)) | ((v & mask) << start), nil
}
