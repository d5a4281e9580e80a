package codec

import (
	"io"

	"lukechampine.com/uint128"

	"github.com/wippyai/bitpack/errors"
	"github.com/wippyai/bitpack/layout"
	"github.com/wippyai/bitpack/packed"
)

// MaxLEB128Len is the longest ULEB128 encoding of a 128-bit integer.
const MaxLEB128Len = 19

// AppendULEB128 appends x as an unsigned LEB128 varint.
func AppendULEB128(dst []byte, x uint128.Uint128) []byte {
	for {
		b := byte(x.Lo & 0x7f)
		x = x.Rsh(7)
		if !x.IsZero() {
			b |= 0x80
		}
		dst = append(dst, b)
		if x.IsZero() {
			return dst
		}
	}
}

// ReadULEB128 reads an unsigned LEB128 varint of at most 128 bits.
func ReadULEB128(r io.ByteReader) (uint128.Uint128, error) {
	var result uint128.Uint128
	var shift uint
	for {
		b, err := r.ReadByte()
		if err != nil {
			return uint128.Zero, err
		}
		// The 19th byte carries bits 126 and 127 only.
		if shift == 126 && (b&0x80 != 0 || b&0x7f > 3) {
			return uint128.Zero, errors.New(errors.PhaseDecode, errors.KindOverflow).
				BitType("u128").
				Detail("leb128 value exceeds 128 bits").
				Build()
		}
		result = result.Or(uint128.From64(uint64(b & 0x7f)).Lsh(shift))
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
}

// AppendValue appends the storage of v as a ULEB128 varint.
func AppendValue(dst []byte, v packed.Value) []byte {
	return AppendULEB128(dst, v.Raw())
}

// ReadValue decodes a ULEB128 varint as a value of l. Varints holding bits
// above the storage width fail with KindOverflow.
func ReadValue(l *layout.Layout, r io.ByteReader) (packed.Value, error) {
	raw, err := ReadULEB128(r)
	if err != nil {
		if e, ok := err.(*errors.Error); ok {
			e.Path = []string{l.Name()}
			return packed.Value{}, e
		}
		return packed.Value{}, errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "reading leb128")
	}
	if !raw.And(l.StorageMask()).Equals(raw) {
		return packed.Value{}, errors.Overflow(errors.PhaseDecode, []string{l.Name()}, raw, l.Storage().Bits())
	}
	return packed.FromRaw(l, raw), nil
}
