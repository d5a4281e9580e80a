package codec

import (
	"github.com/funvibe/funbit/pkg/funbit"

	"github.com/wippyai/bitpack/bitrange"
	"github.com/wippyai/bitpack/errors"
	"github.com/wippyai/bitpack/packed"
)

// chunkBits bounds each integer segment so it fits an int64 unsigned.
const chunkBits = 32

// Bitstring renders the logical region of v, TotalWidth bits long, as a
// funbit bitstring. Fields appear in declaration order and each field is
// written most significant bit first.
func Bitstring(v packed.Value) (*funbit.BitString, error) {
	l := v.Layout()
	b := funbit.NewBuilder()
	for i := 0; i < l.Len(); i++ {
		f := l.Field(i)
		x := f.Get(v.Raw())
		for remaining := f.Width; remaining > 0; {
			n := min(chunkBits, remaining)
			chunk := bitrange.Extract128(x, uint(remaining-n), bitrange.Mask128(uint(n)))
			funbit.AddInteger(b, int64(chunk.Lo), funbit.WithSize(uint(n)))
			remaining -= n
		}
	}

	bs, err := funbit.Build(b)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseEncode, errors.KindInvalidData, err, "building bitstring")
	}
	return bs, nil
}

// LogicalBytes returns the logical region of v, left aligned and zero
// padded to whole bytes.
func LogicalBytes(v packed.Value) ([]byte, error) {
	bs, err := Bitstring(v)
	if err != nil {
		return nil, err
	}
	return bs.ToBytes(), nil
}
