package codec

import (
	"fmt"

	"lukechampine.com/uint128"

	"github.com/wippyai/bitpack/errors"
	"github.com/wippyai/bitpack/layout"
	"github.com/wippyai/bitpack/packed"
)

// Order selects the byte order of the fixed encoding.
type Order uint8

const (
	BigEndian Order = iota
	LittleEndian
)

func (o Order) String() string {
	switch o {
	case BigEndian:
		return "big-endian"
	case LittleEndian:
		return "little-endian"
	}
	return fmt.Sprintf("Order(%d)", uint8(o))
}

// AppendFixed appends the storage of v as Storage().Bytes() bytes.
func AppendFixed(dst []byte, v packed.Value, order Order) []byte {
	n := v.Layout().Storage().Bytes()
	var buf [16]byte
	raw := v.Raw()
	if order == LittleEndian {
		raw.PutBytes(buf[:])
		return append(dst, buf[:n]...)
	}
	raw.PutBytesBE(buf[:])
	return append(dst, buf[16-n:]...)
}

// ReadFixed decodes a value of l from exactly Storage().Bytes() bytes.
func ReadFixed(l *layout.Layout, b []byte, order Order) (packed.Value, error) {
	n := l.Storage().Bytes()
	if len(b) != n {
		return packed.Value{}, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Path(l.Name()).
			BitType(l.Storage().String()).
			Value(len(b)).
			Detail("fixed %s encoding needs %d bytes, got %d", order, n, len(b)).
			Build()
	}

	var buf [16]byte
	var raw uint128.Uint128
	if order == LittleEndian {
		copy(buf[:], b)
		raw = uint128.FromBytes(buf[:])
	} else {
		copy(buf[16-n:], b)
		raw = uint128.FromBytesBE(buf[:])
	}
	return packed.FromRaw(l, raw), nil
}
