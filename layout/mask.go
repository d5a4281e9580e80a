package layout

import (
	"lukechampine.com/uint128"

	"github.com/wippyai/bitpack/bitrange"
)

// StorageMax returns the all-ones value of the storage width.
func StorageMax(storage Width) uint128.Uint128 {
	if storage == W128 {
		return uint128.Max
	}
	return uint128.From64(^uint64(0) >> (64 - uint(storage)))
}

// FieldMask returns the unshifted mask for a field of width bits stored in a
// storage integer. Full-width fields take the storage maximum; narrower fields
// compute (1<<width)-1 in 128-bit arithmetic and narrow to the storage width,
// so a 64-bit field in 128-bit storage never shifts a 64-bit one by 64.
func FieldMask(width int, storage Width) uint128.Uint128 {
	if width >= storage.Bits() {
		return StorageMax(storage)
	}
	return bitrange.Mask128(uint(width)).And(StorageMax(storage))
}
