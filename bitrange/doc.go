// Package bitrange provides single-bit and ranged get/set on fixed-width
// unsigned integers.
//
// The generic functions cover uint8, uint16, uint32 and uint64 (and named
// types over them); the *128 variants operate on uint128.Uint128. Ranges are
// half-open, [start, end), counted from the least significant bit.
//
//	v, _ := bitrange.SetBits(uint16(0), 4, 8, 0xF) // 0x00F0
//	n, _ := bitrange.GetBits(v, 4, 8)              // 0xF
//
// Index and range violations (start >= end, end > width, bit index >= width)
// return an errors.KindInvalidRange error instead of shifting by an
// out-of-range amount. Values wider than the range are truncated by the
// range mask.
package bitrange
