// Package gen emits Go source for planned layouts.
//
// Each layout becomes a named integer type over its storage width with a
// getter and a chainable, truncating setter per field:
//
//	type Bits uint8
//
//	func (b Bits) Counter() uint8 { return uint8(b) & 0x7f }
//	func (b *Bits) SetCounter(v uint8) *Bits { ... }
//
// Offsets and masks are emitted as literals, so generated code has no
// dependency on this module. 128-bit layouts use lukechampine.com/uint128.
package gen
