// Package codec serializes packed values.
//
// Three encodings are provided:
//
//   - Fixed: the storage integer as exactly Storage().Bytes() bytes, big or
//     little endian. Unused high bits travel with the value.
//   - ULEB128: the storage integer as an unsigned LEB128 varint of up to
//     19 bytes. Decoding rejects varints wider than the layout's storage.
//   - Bitstring: the logical region only (TotalWidth bits), fields in
//     declaration order with the first field leading, as a funbit
//     bitstring. For byte-aligned layouts its bytes equal the fixed
//     big-endian encoding of a fully used storage integer.
package codec
