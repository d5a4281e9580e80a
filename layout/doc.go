// Package layout computes packed bit layouts for validated schemas.
//
// Planning is a pure function of a schema:
//
//   - Storage width: the smallest of 8, 16, 32, 64, 128 holding the total
//     field width T.
//   - Offsets: a cursor starts at T (not at the storage width) and moves down
//     by each field's width in declaration order. The first field occupies the
//     most significant bits of the T-bit region and the last field sits at
//     offset 0. Bits between T and the storage width belong to no field.
//   - Masks: each field's mask covers its low Width bits and is shifted by
//     Offset only at the point of use. A field as wide as its storage gets the
//     all-ones constant instead of (1<<w)-1.
//
// # Usage
//
//	l := layout.Plan(s)
//	for _, f := range l.Fields() {
//		fmt.Println(f.Name, f.Offset, f.Width)
//	}
//
// Compiler memoizes layouts keyed by the schema's ordered (name, width)
// sequence and is safe for concurrent use.
package layout
