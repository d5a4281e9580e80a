package layout

import (
	"github.com/RoaringBitmap/roaring/v2"
	"lukechampine.com/uint128"

	"github.com/wippyai/bitpack/bitrange"
	"github.com/wippyai/bitpack/errors"
	"github.com/wippyai/bitpack/schema"
)

// Field is the planned placement of one schema field.
type Field struct {
	Mask        uint128.Uint128
	Name        string
	Index       int
	Width       int
	Offset      int
	ReturnWidth Width
}

// Range returns the bit range [Offset, Offset+Width) within storage.
func (f Field) Range() bitrange.Range {
	return bitrange.Range{Start: uint(f.Offset), End: uint(f.Offset + f.Width)}
}

// ShiftedMask returns Mask moved to the field's position in storage.
func (f Field) ShiftedMask() uint128.Uint128 {
	return f.Mask.Lsh(uint(f.Offset))
}

// Get extracts the field from a storage value: (storage >> Offset) & Mask.
func (f Field) Get(storage uint128.Uint128) uint128.Uint128 {
	return bitrange.Extract128(storage, uint(f.Offset), f.Mask)
}

// Put returns storage with the field replaced by v truncated to Width bits.
func (f Field) Put(storage, v uint128.Uint128) uint128.Uint128 {
	return bitrange.Insert128(storage, uint(f.Offset), f.Mask, v)
}

// Fits reports whether v is representable in Width bits.
func (f Field) Fits(v uint128.Uint128) bool {
	return v.And(bitrange.Not128(f.Mask)).IsZero()
}

// Layout is the immutable placement of all fields of one schema. It is shared
// by every value of the schema.
type Layout struct {
	schema  *schema.Schema
	fields  []Field
	storage Width
}

// Plan computes the layout of a validated schema. Pure and deterministic.
func Plan(s *schema.Schema) *Layout {
	total := s.TotalWidth()
	storage := selectWidth(total)

	fields := make([]Field, s.Len())
	cursor := total
	for i := range fields {
		f := s.Field(i)
		cursor -= f.Width
		fields[i] = Field{
			Name:        f.Name,
			Index:       i,
			Width:       f.Width,
			Offset:      cursor,
			Mask:        FieldMask(f.Width, storage),
			ReturnWidth: selectWidth(f.Width),
		}
	}

	return &Layout{schema: s, storage: storage, fields: fields}
}

// named returns l, or a copy sharing l's placement under the name of s.
func (l *Layout) named(s *schema.Schema) *Layout {
	if l.schema.Name() == s.Name() {
		return l
	}
	return &Layout{schema: s, storage: l.storage, fields: l.fields}
}

// Schema returns the schema the layout was planned from.
func (l *Layout) Schema() *schema.Schema { return l.schema }

// Name returns the schema name.
func (l *Layout) Name() string { return l.schema.Name() }

// Storage returns the storage width.
func (l *Layout) Storage() Width { return l.storage }

// TotalWidth returns the number of bits addressed by fields.
func (l *Layout) TotalWidth() int { return l.schema.TotalWidth() }

// Len returns the number of fields.
func (l *Layout) Len() int { return len(l.fields) }

// Field returns the i-th field in declaration order.
func (l *Layout) Field(i int) Field { return l.fields[i] }

// Fields returns a copy of the field placements in declaration order.
func (l *Layout) Fields() []Field {
	out := make([]Field, len(l.fields))
	copy(out, l.fields)
	return out
}

// Lookup returns the named field.
func (l *Layout) Lookup(name string) (Field, bool) {
	i, ok := l.schema.Lookup(name)
	if !ok {
		return Field{}, false
	}
	return l.fields[i], true
}

// StorageMask returns the all-ones value of the storage width.
func (l *Layout) StorageMask() uint128.Uint128 { return StorageMax(l.storage) }

// UnusedMask returns the storage bits no field addresses, [TotalWidth, Storage).
func (l *Layout) UnusedMask() uint128.Uint128 {
	return l.StorageMask().And(bitrange.Not128(bitrange.Mask128(uint(l.TotalWidth()))))
}

// Verify checks that field ranges are pairwise disjoint and cover exactly
// [0, TotalWidth).
func (l *Layout) Verify() error {
	total := l.TotalWidth()
	seen := roaring.New()

	for _, f := range l.fields {
		if f.Offset < 0 || f.Offset+f.Width > total {
			return errors.New(errors.PhaseLayout, errors.KindInvalidRange).
				Path(l.Name(), f.Name).
				Value(f.Offset).
				Detail("range [%d,%d) outside [0,%d)", f.Offset, f.Offset+f.Width, total).
				Build()
		}

		r := roaring.New()
		r.AddRange(uint64(f.Offset), uint64(f.Offset+f.Width))
		if seen.Intersects(r) {
			return errors.New(errors.PhaseLayout, errors.KindInvalidRange).
				Path(l.Name(), f.Name).
				Value(f.Offset).
				Detail("range [%d,%d) overlaps an earlier field", f.Offset, f.Offset+f.Width).
				Build()
		}
		seen.Or(r)
	}

	if seen.GetCardinality() != uint64(total) {
		return errors.New(errors.PhaseLayout, errors.KindInvalidRange).
			Path(l.Name()).
			Value(seen.GetCardinality()).
			Detail("fields cover %d of %d bits", seen.GetCardinality(), total).
			Build()
	}
	return nil
}

// Define validates fields and plans the resulting schema without caching.
func Define(name string, fields ...schema.Field) (*Layout, error) {
	s, err := schema.Validate(name, fields...)
	if err != nil {
		return nil, err
	}
	return Plan(s), nil
}
