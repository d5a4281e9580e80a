package packed

import (
	"strings"

	"lukechampine.com/uint128"

	"github.com/wippyai/bitpack/errors"
	"github.com/wippyai/bitpack/layout"
)

// Value is one instance of a layout. The zero Value has no layout and must
// not be used.
type Value struct {
	layout  *layout.Layout
	storage uint128.Uint128
}

// New returns a zeroed value of l.
func New(l *layout.Layout) Value {
	return Value{layout: l}
}

// FromRaw returns a value of l holding raw. Bits above the storage width are
// discarded.
func FromRaw(l *layout.Layout, raw uint128.Uint128) Value {
	return Value{layout: l, storage: raw.And(l.StorageMask())}
}

// FromUint64 is FromRaw for storage widths up to 64 bits.
func FromUint64(l *layout.Layout, raw uint64) Value {
	return FromRaw(l, uint128.From64(raw))
}

// Layout returns the shared layout.
func (v Value) Layout() *layout.Layout { return v.layout }

// Raw returns the storage integer, including unused high bits.
func (v Value) Raw() uint128.Uint128 { return v.storage }

// Uint64 returns the low 64 bits of storage; exact for storage up to u64.
func (v Value) Uint64() uint64 { return v.storage.Lo }

// SetRaw replaces the storage, truncated to the storage width.
func (v *Value) SetRaw(raw uint128.Uint128) *Value {
	v.storage = raw.And(v.layout.StorageMask())
	return v
}

// Equal reports whether both values have the same layout and storage.
func (v Value) Equal(o Value) bool {
	return sameLayout(v.layout, o.layout) && v.storage.Equals(o.storage)
}

// Get reads the named field.
func (v Value) Get(name string) (uint128.Uint128, error) {
	f, err := v.lookup(name)
	if err != nil {
		return uint128.Zero, err
	}
	return f.Get(v.storage), nil
}

// Set writes the named field, truncating x to the field width.
func (v *Value) Set(name string, x uint128.Uint128) error {
	f, err := v.lookup(name)
	if err != nil {
		return err
	}
	v.storage = f.Put(v.storage, x)
	return nil
}

// Set64 is Set with a 64-bit input.
func (v *Value) Set64(name string, x uint64) error {
	return v.Set(name, uint128.From64(x))
}

// SetChecked writes the named field, failing with KindOverflow when x does
// not fit. The value is unchanged on failure.
func (v *Value) SetChecked(name string, x uint128.Uint128) error {
	f, err := v.lookup(name)
	if err != nil {
		return err
	}
	if !f.Fits(x) {
		return errors.Overflow(errors.PhaseAccess, []string{v.layout.Name(), f.Name}, x, f.Width)
	}
	v.storage = f.Put(v.storage, x)
	return nil
}

// Put writes a field through an accessor and returns v for chaining.
func (v *Value) Put(a Accessor, x uint64) *Value {
	return v.PutWide(a, uint128.From64(x))
}

// PutWide is Put for 128-bit input.
func (v *Value) PutWide(a Accessor, x uint128.Uint128) *Value {
	a.check(v.layout)
	v.storage = a.field.Put(v.storage, x)
	return v
}

// PutChecked is Put failing with KindOverflow instead of truncating.
func (v *Value) PutChecked(a Accessor, x uint128.Uint128) error {
	a.check(v.layout)
	if !a.field.Fits(x) {
		return errors.Overflow(errors.PhaseAccess, []string{v.layout.Name(), a.field.Name}, x, a.field.Width)
	}
	v.storage = a.field.Put(v.storage, x)
	return nil
}

// String renders the value as Name{field: value, ...} in declaration order.
func (v Value) String() string {
	if v.layout == nil {
		return "<nil layout>"
	}
	var b strings.Builder
	b.WriteString(v.layout.Name())
	b.WriteByte('{')
	for i := 0; i < v.layout.Len(); i++ {
		f := v.layout.Field(i)
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Name)
		b.WriteString(": ")
		b.WriteString(f.Get(v.storage).String())
	}
	b.WriteByte('}')
	return b.String()
}

func (v Value) lookup(name string) (layout.Field, error) {
	f, ok := v.layout.Lookup(name)
	if !ok {
		return layout.Field{}, errors.FieldUnknown(errors.PhaseAccess, []string{v.layout.Name()}, name)
	}
	return f, nil
}
