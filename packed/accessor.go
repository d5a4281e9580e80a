package packed

import (
	"fmt"

	"lukechampine.com/uint128"

	"github.com/wippyai/bitpack/errors"
	"github.com/wippyai/bitpack/layout"
)

// Accessor reads and writes one field of one layout. Resolve it once and
// reuse it; it holds no per-value state.
type Accessor struct {
	layout *layout.Layout
	field  layout.Field
}

// Field resolves the named field of l.
func Field(l *layout.Layout, name string) (Accessor, error) {
	f, ok := l.Lookup(name)
	if !ok {
		return Accessor{}, errors.FieldUnknown(errors.PhaseAccess, []string{l.Name()}, name)
	}
	return Accessor{layout: l, field: f}, nil
}

// MustField is like Field but panics on an unknown name.
func MustField(l *layout.Layout, name string) Accessor {
	a, err := Field(l, name)
	if err != nil {
		panic(err)
	}
	return a
}

// Accessors resolves every field of l in declaration order.
func Accessors(l *layout.Layout) []Accessor {
	out := make([]Accessor, l.Len())
	for i := range out {
		out[i] = Accessor{layout: l, field: l.Field(i)}
	}
	return out
}

// Info returns the field placement.
func (a Accessor) Info() layout.Field { return a.field }

// Name returns the field name.
func (a Accessor) Name() string { return a.field.Name }

// Get reads the field: (storage >> offset) & mask.
func (a Accessor) Get(v Value) uint128.Uint128 {
	a.check(v.layout)
	return a.field.Get(v.storage)
}

// Get64 reads the field as uint64; exact for fields up to 64 bits.
func (a Accessor) Get64(v Value) uint64 {
	return a.Get(v).Lo
}

// Set writes the field, truncating x to the field width.
func (a Accessor) Set(v *Value, x uint128.Uint128) *Value {
	return v.PutWide(a, x)
}

// Set64 is Set with a 64-bit input.
func (a Accessor) Set64(v *Value, x uint64) *Value {
	return v.Put(a, x)
}

func (a Accessor) check(l *layout.Layout) {
	if sameLayout(a.layout, l) {
		return
	}
	if a.layout == nil || l == nil {
		panic("packed: accessor or value has no layout")
	}
	panic(fmt.Sprintf("packed: accessor %s.%s used on a value of %s",
		a.layout.Name(), a.field.Name, l.Name()))
}

// sameLayout treats layouts with equal schema keys as interchangeable; their
// placements are identical by construction.
func sameLayout(a, b *layout.Layout) bool {
	if a == b {
		return a != nil
	}
	if a == nil || b == nil {
		return false
	}
	return a.Schema().Key() == b.Schema().Key()
}
