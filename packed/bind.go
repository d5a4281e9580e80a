package packed

import (
	"reflect"
	"sync"

	"lukechampine.com/uint128"

	"github.com/wippyai/bitpack/errors"
	"github.com/wippyai/bitpack/layout"
	"github.com/wippyai/bitpack/schema"
)

var (
	uint128Type = reflect.TypeOf(uint128.Uint128{})
	bindings    sync.Map // reflect.Type -> *schema.Binding
)

func bindingFor(t reflect.Type) (*schema.Binding, error) {
	if cached, ok := bindings.Load(t); ok {
		return cached.(*schema.Binding), nil
	}
	b, err := schema.Bind(t)
	if err != nil {
		return nil, err
	}
	bindings.Store(t, b)
	return b, nil
}

func checkBinding(phase errors.Phase, b *schema.Binding, l *layout.Layout) error {
	if b.Schema.Key() == l.Schema().Key() {
		return nil
	}
	return errors.New(phase, errors.KindTypeMismatch).
		Path(l.Name()).
		GoType(b.Type.String()).
		Detail("struct fields %q do not match layout %q", b.Schema.Key(), l.Schema().Key()).
		Build()
}

// Pack builds a value of l from the bits-tagged fields of src, a struct or a
// pointer to one. The struct's tagged fields must declare the same ordered
// (name, width) sequence as l. Field values that do not fit their width fail
// with KindOverflow rather than being truncated.
func Pack(l *layout.Layout, src any) (Value, error) {
	rv := reflect.ValueOf(src)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return Value{}, errors.NilPointer(errors.PhaseEncode, []string{l.Name()}, rv.Type().String())
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return Value{}, errors.NilPointer(errors.PhaseEncode, []string{l.Name()}, "nil")
	}

	b, err := bindingFor(rv.Type())
	if err != nil {
		return Value{}, err
	}
	if err := checkBinding(errors.PhaseEncode, b, l); err != nil {
		return Value{}, err
	}

	v := New(l)
	for i, gi := range b.GoIndex {
		f := l.Field(i)
		x := readGo(rv.Field(gi))
		if !f.Fits(x) {
			return Value{}, errors.Overflow(errors.PhaseEncode, []string{l.Name(), f.Name}, x, f.Width)
		}
		v.storage = f.Put(v.storage, x)
	}
	return v, nil
}

// Unpack stores every field of v into the bits-tagged fields of dst, which
// must be a non-nil pointer to a struct matching v's layout.
func Unpack(v Value, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		goType := "nil"
		if dst != nil {
			goType = rv.Type().String()
		}
		return errors.New(errors.PhaseDecode, errors.KindNilPointer).
			Path(v.layout.Name()).
			GoType(goType).
			Detail("destination must be a non-nil pointer to a struct").
			Build()
	}
	rv = rv.Elem()

	b, err := bindingFor(rv.Type())
	if err != nil {
		return err
	}
	if err := checkBinding(errors.PhaseDecode, b, v.layout); err != nil {
		return err
	}

	for i, gi := range b.GoIndex {
		writeGo(rv.Field(gi), v.layout.Field(i).Get(v.storage))
	}
	return nil
}

func readGo(fv reflect.Value) uint128.Uint128 {
	if fv.Type() == uint128Type {
		return fv.Interface().(uint128.Uint128)
	}
	if fv.Kind() == reflect.Bool {
		if fv.Bool() {
			return uint128.From64(1)
		}
		return uint128.Zero
	}
	return uint128.From64(fv.Uint())
}

func writeGo(fv reflect.Value, x uint128.Uint128) {
	switch {
	case fv.Type() == uint128Type:
		fv.Set(reflect.ValueOf(x))
	case fv.Kind() == reflect.Bool:
		fv.SetBool(!x.IsZero())
	default:
		fv.SetUint(x.Lo)
	}
}
