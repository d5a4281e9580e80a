package schema

import (
	"reflect"
	"strconv"
	"strings"

	"lukechampine.com/uint128"

	"github.com/wippyai/bitpack/errors"
)

// Tag is the struct tag consulted by FromType.
const Tag = "bits"

var uint128Type = reflect.TypeOf(uint128.Uint128{})

// Binding maps a validated schema onto a Go struct type.
type Binding struct {
	Schema *Schema
	Type   reflect.Type
	// GoIndex[i] is the struct field index holding schema field i.
	GoIndex []int
}

// FromType derives a schema from a struct type whose fields carry a `bits`
// tag. The tag is either a width ("7") or a name and width ("counter,7");
// untagged fields and fields tagged "-" are skipped. Tagged fields must be
// unsigned integers (or uint128.Uint128) at least as wide as the declared
// width.
func FromType(t reflect.Type) (*Schema, error) {
	b, err := Bind(t)
	if err != nil {
		return nil, err
	}
	return b.Schema, nil
}

// Bind is FromType keeping the struct field mapping.
func Bind(t reflect.Type) (*Binding, error) {
	if t == nil {
		return nil, errors.NilPointer(errors.PhaseValidate, nil, "reflect.Type")
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, errors.TypeMismatch(errors.PhaseValidate, nil, t.String(), "struct")
	}

	var fields []Field
	var goIndex []int
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag, ok := sf.Tag.Lookup(Tag)
		if !ok || tag == "-" || !sf.IsExported() {
			continue
		}

		name, width, err := parseTag(t.Name(), sf.Name, tag)
		if err != nil {
			return nil, err
		}
		if capacity := GoTypeBits(sf.Type); capacity == 0 {
			return nil, errors.TypeMismatch(errors.PhaseValidate, []string{t.Name(), sf.Name},
				sf.Type.String(), "u"+strconv.Itoa(width))
		} else if width > capacity {
			return nil, errors.New(errors.PhaseValidate, errors.KindTypeMismatch).
				Path(t.Name(), sf.Name).
				GoType(sf.Type.String()).
				BitType("u"+strconv.Itoa(width)).
				Detail("Go field holds only %d bits", capacity).
				Build()
		}
		fields = append(fields, Field{Name: name, Width: width})
		goIndex = append(goIndex, i)
	}

	s, err := Validate(t.Name(), fields...)
	if err != nil {
		return nil, err
	}
	return &Binding{Schema: s, Type: t, GoIndex: goIndex}, nil
}

// FromStruct is FromType(reflect.TypeOf(v)).
func FromStruct(v any) (*Schema, error) {
	return FromType(reflect.TypeOf(v))
}

// GoTypeBits returns the bit capacity of an unsigned Go field type, or 0 for
// types that cannot hold a bit field.
func GoTypeBits(t reflect.Type) int {
	if t == uint128Type {
		return 128
	}
	switch t.Kind() {
	case reflect.Bool:
		return 1
	case reflect.Uint8:
		return 8
	case reflect.Uint16:
		return 16
	case reflect.Uint32:
		return 32
	case reflect.Uint64, reflect.Uint:
		return 64
	}
	return 0
}

func parseTag(typeName, fieldName, tag string) (string, int, error) {
	name := fieldName
	widthStr := tag
	if before, after, found := strings.Cut(tag, ","); found {
		name = strings.TrimSpace(before)
		widthStr = after
	}
	widthStr = strings.TrimPrefix(strings.TrimSpace(widthStr), "u")

	width, err := strconv.Atoi(widthStr)
	if err != nil {
		return "", 0, errors.New(errors.PhaseValidate, errors.KindInvalidData).
			Path(typeName, fieldName).
			Value(tag).
			Detail("malformed %s tag %q", Tag, tag).
			Cause(err).
			Build()
	}
	return name, width, nil
}
