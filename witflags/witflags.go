// Package witflags maps WIT flags types onto bit layouts.
//
// The component model lays out a flags value with flag i at bit i. A schema
// built here lists the flags in reverse, so the most-significant-first
// planner places them at exactly those bits and a packed value's raw
// storage equals the canonical flags integer.
//
// Kebab-case flag names become snake_case field names. A flag whose name is
// a Go keyword, such as default or type, gets a trailing underscore
// (default_) and maps back without it.
package witflags

import (
	"go/token"
	"strings"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/bitpack/errors"
	"github.com/wippyai/bitpack/packed"
	"github.com/wippyai/bitpack/schema"
)

// Schema builds a schema of 1-bit fields from f. Kebab-case flag names
// become snake_case field names. More than 128 flags fail validation.
func Schema(name string, f *wit.Flags) (*schema.Schema, error) {
	if f == nil {
		return nil, errors.NilPointer(errors.PhaseValidate, []string{name}, "*wit.Flags")
	}
	fields := make([]schema.Field, len(f.Flags))
	for i, fl := range f.Flags {
		fields[len(fields)-1-i] = schema.Field{Name: fieldName(fl.Name), Width: 1}
	}
	return schema.Validate(name, fields...)
}

// FromTypeDef is Schema for a named flags type definition. The type name
// is converted to an exported Go name: file-mode becomes FileMode.
func FromTypeDef(td *wit.TypeDef) (*schema.Schema, error) {
	if td == nil {
		return nil, errors.NilPointer(errors.PhaseValidate, nil, "*wit.TypeDef")
	}
	var name string
	if td.Name != nil {
		name = typeName(*td.Name)
	}
	f, ok := td.Kind.(*wit.Flags)
	if !ok {
		return nil, errors.New(errors.PhaseValidate, errors.KindUnsupported).
			Path(name).
			Detail("WIT type %T is not a flags type", td.Kind).
			Build()
	}
	return Schema(name, f)
}

// Flags converts a schema of 1-bit fields back to a WIT flags type.
func Flags(s *schema.Schema) (*wit.Flags, error) {
	out := &wit.Flags{Flags: make([]wit.Flag, s.Len())}
	for i := 0; i < s.Len(); i++ {
		f := s.Field(i)
		if f.Width != 1 {
			return nil, errors.New(errors.PhaseEncode, errors.KindUnsupported).
				Path(s.Name(), f.Name).
				BitType(f.String()).
				Detail("WIT flags hold 1-bit fields only").
				Build()
		}
		out.Flags[s.Len()-1-i] = wit.Flag{Name: flagName(f.Name)}
	}
	return out, nil
}

// Names returns the set flags of v in WIT declaration order.
func Names(v packed.Value) []string {
	l := v.Layout()
	var names []string
	for i := l.Len() - 1; i >= 0; i-- {
		f := l.Field(i)
		if !f.Get(v.Raw()).IsZero() {
			names = append(names, flagName(f.Name))
		}
	}
	return names
}

// Set turns on the named flags of v. Unknown names fail with
// KindFieldUnknown and leave v unchanged.
func Set(v *packed.Value, names ...string) error {
	next := *v
	for _, name := range names {
		if err := next.Set64(fieldName(name), 1); err != nil {
			return err
		}
	}
	*v = next
	return nil
}

func fieldName(flag string) string {
	name := strings.ReplaceAll(strings.TrimPrefix(flag, "%"), "-", "_")
	if token.IsKeyword(name) {
		name += "_"
	}
	return name
}

func flagName(field string) string {
	if kw := strings.TrimSuffix(field, "_"); kw != field && token.IsKeyword(kw) {
		field = kw
	}
	return strings.ReplaceAll(field, "_", "-")
}

func typeName(witName string) string {
	var b strings.Builder
	for _, part := range strings.Split(strings.TrimPrefix(witName, "%"), "-") {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}
