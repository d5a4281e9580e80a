package schema

import (
	"fmt"
	"go/token"
	"strconv"
	"strings"

	"github.com/wippyai/bitpack/errors"
)

const (
	MinFieldWidth = 1
	MaxFieldWidth = 128
	MaxTotalWidth = 128
)

// Field is one named bit field. Immutable once part of a Schema.
type Field struct {
	Name  string
	Width int
}

// String renders the declaration form, e.g. "counter: u7".
func (f Field) String() string {
	return f.Name + ": u" + strconv.Itoa(f.Width)
}

// Schema is a validated, immutable field list.
type Schema struct {
	index  map[string]int
	name   string
	key    string
	fields []Field
	total  int
}

// Name returns the schema's type name, possibly empty.
func (s *Schema) Name() string { return s.name }

// Len returns the number of fields.
func (s *Schema) Len() int { return len(s.fields) }

// Field returns the i-th field in declaration order.
func (s *Schema) Field(i int) Field { return s.fields[i] }

// Fields returns a copy of the fields in declaration order.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Lookup returns the declaration index of the named field.
func (s *Schema) Lookup(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// TotalWidth returns the sum of all field widths.
func (s *Schema) TotalWidth() int { return s.total }

// Key identifies the layout of s: the ordered (name, width) sequence. Two
// schemas with equal keys have identical layouts regardless of their names.
func (s *Schema) Key() string { return s.key }

// String renders the schema in declaration syntax.
func (s *Schema) String() string {
	var b strings.Builder
	b.WriteString("struct ")
	if s.name != "" {
		b.WriteString(s.name)
		b.WriteByte(' ')
	}
	b.WriteString("{ ")
	for i, f := range s.fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.String())
	}
	b.WriteString(" }")
	return b.String()
}

// Validate runs the full check list and returns a Schema or the first
// failure.
func Validate(name string, fields ...Field) (*Schema, error) {
	return NewDraft(name, fields...).Validate()
}

// MustValidate is like Validate but panics on failure. Intended for package
// level declarations with literal fields.
func MustValidate(name string, fields ...Field) *Schema {
	s, err := Validate(name, fields...)
	if err != nil {
		panic(fmt.Sprintf("schema: MustValidate(%q): %v", name, err))
	}
	return s
}

func validate(name string, fields []Field) (*Schema, *errors.Error) {
	if len(fields) == 0 {
		return nil, errors.EmptySchema(name)
	}

	for _, f := range fields {
		if f.Width < MinFieldWidth || f.Width > MaxFieldWidth {
			return nil, errors.InvalidFieldWidth(name, f.Name, f.Width)
		}
	}

	if name != "" && !token.IsIdentifier(name) {
		return nil, errors.InvalidName(name, name)
	}

	index := make(map[string]int, len(fields))
	for i, f := range fields {
		if !token.IsIdentifier(f.Name) {
			return nil, errors.InvalidName(name, f.Name)
		}
		if _, dup := index[f.Name]; dup {
			return nil, errors.DuplicateField(name, f.Name)
		}
		index[f.Name] = i
	}

	total := 0
	for _, f := range fields {
		total += f.Width
	}
	if total > MaxTotalWidth {
		return nil, errors.TotalWidthExceeded(name, total)
	}

	own := make([]Field, len(fields))
	copy(own, fields)

	return &Schema{
		name:   name,
		fields: own,
		index:  index,
		total:  total,
		key:    layoutKey(own),
	}, nil
}

func layoutKey(fields []Field) string {
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(f.Name)
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(f.Width))
	}
	return b.String()
}
