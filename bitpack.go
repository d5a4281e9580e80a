package bitpack

import (
	"github.com/wippyai/bitpack/decl"
	"github.com/wippyai/bitpack/layout"
	"github.com/wippyai/bitpack/schema"
)

// Field is shorthand for schema.Field{Name: name, Width: width}.
func Field(name string, width int) schema.Field {
	return schema.Field{Name: name, Width: width}
}

// Define validates fields and plans the layout. Use a layout.Compiler to
// share layouts between identical schemas.
func Define(name string, fields ...schema.Field) (*layout.Layout, error) {
	return layout.Define(name, fields...)
}

// MustDefine is like Define but panics on an invalid schema.
func MustDefine(name string, fields ...schema.Field) *layout.Layout {
	l, err := Define(name, fields...)
	if err != nil {
		panic(err)
	}
	return l
}

// Declare parses declaration source and plans every struct in it with c,
// or a compiler private to this call when c is nil.
func Declare(c *layout.Compiler, source string) ([]*layout.Layout, error) {
	drafts, err := decl.Parse(source)
	if err != nil {
		return nil, err
	}
	return decl.Compile(c, drafts)
}
