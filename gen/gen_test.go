package gen

import (
	"errors"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	bperrors "github.com/wippyai/bitpack/errors"
	"github.com/wippyai/bitpack/layout"
	"github.com/wippyai/bitpack/schema"
)

func define(t *testing.T, name string, fields ...schema.Field) *layout.Layout {
	t.Helper()
	l, err := layout.Define(name, fields...)
	if err != nil {
		t.Fatal(err)
	}
	return l
}

// decls parses src and returns its top-level names, methods as Type.Method.
func decls(t *testing.T, src []byte) (*ast.File, map[string]bool) {
	t.Helper()
	file, err := parser.ParseFile(token.NewFileSet(), "gen.go", src, parser.ParseComments)
	if err != nil {
		t.Fatalf("generated source does not parse: %v\n%s", err, src)
	}
	names := make(map[string]bool)
	for _, d := range file.Decls {
		switch d := d.(type) {
		case *ast.FuncDecl:
			name := d.Name.Name
			if d.Recv != nil {
				recv := d.Recv.List[0].Type
				if star, ok := recv.(*ast.StarExpr); ok {
					recv = star.X
				}
				name = recv.(*ast.Ident).Name + "." + name
			}
			names[name] = true
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				if ts, ok := spec.(*ast.TypeSpec); ok {
					names[ts.Name.Name] = true
				}
			}
		}
	}
	return file, names
}

func TestGenerateFlagCounter(t *testing.T) {
	l := define(t, "Bits", schema.Field{Name: "flag", Width: 1}, schema.Field{Name: "counter", Width: 7})
	src, err := Generate([]*layout.Layout{l}, Options{Package: "status"})
	if err != nil {
		t.Fatal(err)
	}

	file, names := decls(t, src)
	if file.Name.Name != "status" {
		t.Errorf("package = %s", file.Name.Name)
	}
	for _, want := range []string{
		"Bits", "BitsFromRaw", "Bits.Raw", "Bits.String",
		"Bits.Flag", "Bits.SetFlag", "Bits.Counter", "Bits.SetCounter",
	} {
		if !names[want] {
			t.Errorf("missing %s", want)
		}
	}
	if names["Bits.SetFlagChecked"] {
		t.Error("checked setters not requested")
	}

	text := string(src)
	for _, want := range []string{
		"// Code generated by bitpack. DO NOT EDIT.",
		"type Bits uint8",
		"0x80",
		"0x7f",
		"ABBBBBBB",
		`"Bits{flag: %v, counter: %v}"`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "uint128") {
		t.Error("narrow layouts should not import uint128")
	}
}

func TestGenerateWide(t *testing.T) {
	l := define(t, "Wide",
		schema.Field{Name: "a", Width: 40},
		schema.Field{Name: "b", Width: 25},
		schema.Field{Name: "c", Width: 31},
		schema.Field{Name: "d", Width: 16},
		schema.Field{Name: "e", Width: 9},
		schema.Field{Name: "f", Width: 7},
	)
	big := define(t, "Big", schema.Field{Name: "value", Width: 100})

	src, err := Generate([]*layout.Layout{l, big}, Options{CheckedSetters: true})
	if err != nil {
		t.Fatal(err)
	}
	file, names := decls(t, src)
	if file.Name.Name != "bits" {
		t.Errorf("default package = %s", file.Name.Name)
	}
	for _, want := range []string{"Wide", "Wide.A", "Wide.SetF", "Wide.SetAChecked", "Big.Value", "Big.SetValueChecked"} {
		if !names[want] {
			t.Errorf("missing %s", want)
		}
	}

	text := string(src)
	for _, want := range []string{
		`"lukechampine.com/uint128"`,
		"type Wide uint128.Uint128",
		"func (w Wide) A() uint64",
		"func (b Big) Value() uint128.Uint128",
		"Rsh(88)",
		"v.Cmp(",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestGenerateCheckedSkipsExactWidths(t *testing.T) {
	l := define(t, "Word", schema.Field{Name: "hi", Width: 8}, schema.Field{Name: "lo", Width: 8})
	src, err := Generate([]*layout.Layout{l}, Options{CheckedSetters: true})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(src), "overflows") {
		t.Errorf("u8 fields in uint8 cannot overflow:\n%s", src)
	}
	_, names := decls(t, src)
	if !names["Word.SetHiChecked"] {
		t.Error("missing SetHiChecked")
	}
}

func TestExportName(t *testing.T) {
	tests := map[string]string{
		"counter":   "Counter",
		"field_0":   "Field0",
		"_reserved": "Reserved",
		"crc_lo_hi": "CrcLoHi",
		"Already":   "Already",
		"ünicode":   "Ünicode",
		"_":         "",
	}
	for in, want := range tests {
		if got := exportName(in); got != want {
			t.Errorf("exportName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGenerateCollisions(t *testing.T) {
	tests := []struct {
		name    string
		layouts func(t *testing.T) []*layout.Layout
	}{
		{"field_vs_field", func(t *testing.T) []*layout.Layout {
			return []*layout.Layout{define(t, "A", schema.Field{Name: "a_b", Width: 1}, schema.Field{Name: "aB", Width: 1})}
		}},
		{"getter_vs_setter", func(t *testing.T) []*layout.Layout {
			return []*layout.Layout{define(t, "A", schema.Field{Name: "x", Width: 1}, schema.Field{Name: "set_x", Width: 1})}
		}},
		{"reserved_method", func(t *testing.T) []*layout.Layout {
			return []*layout.Layout{define(t, "A", schema.Field{Name: "raw", Width: 1})}
		}},
		{"blank_field", func(t *testing.T) []*layout.Layout {
			return []*layout.Layout{define(t, "A", schema.Field{Name: "_", Width: 1})}
		}},
		{"uint128_hi", func(t *testing.T) []*layout.Layout {
			return []*layout.Layout{define(t, "Mid", schema.Field{Name: "hi", Width: 64}, schema.Field{Name: "low", Width: 3})}
		}},
		{"uint128_lo", func(t *testing.T) []*layout.Layout {
			return []*layout.Layout{define(t, "Mid", schema.Field{Name: "top", Width: 64}, schema.Field{Name: "lo", Width: 3})}
		}},
		{"uint128_capitalized", func(t *testing.T) []*layout.Layout {
			return []*layout.Layout{define(t, "Full", schema.Field{Name: "Hi", Width: 128})}
		}},
		{"digit_method", func(t *testing.T) []*layout.Layout {
			return []*layout.Layout{define(t, "A", schema.Field{Name: "_1", Width: 1})}
		}},
		{"duplicate_type", func(t *testing.T) []*layout.Layout {
			return []*layout.Layout{
				define(t, "A", schema.Field{Name: "x", Width: 1}),
				define(t, "A", schema.Field{Name: "y", Width: 1}),
			}
		}},
		{"anonymous", func(t *testing.T) []*layout.Layout {
			return []*layout.Layout{define(t, "", schema.Field{Name: "x", Width: 1})}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(tt.layouts(t), DefaultOptions())
			var e *bperrors.Error
			if !errors.As(err, &e) || e.Kind != bperrors.KindInvalidName {
				t.Errorf("got %v, want invalid name", err)
			}
			if e != nil && e.Phase != bperrors.PhaseGenerate {
				t.Errorf("phase = %s, want generate", e.Phase)
			}
		})
	}
}

func TestGenerateHiLoInNarrowStorage(t *testing.T) {
	l := define(t, "Pair", schema.Field{Name: "hi", Width: 32}, schema.Field{Name: "lo", Width: 32})
	src, err := Generate([]*layout.Layout{l}, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	_, names := decls(t, src)
	if !names["Pair.Hi"] || !names["Pair.Lo"] {
		t.Errorf("uint64 storage has no Hi/Lo fields to collide with:\n%s", src)
	}
}
