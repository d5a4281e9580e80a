package gen

import (
	"fmt"
	"go/format"
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
	"lukechampine.com/uint128"

	"github.com/wippyai/bitpack/bitrange"
	"github.com/wippyai/bitpack/errors"
	"github.com/wippyai/bitpack/layout"
)

// Options configures code generation.
type Options struct {
	// Package is the package clause of the output.
	Package string
	// Header replaces the default "Code generated" line.
	Header string
	// CheckedSetters adds a SetXChecked method per field returning an error
	// instead of truncating.
	CheckedSetters bool
}

// DefaultOptions returns default generator configuration.
func DefaultOptions() Options {
	return Options{
		Package: "bits",
		Header:  "// Code generated by bitpack. DO NOT EDIT.",
	}
}

// Generate emits a gofmt'd Go file declaring one type per layout.
func Generate(layouts []*layout.Layout, opts Options) ([]byte, error) {
	if opts.Package == "" {
		opts.Package = DefaultOptions().Package
	}
	if opts.Header == "" {
		opts.Header = DefaultOptions().Header
	}

	types := make([]*typeGen, 0, len(layouts))
	names := make(map[string]string)
	wide := false
	for _, l := range layouts {
		g, err := newTypeGen(l, opts)
		if err != nil {
			return nil, err
		}
		for _, top := range []string{g.name, g.name + "FromRaw"} {
			if prev, dup := names[top]; dup {
				return nil, errors.New(errors.PhaseGenerate, errors.KindInvalidName).
					Path(l.Name()).
					Detail("%s collides with a declaration generated for %s", top, prev).
					Build()
			}
			names[top] = l.Name()
		}
		if l.Storage() == layout.W128 {
			wide = true
		}
		types = append(types, g)
	}

	var out strings.Builder
	out.WriteString(opts.Header)
	out.WriteString("\n\n")
	fmt.Fprintf(&out, "package %s\n\n", opts.Package)
	out.WriteString("import (\n\t\"fmt\"\n")
	if wide {
		out.WriteString("\n\t\"lukechampine.com/uint128\"\n")
	}
	out.WriteString(")\n")
	for _, g := range types {
		g.emit(&out)
	}

	src, err := format.Source([]byte(out.String()))
	if err != nil {
		return nil, errors.New(errors.PhaseGenerate, errors.KindInvalidData).
			Detail("formatting generated source").
			Cause(err).
			Build()
	}
	Logger().Debug("generated accessors", zap.Int("types", len(types)), zap.Int("bytes", len(src)))
	return src, nil
}

type fieldGen struct {
	f      layout.Field
	method string
}

type typeGen struct {
	l       *layout.Layout
	name    string
	recv    string
	storage string
	fields  []fieldGen
	checked bool
}

func newTypeGen(l *layout.Layout, opts Options) (*typeGen, error) {
	name := l.Name()
	if name == "" {
		return nil, errors.New(errors.PhaseGenerate, errors.KindInvalidName).
			Detail("anonymous layouts cannot be generated").
			Build()
	}

	first, _ := utf8.DecodeRuneInString(name)
	recv := string(unicode.ToLower(first))
	if recv == "v" {
		recv = "x"
	}
	g := &typeGen{
		l:       l,
		name:    name,
		recv:    recv,
		storage: l.Storage().GoType(),
		checked: opts.CheckedSetters,
	}

	// owner of each method name, or of a struct field it would shadow
	methods := map[string]string{"Raw": "a generated method", "String": "a generated method"}
	if g.wide() {
		methods["Hi"] = "the uint128.Uint128 field Hi"
		methods["Lo"] = "the uint128.Uint128 field Lo"
	}
	claim := func(method, field string) error {
		if owner, dup := methods[method]; dup {
			return errors.New(errors.PhaseGenerate, errors.KindInvalidName).
				Path(name, field).
				Detail("method %s collides with %s", method, owner).
				Build()
		}
		methods[method] = "field " + field
		return nil
	}

	for _, f := range l.Fields() {
		method := exportName(f.Name)
		if !token.IsIdentifier(method) {
			return nil, errors.New(errors.PhaseGenerate, errors.KindInvalidName).
				Path(name, f.Name).
				Value(f.Name).
				Detail("field %q does not yield a method name (got %q)", f.Name, method).
				Build()
		}
		if err := claim(method, f.Name); err != nil {
			return nil, err
		}
		if err := claim("Set"+method, f.Name); err != nil {
			return nil, err
		}
		if g.checked {
			if err := claim("Set"+method+"Checked", f.Name); err != nil {
				return nil, err
			}
		}
		g.fields = append(g.fields, fieldGen{f: f, method: method})
	}
	return g, nil
}

// exportName converts a field name to an exported method name:
// counter -> Counter, field_0 -> Field0.
func exportName(name string) string {
	var b strings.Builder
	for _, part := range strings.Split(name, "_") {
		if part == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(part)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(part[size:])
	}
	return b.String()
}

func (g *typeGen) wide() bool { return g.l.Storage() == layout.W128 }

func (g *typeGen) emit(out *strings.Builder) {
	l := g.l

	fmt.Fprintf(out, "\n// %s packs ", g.name)
	for i, f := range l.Fields() {
		if i > 0 {
			out.WriteString(", ")
		}
		fmt.Fprintf(out, "%s: u%d", f.Name, f.Width)
	}
	fmt.Fprintf(out, " into a %s, first field in the high bits.\n//\n", g.storage)
	for _, line := range strings.Split(l.Diagram(), "\n") {
		fmt.Fprintf(out, "//\t%s\n", line)
	}
	if g.wide() {
		fmt.Fprintf(out, "type %s uint128.Uint128\n\n", g.name)
	} else {
		fmt.Fprintf(out, "type %s %s\n\n", g.name, g.storage)
	}

	fmt.Fprintf(out, "// %sFromRaw wraps a storage integer, unused bits included.\n", g.name)
	fmt.Fprintf(out, "func %sFromRaw(raw %s) %s { return %s(raw) }\n\n", g.name, g.storage, g.name, g.name)
	fmt.Fprintf(out, "// Raw returns the storage integer.\n")
	fmt.Fprintf(out, "func (%s %s) Raw() %s { return %s(%s) }\n", g.recv, g.name, g.storage, g.storage, g.recv)

	for _, fg := range g.fields {
		g.emitGetter(out, fg)
		g.emitSetter(out, fg)
		if g.checked {
			g.emitChecked(out, fg)
		}
	}
	g.emitString(out)
}

func (g *typeGen) emitGetter(out *strings.Builder, fg fieldGen) {
	f := fg.f
	rt := f.ReturnWidth.GoType()
	fmt.Fprintf(out, "\n// %s returns the u%d field %s.\n", fg.method, f.Width, f.Name)
	fmt.Fprintf(out, "func (%s %s) %s() %s {\n", g.recv, g.name, fg.method, rt)

	switch {
	case !g.wide():
		fmt.Fprintf(out, "\treturn %s(%s) & %s\n", rt, shifted(g.recv, f.Offset), lit64(f.Mask))
	case f.ReturnWidth == layout.W128:
		fmt.Fprintf(out, "\treturn uint128.Uint128(%s).Rsh(%d).And(%s)\n", g.recv, f.Offset, lit128(f.Mask))
	default:
		fmt.Fprintf(out, "\treturn %s(uint128.Uint128(%s).Rsh(%d).Lo) & %s\n", rt, g.recv, f.Offset, lit64(f.Mask))
	}
	out.WriteString("}\n")
}

func (g *typeGen) emitSetter(out *strings.Builder, fg fieldGen) {
	f := fg.f
	rt := f.ReturnWidth.GoType()
	fmt.Fprintf(out, "\n// Set%s stores the low %d bits of v in %s.\n", fg.method, f.Width, f.Name)
	fmt.Fprintf(out, "func (%s *%s) Set%s(v %s) *%s {\n", g.recv, g.name, fg.method, rt, g.name)
	g.emitStore(out, f)
	fmt.Fprintf(out, "\treturn %s\n}\n", g.recv)
}

func (g *typeGen) emitChecked(out *strings.Builder, fg fieldGen) {
	f := fg.f
	rt := f.ReturnWidth.GoType()
	fmt.Fprintf(out, "\n// Set%sChecked stores v in %s, failing if v needs more than %d bits.\n", fg.method, f.Name, f.Width)
	fmt.Fprintf(out, "func (%s *%s) Set%sChecked(v %s) error {\n", g.recv, g.name, fg.method, rt)
	if f.Width < f.ReturnWidth.Bits() {
		if f.ReturnWidth == layout.W128 {
			fmt.Fprintf(out, "\tif v.Cmp(%s) > 0 {\n", lit128(f.Mask))
		} else {
			fmt.Fprintf(out, "\tif v > %s {\n", lit64(f.Mask))
		}
		fmt.Fprintf(out, "\t\treturn fmt.Errorf(\"%s.%s: value %%v overflows u%d\", v)\n\t}\n", g.name, f.Name, f.Width)
	}
	g.emitStore(out, f)
	out.WriteString("\treturn nil\n}\n")
}

func (g *typeGen) emitStore(out *strings.Builder, f layout.Field) {
	r := g.recv
	switch {
	case !g.wide():
		fmt.Fprintf(out, "\t*%s = *%s&^%s | %s\n", r, r, lit64(f.ShiftedMask()),
			shifted(fmt.Sprintf("%s(v&%s)", g.name, lit64(f.Mask)), -f.Offset))
	case f.ReturnWidth == layout.W128:
		fmt.Fprintf(out, "\t*%s = %s(uint128.Uint128(*%s).And(%s).Or(v.And(%s).Lsh(%d)))\n",
			r, g.name, r, lit128(bitrange.Not128(f.ShiftedMask())), lit128(f.Mask), f.Offset)
	default:
		fmt.Fprintf(out, "\t*%s = %s(uint128.Uint128(*%s).And(%s).Or(uint128.From64(uint64(v&%s)).Lsh(%d)))\n",
			r, g.name, r, lit128(bitrange.Not128(f.ShiftedMask())), lit64(f.Mask), f.Offset)
	}
}

func (g *typeGen) emitString(out *strings.Builder) {
	var verb, args strings.Builder
	verb.WriteString(g.name)
	verb.WriteByte('{')
	for i, fg := range g.fields {
		if i > 0 {
			verb.WriteString(", ")
		}
		fmt.Fprintf(&verb, "%s: %%v", fg.f.Name)
		fmt.Fprintf(&args, ", %s.%s()", g.recv, fg.method)
	}
	verb.WriteByte('}')

	fmt.Fprintf(out, "\nfunc (%s %s) String() string {\n", g.recv, g.name)
	fmt.Fprintf(out, "\treturn fmt.Sprintf(%q%s)\n}\n", verb.String(), args.String())
}

// shifted renders x>>n for n > 0, x<<-n for n < 0 and x for n == 0.
func shifted(x string, n int) string {
	switch {
	case n > 0:
		return fmt.Sprintf("%s>>%d", x, n)
	case n < 0:
		return fmt.Sprintf("%s<<%d", x, -n)
	}
	return x
}

func lit64(u uint128.Uint128) string {
	return fmt.Sprintf("%#x", u.Lo)
}

func lit128(u uint128.Uint128) string {
	return fmt.Sprintf("uint128.New(%#x, %#x)", u.Lo, u.Hi)
}
