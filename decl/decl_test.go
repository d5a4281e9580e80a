package decl

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	bperrors "github.com/wippyai/bitpack/errors"
	"github.com/wippyai/bitpack/layout"
	"github.com/wippyai/bitpack/schema"
)

const bitsSource = `
struct Bits {
    flag: u1,
    counter: u7,
}

/* 128-bit control block */
struct Wide {
    a: u40, b: u25, c: u31,
    d: u16, e: u9, f: u7
}
`

const bitsYAML = `
structs:
  - name: Bits
    fields:
      - {name: flag, bits: 1}
      - {name: counter, bits: 7}
  - name: Wide
    fields:
      - {name: a, bits: 40}
      - {name: b, bits: 25}
      - {name: c, bits: 31}
      - {name: d, bits: 16}
      - {name: e, bits: 9}
      - {name: f, bits: 7}
`

func TestParseAndCompile(t *testing.T) {
	drafts, err := Parse(bitsSource)
	if err != nil {
		t.Fatal(err)
	}
	layouts, err := Compile(nil, drafts)
	if err != nil {
		t.Fatal(err)
	}
	if len(layouts) != 2 {
		t.Fatalf("got %d layouts", len(layouts))
	}

	bits := layouts[0]
	if bits.Name() != "Bits" || bits.Storage() != layout.W8 {
		t.Errorf("Bits = %s %v", bits.Name(), bits.Storage())
	}
	if f, _ := bits.Lookup("flag"); f.Offset != 7 {
		t.Errorf("flag offset = %d", f.Offset)
	}
	if wide := layouts[1]; wide.Storage() != layout.W128 || wide.TotalWidth() != 128 {
		t.Errorf("Wide = %v/%d", wide.Storage(), wide.TotalWidth())
	}
	for _, d := range drafts {
		if d.State() != schema.Validated {
			t.Errorf("%s state = %v", d.Name, d.State())
		}
	}
}

func TestYAMLMatchesText(t *testing.T) {
	fromText, err := Parse(bitsSource)
	if err != nil {
		t.Fatal(err)
	}
	fromYAML, err := ParseYAML([]byte(bitsYAML))
	if err != nil {
		t.Fatal(err)
	}
	if len(fromText) != len(fromYAML) {
		t.Fatalf("got %d and %d drafts", len(fromText), len(fromYAML))
	}

	for i := range fromText {
		a, err := fromText[i].Validate()
		if err != nil {
			t.Fatal(err)
		}
		b, err := fromYAML[i].Validate()
		if err != nil {
			t.Fatal(err)
		}
		if a.Name() != b.Name() || a.Key() != b.Key() {
			t.Errorf("draft %d: %s vs %s", i, a, b)
		}
	}
	if fromYAML[0].Line != 3 {
		t.Errorf("yaml line = %d, want 3", fromYAML[0].Line)
	}
}

func TestParseYAMLErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown_key", "structs:\n  - name: A\n    feilds: []\n"},
		{"not_a_list", "structs: 3\n"},
		{"no_name", "structs:\n  - fields: [{name: a, bits: 1}]\n"},
		{"duplicate", "structs:\n  - name: A\n  - name: A\n"},
		{"bad_width", "structs:\n  - name: A\n    fields: [{name: a, bits: wide}]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tt.src))
			var e *bperrors.Error
			if !errors.As(err, &e) || e.Kind != bperrors.KindSyntax {
				t.Errorf("got %v, want syntax error", err)
			}
		})
	}

	drafts, err := ParseYAML(nil)
	if err != nil || len(drafts) != 0 {
		t.Errorf("empty document: %v, %v", drafts, err)
	}
}

func TestCompileRejectsAll(t *testing.T) {
	drafts, err := Parse(`
struct Ok { a: u8 }
struct TooWide { a: u100, b: u29 }
struct Zero { a: u0 }
struct Empty {}
struct Dup { a: u1, a: u2 }
`)
	if err != nil {
		t.Fatal(err)
	}

	_, err = Compile(layout.NewCompilerWithDefaults(), drafts)
	var rejected *bperrors.RejectedSchemasError
	if !errors.As(err, &rejected) {
		t.Fatalf("got %v, want RejectedSchemasError", err)
	}
	if len(rejected.Errors) != 4 {
		t.Errorf("got %d rejections: %v", len(rejected.Errors), err)
	}
	for _, sentinel := range []error{
		bperrors.ErrTotalWidthExceeded,
		bperrors.ErrInvalidFieldWidth,
		bperrors.ErrEmptySchema,
	} {
		if !errors.Is(err, sentinel) {
			t.Errorf("aggregate should match %v", sentinel)
		}
	}

	msg := err.Error()
	for _, name := range []string{"TooWide", "Zero", "Empty", "Dup"} {
		if !strings.Contains(msg, name) {
			t.Errorf("message missing %s:\n%s", name, msg)
		}
	}
	if strings.Contains(msg, "Ok:") {
		t.Errorf("accepted struct listed:\n%s", msg)
	}

	if drafts[0].State() != schema.Validated || drafts[1].State() != schema.Rejected {
		t.Errorf("states = %v, %v", drafts[0].State(), drafts[1].State())
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	text := filepath.Join(dir, "bits.bits")
	yml := filepath.Join(dir, "bits.YML")
	if err := os.WriteFile(text, []byte(bitsSource), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(yml, []byte(bitsYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{text, yml} {
		drafts, err := ParseFile(path)
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		if len(drafts) != 2 {
			t.Errorf("%s: got %d drafts", path, len(drafts))
		}
	}

	if _, err := ParseFile(filepath.Join(dir, "missing")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: %v", err)
	}
}

func FuzzParse(f *testing.F) {
	f.Add(bitsSource)
	f.Add("struct A { a: u1, }")
	f.Add("struct /* x */ B {")
	f.Add("struct C { a: u999999999999999999999 }")
	f.Fuzz(func(t *testing.T, src string) {
		drafts, err := Parse(src)
		if err != nil {
			var e *bperrors.Error
			if !errors.As(err, &e) || e.Phase != bperrors.PhaseParse {
				t.Fatalf("unexpected error type %T: %v", err, err)
			}
			return
		}
		// Every parsed draft either validates or is rejected; neither panics.
		_, _ = Compile(nil, drafts)
	})
}
