package gen

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wippyai/bitpack/layout"
	"github.com/wippyai/bitpack/schema"
)

// accessorProgram exercises the generated types and prints one line per
// check.
const accessorProgram = `package main

import (
	"fmt"

	"lukechampine.com/uint128"
)

func main() {
	var b Bits
	b.SetFlag(1).SetCounter(0x2a)
	fmt.Printf("bits %#x %s\n", b.Raw(), b)

	var t Bits
	t.SetCounter(0xff)
	fmt.Printf("trunc %#x %d\n", t.Raw(), t.Counter())

	c := BitsFromRaw(0xaa)
	err := c.SetCounterChecked(0x80)
	fmt.Printf("checked %v %#x\n", err != nil, c.Raw())

	w := WideFromRaw(uint128.New(0xFF00FF00FF00FF00, 0xFF00FF00FF00FF00))
	w.SetA(0xAAAAAAAAAA).SetB(0x1ffffff).SetC(0).SetD(0x6666).SetE(0x1ff).SetF(0)
	fmt.Printf("wide %s\n", w.Raw().Big().Text(16))
	fmt.Printf("wide a=%#x d=%#x\n", w.A(), w.D())

	var f Full
	f.SetValue(uint128.Max)
	fmt.Printf("full %s %v\n", f.Value().Big().Text(16), f.Raw().Equals(uint128.Max))

	var m Mid
	m.SetTop(^uint64(0)).SetLow(0xf)
	fmt.Printf("mid %s top=%#x low=%d\n", m.Raw().Big().Text(16), m.Top(), m.Low())
	err = m.SetLowChecked(8)
	fmt.Printf("midchecked %v low=%d\n", err != nil, m.Low())
}
`

func TestGeneratedAccessorsRun(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping go run in short mode")
	}
	goBin, err := exec.LookPath("go")
	if err != nil {
		t.Skip("go command not found")
	}

	layouts := []*layout.Layout{
		define(t, "Bits", schema.Field{Name: "flag", Width: 1}, schema.Field{Name: "counter", Width: 7}),
		define(t, "Wide",
			schema.Field{Name: "a", Width: 40},
			schema.Field{Name: "b", Width: 25},
			schema.Field{Name: "c", Width: 31},
			schema.Field{Name: "d", Width: 16},
			schema.Field{Name: "e", Width: 9},
			schema.Field{Name: "f", Width: 7},
		),
		define(t, "Full", schema.Field{Name: "value", Width: 128}),
		define(t, "Mid", schema.Field{Name: "top", Width: 64}, schema.Field{Name: "low", Width: 3}),
	}
	src, err := Generate(layouts, Options{Package: "main", CheckedSetters: true})
	if err != nil {
		t.Fatal(err)
	}

	// The program must live inside this module to resolve uint128 from go.mod.
	// A leading underscore keeps the directory out of ./... patterns.
	dir, err := os.MkdirTemp(".", "_generated")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	if err := os.WriteFile(filepath.Join(dir, "bits.go"), src, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "main.go"), []byte(accessorProgram), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := exec.CommandContext(context.TODO(), goBin, "run", "bits.go", "main.go")
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GOWORK=off")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		t.Fatalf("go run: %v\n%s\n%s", err, stderr.Bytes(), src)
	}

	want := strings.Join([]string{
		"bits 0xaa Bits{flag: 1, counter: 42}",
		"trunc 0x7f 127",
		"checked true 0xaa",
		"wide aaaaaaaaaaffffff800000006666ff80",
		"wide a=0xaaaaaaaaaa d=0x6666",
		"full " + strings.Repeat("f", 32) + " true",
		"mid 7" + strings.Repeat("f", 16) + " top=0xffffffffffffffff low=7",
		"midchecked true low=7",
	}, "\n") + "\n"
	if string(out) != want {
		t.Errorf("output:\n%s\nwant:\n%s", out, want)
	}
}
