package bitpack

import (
	"errors"
	"testing"

	bperrors "github.com/wippyai/bitpack/errors"
	"github.com/wippyai/bitpack/layout"
	"github.com/wippyai/bitpack/packed"
)

func TestDefine(t *testing.T) {
	l := MustDefine("Bits", Field("flag", 1), Field("counter", 7))

	v := packed.New(l)
	v.Put(packed.MustField(l, "flag"), 1).Put(packed.MustField(l, "counter"), 42)
	if v.Uint64() != 0xAA {
		t.Errorf("raw = %#x", v.Uint64())
	}

	if _, err := Define("Bits", Field("wide", 129)); !errors.Is(err, bperrors.ErrInvalidFieldWidth) {
		t.Errorf("got %v", err)
	}
}

func TestDeclare(t *testing.T) {
	c := layout.NewCompilerWithDefaults()
	src := "struct Bits { flag: u1, counter: u7 }\nstruct Pair { hi: u8, lo: u8 }"

	first, err := Declare(c, src)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 2 || first[1].Name() != "Pair" {
		t.Errorf("layouts = %v", first)
	}

	second, err := Declare(c, src)
	if err != nil {
		t.Fatal(err)
	}
	if first[0] != second[0] || c.Stats().Misses != 2 {
		t.Errorf("compiler should reuse layouts, stats %+v", c.Stats())
	}

	if _, err := Declare(nil, "struct Bad { a: u129 }"); !errors.Is(err, bperrors.ErrInvalidFieldWidth) {
		t.Errorf("got %v", err)
	}
}

func TestMustDefinePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustDefine("Empty")
}
