package main

import (
	"strings"
	"testing"

	"github.com/wippyai/bitpack/layout"
	"github.com/wippyai/bitpack/schema"
)

func TestApplyInputsTruncates(t *testing.T) {
	l, err := layout.Define("Bits", schema.Field{Name: "flag", Width: 1}, schema.Field{Name: "counter", Width: 7})
	if err != nil {
		t.Fatal(err)
	}
	m := newInteractiveModel("")
	m.layouts = []*layout.Layout{l}
	m.prepareInputs()
	m.inputs[0].SetValue("1")
	m.inputs[1].SetValue("0x1aa")
	m.applyInputs()

	if got := m.value.Uint64(); got != 0xAA {
		t.Errorf("value = %#x, want 0xaa", got)
	}
	if len(m.warnings) != 1 || !strings.Contains(m.warnings[0], "counter: 0x1aa truncated to u7") {
		t.Errorf("warnings = %q", m.warnings)
	}
}

func TestApplyInputsReportsBadNumbers(t *testing.T) {
	l, err := layout.Define("Bits", schema.Field{Name: "flag", Width: 1}, schema.Field{Name: "counter", Width: 7})
	if err != nil {
		t.Fatal(err)
	}
	m := newInteractiveModel("")
	m.layouts = []*layout.Layout{l}
	m.prepareInputs()
	m.inputs[0].SetValue("nope")
	m.inputs[1].SetValue("42")
	m.applyInputs()

	if got := m.value.Uint64(); got != 42 {
		t.Errorf("value = %d, want 42", got)
	}
	if len(m.warnings) != 1 || !strings.HasPrefix(m.warnings[0], "flag: ") {
		t.Errorf("warnings = %q", m.warnings)
	}
}
