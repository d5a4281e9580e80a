package schema

import (
	"github.com/wippyai/bitpack/errors"
)

// State is the validation state of a Draft.
type State int

const (
	Unvalidated State = iota
	Validated
	Rejected
)

func (s State) String() string {
	switch s {
	case Unvalidated:
		return "unvalidated"
	case Validated:
		return "validated"
	case Rejected:
		return "rejected"
	}
	return "unknown"
}

// Draft holds a candidate field list until it is validated.
// Not safe for concurrent Validate calls; the resulting Schema is.
type Draft struct {
	schema *Schema
	err    *errors.Error
	Name   string
	Fields []Field
	// Line is the source line of the declaration, 0 when not parsed from text.
	Line  int
	state State
}

// NewDraft creates an Unvalidated draft.
func NewDraft(name string, fields ...Field) *Draft {
	return &Draft{Name: name, Fields: fields}
}

// State returns the current validation state.
func (d *Draft) State() State { return d.state }

// Validate moves the draft to Validated or Rejected. Later calls return the
// same outcome without re-checking; edits to Fields after the first call are
// ignored.
func (d *Draft) Validate() (*Schema, error) {
	switch d.state {
	case Validated:
		return d.schema, nil
	case Rejected:
		return nil, d.err
	}

	s, err := validate(d.Name, d.Fields)
	if err != nil {
		d.err = err
		d.state = Rejected
		return nil, err
	}
	d.schema = s
	d.state = Validated
	return s, nil
}

// Schema returns the validated schema, or nil unless the draft is Validated.
func (d *Draft) Schema() *Schema { return d.schema }

// Err returns the rejection error, or nil unless the draft is Rejected.
func (d *Draft) Err() error {
	if d.err == nil {
		return nil
	}
	return d.err
}
