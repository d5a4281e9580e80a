// Package schema defines bit field declarations and their validation.
//
// A schema is an ordered list of named fields with declared widths. Order is
// significant: the layout planner packs the first declared field into the
// most significant bits.
//
// Validation is a one-way state machine. A Draft starts Unvalidated and
// moves exactly once to Validated (carrying a *Schema) or Rejected (carrying
// a *errors.Error); both states are terminal:
//
//	d := schema.NewDraft("Header",
//		schema.Field{Name: "flag", Width: 1},
//		schema.Field{Name: "counter", Width: 7},
//	)
//	s, err := d.Validate()
//
// Checks run in order: every width in [1,128], identifier names, no
// duplicate names, total width at most 128. A rejected draft never yields a
// schema.
package schema
