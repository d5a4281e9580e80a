// Package decl reads bit layout declarations.
//
// The text form lists one or more structs, each field typed uN for a width
// N between 1 and 128:
//
//	// status word
//	struct Bits {
//	    flag: u1,
//	    counter: u7, // trailing comma allowed
//	}
//
// Line (//) and block (/* */) comments are ignored. The same declarations
// can be written as YAML:
//
//	structs:
//	  - name: Bits
//	    fields:
//	      - {name: flag, bits: 1}
//	      - {name: counter, bits: 7}
//
// Parsing yields unvalidated schema drafts. Compile validates them all and
// plans their layouts, reporting every rejected struct at once.
package decl
