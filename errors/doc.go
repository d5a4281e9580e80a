// Package errors provides structured error types for the bitpack module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the schema/field path, Go and bit type names, the
// offending value and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseEncode, errors.KindTypeMismatch).
//		Path("Header", "flags").
//		GoType("string").
//		BitType("u7").
//		Detail("cannot pack string into bit field").
//		Build()
//
// Or use the schema taxonomy constructors:
//
//	err := errors.InvalidFieldWidth("Header", "flags", 0)
//	err := errors.TotalWidthExceeded("Header", 129)
//
// All errors implement the standard error interface and support errors.Is/As.
// Is matches on Phase and Kind, so the exported sentinels work as targets:
//
//	if errors.Is(err, bperrors.ErrTotalWidthExceeded) { ... }
package errors
