package errors

import (
	"fmt"
	"sort"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseParse    Phase = "parse"    // declaration text or documents
	PhaseValidate Phase = "validate" // schema validation
	PhaseLayout   Phase = "layout"   // storage selection and planning
	PhaseAccess   Phase = "access"   // bit ranges and field access
	PhaseEncode   Phase = "encode"   // Go to packed storage
	PhaseDecode   Phase = "decode"   // packed storage to Go
	PhaseGenerate Phase = "generate" // accessor source emission
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidFieldWidth  Kind = "invalid_field_width"
	KindTotalWidthExceeded Kind = "total_width_exceeded"
	KindEmptySchema        Kind = "empty_schema"
	KindInvalidName        Kind = "invalid_name"
	KindDuplicateField     Kind = "duplicate_field"
	KindInvalidRange       Kind = "invalid_range"
	KindFieldUnknown       Kind = "field_unknown"
	KindOverflow           Kind = "overflow"
	KindSyntax             Kind = "syntax"
	KindInvalidData        Kind = "invalid_data"
	KindTypeMismatch       Kind = "type_mismatch"
	KindUnsupported        Kind = "unsupported"
	KindNilPointer         Kind = "nil_pointer"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value   any
	Cause   error
	Phase   Phase
	Kind    Kind
	GoType  string
	BitType string
	Detail  string
	Path    []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" || e.BitType != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.BitType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", bit type ")
			b.WriteString(e.BitType)
		} else if e.GoType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("bit type ")
			b.WriteString(e.BitType)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.BitType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Sentinels for errors.Is checks against the schema error taxonomy.
var (
	ErrInvalidFieldWidth  = &Error{Phase: PhaseValidate, Kind: KindInvalidFieldWidth}
	ErrTotalWidthExceeded = &Error{Phase: PhaseValidate, Kind: KindTotalWidthExceeded}
	ErrEmptySchema        = &Error{Phase: PhaseValidate, Kind: KindEmptySchema}
	ErrInvalidRange       = &Error{Phase: PhaseAccess, Kind: KindInvalidRange}
	ErrOverflow           = &Error{Phase: PhaseAccess, Kind: KindOverflow}
	ErrFieldUnknown       = &Error{Phase: PhaseAccess, Kind: KindFieldUnknown}
)

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// BitType sets the declared bit type name, e.g. "u7"
func (b *Builder) BitType(t string) *Builder {
	b.err.BitType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Schema errors

// InvalidFieldWidth reports a field whose declared width is outside [1,128].
// Value carries the width.
func InvalidFieldWidth(schema, field string, width int) *Error {
	return &Error{
		Phase:   PhaseValidate,
		Kind:    KindInvalidFieldWidth,
		Path:    schemaPath(schema, field),
		BitType: fmt.Sprintf("u%d", width),
		Detail:  fmt.Sprintf("field width %d outside [1,128]", width),
		Value:   width,
	}
}

// TotalWidthExceeded reports a schema whose widths sum past 128 bits.
// Value carries the total.
func TotalWidthExceeded(schema string, total int) *Error {
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindTotalWidthExceeded,
		Path:   schemaPath(schema, ""),
		Detail: fmt.Sprintf("total width %d exceeds 128 bits", total),
		Value:  total,
	}
}

// EmptySchema reports a schema without fields.
func EmptySchema(schema string) *Error {
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindEmptySchema,
		Path:   schemaPath(schema, ""),
		Detail: "schema declares no fields",
		Value:  0,
	}
}

// InvalidName reports a field or schema name that is not an identifier.
func InvalidName(schema, name string) *Error {
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindInvalidName,
		Path:   schemaPath(schema, ""),
		Detail: fmt.Sprintf("%q is not a valid identifier", name),
		Value:  name,
	}
}

// DuplicateField reports a field name declared twice in one schema.
func DuplicateField(schema, field string) *Error {
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindDuplicateField,
		Path:   schemaPath(schema, field),
		Detail: fmt.Sprintf("field %q declared more than once", field),
		Value:  field,
	}
}

// Access errors

// InvalidRange reports a bit range violating 0 <= start < end <= bits.
func InvalidRange(start, end, bits uint) *Error {
	return &Error{
		Phase:   PhaseAccess,
		Kind:    KindInvalidRange,
		BitType: fmt.Sprintf("u%d", bits),
		Detail:  fmt.Sprintf("bit range [%d,%d) invalid for %d-bit value", start, end, bits),
		Value:   [2]uint{start, end},
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, path []string, value any, width int) *Error {
	return &Error{
		Phase:   phase,
		Kind:    KindOverflow,
		Path:    path,
		BitType: fmt.Sprintf("u%d", width),
		Detail:  fmt.Sprintf("value %v overflows u%d", value, width),
		Value:   value,
	}
}

// FieldUnknown creates an unknown field error
func FieldUnknown(phase Phase, path []string, fieldName string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindFieldUnknown,
		Path:   path,
		Detail: fmt.Sprintf("unknown field %q", fieldName),
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, goType, bitType string) *Error {
	return &Error{
		Phase:   phase,
		Kind:    KindTypeMismatch,
		Path:    path,
		GoType:  goType,
		BitType: bitType,
	}
}

// NilPointer creates a nil pointer error
func NilPointer(phase Phase, path []string, goType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNilPointer,
		Path:   path,
		GoType: goType,
		Detail: "nil pointer",
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what + " not supported",
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// Syntax creates a parse error anchored at a source line
func Syntax(line int, format string, args ...any) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindSyntax,
		Detail: fmt.Sprintf("line %d: %s", line, fmt.Sprintf(format, args...)),
		Value:  line,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

func schemaPath(schema, field string) []string {
	var path []string
	if schema != "" {
		path = append(path, schema)
	}
	if field != "" {
		path = append(path, field)
	}
	return path
}

// RejectedSchemasError aggregates validation failures from a multi-schema
// source such as a declaration file.
type RejectedSchemasError struct {
	Errors []*Error
}

// NewRejectedSchemasError creates an aggregate from individual failures.
func NewRejectedSchemasError(errs []*Error) *RejectedSchemasError {
	return &RejectedSchemasError{Errors: errs}
}

// Error groups failures by schema name.
func (e *RejectedSchemasError) Error() string {
	if len(e.Errors) == 0 {
		return "rejected schemas: no errors recorded"
	}

	groups := make(map[string][]*Error)
	for _, err := range e.Errors {
		name := "<anonymous>"
		if len(err.Path) > 0 {
			name = err.Path[0]
		}
		groups[name] = append(groups[name], err)
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintf(&b, "%d schema(s) rejected:", len(names))
	for _, name := range names {
		b.WriteString("\n  ")
		b.WriteString(name)
		b.WriteByte(':')
		for _, err := range groups[name] {
			b.WriteString("\n    - ")
			b.WriteString(string(err.Kind))
			if err.Detail != "" {
				b.WriteString(": ")
				b.WriteString(err.Detail)
			}
		}
	}
	return b.String()
}

// Is matches the aggregate itself or any contained error.
func (e *RejectedSchemasError) Is(target error) bool {
	if _, ok := target.(*RejectedSchemasError); ok {
		return true
	}
	for _, err := range e.Errors {
		if err.Is(target) {
			return true
		}
	}
	return false
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *RejectedSchemasError) Unwrap() []error {
	out := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		out[i] = err
	}
	return out
}
