package descriptor

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. A *SchemaError unwraps to exactly one of the schema kinds; lookup
// failures returned by accessors wrap ErrLookup, ErrUnknownModule or
// ErrUnknownParameter.
var (
	ErrSchemaLayout        = errors.New("schema layout error")
	ErrSchemaType          = errors.New("schema type error")
	ErrSchemaCountMismatch = errors.New("schema count mismatch")
	ErrSchemaDimension     = errors.New("schema dimension error")
	ErrSchemaDefaultValue  = errors.New("schema default value error")

	ErrLookup           = errors.New("lookup error")
	ErrUnknownParameter = errors.New("unknown parameter")
	// ErrUnknownModule is returned for a module name that was never
	// registered. It also matches ErrLookup.
	ErrUnknownModule = fmt.Errorf("%w: unknown module", ErrLookup)
)

// SchemaError describes the first violation found while validating a raw
// descriptor.
type SchemaError struct {
	Kind       error
	Descriptor string
	Field      string
	// Index is the offending entry of Field, or -1 when the error concerns the
	// field as a whole.
	Index   int
	Message string
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString(e.Descriptor)
	if e.Field != "" {
		fmt.Fprintf(&b, "['%s']", e.Field)
	}
	if e.Index >= 0 {
		fmt.Fprintf(&b, "[%d]", e.Index)
	}
	fmt.Fprintf(&b, ": %s", e.Message)
	return b.String()
}

// Unwrap exposes the error kind to errors.Is.
func (e *SchemaError) Unwrap() error {
	return e.Kind
}

func schemaErr(kind error, desc, field string, index int, format string, args ...any) *SchemaError {
	return &SchemaError{
		Kind:       kind,
		Descriptor: desc,
		Field:      field,
		Index:      index,
		Message:    fmt.Sprintf(format, args...),
	}
}
