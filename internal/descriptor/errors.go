package descriptor

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFieldType indicates a field value that is neither a string
	// nor a list of strings.
	ErrUnsupportedFieldType = errors.New("unsupported field type")

	// ErrInvalidDescriptor indicates content that is not a flat object.
	ErrInvalidDescriptor = errors.New("invalid descriptor")

	// ErrDuplicateField indicates the same field name declared twice.
	ErrDuplicateField = errors.New("duplicate field")
)

// FieldTypeError reports the field whose value has an unsupported shape.
type FieldTypeError struct {
	Field string
	Shape string
}

func (e *FieldTypeError) Error() string {
	return fmt.Sprintf("field %q: %s: %s", e.Field, ErrUnsupportedFieldType, e.Shape)
}

// Unwrap allows errors.Is(err, ErrUnsupportedFieldType).
func (e *FieldTypeError) Unwrap() error {
	return ErrUnsupportedFieldType
}
