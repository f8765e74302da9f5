package validators

import "errors"

var (
	// ErrUnsupportedType is returned when the validated value is not a struct
	// or a pointer to one.
	ErrUnsupportedType = errors.New("unsupported type for validation")

	// ErrUnknownField is returned when a field scope names a field the
	// validated struct does not have.
	ErrUnknownField = errors.New("unknown field for validation")

	// ErrValidation is matched by every [FieldErrors] value.
	ErrValidation = errors.New("validation failed")
)
