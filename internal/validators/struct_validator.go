package validators

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/MKhiriev/go-admin-mixins/models"
	"github.com/go-playground/validator/v10"
)

// FieldError is a single failed rule of one field.
type FieldError struct {
	// Field is the JSON name of the field.
	Field string `json:"field"`
	// Tag is the failed rule (e.g. "required", "email").
	Tag string `json:"tag"`
	// Param is the rule parameter, if any (e.g. "255" for max=255).
	Param string `json:"param,omitempty"`
	// Message is the human-readable description shown to clients.
	Message string `json:"message"`
}

// FieldErrors lists failed rules in struct field order.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	if len(fe) == 0 {
		return ErrValidation.Error()
	}
	return fmt.Sprintf("%s: %s: %s", ErrValidation, fe[0].Field, fe[0].Message)
}

// Is makes every FieldErrors value match [ErrValidation].
func (fe FieldErrors) Is(target error) bool {
	return target == ErrValidation
}

// StructValidator validates structs against their `validate` tags.
type StructValidator struct {
	validate *validator.Validate
}

// NewStructValidator returns a [Validator] backed by go-playground/validator.
// Field names in reported errors are JSON names, and [models.FieldFile]
// values are validated as their stored name so that `required` works on
// uploads.
func NewStructValidator() *StructValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if f, ok := field.Interface().(models.FieldFile); ok {
			return f.Name
		}
		return nil
	}, models.FieldFile{})

	return &StructValidator{validate: v}
}

// Validate checks obj, a struct or a pointer to one. When fields are given
// only failures of those JSON-named fields are reported.
//
// Rule failures are returned as [FieldErrors].
func (v *StructValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	t := reflect.TypeOf(obj)
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return fmt.Errorf("%w: %T", ErrUnsupportedType, obj)
	}

	scope, err := fieldScope(t, fields)
	if err != nil {
		return err
	}

	err = v.validate.StructCtx(ctx, obj)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	out := make(FieldErrors, 0, len(validationErrs))
	for _, fe := range validationErrs {
		if scope != nil {
			if _, ok := scope[fe.Field()]; !ok {
				continue
			}
		}
		out = append(out, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Message: message(fe),
		})
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

// fieldScope resolves JSON field names against t. A nil scope means every
// field.
func fieldScope(t reflect.Type, fields []string) (map[string]struct{}, error) {
	if len(fields) == 0 {
		return nil, nil
	}

	known := make(map[string]struct{}, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name := strings.SplitN(t.Field(i).Tag.Get("json"), ",", 2)[0]
		if name == "" {
			name = t.Field(i).Name
		}
		known[name] = struct{}{}
	}

	scope := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, ok := known[f]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, f)
		}
		scope[f] = struct{}{}
	}
	return scope, nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "url", "http_url":
		return "Enter a valid URL."
	case "numeric", "number":
		return "Enter a number."
	case "e164":
		return "Enter a valid phone number."
	case "oneof":
		return "Select a valid choice."
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "gt":
		return fmt.Sprintf("Ensure this value is greater than %s.", fe.Param())
	case "gte":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "lt":
		return fmt.Sprintf("Ensure this value is less than %s.", fe.Param())
	case "lte":
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	}
	return "Enter a valid value."
}
