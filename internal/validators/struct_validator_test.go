package validators

import (
	"context"
	"errors"
	"testing"

	"github.com/MKhiriev/go-admin-mixins/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type upload struct {
	Title string           `json:"title" validate:"required,max=5"`
	File  models.FieldFile `json:"file" validate:"required"`
	Count int              `json:"count" validate:"gte=0,lte=10"`
}

func validCorporate() models.Corporate {
	return models.Corporate{
		Name:      "Acme",
		TaxNumber: "1234567890",
		Email:     "info@acme.test",
		Website:   "https://acme.test",
	}
}

func TestStructValidator_Valid(t *testing.T) {
	v := NewStructValidator()

	c := validCorporate()
	assert.NoError(t, v.Validate(context.Background(), c))
	assert.NoError(t, v.Validate(context.Background(), &c))
}

func TestStructValidator_FieldErrors(t *testing.T) {
	v := NewStructValidator()

	c := validCorporate()
	c.Name = ""
	c.TaxNumber = "12ab"
	c.Email = "not-an-email"

	err := v.Validate(context.Background(), c)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	var fieldErrs FieldErrors
	require.True(t, errors.As(err, &fieldErrs))
	require.Len(t, fieldErrs, 3)

	assert.Equal(t, FieldError{Field: "name", Tag: "required", Message: "This field is required."}, fieldErrs[0])
	assert.Equal(t, "tax_number", fieldErrs[1].Field)
	assert.Equal(t, "numeric", fieldErrs[1].Tag)
	assert.Equal(t, "Enter a number.", fieldErrs[1].Message)
	assert.Equal(t, "email", fieldErrs[2].Field)
	assert.Equal(t, "Enter a valid email address.", fieldErrs[2].Message)

	assert.Equal(t, "validation failed: name: This field is required.", err.Error())
}

func TestStructValidator_FieldScope(t *testing.T) {
	v := NewStructValidator()

	c := validCorporate()
	c.Name = ""
	c.Email = "bad"

	err := v.Validate(context.Background(), c, "email")
	var fieldErrs FieldErrors
	require.True(t, errors.As(err, &fieldErrs))
	require.Len(t, fieldErrs, 1)
	assert.Equal(t, "email", fieldErrs[0].Field)

	// failures outside the scope are ignored
	assert.NoError(t, v.Validate(context.Background(), c, "website"))
}

func TestStructValidator_UnknownField(t *testing.T) {
	v := NewStructValidator()

	err := v.Validate(context.Background(), validCorporate(), "nope")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestStructValidator_UnsupportedType(t *testing.T) {
	v := NewStructValidator()

	for _, obj := range []any{nil, 42, "str", []int{1}} {
		assert.ErrorIs(t, v.Validate(context.Background(), obj), ErrUnsupportedType)
	}
}

func TestStructValidator_FieldFileRequired(t *testing.T) {
	v := NewStructValidator()

	err := v.Validate(context.Background(), upload{Title: "ok"})
	var fieldErrs FieldErrors
	require.True(t, errors.As(err, &fieldErrs))
	require.Len(t, fieldErrs, 1)
	assert.Equal(t, "file", fieldErrs[0].Field)

	assert.NoError(t, v.Validate(context.Background(), upload{Title: "ok", File: models.FieldFile{Name: "a.png"}}))
}

func TestStructValidator_Messages(t *testing.T) {
	v := NewStructValidator()

	tests := []struct {
		name string
		obj  any
		want string
	}{
		{"string max", upload{Title: "toolong", File: models.FieldFile{Name: "f"}}, "Ensure this value has at most 5 characters."},
		{"number lte", upload{Title: "ok", File: models.FieldFile{Name: "f"}, Count: 11}, "Ensure this value is less than or equal to 10."},
		{"number gte", upload{Title: "ok", File: models.FieldFile{Name: "f"}, Count: -1}, "Ensure this value is greater than or equal to 0."},
		{"gt", models.Branch{CorporateID: -1, Name: "HQ", City: "Izmir"}, "Ensure this value is greater than 0."},
		{"e164", models.Branch{CorporateID: 1, Name: "HQ", City: "Izmir", Phone: "555"}, "Enter a valid phone number."},
		{"url", models.Corporate{Name: "A", TaxNumber: "1234567890", Website: "not a url"}, "Enter a valid URL."},
		{"string min", models.Corporate{Name: "A", TaxNumber: "123"}, "Ensure this value has at least 10 characters."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(context.Background(), tt.obj)
			var fieldErrs FieldErrors
			require.True(t, errors.As(err, &fieldErrs), "got %v", err)
			assert.Equal(t, tt.want, fieldErrs[0].Message)
		})
	}
}
