package forms

import (
	"context"
	"errors"
	"strings"

	"github.com/MKhiriev/go-admin-mixins/internal/logger"
	"github.com/MKhiriev/go-admin-mixins/internal/validators"
	"github.com/MKhiriev/go-admin-mixins/models"
)

// AuthenticationFactory builds login forms.
type AuthenticationFactory struct {
	Auth      Authenticator
	Validator validators.Validator
}

// Bind returns a login form over data.
func (f *AuthenticationFactory) Bind(data models.Dict) *AuthenticationForm {
	form := &AuthenticationForm{
		auth:      f.Auth,
		validator: f.Validator,
		data:      data,
		errors:    NewErrors(),
	}
	if form.validator == nil {
		form.validator = defaultValidator
	}
	return form
}

// AuthenticationForm validates an email and password pair.
type AuthenticationForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`

	auth      Authenticator
	validator validators.Validator
	data      models.Dict

	errors    *Errors
	validated bool
	user      *models.User
	err       error
}

// Errors returns the errors found by [AuthenticationForm.IsValid].
func (f *AuthenticationForm) Errors() *Errors {
	return f.errors
}

// Err returns the failure of the credential check itself, if any. Such a
// failure makes the form invalid without adding a message.
func (f *AuthenticationForm) Err() error {
	return f.err
}

// GetUser returns the authenticated user, or nil when the form is not valid.
func (f *AuthenticationForm) GetUser() *models.User {
	return f.user
}

// IsValid validates the submitted fields and then the credentials.
// The result is computed once.
func (f *AuthenticationForm) IsValid(ctx context.Context) bool {
	if f.validated {
		return f.errors.Len() == 0 && f.err == nil
	}
	f.validated = true
	log := logger.FromContext(ctx)

	if f.auth == nil {
		f.err = ErrNoAuthenticator
		return false
	}

	if err := decode(f, map[string]any{
		"email":    f.data["email"],
		"password": f.data["password"],
	}); err != nil {
		f.errors.Add(NonFieldErrors, invalidLoginMessage)
		return false
	}
	f.Email = strings.TrimSpace(f.Email)

	if err := f.validator.Validate(ctx, f); err != nil {
		var fieldErrs validators.FieldErrors
		if !errors.As(err, &fieldErrs) {
			f.err = err
			return false
		}
		for _, fe := range fieldErrs {
			f.errors.Add(fe.Field, fe.Message)
		}
		return false
	}

	user, err := f.auth.Authenticate(ctx, f.Email, f.Password)
	if err != nil {
		log.Err(err).Str("func", "AuthenticationForm.IsValid").Msg("error authenticating user")
		f.err = err
		return false
	}

	switch {
	case user == nil:
		f.errors.Add(NonFieldErrors, invalidLoginMessage)
	case !user.IsActive:
		f.errors.Add(NonFieldErrors, inactiveAccountMessage)
	default:
		f.user = user
	}

	return f.errors.Len() == 0
}
