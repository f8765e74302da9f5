package forms

import (
	"context"

	"github.com/MKhiriev/go-admin-mixins/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/authenticator_mock.go -package=mock

// Authenticator checks login credentials.
//
// Authenticate returns the user owning email when password matches, inactive
// users included. Wrong credentials yield a nil user and a nil error; an
// error means the check itself failed.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
}
