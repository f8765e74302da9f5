package mixins

import (
	"context"

	"github.com/MKhiriev/go-admin-mixins/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/session_manager_mock.go -package=mock

// SessionManager opens and closes login sessions.
type SessionManager interface {
	// Login opens a session for user and returns its signed token.
	Login(ctx context.Context, user models.User) (models.Token, error)
	// Logout closes the session identified by sessionKey.
	Logout(ctx context.Context, sessionKey string) error
}
