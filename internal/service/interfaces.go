package service

import (
	"context"

	"github.com/MKhiriev/go-admin-mixins/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

type AuthService interface {
	// Authenticate returns the user owning email when password matches.
	// Wrong credentials yield (nil, nil).
	Authenticate(ctx context.Context, email, password string) (*models.User, error)

	// Login opens a session for user, stamps its last login and returns the
	// signed session token.
	Login(ctx context.Context, user models.User) (models.Token, error)
	// Logout closes the session with sessionKey. Closing an unknown session
	// is not an error.
	Logout(ctx context.Context, sessionKey string) error

	// ResolveSession validates a session token and returns the active user
	// it belongs to.
	ResolveSession(ctx context.Context, tokenString string) (*models.User, models.Token, error)

	// EnsureSuperuser creates an active superuser with email unless an
	// account with that email exists.
	EnsureSuperuser(ctx context.Context, email, password string) error
	// DeleteExpiredSessions removes every expired session and returns how
	// many were removed.
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
	GetBuildInfo(ctx context.Context) models.BuildInfoResponse
}
