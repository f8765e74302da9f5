// Package utils provides small helpers shared by the transport and service
// layers: typed context keys, session token signing, JSON response writing
// and identifier generation.
package utils

import (
	"context"

	"github.com/MKhiriev/go-admin-mixins/models"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// UserCtxKey is the key under which the session middleware stores the
// authenticated *models.User.
var UserCtxKey = contextKey("user")

// SessionKeyCtxKey is the key under which the session middleware stores the
// key of the session the request was authenticated with.
var SessionKeyCtxKey = contextKey("sessionKey")

// WithUser returns a copy of ctx carrying user and the session key it was
// resolved from.
func WithUser(ctx context.Context, user *models.User, sessionKey string) context.Context {
	ctx = context.WithValue(ctx, UserCtxKey, user)
	return context.WithValue(ctx, SessionKeyCtxKey, sessionKey)
}

// GetUserFromContext retrieves the authenticated user from the context.
//
// ok is false when no user is stored or the stored value is nil.
func GetUserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserCtxKey).(*models.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}

// GetSessionKeyFromContext retrieves the session key stored by [WithUser].
func GetSessionKeyFromContext(ctx context.Context) (string, bool) {
	key, ok := ctx.Value(SessionKeyCtxKey).(string)
	return key, ok && key != ""
}
