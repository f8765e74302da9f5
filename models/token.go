package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// Token wraps a session JWT with the values the server needs after parsing.
//
// The "sub" claim carries the user ID and the "jti" claim carries the
// session key stored in the sessions table.
type Token struct {
	// Token is the underlying JWT token used for signing and claim inspection.
	*jwt.Token `json:"-"`

	// SignedString is the compact JWS representation of the token.
	SignedString string `json:"-"`

	// UserID is the owner identifier extracted from the "sub" claim.
	UserID int64 `json:"-"`

	// SessionKey is the session identifier extracted from the "jti" claim.
	SessionKey string `json:"-"`
}

// String returns the compact JWS serialization of the token.
// It implements the [fmt.Stringer] interface.
func (t *Token) String() string {
	return t.SignedString
}
