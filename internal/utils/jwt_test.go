package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSessionToken_Success(t *testing.T) {
	token, err := GenerateSessionToken("test-issuer", 123, "session-key", time.Hour, "secret-key")
	require.NoError(t, err)

	assert.NotEmpty(t, token.SignedString)
	assert.Equal(t, token.SignedString, token.String())
	assert.Equal(t, int64(123), token.UserID)
	assert.Equal(t, "session-key", token.SessionKey)

	claims, ok := token.Token.Claims.(*jwt.RegisteredClaims)
	require.True(t, ok)
	assert.Equal(t, "test-issuer", claims.Issuer)
	assert.Equal(t, "123", claims.Subject)
	assert.Equal(t, "session-key", claims.ID)
}

func TestGenerateSessionToken_InvalidParams(t *testing.T) {
	tests := []struct {
		name       string
		issuer     string
		sessionKey string
		duration   time.Duration
		key        string
	}{
		{"empty issuer", "", "s", time.Hour, "key"},
		{"empty session key", "iss", "", time.Hour, "key"},
		{"zero duration", "iss", "s", 0, "key"},
		{"empty sign key", "iss", "s", time.Hour, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateSessionToken(tt.issuer, 1, tt.sessionKey, tt.duration, tt.key)
			assert.ErrorIs(t, err, ErrInvalidTokenParams)
		})
	}
}

func TestValidateSessionToken_Success(t *testing.T) {
	generated, err := GenerateSessionToken("iss", 456, "key-456", 5*time.Minute, "secret")
	require.NoError(t, err)

	parsed, err := ValidateSessionToken(generated.SignedString, "secret", "iss")
	require.NoError(t, err)

	assert.Equal(t, int64(456), parsed.UserID)
	assert.Equal(t, "key-456", parsed.SessionKey)
	assert.True(t, parsed.Valid)
}

func TestValidateSessionToken_Failures(t *testing.T) {
	valid, err := GenerateSessionToken("iss", 1, "key", time.Hour, "secret")
	require.NoError(t, err)
	expired, err := GenerateSessionToken("iss", 1, "key", -time.Minute, "secret")
	require.NoError(t, err)

	noSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    "iss",
		ID:        "key",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	noSubjectString, err := noSubject.SignedString([]byte("secret"))
	require.NoError(t, err)

	badSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    "iss",
		Subject:   "not-a-number",
		ID:        "key",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	badSubjectString, err := badSubject.SignedString([]byte("secret"))
	require.NoError(t, err)

	noSessionKey := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    "iss",
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	noSessionKeyString, err := noSessionKey.SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		key    string
		issuer string
	}{
		{"wrong key", valid.SignedString, "other", "iss"},
		{"wrong issuer", valid.SignedString, "secret", "other"},
		{"expired", expired.SignedString, "secret", "iss"},
		{"garbage", "not.a.token", "secret", "iss"},
		{"missing subject", noSubjectString, "secret", "iss"},
		{"non-numeric subject", badSubjectString, "secret", "iss"},
		{"missing session key", noSessionKeyString, "secret", "iss"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateSessionToken(tt.token, tt.key, tt.issuer)
			assert.Error(t, err)
		})
	}
}
