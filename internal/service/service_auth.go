package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-admin-mixins/internal/config"
	"github.com/MKhiriev/go-admin-mixins/internal/logger"
	"github.com/MKhiriev/go-admin-mixins/internal/store"
	"github.com/MKhiriev/go-admin-mixins/internal/utils"
	"github.com/MKhiriev/go-admin-mixins/models"
	"golang.org/x/crypto/bcrypt"
)

// authService is the concrete implementation of AuthService.
// It verifies bcrypt password hashes and keeps login sessions in the
// sessions table; the session token handed to clients is a JWT whose "jti"
// claim is the session key.
type authService struct {
	// users is the data-access layer used to look up and create accounts.
	users store.ModelRepository[models.User]

	// sessions stores one row per open login session.
	sessions store.ModelRepository[models.Session]

	// tokenSignKey is the HMAC secret used to sign and verify session tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued token.
	tokenIssuer string

	// tokenDuration controls how long a session stays valid.
	tokenDuration time.Duration

	// bcryptCost is the cost of newly hashed passwords.
	bcryptCost int

	keys *utils.UUIDGenerator

	// dummyHash is compared against when no account matches, so that unknown
	// emails take as long as wrong passwords.
	dummyHash     []byte
	dummyHashOnce sync.Once

	logger *logger.Logger
}

// NewAuthService constructs a new AuthService backed by the users and
// sessions repositories and populated with token parameters from cfg.
//
// The returned service is safe for concurrent use.
func NewAuthService(
	users store.ModelRepository[models.User],
	sessions store.ModelRepository[models.Session],
	cfg config.App,
	logger *logger.Logger,
) AuthService {
	return &authService{
		users:         users,
		sessions:      sessions,
		tokenSignKey:  cfg.TokenSignKey,
		tokenIssuer:   cfg.TokenIssuer,
		tokenDuration: cfg.TokenDuration,
		bcryptCost:    bcrypt.DefaultCost,
		keys:          utils.NewUUIDGenerator(),
		logger:        logger,
	}
}

// Authenticate looks the account up by email, ignoring case, and compares
// the password with its bcrypt hash.
func (a *authService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	log := logger.FromContext(ctx)

	user, err := a.users.Objects().Filter(store.Lookups{"email__iexact": strings.TrimSpace(email)}).Get(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(a.dummy(), []byte(password))
			log.Debug().Str("email", email).Msg("no user with email")
			return nil, nil
		}
		log.Err(err).Str("email", email).Msg("user search by email failed")
		return nil, fmt.Errorf("user search by email failed: %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		log.Debug().Int64("id", user.ID).Msg("wrong password")
		return nil, nil
	}

	return &user, nil
}

func (a *authService) dummy() []byte {
	a.dummyHashOnce.Do(func() {
		a.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), a.bcryptCost)
	})
	return a.dummyHash
}

// Login stores a new session for user, stamps its last login and returns
// the signed session token.
func (a *authService) Login(ctx context.Context, user models.User) (models.Token, error) {
	log := logger.FromContext(ctx)

	if user.ID == 0 {
		return models.Token{}, ErrInvalidDataProvided
	}

	now := time.Now().UTC()
	session, err := a.sessions.Create(ctx, models.Session{
		Key:       a.keys.Generate(),
		UserID:    user.ID,
		ExpiresAt: now.Add(a.tokenDuration),
	})
	if err != nil {
		log.Err(err).Int64("user_id", user.ID).Msg("session creation failed")
		return models.Token{}, fmt.Errorf("session creation failed: %w", err)
	}

	token, err := utils.GenerateSessionToken(a.tokenIssuer, user.ID, session.Key, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		_ = a.Logout(ctx, session.Key)
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	user.LastLogin = &now
	if _, err = a.users.Update(ctx, user); err != nil {
		log.Err(err).Int64("user_id", user.ID).Msg("error stamping last login")
		return models.Token{}, fmt.Errorf("error stamping last login: %w", err)
	}

	return token, nil
}

// Logout deletes the session with sessionKey.
func (a *authService) Logout(ctx context.Context, sessionKey string) error {
	if sessionKey == "" {
		return ErrInvalidDataProvided
	}

	deleted, err := a.sessions.Objects().Filter(store.Lookups{"session_key": sessionKey}).Delete(ctx)
	if err != nil {
		logger.FromContext(ctx).Err(err).Msg("session deletion failed")
		return fmt.Errorf("session deletion failed: %w", err)
	}

	logger.FromContext(ctx).Debug().Int64("deleted", deleted).Msg("session closed")
	return nil
}

// ResolveSession verifies the token signature and issuer, then checks that
// its session still exists, has not expired and belongs to an active user.
//
// Token, session and user problems are reported as [ErrInvalidSession] or
// [ErrSessionExpired].
func (a *authService) ResolveSession(ctx context.Context, tokenString string) (*models.User, models.Token, error) {
	log := logger.FromContext(ctx)

	token, err := utils.ValidateSessionToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		log.Debug().Err(err).Msg("invalid session token")
		return nil, models.Token{}, ErrInvalidSession
	}

	session, err := a.sessions.Objects().Filter(store.Lookups{
		"session_key": token.SessionKey,
		"user_id":     token.UserID,
	}).Get(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, models.Token{}, ErrInvalidSession
		}
		return nil, models.Token{}, fmt.Errorf("session lookup failed: %w", err)
	}

	if session.Expired(time.Now()) {
		if err = a.Logout(ctx, session.Key); err != nil {
			log.Err(err).Msg("error removing expired session")
		}
		return nil, models.Token{}, ErrSessionExpired
	}

	user, err := a.users.Objects().Filter(store.Lookups{"id": session.UserID}).Get(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, models.Token{}, ErrInvalidSession
		}
		return nil, models.Token{}, fmt.Errorf("session user lookup failed: %w", err)
	}

	if !user.IsActive {
		return nil, models.Token{}, ErrInvalidSession
	}

	return &user, token, nil
}

// EnsureSuperuser creates the bootstrap superuser. An empty email disables
// it; an existing account is left untouched.
func (a *authService) EnsureSuperuser(ctx context.Context, email, password string) error {
	log := logger.FromContext(ctx)

	email = strings.TrimSpace(email)
	if email == "" {
		return nil
	}
	if password == "" {
		return ErrInvalidDataProvided
	}

	exists, err := a.users.Objects().Filter(store.Lookups{"email__iexact": email}).Exists(ctx)
	if err != nil {
		return fmt.Errorf("user search by email failed: %w", err)
	}
	if exists {
		log.Debug().Str("email", email).Msg("superuser already exists")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.bcryptCost)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	user, err := a.users.Create(ctx, models.User{
		Email:       email,
		Password:    string(hash),
		IsActive:    true,
		IsSuperuser: true,
	})
	if err != nil {
		log.Err(err).Str("email", email).Msg("superuser creation failed")
		return fmt.Errorf("superuser creation failed: %w", err)
	}

	log.Info().Int64("id", user.ID).Str("email", email).Msg("superuser created")
	return nil
}

// DeleteExpiredSessions removes every session whose expiry has passed.
func (a *authService) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	deleted, err := a.sessions.Objects().
		Filter(store.Lookups{"expires_at__lte": time.Now().UTC()}).
		Delete(ctx)
	if err != nil {
		return 0, fmt.Errorf("expired session deletion failed: %w", err)
	}
	return deleted, nil
}
