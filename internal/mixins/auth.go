package mixins

import (
	"net/http"
	"time"

	"github.com/MKhiriev/go-admin-mixins/internal/forms"
	"github.com/MKhiriev/go-admin-mixins/internal/logger"
	"github.com/MKhiriev/go-admin-mixins/internal/utils"
	"github.com/MKhiriev/go-admin-mixins/models"
)

// DefaultSessionCookie is the cookie carrying the session token when
// AuthMixin.CookieName is empty.
const DefaultSessionCookie = "sessionid"

// AuthMixin implements login and logout on top of an authentication form
// and a session manager.
type AuthMixin struct {
	Form     *forms.AuthenticationFactory
	Sessions SessionManager

	CookieName   string
	CookieSecure bool
}

// SessionCookieName returns the name of the session cookie.
func (a AuthMixin) SessionCookieName() string {
	if a.CookieName == "" {
		return DefaultSessionCookie
	}
	return a.CookieName
}

// AnonymousUser returns the dict describing a visitor who is not logged in.
func (a AuthMixin) AnonymousUser() models.Dict {
	return models.Dict{
		"is_authenticated": false,
		"is_active":        false,
		"is_superuser":     false,
		"email":            nil,
		"corporate":        nil,
	}
}

// UserData describes user, or an anonymous visitor when user is nil.
func (a AuthMixin) UserData(user *models.User) models.Dict {
	if user == nil {
		return a.AnonymousUser()
	}
	return models.Dict{
		"is_authenticated": true,
		"is_active":        user.IsActive,
		"is_superuser":     user.IsSuperuser,
		"email":            user.Email,
	}
}

// LoginProcess checks the JSON credentials of r and opens a session. The
// session token is set as an HTTP-only cookie and returned in the
// Authorization header.
func (a AuthMixin) LoginProcess(w http.ResponseWriter, r *http.Request) Result {
	ctx := r.Context()
	log := logger.FromRequest(r)

	if a.Form == nil || a.Sessions == nil {
		return failure(ctx, ErrNotConfigured)
	}

	data := models.Dict{}
	if err := utils.DecodeJSON(r, &data); err != nil || data == nil {
		log.Debug().Err(err).Msg("login body is not a JSON object")
		data = models.Dict{}
	}

	form := a.Form.Bind(data)
	if !form.IsValid(ctx) {
		if err := form.Err(); err != nil {
			return failure(ctx, err)
		}
		return Result{Message: FirstError(form), Status: http.StatusBadRequest}
	}

	user := form.GetUser()
	token, err := a.Sessions.Login(ctx, *user)
	if err != nil {
		return failure(ctx, err)
	}

	cookie := &http.Cookie{
		Name:     a.SessionCookieName(),
		Value:    token.SignedString,
		Path:     "/",
		HttpOnly: true,
		Secure:   a.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	if token.Token != nil {
		if exp, expErr := token.Claims.GetExpirationTime(); expErr == nil && exp != nil {
			cookie.Expires = exp.Time
		}
	}
	http.SetCookie(w, cookie)
	w.Header().Set("Authorization", "Bearer "+token.SignedString)

	log.Info().Int64("user_id", user.ID).Msg("user logged in")
	return Result{Data: a.UserData(user)}
}

// LogoutProcess closes the session the request was authenticated with, if
// any, and clears the session cookie.
func (a AuthMixin) LogoutProcess(w http.ResponseWriter, r *http.Request) Result {
	ctx := r.Context()

	if key, ok := utils.GetSessionKeyFromContext(ctx); ok {
		if a.Sessions == nil {
			return failure(ctx, ErrNotConfigured)
		}
		if err := a.Sessions.Logout(ctx, key); err != nil {
			return failure(ctx, err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     a.SessionCookieName(),
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	return Result{Message: "Session closed successfully"}
}
