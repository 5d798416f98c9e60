package httpapi

import (
	"net/http"
	"time"

	"github.com/wealflow/wealflow/internal/common"
	"github.com/wealflow/wealflow/internal/server/services"
)

// CookieOptions controls the session cookies. Secure switches to
// SameSite=None so a frontend on another site can send them.
type CookieOptions struct {
	Domain     string
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func (o CookieOptions) cookie(name, value string, ttl time.Duration) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   o.Domain,
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if o.Secure {
		c.SameSite = http.SameSiteNoneMode
	}
	if ttl < 0 {
		c.MaxAge = -1
	} else {
		c.MaxAge = int(ttl.Seconds())
	}
	return c
}

func (s *Server) setSessionCookies(w http.ResponseWriter, pair *services.TokenPair) {
	http.SetCookie(w, s.cookies.cookie(common.AccessTokenCookieName, pair.AccessToken, s.cookies.AccessTTL))
	http.SetCookie(w, s.cookies.cookie(common.RefreshTokenCookieName, pair.RefreshToken, s.cookies.RefreshTTL))
}

func (s *Server) clearSessionCookies(w http.ResponseWriter) {
	http.SetCookie(w, s.cookies.cookie(common.AccessTokenCookieName, "", -1))
	http.SetCookie(w, s.cookies.cookie(common.RefreshTokenCookieName, "", -1))
}
