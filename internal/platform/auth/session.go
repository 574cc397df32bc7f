package auth

import (
	"net/http"

	"github.com/witcharon/salesconnfig/internal/platform/config"
)

// SessionCodec reads and writes the access/refresh cookie pair the
// identity provider's session rides in.
type SessionCodec struct {
	accessName  string
	refreshName string
	domain      string
	secure      bool
}

func NewSessionCodec(cfg config.IdentityConfig) *SessionCodec {
	return &SessionCodec{
		accessName:  cfg.AccessCookieName,
		refreshName: cfg.RefreshCookieName,
		domain:      cfg.CookieDomain,
		secure:      cfg.CookieSecure,
	}
}

func (c *SessionCodec) AccessToken(r *http.Request) string {
	return cookieValue(r, c.accessName)
}

func (c *SessionCodec) RefreshToken(r *http.Request) string {
	return cookieValue(r, c.refreshName)
}

// WriteSession sets the cookie pair on the response. Token refresh
// performed by the gate must reach the client on every code path,
// including rejections, so callers write before any redirect.
func (c *SessionCodec) WriteSession(w http.ResponseWriter, accessToken, refreshToken string, maxAge int) {
	http.SetCookie(w, c.cookie(c.accessName, accessToken, maxAge))
	http.SetCookie(w, c.cookie(c.refreshName, refreshToken, maxAge))
}

func (c *SessionCodec) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie(c.accessName, "", -1))
	http.SetCookie(w, c.cookie(c.refreshName, "", -1))
}

func (c *SessionCodec) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   c.domain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func cookieValue(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
