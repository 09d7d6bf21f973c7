package httpx

import (
	"net/http"
	"strings"
	"time"
)

// DefaultSessionCookieName is used when CookieConfig.Name is empty.
const DefaultSessionCookieName = "recipe_session"

// CookieConfig controls the session cookie attributes.
type CookieConfig struct {
	Name   string
	Domain string
	// Secure forces the Secure attribute even when the request arrived over plain HTTP.
	Secure bool
}

func (c CookieConfig) name() string {
	if c.Name == "" {
		return DefaultSessionCookieName
	}
	return c.Name
}

func (c CookieConfig) secure(r *http.Request) bool {
	return c.Secure || r.TLS != nil || isForwardedHTTPS(r)
}

// isForwardedHTTPS checks if the request was forwarded over HTTPS.
// Handles comma-separated values in X-Forwarded-Proto header.
func isForwardedHTTPS(r *http.Request) bool {
	xfProto := r.Header.Get("X-Forwarded-Proto")
	if xfProto == "" {
		return false
	}

	// Handle comma-separated values (e.g., "https,http")
	for _, proto := range strings.Split(xfProto, ",") {
		if strings.EqualFold(strings.TrimSpace(proto), "https") {
			return true
		}
	}

	return false
}

// readSessionCookie returns the raw session cookie value, or "" when absent.
func (c CookieConfig) readSessionCookie(r *http.Request) string {
	cookie, err := r.Cookie(c.name())
	if err != nil {
		return ""
	}
	return cookie.Value
}

// sessionCookie describes a signed session value and when it stops being valid.
type sessionCookie struct {
	Token     string
	ExpiresAt time.Time
}

// setSessionCookie writes the session cookie based on the session's expiry.
func (c CookieConfig) setSessionCookie(w http.ResponseWriter, r *http.Request, sc sessionCookie) {
	cookie := &http.Cookie{
		Name:     c.name(),
		Value:    sc.Token,
		Path:     "/",
		Domain:   c.Domain,
		HttpOnly: true,
		Secure:   c.secure(r),
		SameSite: http.SameSiteLaxMode,
		Expires:  sc.ExpiresAt.UTC(),
	}
	if maxAge := int(time.Until(sc.ExpiresAt).Seconds()); maxAge > 0 {
		cookie.MaxAge = maxAge
	}
	http.SetCookie(w, cookie)
}

// clearSessionCookie clears the session cookie by setting it to expire immediately.
// It mirrors key attributes (Secure, Path, Domain, SameSite) used when setting cookies
// to maximize compatibility across browsers during deletion.
func (c CookieConfig) clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name(),
		Value:    "",
		Path:     "/",
		Domain:   c.Domain,
		HttpOnly: true,
		Secure:   c.secure(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}
