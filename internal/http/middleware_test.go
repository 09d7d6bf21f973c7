package httpx

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/target/recipe-finder/internal/domain/auth"
)

// captureSession is a terminal handler that records the session it saw.
type captureSession struct {
	called  bool
	session *domainauth.Session
}

func (c *captureSession) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.called = true
	c.session = GetSessionFromContext(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func TestSessions_ValidCookieLoadsSession(t *testing.T) {
	sessions := newFakeSessions()
	sess := sessions.add("alice")
	next := &captureSession{}
	h := Sessions(SessionsConfig{Sessions: sessions})(next)

	r := httptest.NewRequest(http.MethodGet, "/search", nil)
	r.AddCookie(&http.Cookie{Name: DefaultSessionCookieName, Value: sess.ID})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.True(t, next.called)
	require.NotNil(t, next.session)
	assert.Equal(t, "alice", next.session.Username)
	assert.Empty(t, w.Header().Values("Set-Cookie"))
}

func TestSessions_UnknownCookieIsCleared(t *testing.T) {
	next := &captureSession{}
	h := Sessions(SessionsConfig{Sessions: newFakeSessions()})(next)

	r := httptest.NewRequest(http.MethodGet, "/search", nil)
	r.AddCookie(&http.Cookie{Name: DefaultSessionCookieName, Value: "forged"})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.True(t, next.called, "request continues without a session")
	assert.Nil(t, next.session)
	cookie := findCookie(t, w.Result(), DefaultSessionCookieName)
	require.NotNil(t, cookie)
	assert.Negative(t, cookie.MaxAge)
}

func TestSessions_NoCookieNoSession(t *testing.T) {
	next := &captureSession{}
	h := Sessions(SessionsConfig{Sessions: newFakeSessions()})(next)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Nil(t, next.session)
	assert.Empty(t, w.Header().Values("Set-Cookie"))
}

func TestSessions_SaveUninitialized(t *testing.T) {
	sessions := newFakeSessions()
	next := &captureSession{}
	h := Sessions(SessionsConfig{Sessions: sessions, SaveUninitialized: true})(next)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotNil(t, next.session)
	assert.False(t, next.session.IsAuthenticated())
	cookie := findCookie(t, w.Result(), DefaultSessionCookieName)
	require.NotNil(t, cookie)
	assert.Equal(t, next.session.ID, cookie.Value)
}

func TestSessions_SaveUninitializedFailureContinues(t *testing.T) {
	sessions := newFakeSessions()
	sessions.anonErr = errors.New("store down")
	next := &captureSession{}
	h := Sessions(SessionsConfig{Sessions: sessions, SaveUninitialized: true})(next)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.True(t, next.called)
	assert.Nil(t, next.session)
}

func TestSessions_SkipsInfrastructurePaths(t *testing.T) {
	sessions := newFakeSessions()
	h := Sessions(SessionsConfig{Sessions: sessions, SaveUninitialized: true})(&captureSession{})

	for _, path := range []string{"/healthz", "/static/css/styles.css"} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Empty(t, w.Header().Values("Set-Cookie"), path)
	}
	assert.Empty(t, sessions.sessions)
}

func TestSessions_CustomCookieName(t *testing.T) {
	sessions := newFakeSessions()
	sess := sessions.add("bob")
	next := &captureSession{}
	h := Sessions(SessionsConfig{Sessions: sessions, Cookies: CookieConfig{Name: "sid"}})(next)

	r := httptest.NewRequest(http.MethodGet, "/search", nil)
	r.AddCookie(&http.Cookie{Name: "sid", Value: sess.ID})
	h.ServeHTTP(httptest.NewRecorder(), r)

	require.NotNil(t, next.session)
	assert.Equal(t, "bob", next.session.Username)
}

func TestRequireSession(t *testing.T) {
	tests := []struct {
		name       string
		session    *domainauth.Session
		wantStatus int
		wantCalled bool
	}{
		{name: "no session", wantStatus: http.StatusFound},
		{name: "anonymous session", session: &domainauth.Session{ID: "anon"}, wantStatus: http.StatusFound},
		{name: "logged in", session: &domainauth.Session{ID: "s", Username: "alice"}, wantStatus: http.StatusNoContent, wantCalled: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := &captureSession{}
			r := httptest.NewRequest(http.MethodPost, "/search", nil)
			r = r.WithContext(SetSessionInContext(r.Context(), tt.session))
			w := httptest.NewRecorder()

			RequireSession()(next).ServeHTTP(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCalled, next.called)
			if !tt.wantCalled {
				assert.Equal(t, PathLogin, w.Header().Get("Location"))
			}
		})
	}
}

func TestRecover(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	h := Recover(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/search", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "kaboom")
	assert.Contains(t, buf.String(), "kaboom")
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/search", nil))

	out := buf.String()
	assert.Contains(t, out, `"method":"POST"`)
	assert.Contains(t, out, `"path":"/search"`)
	assert.Contains(t, out, `"status":418`)
}

func TestCookieConfig_Secure(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, CookieConfig{}.secure(r))
	assert.True(t, CookieConfig{Secure: true}.secure(r))

	r.Header.Set("X-Forwarded-Proto", "http, HTTPS")
	assert.True(t, CookieConfig{}.secure(r))
}

func TestCookieConfig_SetSessionCookie(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Forwarded-Proto", "https")
	cfg := CookieConfig{Domain: "recipes.example"}

	sess := newFakeSessions().add("alice")
	cfg.setSessionCookie(w, r, sessionCookie{Token: "tok", ExpiresAt: sess.ExpiresAt})

	cookie := findCookie(t, w.Result(), DefaultSessionCookieName)
	require.NotNil(t, cookie)
	assert.Equal(t, "tok", cookie.Value)
	assert.Equal(t, "recipes.example", cookie.Domain)
	assert.True(t, cookie.Secure)
	assert.True(t, cookie.HttpOnly)
	assert.Positive(t, cookie.MaxAge)
}
