package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRouter_RequiresServices(t *testing.T) {
	_, err := NewRouter(RouterServices{})
	require.Error(t, err)
}

func TestNewRouter_BadTemplates(t *testing.T) {
	_, err := NewRouter(RouterServices{
		Accounts:   &fakeAccounts{},
		Sessions:   newFakeSessions(),
		Recipes:    &fakeRecipes{},
		TemplateFS: fstest.MapFS{"layout.tmpl": {Data: []byte(`{{define "layout"}}{{end`)}},
		StaticFS:   fstest.MapFS{},
	})
	require.Error(t, err)
}

func TestRoutes_SearchRequiresLogin(t *testing.T) {
	stack := newTestStack(t, stackOptions{})

	resp, _ := stack.get(t, PathSearch)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, PathLogin, resp.Header.Get("Location"))

	resp, _ = stack.post(t, PathSearch, ingredientForm("chicken"))
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, PathLogin, resp.Header.Get("Location"))
	assert.Zero(t, stack.UpstreamHits(), "recipe API must not be called without a session")
}

func TestRoutes_AnonymousSessionCannotSearch(t *testing.T) {
	stack := newTestStack(t, stackOptions{SaveUninitialized: true})

	resp, _ := stack.get(t, PathLogin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, stack.sessionCookieValue(t), "visitor should get an anonymous session")

	resp, _ = stack.post(t, PathSearch, ingredientForm("chicken"))
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Zero(t, stack.UpstreamHits())
}

func TestRoutes_NotFound(t *testing.T) {
	stack := newTestStack(t, stackOptions{})

	resp, body := stack.get(t, "/recipes/42")

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "doesn&#39;t exist")
	assert.Contains(t, body, `data-error-kind="not_found"`)
}

func TestRoutes_Health(t *testing.T) {
	stack := newTestStack(t, stackOptions{SaveUninitialized: true})

	resp, body := stack.get(t, "/healthz")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, healthResponse, body)
	assert.Empty(t, resp.Cookies(), "health checks never allocate sessions")
}

func TestRoutes_Static(t *testing.T) {
	stack := newTestStack(t, stackOptions{})

	resp, body := stack.get(t, "/static/css/styles.css")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "no-cache", resp.Header.Get("Cache-Control"))
	assert.Contains(t, body, ".recipe-list")
}

func TestStaticWithCacheHeaders(t *testing.T) {
	h := staticWithCacheHeaders(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := map[string]string{
		"/static/css/app.abc12345.css":   "public, max-age=31536000, immutable",
		"/static/js/app.0123abcd.js.map": "public, max-age=31536000, immutable",
		"/static/css/styles.css":         "no-cache",
		"/static/css/app.ABC12345.css":   "no-cache",
		"/static/img/logo.abc12345.png":  "no-cache",
	}
	for path, want := range tests {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, w.Header().Get("Cache-Control"), path)
	}
}
