package httpx

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/target/recipe-finder/internal/domain/model"
	apperrors "github.com/target/recipe-finder/internal/errors"
)

func TestUIHandlers_ShowSearch(t *testing.T) {
	h, _, sessions, recipes := newTestUI(t)
	sess := sessions.add("alice")
	w := httptest.NewRecorder()

	h.ShowSearch(w, withSession(httptest.NewRequest(http.MethodGet, "/search", nil), sess))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, ContainsAll(body, []string{
		`action="/search"`,
		`name="ingredient"`,
		"Signed in as alice",
		`href="/logout"`,
	}), "search page missing expected content: %s", body)
	assert.NotContains(t, body, "recipe-list")
	assert.NotContains(t, body, "No recipes found")
	assert.Zero(t, recipes.calls.Load())
}

func TestUIHandlers_Search_Results(t *testing.T) {
	h, _, sessions, recipes := newTestUI(t)
	var got string
	recipes.SearchFunc = func(_ context.Context, ingredient string) (model.SearchResult, error) {
		got = ingredient
		return model.SearchResult{Ingredient: ingredient, Recipes: []model.Recipe{
			{ID: "52795", Name: "Chicken Handi", Thumbnail: "https://img.example/handi.jpg"},
			{ID: "52956", Name: "Chicken Congee"},
		}}, nil
	}
	w := httptest.NewRecorder()
	r := withSession(formRequest(http.MethodPost, "/search", ingredientForm("chicken")), sessions.add("alice"))

	h.Search(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "chicken", got)
	body := w.Body.String()
	assert.True(t, ContainsAll(body, []string{
		"Chicken Handi",
		"Chicken Congee",
		`data-recipe-id="52795"`,
		"https://img.example/handi.jpg/preview",
		"2 recipes",
		`value="chicken"`,
	}), "results page missing expected content: %s", body)
	assert.Equal(t, int64(1), recipes.calls.Load())
}

func TestUIHandlers_Search_NoResults(t *testing.T) {
	h, _, sessions, _ := newTestUI(t)
	w := httptest.NewRecorder()
	r := withSession(formRequest(http.MethodPost, "/search", ingredientForm("zzzznotfood")), sessions.add("alice"))

	h.Search(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "No recipes found")
	assert.Contains(t, body, "zzzznotfood")
	assert.NotContains(t, body, "recipe-list")
}

func TestUIHandlers_Search_EscapesUpstreamContent(t *testing.T) {
	h, _, sessions, recipes := newTestUI(t)
	recipes.SearchFunc = func(_ context.Context, ingredient string) (model.SearchResult, error) {
		return model.SearchResult{Ingredient: ingredient, Recipes: []model.Recipe{
			{ID: "1", Name: "<script>alert(1)</script>"},
		}}, nil
	}
	w := httptest.NewRecorder()
	r := withSession(formRequest(http.MethodPost, "/search", url.Values{FieldIngredient: {`"><b>`}}), sessions.add("alice"))

	h.Search(w, r)

	body := w.Body.String()
	assert.NotContains(t, body, "<script>alert(1)</script>")
	assert.NotContains(t, body, `"><b>`)
	assert.Contains(t, body, "&lt;script&gt;")
}

func TestUIHandlers_Search_Failures(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   ErrorKind
		wantText   string
	}{
		{
			name:       "upstream",
			err:        apperrors.Wrap(errors.New("recipe api 503"), apperrors.ErrCodeUpstream, "The recipe service is unavailable. Please try again later."),
			wantStatus: http.StatusBadGateway,
			wantKind:   KindUpstream,
			wantText:   "The recipe service is unavailable. Please try again later.",
		},
		{
			name:       "timeout",
			err:        apperrors.Wrap(context.DeadlineExceeded, apperrors.ErrCodeTimeout, "The recipe service took too long to respond."),
			wantStatus: http.StatusGatewayTimeout,
			wantKind:   KindTimeout,
			wantText:   "The recipe service took too long to respond.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, sessions, recipes := newTestUI(t)
			recipes.SearchFunc = func(_ context.Context, ingredient string) (model.SearchResult, error) {
				return model.SearchResult{Ingredient: ingredient}, tt.err
			}
			w := httptest.NewRecorder()
			r := withSession(formRequest(http.MethodPost, "/search", ingredientForm("chicken")), sessions.add("alice"))

			h.Search(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)
			body := w.Body.String()
			assert.Contains(t, body, tt.wantText)
			assert.Contains(t, body, `data-error-kind="`+string(tt.wantKind)+`"`)
			assert.Contains(t, body, `value="chicken"`, "submitted ingredient should be kept")
			assert.Contains(t, body, `action="/search"`, "error is shown on the search page")
			assert.NotContains(t, body, "recipe api 503")
		})
	}
}

func TestUIHandlers_FailuresLoggedOnce(t *testing.T) {
	h, accounts, sessions, recipes := newTestUI(t)
	var logs bytes.Buffer
	h.Logger = slog.New(slog.NewJSONHandler(&logs, nil))

	recipes.SearchFunc = func(_ context.Context, ingredient string) (model.SearchResult, error) {
		return model.SearchResult{Ingredient: ingredient}, apperrors.Upstream("down")
	}
	accounts.RegisterFunc = func(context.Context, string, string) (model.User, error) {
		return model.User{}, apperrors.Internal("Sign up failed.")
	}

	h.Search(httptest.NewRecorder(),
		withSession(formRequest(http.MethodPost, "/search", ingredientForm("chicken")), sessions.add("alice")))
	h.Register(httptest.NewRecorder(), formRequest(http.MethodPost, "/signup", credentials("alice", "pw")))

	out := logs.String()
	assert.Equal(t, 2, strings.Count(out, `"level":"ERROR"`), out)
	assert.Equal(t, 1, strings.Count(out, `"msg":"search failed"`))
	assert.Equal(t, 1, strings.Count(out, `"msg":"signup failed"`))
	assert.Contains(t, out, `"ingredient":"chicken"`)
}
