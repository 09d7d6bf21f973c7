package httpx

import (
	"context"
	"html"
	"log/slog"
	"net/http"
	"time"

	domainauth "github.com/target/recipe-finder/internal/domain/auth"
	"github.com/target/recipe-finder/internal/domain/model"
	"github.com/target/recipe-finder/internal/http/ui/viewmodel"
	"github.com/target/recipe-finder/internal/service"
)

// AccountService is the signup/login surface the handlers need.
type AccountService interface {
	Register(ctx context.Context, username, password string) (model.User, error)
	Authenticate(ctx context.Context, username, password string) (model.User, error)
}

// SessionManager resolves, issues and destroys browser sessions.
type SessionManager interface {
	Resolve(ctx context.Context, token string) (domainauth.Session, error)
	StartAnonymous(ctx context.Context) (service.IssuedSession, error)
	Rotate(ctx context.Context, previousID, username string) (service.IssuedSession, error)
	Logout(ctx context.Context, id string) error
}

// RecipeSearcher runs one ingredient search.
type RecipeSearcher interface {
	Search(ctx context.Context, ingredient string) (model.SearchResult, error)
}

// Compile-time interface assertions to ensure concrete services satisfy their UI interfaces.
var (
	_ AccountService = (*service.AccountService)(nil)
	_ SessionManager = (*service.SessionService)(nil)
	_ RecipeSearcher = (*service.RecipeService)(nil)
)

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T        *TemplateRenderer
	Accounts AccountService
	Sessions SessionManager
	Recipes  RecipeSearcher
	Cookies  CookieConfig
	IsDev    bool // Development mode flag for enhanced error reporting
	Logger   *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
}

//nolint:gochecknoglobals // static read-only page metadata
var (
	loginMeta  = PageMeta{Title: "Log in - Recipe Finder", PageTitle: "Log in", CurrentPage: PageLogin}
	signupMeta = PageMeta{Title: "Sign up - Recipe Finder", PageTitle: "Sign up", CurrentPage: PageSignup}
	searchMeta = PageMeta{Title: "Search - Recipe Finder", PageTitle: "Find a recipe", CurrentPage: PageSearch}
	errorMeta  = PageMeta{Title: "Error - Recipe Finder", PageTitle: "Something went wrong", CurrentPage: PageError}
)

// buildLayout constructs shared layout metadata from the request/session context.
func buildLayout(r *http.Request, meta PageMeta) viewmodel.Layout {
	layout := viewmodel.Layout{
		Title:       meta.Title,
		PageTitle:   meta.PageTitle,
		CurrentPage: meta.CurrentPage,
	}

	if r == nil {
		return layout
	}
	if session := GetSessionFromContext(r.Context()); session != nil && session.IsAuthenticated() {
		layout.IsAuthenticated = true
		layout.Username = session.Username
	}

	return layout
}

// basePageData constructs the common page data map with user context.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	layout := buildLayout(r, meta)
	data := map[string]any{
		"Title":           layout.Title,
		"PageTitle":       layout.PageTitle,
		"CurrentPage":     layout.CurrentPage,
		"IsAuthenticated": layout.IsAuthenticated,
		"Year":            time.Now().Year(),
	}

	if layout.Username != "" {
		data["Username"] = layout.Username
	}

	return data
}

// page renders meta's page with data merged over the base layout data.
func (h *UIHandlers) page(w http.ResponseWriter, r *http.Request, meta PageMeta, data map[string]any) {
	builder := NewTemplateData(r, meta)
	for k, v := range data {
		builder.With(k, v)
	}
	h.render(w, r, View{Data: builder.Build()})
}

// render writes a full page, reporting template failures through logAndRenderTemplateError.
func (h *UIHandlers) render(w http.ResponseWriter, r *http.Request, v View) {
	if h.T == nil {
		http.Error(w, "templates not configured", http.StatusInternalServerError)
		return
	}
	if err := h.T.RenderFull(w, r, v); err != nil {
		h.logAndRenderTemplateError(w, r, err)
	}
}

// renderError shows err on the page described by meta.
func (h *UIHandlers) renderError(w http.ResponseWriter, r *http.Request, opts ErrorOpts) ErrorView {
	opts.W, opts.R = w, r
	if opts.Renderer == nil {
		opts.Renderer = h.render
	}
	if opts.PageMeta == (PageMeta{}) {
		opts.PageMeta = errorMeta
	}
	return RenderError(opts)
}

// logAndRenderTemplateError logs template errors and renders them in dev mode.
func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger().ErrorContext(r.Context(), "template rendering failed",
		"error", err,
		"path", r.URL.Path,
		"method", r.Method,
	)

	// In dev mode, show detailed error in the response
	if h.IsDev {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		errHTML := html.EscapeString(err.Error())
		pathHTML := html.EscapeString(r.URL.Path)
		if _, writeErr := w.Write([]byte(`<div class="template-error">
	<h2>Template Rendering Error</h2>
	<p><strong>Path:</strong> ` + pathHTML + `</p>
	<pre>` + errHTML + `</pre>
</div>`)); writeErr != nil {
			h.logger().Error("failed to write template error response", "error", writeErr)
		}
		return
	}

	// In production, show generic error
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
