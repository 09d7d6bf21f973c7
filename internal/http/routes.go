package httpx

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"regexp"

	recipefinder "github.com/target/recipe-finder"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Accounts AccountService
	Sessions SessionManager
	Recipes  RecipeSearcher
	Cookies  CookieConfig
	// SaveUninitialized gives every visitor a session before login.
	SaveUninitialized bool
	IsDev             bool         // Development mode flag for reading templates from disk.
	Logger            *slog.Logger // Logger for template and HTTP errors (optional)
	// TemplateFS and StaticFS override the embedded frontend (optional).
	TemplateFS fs.FS
	StaticFS   fs.FS
}

// NewRouter creates and configures a new HTTP router with session middleware.
// Recover and Logging are applied by the caller.
func NewRouter(services RouterServices) (http.Handler, error) {
	if services.Accounts == nil || services.Sessions == nil || services.Recipes == nil {
		return nil, errors.New("accounts, sessions and recipes services are required")
	}

	templateFS, err := resolveTemplateFS(services)
	if err != nil {
		return nil, err
	}
	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: templateFS,
		Logger:     services.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	static, err := resolveStaticFS(services)
	if err != nil {
		return nil, err
	}

	ui := &UIHandlers{
		T:        tr,
		Accounts: services.Accounts,
		Sessions: services.Sessions,
		Recipes:  services.Recipes,
		Cookies:  services.Cookies,
		IsDev:    services.IsDev,
		Logger:   services.Logger,
	}

	mux := http.NewServeMux()
	registerUIRoutes(mux, ui)
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("GET /static/", staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.FS(static)))))
	// Anything no other pattern claims.
	mux.Handle("/", http.HandlerFunc(ui.NotFound))

	return Sessions(SessionsConfig{
		Sessions:          services.Sessions,
		Cookies:           services.Cookies,
		SaveUninitialized: services.SaveUninitialized,
		Logger:            services.Logger,
	})(mux), nil
}

func registerUIRoutes(mux *http.ServeMux, h *UIHandlers) {
	mux.HandleFunc("GET /{$}", h.ShowLogin)
	mux.HandleFunc("GET /signup", h.ShowSignup)
	mux.HandleFunc("POST /signup", h.Register)
	mux.HandleFunc("POST /login", h.Authenticate)
	mux.HandleFunc("GET /logout", h.Logout)

	guard := RequireSession()
	mux.Handle("GET /search", guard(http.HandlerFunc(h.ShowSearch)))
	mux.Handle("POST /search", guard(http.HandlerFunc(h.Search)))
}

// resolveTemplateFS picks templates from, in order: the explicit override,
// disk in dev mode, or the embedded copy.
//
//nolint:ireturn // fs.FS is the natural currency here.
func resolveTemplateFS(services RouterServices) (fs.FS, error) {
	switch {
	case services.TemplateFS != nil:
		return services.TemplateFS, nil
	case services.IsDev:
		return os.DirFS(TemplatePathFromRoot), nil
	}
	sub, err := fs.Sub(recipefinder.TemplateFS, TemplatePathFromRoot)
	if err != nil {
		return nil, fmt.Errorf("embedded templates: %w", err)
	}
	return sub, nil
}

//nolint:ireturn // fs.FS is the natural currency here.
func resolveStaticFS(services RouterServices) (fs.FS, error) {
	switch {
	case services.StaticFS != nil:
		return services.StaticFS, nil
	case services.IsDev:
		return os.DirFS(StaticPathFromRoot), nil
	}
	sub, err := fs.Sub(recipefinder.StaticFS, StaticPathFromRoot)
	if err != nil {
		return nil, fmt.Errorf("embedded static assets: %w", err)
	}
	return sub, nil
}

// hashedFilePattern matches content-hashed filenames including optional .map (e.g., app.abc12345.css).
var hashedFilePattern = regexp.MustCompile(`\.[a-f0-9]{8}\.(?:js|css)(?:\.map)?$`)

// staticWithCacheHeaders wraps a static file handler to add appropriate cache headers.
func staticWithCacheHeaders(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hashedFilePattern.MatchString(r.URL.Path) {
			// Hashed assets can be cached for a long time (1 year)
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "no-cache")
		}

		handler.ServeHTTP(w, r)
	})
}
