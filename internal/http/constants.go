package httpx

// CurrentPage constants define the page identifiers used in templates and navigation.
// These constants ensure consistency across UI handlers and template mapping.
const (
	PageLogin  = "login"
	PageSignup = "signup"
	PageSearch = "search"
	PageError  = "error"
)

// Route paths referenced by redirects and templates.
const (
	PathLogin  = "/"
	PathSignup = "/signup"
	PathSearch = "/search"
	PathLogout = "/logout"
)

// Form field names posted by the login, signup and search forms.
const (
	FieldUsername   = "username"
	FieldPassword   = "password"
	FieldIngredient = "ingredient"
)

// Template paths used for loading templates in tests and production.
const (
	// Template directory paths.
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
	StaticPathFromRoot   = "frontend/static"
)

// Content templates are defined once and reused to avoid per-call allocations.
//
//nolint:gochecknoglobals // static read-only lookup for templates; avoids per-call allocations
var contentTemplates = map[string]string{
	PageLogin:  "login-content",
	PageSignup: "signup-content",
	PageSearch: "search-content",
	PageError:  "error-content",
}

// ContentTemplateMap returns the mapping from CurrentPage to template name.
// This is the single source of truth for page-to-template mapping.
func ContentTemplateMap() map[string]string { return contentTemplates }

// ContentTemplateFor returns the content template for the given CurrentPage.
// Falls back to login-content for unknown pages.
func ContentTemplateFor(currentPage string) string {
	if name, ok := ContentTemplateMap()[currentPage]; ok {
		return name
	}
	return "login-content"
}
