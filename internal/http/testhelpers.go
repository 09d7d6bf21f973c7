package httpx

import (
	"os"
	"strings"
	"testing"
)

// RequireTemplateRenderer creates a TemplateRenderer for tests, skipping the test if templates are not available.
// This centralizes the common pattern of template guard checks in tests.
func RequireTemplateRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: os.DirFS(TemplatePathFromTest),
	})
	if err != nil {
		t.Skipf("Templates not available, skipping: %v", err)
		return nil
	}
	return tr
}

// SkipIfNoTemplates checks if templates are available and skips the test if not.
// This is useful for tests that need templates but don't immediately create a renderer.
func SkipIfNoTemplates(t *testing.T) {
	t.Helper()
	if _, err := os.Stat(TemplatePathFromTest); os.IsNotExist(err) {
		t.Skip("Templates not available, skipping integration test")
	}
}

// ContainsAll checks if a string contains all the given substrings.
// This is a common utility function used in template rendering tests.
func ContainsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
