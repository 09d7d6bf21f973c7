package config

import (
	"strings"
	"time"
)

// DefaultRecipeAPIBaseURL is TheMealDB's free v1 endpoint.
const DefaultRecipeAPIBaseURL = "https://www.themealdb.com/api/json/v1/1"

// RecipeAPIConfig configures the upstream recipe lookup. Loaded with the RECIPE_API_ prefix.
type RecipeAPIConfig struct {
	BaseURL string        `env:"BASE_URL" envDefault:"https://www.themealdb.com/api/json/v1/1"`
	Timeout time.Duration `env:"TIMEOUT"  envDefault:"10s"`
}

// Sanitize strips trailing slashes and restores defaults.
func (r *RecipeAPIConfig) Sanitize() {
	r.BaseURL = strings.TrimRight(strings.TrimSpace(r.BaseURL), "/")
	if r.BaseURL == "" {
		r.BaseURL = DefaultRecipeAPIBaseURL
	}
	if r.Timeout <= 0 {
		r.Timeout = 10 * time.Second
	}
}
