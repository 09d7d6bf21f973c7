package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Environment names the deployment environment.
type Environment string

const (
	// EnvDevelopment relaxes startup validation and generates throwaway secrets.
	EnvDevelopment Environment = "development"
	// EnvProduction enforces a configured session secret and secure cookies.
	EnvProduction Environment = "production"
	// EnvTest is used by automated test runs.
	EnvTest Environment = "test"
)

// UnmarshalText implements encoding.TextUnmarshaler for Environment.
func (e *Environment) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "", "dev", "development":
		*e = EnvDevelopment
	case "prod", "production":
		*e = EnvProduction
	case "test":
		*e = EnvTest
	default:
		return fmt.Errorf("invalid Environment: %q (valid options: development, production, test)", v)
	}
	return nil
}

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: Session and password hashing configuration
//   - database.go: Credential store and session backend connections
//   - http.go: HTTP server configuration
//   - recipes.go: Upstream recipe API configuration
//   - observability.go: Logging and metrics configuration
type AppConfig struct {
	// Env selects validation strictness. Set APP_ENV=production for deployments.
	Env Environment `env:"APP_ENV" envDefault:"development"`

	// IsDev controls development mode behavior (templates read from disk).
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Session and hashing configuration
	Session SessionConfig `envPrefix:"SESSION_"`
	Bcrypt  BcryptConfig

	// Credential store configuration
	Users    UserStoreConfig
	Mongo    MongoConfig `envPrefix:"MONGO_"`
	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	// HTTP server configuration
	HTTP HTTPConfig

	// Recipe API configuration
	Recipes RecipeAPIConfig `envPrefix:"RECIPE_API_"`

	// Observability configuration
	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	if c.Env == "" {
		c.Env = EnvDevelopment
	}

	c.HTTP.Sanitize()
	c.Session.Sanitize()
	c.Bcrypt.Sanitize()
	c.Mongo.Sanitize()
	c.Recipes.Sanitize()
	c.Observability.Sanitize()

	c.detectDevMode()
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}

// IsProduction reports whether strict production rules apply.
func (c *AppConfig) IsProduction() bool {
	return c.Env == EnvProduction
}

// Validate checks cross-field requirements after Sanitize has run.
// Production deployments must carry a real session secret.
func (c *AppConfig) Validate() error {
	var errs []error

	if c.IsProduction() {
		if err := c.Session.ValidateSecret(); err != nil {
			errs = append(errs, err)
		}
	}

	switch c.Users.Backend {
	case UserStoreMongo:
		if c.Mongo.URI == "" {
			errs = append(errs, errors.New("MONGO_URI is required when USER_STORE=mongo"))
		}
	case UserStoreMemory:
		if c.IsProduction() {
			errs = append(errs, errors.New("USER_STORE=memory is not allowed in production"))
		}
	}

	if c.Session.Backend == SessionBackendRedis && !c.Redis.UseSentinel && !c.Redis.UseCluster && c.Redis.URI == "" {
		errs = append(errs, errors.New("REDIS_URI is required when SESSION_BACKEND=redis"))
	}

	return errors.Join(errs...)
}
