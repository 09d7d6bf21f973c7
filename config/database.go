package config

import (
	"fmt"
	"strings"
)

// UserStoreBackend selects where user credentials are persisted.
type UserStoreBackend string

const (
	// UserStoreMongo stores users as documents keyed by username.
	UserStoreMongo UserStoreBackend = "mongo"
	// UserStorePostgres stores users in the users table.
	UserStorePostgres UserStoreBackend = "postgres"
	// UserStoreMemory keeps users in process memory (development only).
	UserStoreMemory UserStoreBackend = "memory"
)

// UnmarshalText implements encoding.TextUnmarshaler for UserStoreBackend.
func (u *UserStoreBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "mongo", "postgres", "memory":
		*u = UserStoreBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid UserStoreBackend: %q (valid options: mongo, postgres, memory)", v)
	}
}

// UserStoreConfig picks the credential store.
type UserStoreConfig struct {
	Backend UserStoreBackend `env:"USER_STORE" envDefault:"mongo"`
}

// MongoConfig contains MongoDB configuration for the credential store.
type MongoConfig struct {
	URI        string `env:"URI"        envDefault:"mongodb://localhost:27017"`
	Database   string `env:"DATABASE"   envDefault:"recipes"`
	Collection string `env:"COLLECTION" envDefault:"users"`
	// CredentialsFile points at a JSON service-account file with
	// username, password, auth_source and auth_mechanism keys.
	CredentialsFile string `env:"CREDENTIALS_FILE"`
}

// Sanitize trims values and restores defaults for blank names.
func (m *MongoConfig) Sanitize() {
	m.URI = strings.TrimSpace(m.URI)
	m.CredentialsFile = strings.TrimSpace(m.CredentialsFile)
	if m.Database = strings.TrimSpace(m.Database); m.Database == "" {
		m.Database = "recipes"
	}
	if m.Collection = strings.TrimSpace(m.Collection); m.Collection == "" {
		m.Collection = "users"
	}
}

// DBConfig contains PostgreSQL database configuration.
type DBConfig struct {
	Host     string `env:"HOST"                    envDefault:"localhost"`
	Port     int    `env:"PORT"                    envDefault:"5432"`
	User     string `env:"USER"                    envDefault:"recipes"`
	Password string `env:"PASSWORD"                envDefault:"recipes"`
	Name     string `env:"NAME"                    envDefault:"recipes"`
	SSLMode  string `env:"SSL_MODE"                envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	// RunMigrationsOnStart controls whether the application automatically applies migrations during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// DSN renders a libpq-style connection string.
func (d DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// RedisConfig contains Redis configuration for the session backend.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	DB                 int      `env:"DB"                   envDefault:"0"`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
	KeyPrefix          string   `env:"KEY_PREFIX"           envDefault:"recipe:session:"`
}
