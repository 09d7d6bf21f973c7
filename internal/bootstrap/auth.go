package bootstrap

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/target/recipe-finder/config"
	"github.com/target/recipe-finder/internal/adapters/memory"
	mongoadapter "github.com/target/recipe-finder/internal/adapters/mongo"
	pgadapter "github.com/target/recipe-finder/internal/adapters/postgres"
	redisadapter "github.com/target/recipe-finder/internal/adapters/redis"
	"github.com/target/recipe-finder/internal/ports"
	"go.mongodb.org/mongo-driver/mongo"
)

// SecretConfig groups inputs for ResolveSessionSecret.
type SecretConfig struct {
	Session    config.SessionConfig
	Production bool
	Logger     *slog.Logger
}

// ResolveSessionSecret returns the cookie signing key. Production requires a
// strong SESSION_SECRET; elsewhere a weak or missing one is replaced by a random
// key that lives only as long as the process.
func ResolveSessionSecret(cfg SecretConfig) ([]byte, error) {
	err := cfg.Session.ValidateSecret()
	if err == nil {
		return []byte(cfg.Session.Secret), nil
	}
	if cfg.Production {
		return nil, err
	}

	buf := make([]byte, config.MinSessionSecretLength)
	if _, rerr := rand.Read(buf); rerr != nil {
		return nil, fmt.Errorf("generate session secret: %w", rerr)
	}
	if cfg.Logger != nil {
		cfg.Logger.Warn("using an ephemeral session secret; sessions will not survive a restart",
			"reason", err.Error())
	}
	return []byte(hex.EncodeToString(buf)), nil
}

// SessionStoreConfig contains configuration for the session store.
type SessionStoreConfig struct {
	Session     config.SessionConfig
	Redis       config.RedisConfig
	RedisClient redis.UniversalClient
}

// SessionStores is the selected session backend. Memory is set only for the
// in-process backend, which needs a sweeper.
type SessionStores struct {
	Store  ports.SessionStore
	Memory *memory.SessionStore
}

// BuildSessionStore selects the session store named by SESSION_BACKEND.
func BuildSessionStore(cfg SessionStoreConfig) (SessionStores, error) {
	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		if cfg.RedisClient == nil {
			return SessionStores{}, errors.New("redis session backend selected but redis client not configured")
		}
		store := redisadapter.NewSessionStoreWithOptions(cfg.RedisClient, redisadapter.SessionStoreOptions{
			Prefix: cfg.Redis.KeyPrefix,
		})
		return SessionStores{Store: store}, nil
	case config.SessionBackendMemory, "":
		mem := memory.NewSessionStore()
		return SessionStores{Store: mem, Memory: mem}, nil
	default:
		return SessionStores{}, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}
}

// UserStoreConfig contains the connections a user store may be built on.
type UserStoreConfig struct {
	Backend    config.UserStoreBackend
	DB         *sql.DB
	Collection *mongo.Collection
}

// BuildUserStore selects the credential store named by USER_STORE.
//
//nolint:ireturn // the backend is chosen at runtime.
func BuildUserStore(cfg UserStoreConfig) (ports.UserStore, error) {
	switch cfg.Backend {
	case config.UserStoreMongo, "":
		if cfg.Collection == nil {
			return nil, errors.New("mongo user store selected but collection not configured")
		}
		return mongoadapter.NewUserStore(cfg.Collection), nil
	case config.UserStorePostgres:
		if cfg.DB == nil {
			return nil, errors.New("postgres user store selected but database not configured")
		}
		return pgadapter.NewUserStore(cfg.DB), nil
	case config.UserStoreMemory:
		return memory.NewUserStore(), nil
	default:
		return nil, fmt.Errorf("unknown user store %q", cfg.Backend)
	}
}
