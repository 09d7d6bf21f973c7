package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/target/recipe-finder/config"
	"github.com/target/recipe-finder/internal/adapters/bcrypt"
	"github.com/target/recipe-finder/internal/adapters/jwtcookie"
	"github.com/target/recipe-finder/internal/adapters/mealdb"
	"github.com/target/recipe-finder/internal/adapters/memory"
	"github.com/target/recipe-finder/internal/observability/statsd"
	"github.com/target/recipe-finder/internal/ports"
	"github.com/target/recipe-finder/internal/service"
	"go.mongodb.org/mongo-driver/mongo"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Accounts *service.AccountService
	Sessions *service.SessionService
	Recipes  *service.RecipeService
	// MemorySessions is set when sessions live in-process and need sweeping.
	MemorySessions *memory.SessionStore
	Metrics        statsd.Sink
}

// Infrastructure holds the external connections the configured backends need.
// Fields for unused backends stay nil.
type Infrastructure struct {
	DB          *sql.DB
	Mongo       *mongo.Client
	Users       *mongo.Collection
	RedisClient redis.UniversalClient
}

// ConnectInfrastructure opens only the connections selected by USER_STORE and SESSION_BACKEND.
func ConnectInfrastructure(cfg *config.AppConfig, logger *slog.Logger) (*Infrastructure, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	dbCfg := DatabaseConfig{
		DBConfig:    cfg.Postgres,
		RedisConfig: cfg.Redis,
		MongoConfig: cfg.Mongo,
		Logger:      logger,
	}
	infra := &Infrastructure{}

	switch cfg.Users.Backend {
	case config.UserStorePostgres:
		db, err := ConnectDB(dbCfg)
		if err != nil {
			return nil, fmt.Errorf("connect db: %w", err)
		}
		infra.DB = db
	case config.UserStoreMongo:
		client, coll, err := ConnectMongo(dbCfg)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		infra.Mongo, infra.Users = client, coll
	}

	if cfg.Session.Backend == config.SessionBackendRedis {
		client, err := ConnectRedis(dbCfg)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("connect redis: %w", err), infra.Close())
		}
		infra.RedisClient = client
	}

	return infra, nil
}

// Close releases every open connection.
func (i *Infrastructure) Close() error {
	if i == nil {
		return nil
	}
	var errs []error
	if i.DB != nil {
		if err := i.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	if i.Mongo != nil {
		if err := i.Mongo.Disconnect(context.Background()); err != nil {
			errs = append(errs, fmt.Errorf("disconnect mongo: %w", err))
		}
	}
	if i.RedisClient != nil {
		if err := i.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	return errors.Join(errs...)
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config *config.AppConfig
	Infra  *Infrastructure
	// Metrics defaults to a no-op sink.
	Metrics statsd.Sink
	Logger  *slog.Logger
	// RecipeClient overrides the HTTP client used for the recipe API (optional).
	RecipeClient *http.Client
}

// NewServices wires stores, adapters and services from configuration.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps with config are required")
	}
	cfg := deps.Config
	infra := deps.Infra
	if infra == nil {
		infra = &Infrastructure{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sink := deps.Metrics
	if sink == nil {
		sink = statsd.Noop{}
	}
	tel := service.Telemetry{Logger: logger, Metrics: sink}

	users, err := BuildUserStore(UserStoreConfig{
		Backend:    cfg.Users.Backend,
		DB:         infra.DB,
		Collection: infra.Users,
	})
	if err != nil {
		return ServiceContainer{}, err
	}
	stores, err := BuildSessionStore(SessionStoreConfig{
		Session:     cfg.Session,
		Redis:       cfg.Redis,
		RedisClient: infra.RedisClient,
	})
	if err != nil {
		return ServiceContainer{}, err
	}
	codec, err := newSessionCodec(cfg, logger)
	if err != nil {
		return ServiceContainer{}, err
	}
	lookup, err := mealdb.NewClient(mealdb.Config{
		BaseURL: cfg.Recipes.BaseURL,
		Timeout: cfg.Recipes.Timeout,
		Client:  deps.RecipeClient,
	})
	if err != nil {
		return ServiceContainer{}, err
	}

	return buildDomainServices(domainServicesOptions{
		users:     users,
		hasher:    bcrypt.NewHasher(cfg.Bcrypt.Cost),
		stores:    stores,
		codec:     codec,
		lookup:    lookup,
		ttl:       cfg.Session.TTL,
		telemetry: tel,
	})
}

func newSessionCodec(cfg *config.AppConfig, logger *slog.Logger) (*jwtcookie.Codec, error) {
	secret, err := ResolveSessionSecret(SecretConfig{
		Session:    cfg.Session,
		Production: cfg.IsProduction(),
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}
	return jwtcookie.NewCodec(secret)
}

type domainServicesOptions struct {
	users     ports.UserStore
	hasher    ports.PasswordHasher
	stores    SessionStores
	codec     ports.SessionCodec
	lookup    ports.RecipeLookup
	ttl       time.Duration
	telemetry service.Telemetry
}

func buildDomainServices(opts domainServicesOptions) (ServiceContainer, error) {
	accounts, err := service.NewAccountService(service.AccountServiceOptions{
		Users:     opts.users,
		Hasher:    opts.hasher,
		Telemetry: opts.telemetry,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("account service: %w", err)
	}
	sessions, err := service.NewSessionService(service.SessionServiceOptions{
		Store:     opts.stores.Store,
		Codec:     opts.codec,
		Config:    service.SessionConfig{TTL: opts.ttl},
		Telemetry: opts.telemetry,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("session service: %w", err)
	}
	recipes, err := service.NewRecipeService(service.RecipeServiceOptions{
		Lookup:    opts.lookup,
		Telemetry: opts.telemetry,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("recipe service: %w", err)
	}

	return ServiceContainer{
		Accounts:       accounts,
		Sessions:       sessions,
		Recipes:        recipes,
		MemorySessions: opts.stores.Memory,
		Metrics:        opts.telemetry.Metrics,
	}, nil
}

// BuildMetricsSink returns the StatsD sink and its closer; a failed dial degrades to no-op.
//
//nolint:ireturn // Sink is Noop or a UDP client depending on config.
func BuildMetricsSink(cfg config.ObservabilityMetricsConfig, logger *slog.Logger) (statsd.Sink, func() error) {
	if logger == nil {
		logger = slog.Default()
	}
	sink, closer, err := statsd.New(statsd.Config{
		Enabled: cfg.IsEnabled(),
		Address: cfg.StatsdAddress,
		Prefix:  cfg.Prefix,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to initialise statsd client", "error", err)
		return statsd.Noop{}, func() error { return nil }
	}
	return sink, closer
}
