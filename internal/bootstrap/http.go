package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/target/recipe-finder/config"
	httpx "github.com/target/recipe-finder/internal/http"
	"github.com/target/recipe-finder/internal/observability/metrics"
	"github.com/target/recipe-finder/internal/observability/statsd"
	"golang.org/x/sync/errgroup"
)

type httpHandlerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// BuildHTTPHandler builds the router and wraps it as Recover -> Logging -> Router.
func BuildHTTPHandler(cfg httpHandlerConfig) (http.Handler, error) {
	// Nil service pointers would become non-nil interfaces inside the router.
	if cfg.Services.Accounts == nil || cfg.Services.Sessions == nil || cfg.Services.Recipes == nil {
		return nil, errors.New("accounts, sessions and recipes services are required")
	}
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	router, err := httpx.NewRouter(httpx.RouterServices{
		Accounts: cfg.Services.Accounts,
		Sessions: cfg.Services.Sessions,
		Recipes:  cfg.Services.Recipes,
		Cookies: httpx.CookieConfig{
			Name:   appCfg.Session.CookieName,
			Domain: appCfg.HTTP.CookieDomain,
			Secure: appCfg.IsProduction(),
		},
		SaveUninitialized: appCfg.Session.SaveUninitialized,
		IsDev:             appCfg.IsDev,
		Logger:            logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build router: %w", err)
	}

	h := httpx.Logging(logger)(router)
	h = httpx.Recover(logger)(h)
	return h, nil
}

func newServer(addr string, handler http.Handler) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":3000"
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// ServiceOrchestrationConfig contains everything RunServicesWithShutdown needs.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
	// Listener overrides the configured address (optional, used by tests).
	Listener net.Listener
}

// RunServicesWithShutdown serves HTTP and the session sweeper until ctx is
// canceled or one of them fails, then shuts the server down gracefully.
func RunServicesWithShutdown(ctx context.Context, cfg *ServiceOrchestrationConfig) error {
	if cfg == nil || cfg.Config == nil {
		return errors.New("service orchestration config with AppConfig is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	handler, err := BuildHTTPHandler(httpHandlerConfig{
		Config:   cfg.Config,
		Services: cfg.Services,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	server := newServer(cfg.Config.HTTP.Addr(), handler)

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return serve(gctx, server, cfg.Listener, logger)
	})
	group.Go(func() error {
		<-gctx.Done()
		return shutdownHTTPServer(ShutdownConfig{
			Server:  server,
			Timeout: cfg.Config.HTTP.ShutdownTimeout,
			Logger:  logger,
		})
	})
	if cfg.Services.MemorySessions != nil {
		group.Go(func() error {
			runSessionSweeper(gctx, sweeperConfig{
				Store:    cfg.Services.MemorySessions,
				Interval: cfg.Config.Session.SweepInterval,
				Metrics:  cfg.Services.Metrics,
				Logger:   logger,
			})
			return nil
		})
	}

	return group.Wait()
}

func serve(ctx context.Context, server *http.Server, ln net.Listener, logger *slog.Logger) error {
	var err error
	if ln != nil {
		logger.InfoContext(ctx, "starting HTTP server", "addr", ln.Addr().String())
		err = server.Serve(ln)
	} else {
		logger.InfoContext(ctx, "starting HTTP server", "addr", server.Addr)
		err = server.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Server  *http.Server
	Timeout time.Duration
	Logger  *slog.Logger
}

// shutdownHTTPServer gracefully shuts down the HTTP server.
func shutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("shutting down HTTP server")
	}

	// Shutdown must outlive the canceled run context.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := cfg.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("HTTP server stopped")
	}

	return nil
}

// sessionSweeper is the part of the memory store the sweeper drives.
type sessionSweeper interface {
	Sweep() int
	Len() int
}

type sweeperConfig struct {
	Store    sessionSweeper
	Interval time.Duration
	Metrics  statsd.Sink
	Logger   *slog.Logger
}

// runSessionSweeper drops expired in-memory sessions every interval and reports
// store size until ctx is done.
func runSessionSweeper(ctx context.Context, cfg sweeperConfig) {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	sink := cfg.Metrics
	if sink == nil {
		sink = statsd.Noop{}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			swept := cfg.Store.Sweep()
			active := cfg.Store.Len()
			sink.Count(metrics.SessionsSweptCounter, int64(swept), nil)
			sink.Gauge(metrics.SessionsActiveGauge, float64(active), nil)
			if swept > 0 && cfg.Logger != nil {
				cfg.Logger.DebugContext(ctx, "expired sessions swept", "swept", swept, "active", active)
			}
		}
	}
}
