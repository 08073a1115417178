package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/utafrali/patatpalace/internal/catalog"
	"github.com/utafrali/patatpalace/internal/config"
	"github.com/utafrali/patatpalace/internal/event"
	handler "github.com/utafrali/patatpalace/internal/handler/http"
	"github.com/utafrali/patatpalace/internal/notice"
	"github.com/utafrali/patatpalace/internal/repository"
	"github.com/utafrali/patatpalace/internal/repository/memory"
	redisrepo "github.com/utafrali/patatpalace/internal/repository/redis"
	sendermock "github.com/utafrali/patatpalace/internal/sender/mock"
	"github.com/utafrali/patatpalace/internal/service"
	"github.com/utafrali/patatpalace/pkg/database"
	"github.com/utafrali/patatpalace/pkg/health"
	pkgkafka "github.com/utafrali/patatpalace/pkg/kafka"
	"github.com/utafrali/patatpalace/pkg/middleware"
	"github.com/utafrali/patatpalace/pkg/tracing"
)

const serviceName = "patat-storefront"

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	rdb            *redis.Client
	producer       *pkgkafka.Producer
	notices        *notice.Board
	carts          *service.CartService
	checkout       *service.CheckoutService
	contact        *service.ContactService
	limiter        *middleware.RateLimiter
	tracerShutdown func(context.Context) error
	httpServer     *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a := &App{cfg: cfg, logger: logger}

	// Initialize tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    serviceName,
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}
	a.tracerShutdown = tracerShutdown

	healthHandler := health.NewHandler()

	// Cart storage.
	var repo repository.CartRepository
	switch cfg.StorageBackend {
	case config.StorageRedis:
		redisCfg := database.DefaultRedisConfig()
		redisCfg.Addr = cfg.RedisAddr
		redisCfg.Password = cfg.RedisPass
		redisCfg.DB = cfg.RedisDB
		rdb, err := database.NewRedisClient(ctx, redisCfg)
		if err != nil {
			_ = tracerShutdown(context.Background())
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, rdb, serviceName); err != nil {
			logger.Warn("redis pool metrics not registered", slog.String("error", err.Error()))
		}
		healthHandler.Register("redis", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
		a.rdb = rdb
		repo = redisrepo.NewCartRepository(rdb, cfg.CartTTLDuration())
		logger.Info("connected to Redis",
			slog.String("addr", cfg.RedisAddr),
			slog.Int("db", cfg.RedisDB),
		)
	default:
		repo = memory.NewCartRepository()
		logger.Info("using in-memory cart storage")
	}

	// Events. Without brokers they are dropped.
	var events service.EventPublisher = event.Noop{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
		kafkaCfg.Async = true
		a.producer = pkgkafka.NewProducer(kafkaCfg, logger)
		events = event.NewProducer(a.producer, logger)
		healthHandler.Register("kafka", a.producer.Ping)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	} else {
		logger.Info("kafka disabled, storefront events are not published")
	}

	// Build the dependency graph.
	menu := catalog.Default()
	logger.Info("catalog loaded", slog.Int("products", len(menu.IDs())))

	a.notices = notice.NewBoard()
	a.carts = service.NewCartService(repo, menu, a.notices, events, logger, service.CartConfig{
		CartNoticeTTL: cfg.CartNoticeTTL(),
		WarningTTL:    cfg.NoticeTTL(),
	})
	a.checkout = service.NewCheckoutService(a.carts, events, logger, service.BankDetails{
		AccountName: cfg.BankAccountName,
		IBAN:        cfg.BankIBAN,
	})
	a.contact = service.NewContactService(sendermock.NewLogSender(logger), a.notices, logger, service.ContactConfig{
		SubmitDelay: cfg.ContactSubmitDelay(),
		NoticeTTL:   cfg.NoticeTTL(),
	})
	a.limiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, logger)

	sessionCfg := middleware.DefaultSessionConfig()
	sessionCfg.CookieName = cfg.SessionCookieName
	sessionCfg.Secure = cfg.SessionCookieSecure
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins

	// HTTP router.
	router := handler.NewRouter(handler.Dependencies{
		Catalog:     menu,
		Carts:       a.carts,
		Checkout:    a.checkout,
		Contact:     a.contact,
		Notices:     a.notices,
		Health:      healthHandler,
		Session:     sessionCfg,
		CORS:        corsCfg,
		RateLimiter: a.limiter,
	}, logger)

	a.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return a, nil
}

// Handler returns the HTTP handler of the application.
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}

// Run starts the HTTP server and the session janitor, and blocks until the
// context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go a.runJanitor(janitorCtx)

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		_ = a.Shutdown()
		return err
	}

	return a.Shutdown()
}

// runJanitor periodically drops idle in-memory session state.
func (a *App) runJanitor(ctx context.Context) {
	ticker := time.NewTicker(a.cfg.JanitorInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.sweep()
		}
	}
}

func (a *App) sweep() {
	idle := a.cfg.SessionIdle()
	carts := a.carts.Sweep(idle)
	flows := a.checkout.Sweep(idle)
	a.limiter.Cleanup()

	if carts > 0 || flows > 0 {
		a.logger.Debug("idle sessions swept",
			slog.Int("carts", carts),
			slog.Int("checkout_flows", flows),
		)
	}
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	// Pending contact submissions and message timers are dropped.
	a.contact.Shutdown()
	a.notices.Shutdown()

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}

	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	if err := a.tracerShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
