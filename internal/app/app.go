// Package app wires configuration, the review store, the live feed, and the
// HTTP server into a runnable service.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	redislib "github.com/redis/go-redis/v9"

	"github.com/dylanhandelman-boy/irishcousinevents/internal/config"
	"github.com/dylanhandelman-boy/irishcousinevents/internal/event"
	handlerhttp "github.com/dylanhandelman-boy/irishcousinevents/internal/handler/http"
	"github.com/dylanhandelman-boy/irishcousinevents/internal/service"
	"github.com/dylanhandelman-boy/irishcousinevents/internal/store"
	"github.com/dylanhandelman-boy/irishcousinevents/internal/store/memory"
	pgstore "github.com/dylanhandelman-boy/irishcousinevents/internal/store/postgres"
	redisstore "github.com/dylanhandelman-boy/irishcousinevents/internal/store/redis"
	"github.com/dylanhandelman-boy/irishcousinevents/internal/view/sse"
	"github.com/dylanhandelman-boy/irishcousinevents/pkg/database"
	"github.com/dylanhandelman-boy/irishcousinevents/pkg/health"
	"github.com/dylanhandelman-boy/irishcousinevents/pkg/httpclient"
	"github.com/dylanhandelman-boy/irishcousinevents/pkg/kafka"
	"github.com/dylanhandelman-boy/irishcousinevents/pkg/logger"
	"github.com/dylanhandelman-boy/irishcousinevents/pkg/tracing"
)

const serviceName = "site-backend"

const shutdownTimeout = 15 * time.Second

// App is the assembled site backend.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	server *http.Server

	feed            *service.Feed
	pool            *pgxpool.Pool
	redisClient     *redislib.Client
	kafkaProducer   *kafka.Producer
	tracingShutdown func(context.Context) error
}

// New builds the application from configuration. The store backend, event
// producer, and contact forwarding are all optional; what is not configured
// runs degraded rather than failing startup.
func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := logger.New(serviceName, cfg.LogLevel)
	slog.SetDefault(log)

	tracingShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:  serviceName,
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTELEndpoint,
		SampleRate:   cfg.OTELSampleRate,
		Enabled:      cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	app := &App{
		cfg:             cfg,
		logger:          log,
		tracingShutdown: tracingShutdown,
	}

	healthHandler := health.NewHandler()

	st, err := app.buildStore(ctx, healthHandler)
	if err != nil {
		app.closeResources(ctx)
		return nil, err
	}

	var events *event.Producer
	if len(cfg.KafkaBrokers) > 0 {
		app.kafkaProducer = kafka.NewProducer(kafka.DefaultProducerConfig(cfg.KafkaBrokers), log)
		events = event.NewProducer(app.kafkaProducer, log)
		healthHandler.Register("kafka", func(ctx context.Context) error {
			return app.kafkaProducer.Ping(ctx)
		})
	}

	broadcaster := sse.NewBroadcaster(log)

	// Dates are shown on rendered reviews; the display layer drops them
	// when a stored date does not parse.
	const showDate = true

	if st != nil {
		app.feed = service.NewFeed(st, broadcaster, showDate, log)
		if err := app.feed.Start(ctx); err != nil {
			app.closeResources(ctx)
			return nil, fmt.Errorf("start review feed: %w", err)
		}
	} else {
		log.Warn("no review store configured, running degraded")
	}

	submissions := service.NewSubmissionService(st, events, log)
	contacts := app.buildContactService(events)

	router := handlerhttp.NewRouter(handlerhttp.RouterConfig{
		Reviews:     handlerhttp.NewReviewHandler(submissions, app.feed, showDate, log),
		Contact:     handlerhttp.NewContactHandler(contacts, log),
		Stream:      handlerhttp.NewStreamHandler(broadcaster, app.feed),
		Health:      healthHandler,
		Logger:      log,
		Environment: cfg.Environment,
		CORSOrigins: cfg.CORSAllowedOrigins,
	})

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return app, nil
}

// buildStore selects and connects the review store per STORE_BACKEND.
func (a *App) buildStore(ctx context.Context, h *health.Handler) (store.Store, error) {
	switch a.cfg.StoreBackend {
	case config.BackendPostgres:
		pgCfg := database.DefaultPostgresConfig()
		pgCfg.Host = a.cfg.PostgresHost
		pgCfg.Port = a.cfg.PostgresPort
		pgCfg.User = a.cfg.PostgresUser
		pgCfg.Password = a.cfg.PostgresPass
		pgCfg.DBName = a.cfg.PostgresDB
		pgCfg.SSLMode = a.cfg.PostgresSSL
		pgCfg.MaxConns = a.cfg.DBMaxConns
		pgCfg.MinConns = a.cfg.DBMinConns

		pool, err := database.NewPostgresPool(ctx, &pgCfg, a.logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		a.pool = pool

		if err := pgstore.Migrate(ctx, pool, a.logger); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}

		h.Register("postgres", pool.Ping)
		return pgstore.New(pool, a.logger), nil

	case config.BackendRedis:
		client, err := database.NewRedisClient(ctx, database.RedisConfig{
			Host:     a.cfg.RedisHost,
			Port:     a.cfg.RedisPort,
			Password: a.cfg.RedisPass,
			DB:       a.cfg.RedisDB,
		})
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.redisClient = client

		h.Register("redis", func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})
		return redisstore.New(client, a.logger), nil

	case config.BackendMemory:
		return memory.New(), nil

	default: // config.BackendNone
		return nil, nil
	}
}

// buildContactService wires the outbound contact client when forwarding is
// configured.
func (a *App) buildContactService(events *event.Producer) *service.ContactService {
	if a.cfg.ContactForwardURL == "" {
		return service.NewContactService(nil, "", events, a.logger)
	}

	client := httpclient.NewCircuitBreakerClient(
		httpclient.New(httpclient.DefaultConfig()),
		httpclient.DefaultCircuitBreakerConfig("contact-forward"),
		a.logger,
	)
	return service.NewContactService(client, a.cfg.ContactForwardURL, events, a.logger)
}

// Run starts the HTTP server and blocks until the context is cancelled or the
// server fails.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening",
			slog.String("addr", a.server.Addr),
			slog.String("store_backend", a.cfg.StoreBackend),
		)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		return a.Shutdown()
	}
}

// Shutdown stops the server and releases resources.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := a.server.Shutdown(ctx)
	a.closeResources(ctx)
	return err
}

func (a *App) closeResources(ctx context.Context) {
	if a.feed != nil {
		if err := a.feed.Close(); err != nil {
			a.logger.Error("close feed", slog.String("error", err.Error()))
		}
	}
	if a.kafkaProducer != nil {
		if err := a.kafkaProducer.Close(); err != nil {
			a.logger.Error("close kafka producer", slog.String("error", err.Error()))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Error("close redis client", slog.String("error", err.Error()))
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
	if a.tracingShutdown != nil {
		if err := a.tracingShutdown(ctx); err != nil {
			a.logger.Error("shutdown tracing", slog.String("error", err.Error()))
		}
	}
}
