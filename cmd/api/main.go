package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/getsentry/sentry-go"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/tldps/stats-api/internal/config"
	"github.com/tldps/stats-api/internal/handlers"
	"github.com/tldps/stats-api/internal/logic"
	"github.com/tldps/stats-api/internal/worker"
)

// HTTP server timeouts
const (
	readTimeout       = 60 * time.Second
	writeTimeout      = 120 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	sugar := logger.Sugar()

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Env,
		}); err != nil {
			sugar.Warnw("Sentry disabled", "error", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		sugar.Fatalw("Failed to initialize backends", "error", err)
	}
	defer a.close()

	if a.pool != nil {
		a.pool.Start(context.Background())
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           newRouter(cfg, a.handler),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		sugar.Infow("Starting HTTP server", "addr", srv.Addr, "env", cfg.Env, "shareStore", cfg.ShareStore)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Errorw("HTTP server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	sugar.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("Server shutdown failed", "error", err)
	}
	sugar.Info("Server stopped")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewDevelopmentConfig()
	if cfg.IsProduction() {
		zcfg = zap.NewProductionConfig()
	}
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zcfg.Level = level
	return zcfg.Build()
}

// app holds the wired backends and the HTTP handler built on them.
type app struct {
	handler *handlers.Handler
	pool    *worker.Pool
	closers []func()
}

func (a *app) close() {
	if a.pool != nil {
		a.pool.Stop()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	a := &app{}
	ready := map[string]handlers.Check{}
	schemas := map[string]handlers.Check{}

	catalog, err := loadCatalog(cfg.SkillCatalogPath)
	if err != nil {
		return nil, err
	}

	// Redis: share cache and caster totals
	var cache logic.RedisClient
	var counters worker.CounterClient
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		rdb := redis.NewClient(opts)
		a.closers = append(a.closers, func() { _ = rdb.Close() })
		ready["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		cache, counters = rdb, rdb
	}

	// ClickHouse: event archive
	var ch driver.Conn
	if cfg.ClickHouseURL != "" {
		opts, err := clickhouse.ParseDSN(cfg.ClickHouseURL)
		if err != nil {
			return nil, fmt.Errorf("parse clickhouse url: %w", err)
		}
		conn, err := clickhouse.Open(opts)
		if err != nil {
			return nil, fmt.Errorf("open clickhouse: %w", err)
		}
		a.closers = append(a.closers, func() { _ = conn.Close() })
		ready["clickhouse"] = conn.Ping
		schemas["clickhouse"] = func(ctx context.Context) error { return worker.EnsureSchema(ctx, conn) }
		ch = conn

		a.pool = worker.NewPool(worker.PoolConfig{
			WorkerCount:   cfg.WorkerCount,
			QueueSize:     cfg.QueueSize,
			BatchSize:     cfg.BatchSize,
			FlushInterval: cfg.FlushInterval,
			ClickHouse:    conn,
			Redis:         counters,
			Logger:        logger,
		})
	}

	store, err := openShareStore(ctx, cfg, a, ready, schemas)
	if err != nil {
		return nil, err
	}

	var captcha handlers.CaptchaVerifier
	if cfg.RecaptchaSecret != "" {
		captcha = handlers.NewRecaptchaVerifier(cfg.RecaptchaSecret)
	}

	hcfg := handlers.Config{
		Logger:   logger,
		Parser:   logic.NewParser(logger),
		Analysis: logic.NewAnalysisService(catalog, logger),
		Share: logic.NewShareService(logic.ShareServiceConfig{
			Store:    store,
			Cache:    cache,
			CacheTTL: cfg.ShareCacheTTL,
			Logger:   logger,
		}),
		Archive:        logic.NewArchiveService(ch, cache, logger),
		Captcha:        captcha,
		ReadyChecks:    ready,
		Schemas:        schemas,
		BaseURL:        cfg.BaseURL,
		IngestToken:    cfg.IngestToken,
		MaxUploadBytes: cfg.MaxUploadBytes,
	}
	if a.pool != nil {
		hcfg.WorkerPool = a.pool
	}
	a.handler = handlers.New(hcfg)
	return a, nil
}

func openShareStore(ctx context.Context, cfg *config.Config, a *app, ready, schemas map[string]handlers.Check) (logic.ShareStore, error) {
	switch cfg.ShareStore {
	case config.ShareStorePostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		store := logic.NewPostgresShareStore(pool)
		ready["postgres"] = pool.Ping
		schemas["postgres"] = store.EnsureSchema
		return store, nil

	case config.ShareStoreSQL:
		store, err := logic.OpenSQLShareStore(cfg.SQLDriver, cfg.SQLDSN)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = store.Close() })
		ready[cfg.SQLDriver] = store.Ping
		schemas[cfg.SQLDriver] = store.EnsureSchema
		return store, nil

	default:
		return logic.NewMemoryShareStore(), nil
	}
}

func loadCatalog(path string) (*logic.SkillCatalog, error) {
	if path == "" {
		return nil, nil
	}
	catalog, err := logic.LoadSkillCatalogFile(path)
	if err != nil {
		return nil, fmt.Errorf("load skill catalog: %w", err)
	}
	return catalog, nil
}

func newRouter(cfg *config.Config, h *handlers.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Ingest-Token"},
		MaxAge:         300,
	}))

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/doc.json", h.SwaggerDoc)

	r.Route("/api", func(r chi.Router) {
		r.Post("/share", h.CreateShare)
		r.Get("/share/{shareId}", h.GetShare)
		r.Get("/share/{shareId}/report", h.GetShareReport)

		r.Route("/v1", func(r chi.Router) {
			r.Post("/analyze", h.AnalyzeLog)
			r.Get("/archive/query", h.QueryArchive)
			r.Get("/archive/casters/{caster}", h.GetCasterTotals)

			r.Group(func(r chi.Router) {
				r.Use(h.IngestAuthMiddleware)
				r.Post("/ingest/logs", h.IngestLogs)
				r.Post("/system/install", h.InstallSchema)
			})
		})
	})

	return r
}
