package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"reqforge/internal/analysis/cache"
	analysishandler "reqforge/internal/analysis/handler"
	analysismetrics "reqforge/internal/analysis/metrics"
	analysisservice "reqforge/internal/analysis/service"
	"reqforge/internal/events"
	"reqforge/internal/generation"
	"reqforge/internal/jwttoken"
	"reqforge/internal/platform/config"
	"reqforge/internal/platform/httpserver"
	"reqforge/internal/platform/logger"
	"reqforge/internal/platform/metrics"
	"reqforge/internal/platform/middleware"
	platformredis "reqforge/internal/platform/redis"
	requirementhandler "reqforge/internal/requirement/handler"
	requirementservice "reqforge/internal/requirement/service"
	requirementstore "reqforge/internal/requirement/store"
	"reqforge/pkg/platform/tx"
)

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpMetrics := metrics.New()
	analysisMetrics := analysismetrics.New()

	// Stores: PostgreSQL when configured, in-memory otherwise. Both stores
	// share one handle so a requirement write and its outbox event commit
	// in the same transaction.
	var (
		reqStore   requirementstore.Store
		outbox     events.Store
		transactor requirementservice.Transactor = tx.Passthrough{}
	)
	if cfg.Postgres.URL != "" {
		db, err := sql.Open("pgx", cfg.Postgres.URL)
		if err != nil {
			log.Error("open postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Error("ping postgres", "error", err)
			os.Exit(1)
		}

		pgStore := requirementstore.NewPostgres(db)
		if err := pgStore.Migrate(ctx); err != nil {
			log.Error("migrate requirements schema", "error", err)
			os.Exit(1)
		}
		if _, err := db.ExecContext(ctx, events.Schema); err != nil {
			log.Error("migrate outbox schema", "error", err)
			os.Exit(1)
		}
		reqStore = pgStore
		outbox = events.NewPostgresStore(db)
		transactor = tx.NewRunner(db)
	} else {
		log.Warn("no postgres configured, using in-memory stores")
		reqStore = requirementstore.NewMemoryStore()
		outbox = events.NewMemoryStore()
	}

	// Analysis model cache: Redis when configured.
	var modelCache cache.ModelCache = cache.NoopCache{}
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		modelCache = cache.NewRedis(redisClient.Client, cfg.Redis.CacheTTL,
			cache.WithMetrics(analysisMetrics))
	}

	// Outbox worker: publishes to Kafka when brokers are configured.
	var worker *events.Worker
	if len(cfg.Kafka.Brokers) > 0 {
		publisher, err := events.NewKafkaPublisher(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Error("connect kafka", "error", err)
			os.Exit(1)
		}
		defer publisher.Close()
		worker = events.NewWorker(outbox, publisher, log)
		go worker.Run(ctx)
	} else {
		log.Warn("no kafka brokers configured, domain events stay in the outbox")
	}

	jwtService := jwttoken.NewJWTService(cfg.Server.JWTSigningKey, "reqforge", "reqforge-api")

	reqService := requirementservice.NewService(reqStore, outbox, log,
		requirementservice.WithTransactor(transactor))
	analytics := analysisservice.NewRequirementAnalysisService(
		analysisservice.WithRequirementMetrics(analysisMetrics))
	miner := analysisservice.NewProjectAnalysisService(
		analysisservice.WithProjectMetrics(analysisMetrics))

	var requirementOpts []requirementhandler.Option
	if cfg.Generation.URL != "" {
		completer := generation.NewHTTPCompleter(cfg.Generation.URL, cfg.Generation.Model, cfg.Generation.APIKey)
		requirementOpts = append(requirementOpts,
			requirementhandler.WithDrafter(generation.NewGenerator(completer, log)))
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))
	router.Use(middleware.Timeout(30 * time.Second))
	router.Use(middleware.Latency(httpMetrics))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	router.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		requirementhandler.New(reqService, log, jwtService, requirementOpts...).Register(r)
		analysishandler.New(analytics, miner, reqService, modelCache, outbox, log, jwtService).Register(r)
	})

	if worker != nil {
		events.NewAdminHandler(worker, cfg.Server.AdminToken, log).Register(router)
	}

	srv := httpserver.New(cfg.Server.Addr, router)

	go func() {
		log.Info("starting reqforge", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("reqforge stopped")
}
