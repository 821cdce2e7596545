package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"talentflow/internal/assignment/handler"
	assignmentmetrics "talentflow/internal/assignment/metrics"
	"talentflow/internal/assignment/ports"
	"talentflow/internal/assignment/service"
	assignmentstore "talentflow/internal/assignment/store"
	"talentflow/internal/audit"
	"talentflow/internal/directory"
	"talentflow/internal/jwttoken"
	"talentflow/internal/platform/config"
	"talentflow/internal/platform/httpserver"
	"talentflow/internal/platform/logger"
	platformredis "talentflow/internal/platform/redis"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the assignment API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return runServer(cmd.Context(), cfg)
	},
}

func runServer(parent context.Context, cfg *config.Config) error {
	log := logger.New()

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Persistence. An empty Postgres URL selects the in-memory stores, which
	// keeps local development free of external services.
	var (
		db             *sql.DB
		assignments    ports.Store
		directoryStore directory.Store
		auditSinks     []audit.Store
	)
	if cfg.Postgres.URL != "" {
		var err error
		db, err = sql.Open("postgres", cfg.Postgres.URL)
		if err != nil {
			return fmt.Errorf("opening postgres: %w", err)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("pinging postgres: %w", err)
		}
		assignments = assignmentstore.NewPostgres(db)
		directoryStore = directory.NewPostgresStore(db)
		auditSinks = append(auditSinks, audit.NewPostgresStore(db))
	} else {
		log.Warn("no postgres url configured, using in-memory stores")
		assignments = assignmentstore.NewInMemory()
		directoryStore = directory.NewInMemoryStore()
		auditSinks = append(auditSinks, audit.NewInMemoryStore())
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	if len(cfg.Kafka.Brokers) > 0 {
		sink, err := audit.NewKafkaSink(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return fmt.Errorf("connecting audit kafka sink: %w", err)
		}
		defer sink.Close()
		auditSinks = append(auditSinks, sink)
	}

	// Audit pipeline: services emit, the worker persists in the background.
	auditMetrics := audit.NewMetrics()
	publisher := audit.NewPublisher(cfg.Audit.BufferSize, log, auditMetrics)
	auditWorker := audit.NewWorker(publisher.Inbox(), log, auditMetrics, auditSinks...)
	auditDone := make(chan struct{})
	go func() {
		defer close(auditDone)
		auditWorker.Run(ctx)
	}()

	directoryOpts := []directory.Option{directory.WithLogger(log)}
	if redisClient != nil {
		directoryOpts = append(directoryOpts,
			directory.WithReportsCache(directory.NewReportsCache(redisClient.Client, cfg.Directory.ReportsCacheTTL)))
	}
	directorySvc, err := directory.NewService(directoryStore, directoryOpts...)
	if err != nil {
		return fmt.Errorf("building directory service: %w", err)
	}

	metrics := assignmentmetrics.New()
	assignmentSvc, err := service.New(assignments, directorySvc, directorySvc,
		service.WithLogger(log),
		service.WithMetrics(metrics),
		service.WithAuditPublisher(publisher),
	)
	if err != nil {
		return fmt.Errorf("building assignment service: %w", err)
	}

	expiry := service.NewExpiryWorker(assignments, cfg.Expiry.Interval, log, metrics)
	go expiry.Run(ctx)

	tokens := jwttoken.NewService(cfg.Auth.JWTSigningKey, cfg.Auth.Issuer, cfg.Auth.Audience)

	router := chi.NewRouter()
	router.Get("/healthz", healthzHandler(db, redisClient))
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())
	router.Route("/api/v1", func(r chi.Router) {
		handler.New(assignmentSvc, log, tokens, cfg.Server.RequestTimeout).Register(r)
	})

	srv := httpserver.New(cfg.Server.Addr, router, cfg.Server.RequestTimeout)

	serverErr := make(chan error, 1)
	go func() {
		log.Info("starting talentflow server", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	// The audit worker flushes its buffer once ctx is cancelled. Wait for it
	// so queued entries reach the sinks before the sinks close.
	select {
	case <-auditDone:
	case <-time.After(10 * time.Second):
		log.Warn("audit worker did not flush in time")
	}
	return nil
}

// healthzHandler reports liveness of the serving dependencies. With
// in-memory stores there is nothing external to check.
func healthzHandler(db *sql.DB, redisClient *platformredis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if db != nil {
			if err := db.PingContext(ctx); err != nil {
				http.Error(w, "postgres unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		if redisClient != nil {
			if err := redisClient.Health(ctx); err != nil {
				http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}
