package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/kafka-go"

	"github.com/z3ro647/HealthAndFitnessTrackerApp/internal/api"
	"github.com/z3ro647/HealthAndFitnessTrackerApp/internal/auth"
	"github.com/z3ro647/HealthAndFitnessTrackerApp/internal/changefeed"
	"github.com/z3ro647/HealthAndFitnessTrackerApp/internal/config"
	"github.com/z3ro647/HealthAndFitnessTrackerApp/internal/docstore"
	memorystore "github.com/z3ro647/HealthAndFitnessTrackerApp/internal/docstore/memory"
	postgresstore "github.com/z3ro647/HealthAndFitnessTrackerApp/internal/docstore/postgres"
	"github.com/z3ro647/HealthAndFitnessTrackerApp/internal/history"
	"github.com/z3ro647/HealthAndFitnessTrackerApp/internal/session"
	"github.com/z3ro647/HealthAndFitnessTrackerApp/internal/tracker"
	httptransport "github.com/z3ro647/HealthAndFitnessTrackerApp/internal/transport/http"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		store   docstore.Store
		pgStore *postgresstore.Store
	)
	switch cfg.DocstoreDriver {
	case config.DriverMemory:
		store = memorystore.NewStore()
	case config.DriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()
		pgStore = postgresstore.NewStore(pool, cfg.SnapshotPoll)
		store = pgStore
	default:
		log.Fatalf("unknown docstore driver: %s", cfg.DocstoreDriver)
	}

	var notifier *changefeed.Notifier
	if cfg.ChangefeedOn {
		if pgStore == nil {
			log.Fatalf("changefeed requires the postgres docstore")
		}
		notifier = changefeed.NewNotifier(cfg.KafkaBrokers, cfg.ChangefeedTopic)
		defer notifier.Close()
		store = changefeed.NewStore(store, notifier)

		reader := kafka.NewReader(kafka.ReaderConfig{
			Brokers:         cfg.KafkaBrokers,
			GroupID:         cfg.ChangefeedGroup,
			Topic:           cfg.ChangefeedTopic,
			MinBytes:        1e3,
			MaxBytes:        10e6,
			CommitInterval:  time.Second,
			ReadLagInterval: -1,
		})
		listener := changefeed.NewListener(reader, pgStore)

		go func() {
			defer reader.Close()
			log.Printf("changefeed listener started (topic=%s, group=%s)", cfg.ChangefeedTopic, cfg.ChangefeedGroup)
			if err := listener.Run(ctx); err != nil && err != context.Canceled {
				log.Printf("changefeed listener stopped with error: %v", err)
			}
		}()
	}

	sessions := session.NewManager(store)
	defer sessions.Close()

	trk := tracker.New(store, tracker.WithWaterIncrement(cfg.WaterIncrementMl))
	hist := history.NewRecorder(store)

	handler := api.NewHandler(sessions, trk, hist)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	// Simple CORS middleware for local dev
	cors := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "http://localhost:5173")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}

	// Basic request logger
	logger := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Printf("%s %s", r.Method, r.URL.Path)
			next.ServeHTTP(w, r)
		})
	}

	authMiddleware := auth.NewMiddleware(auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer}, func(r *http.Request) bool {
		return r.URL.Path == "/healthz" || r.URL.Path == "/metrics"
	})

	// CORS sits outermost so preflight OPTIONS requests are answered before
	// authentication rejects them for lacking a bearer token.
	server := httptransport.NewServer(httptransport.ServerConfig{
		Address: cfg.HTTPAddress,
	}, cors(logger(authMiddleware.Wrap(mux))))

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("fitness-tracker listening on %s", cfg.HTTPAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-shutdownCh
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
