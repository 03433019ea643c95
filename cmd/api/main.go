package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/solrecover/claim-api/internal/api"
	"github.com/solrecover/claim-api/internal/config"
	"github.com/solrecover/claim-api/internal/domain"
	"github.com/solrecover/claim-api/internal/logging"
	"github.com/solrecover/claim-api/internal/seed"
	"github.com/solrecover/claim-api/internal/store"
	"github.com/solrecover/claim-api/internal/store/mongodb"
	httptransport "github.com/solrecover/claim-api/internal/transport/http"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.Debug)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A missing or unreachable store degrades the service rather than
	// killing it: reads answer not-found/empty, claim writes fail fast.
	var docs domain.Store = store.Disconnected{}
	if cfg.DatabaseURL != "" && cfg.DatabaseName != "" {
		client, err := mongodb.Connect(ctx, cfg.DatabaseURL, cfg.ConnectTimeout)
		if err != nil {
			logger.Warn("document store unreachable, starting degraded", zap.Error(err))
		} else {
			defer func() {
				disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer disconnectCancel()
				_ = client.Disconnect(disconnectCtx)
			}()
			docs = mongodb.NewStore(client, cfg.DatabaseName)
		}
	} else {
		logger.Warn("DATABASE_URL or DATABASE_NAME not set, starting without a store")
	}

	seed.Run(ctx, docs, logger)

	service := domain.NewService(docs, logger)
	handler := api.NewHandler(service, docs, api.Diagnostics{
		DatabaseURLSet: cfg.DatabaseURL != "",
		DatabaseName:   cfg.DatabaseName,
	})

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	// Open CORS policy: the API is public and read-mostly.
	cors := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Headers", "*")
			w.Header().Set("Access-Control-Allow-Methods", "*")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}

	requestLogger := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path))
			next.ServeHTTP(w, r)
		})
	}

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:      cfg.HTTPAddress,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}, requestLogger(cors(mux)))

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("claim-api listening", zap.String("address", cfg.HTTPAddress))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-shutdownCh
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}
}
