package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"diabetes-predict/internal/cfg"
	"diabetes-predict/internal/metrics"
	"diabetes-predict/internal/model"
	"diabetes-predict/internal/predict"
	"diabetes-predict/internal/server"
	"diabetes-predict/internal/storage"
)

func main() {
	_ = godotenv.Load()

	c, err := cfg.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	configureLogging(c.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.New()
	mw := metrics.NewWrapper(m)

	// Artifacts missing or corrupt at boot is fatal before serving begins.
	engine, err := model.Load(c.ArtifactsPath)
	if err != nil {
		log.Fatal().Err(err).Str("artifacts_path", c.ArtifactsPath).Msg("artifact load failed")
	}
	trackModelAge(c.ArtifactsPath, mw)

	store := initializeStorage(c)
	if store != nil {
		defer store.Close()
	}

	svc := predict.NewService(engine, engine.ModelName(), mw)
	srv := server.New(server.Config{
		Port:         c.ListenPort,
		CORSOrigin:   c.CORSOrigin,
		ReadTimeout:  c.ReadTimeout,
		WriteTimeout: c.WriteTimeout,
	}, svc, engine, store, mw)

	startMetricsServer(ctx, c)

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("prediction server failed")
			cancel()
		}
	}()

	waitForShutdown(ctx)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("shutdown did not complete cleanly")
	}
	log.Info().Msg("server stopped")
}

func configureLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

// initializeStorage opens the audit log when DATA_PATH is configured. A
// failure here degrades to no persistence rather than stopping the server.
func initializeStorage(c cfg.Settings) *storage.Store {
	if c.DataPath == "" {
		return nil
	}
	store, err := storage.New(c.DataPath)
	if err != nil {
		log.Warn().Err(err).Msg("storage initialization failed, continuing without audit log")
		return nil
	}
	return store
}

func trackModelAge(artifactsPath string, mw *metrics.Wrapper) {
	if info, err := os.Stat(filepath.Join(artifactsPath, "metrics.json")); err == nil {
		mw.ModelAgeSet(time.Since(info.ModTime()).Seconds())
	}
}

// startMetricsServer starts the Prometheus metrics HTTP server.
func startMetricsServer(ctx context.Context, c cfg.Settings) {
	go func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})
		mux.Handle("/metrics", promhttp.Handler())

		metricsSrv := &http.Server{
			Addr:              fmt.Sprintf(":%d", c.MetricsPort),
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		go func() {
			<-ctx.Done()
			if err := metricsSrv.Shutdown(context.Background()); err != nil {
				log.Error().Err(err).Msg("failed to shutdown metrics server")
			}
		}()

		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

// waitForShutdown blocks until a termination signal or context cancel.
func waitForShutdown(ctx context.Context) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Info().Msg("shutdown signal received")
	case <-ctx.Done():
		log.Info().Msg("context canceled")
	}
}
