package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ekgstack/ekg-engine/internal/api"
	"github.com/ekgstack/ekg-engine/internal/config"
	"github.com/ekgstack/ekg-engine/internal/electro"
	"github.com/ekgstack/ekg-engine/internal/engine"
	"github.com/ekgstack/ekg-engine/internal/ingest"
	"github.com/ekgstack/ekg-engine/internal/metrics"
	"github.com/ekgstack/ekg-engine/internal/repo"
	"github.com/ekgstack/ekg-engine/internal/services"
	"github.com/ekgstack/ekg-engine/internal/utils"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "ekg-engine: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := utils.NewLogger(cfg.Logging.Level, cfg.Logging.JSON)
	slog.SetDefault(logger)
	logger.Info("starting ekg-engine",
		slog.String("address", cfg.Server.Address),
		slog.String("metrics_address", cfg.Server.MetricsAddress))

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	knowledge, err := engine.NewKnowledgeBase(cfg.Knowledge.Path, logger)
	if err != nil {
		return fmt.Errorf("load knowledge base: %w", err)
	}

	ingestor := ingest.NewIngestor(logger, ingest.Defaults{
		SamplingRate:    cfg.Ingest.SamplingRate,
		DurationSeconds: cfg.Ingest.DurationSeconds,
		Lead:            cfg.Ingest.DefaultLead,
	})
	pipeline := engine.NewPipeline(
		logger,
		ingestor,
		engine.NewClassifier(engine.DefaultCriteria()),
		engine.NewTimingCalculator(),
		engine.NewAssembler(knowledge),
	)

	seed := cfg.Mapper.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	mapper := electro.NewMapper(logger, rand.New(rand.NewSource(seed)))

	history := repo.NewMemoryHistory(0)
	service := services.NewAnalysisService(logger, pipeline, mapper, history)
	server := api.NewServer(logger, service, cfg.Server.Address)

	metricsSrv := &http.Server{
		Addr:    cfg.Server.MetricsAddress,
		Handler: promhttp.Handler(),
	}
	go func() {
		logger.Info("metrics server listening", slog.String("address", metricsSrv.Addr))
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server failed", slog.Any("error", err))
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case sig := <-stop:
		logger.Info("shutting down", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("http shutdown failed", slog.Any("error", err))
	}
	if err := metricsSrv.Shutdown(ctx); err != nil {
		logger.Error("metrics shutdown failed", slog.Any("error", err))
	}
	logger.Info("stopped")
	return nil
}
