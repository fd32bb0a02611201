package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/ekgstack/ekg-engine/internal/electro"
	"github.com/ekgstack/ekg-engine/internal/engine"
	"github.com/ekgstack/ekg-engine/internal/metrics"
	"github.com/ekgstack/ekg-engine/internal/models"
	"github.com/ekgstack/ekg-engine/internal/trends"
	"github.com/ekgstack/ekg-engine/internal/utils"
)

// AnalysisHistory defines the storage operations required for analysis history.
type AnalysisHistory interface {
	Store(analysis models.MedicalAnalysis)
	Get(id string) (models.MedicalAnalysis, bool)
	List(req models.ListAnalysesRequest) (models.ListAnalysesResponse, error)
	All() []models.MedicalAnalysis
}

// AnalysisService is the facade over the analysis pipeline, the
// electrophysiology mapper, and history.
type AnalysisService struct {
	logger     *slog.Logger
	pipeline   *engine.Pipeline
	mapper     *electro.Mapper
	history    AnalysisHistory
	summarizer *trends.Summarizer
	latencies  *utils.LatencyTracker
}

// NewAnalysisService constructs the service facade.
func NewAnalysisService(logger *slog.Logger, pipeline *engine.Pipeline, mapper *electro.Mapper, history AnalysisHistory) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisService{
		logger:     logger,
		pipeline:   pipeline,
		mapper:     mapper,
		history:    history,
		summarizer: trends.NewSummarizer(logger),
		latencies:  utils.NewLatencyTracker(1024),
	}
}

// Analyze runs the pipeline, records the result, and recalibrates the mapper
// so subsequent position queries reflect the newest analysis.
func (s *AnalysisService) Analyze(ctx context.Context, input models.EKGInput) (models.MedicalAnalysis, error) {
	start := time.Now()
	analysis, err := s.pipeline.Analyze(ctx, input)
	duration := time.Since(start)
	if err != nil {
		metrics.ObserveAnalysis(duration, metrics.OutcomeError, "none")
		s.logger.Error("analysis failed", slog.Any("error", err))
		return models.MedicalAnalysis{}, err
	}

	s.latencies.Observe(duration)
	metrics.ObserveAnalysis(duration, metrics.OutcomeSuccess, string(analysis.RhythmClassification))
	if count := s.latencies.Count(); count >= 20 && count%20 == 0 {
		p95 := s.latencies.Percentile(95)
		s.logger.Info("analysis latency", slog.Duration("p95", p95), slog.Int("samples", count))
	}

	if s.history != nil {
		s.history.Store(analysis)
	}
	if s.mapper != nil {
		s.mapper.Calibrate(analysis)
	}
	return analysis, nil
}

// State queries the mapper at the given elapsed time in ms.
func (s *AnalysisService) State(currentTimeMs float64) (models.ElectrophysiologyState, error) {
	metrics.ObserveStateQuery()
	return s.mapper.Evaluate(currentTimeMs)
}

// GetAnalysis returns a historical analysis by ID.
func (s *AnalysisService) GetAnalysis(id string) (models.MedicalAnalysis, bool) {
	if s.history == nil {
		return models.MedicalAnalysis{}, false
	}
	return s.history.Get(id)
}

// ListAnalyses returns a page of historical analyses.
func (s *AnalysisService) ListAnalyses(req models.ListAnalysesRequest) (models.ListAnalysesResponse, error) {
	if s.history == nil {
		return models.ListAnalysesResponse{}, nil
	}
	return s.history.List(req)
}

// Trends aggregates rhythm statistics over the retained history.
func (s *AnalysisService) Trends() []trends.RhythmTrend {
	if s.history == nil {
		return nil
	}
	return s.summarizer.Summarize(s.history.All())
}

// LatencyP95 returns the current p95 analysis latency.
func (s *AnalysisService) LatencyP95() time.Duration {
	if s.latencies == nil {
		return 0
	}
	return s.latencies.Percentile(95)
}
