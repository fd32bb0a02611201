package engine

import (
	"context"
	"log/slog"

	"github.com/ekgstack/ekg-engine/internal/extractors"
	"github.com/ekgstack/ekg-engine/internal/ingest"
	"github.com/ekgstack/ekg-engine/internal/models"
	"github.com/ekgstack/ekg-engine/internal/utils"
)

// Pipeline orchestrates the ingest -> extract -> classify -> assemble flow.
// It either produces a complete MedicalAnalysis or a single wrapped error;
// there is no partial success and no internal retry.
type Pipeline struct {
	logger     *slog.Logger
	ingestor   *ingest.Ingestor
	extractor  *extractors.FeatureExtractor
	classifier *Classifier
	timing     *TimingCalculator
	assembler  *Assembler
}

// NewPipeline constructs the analysis pipeline. Nil collaborators are replaced
// with defaults where a default exists.
func NewPipeline(
	logger *slog.Logger,
	ingestor *ingest.Ingestor,
	classifier *Classifier,
	timing *TimingCalculator,
	assembler *Assembler,
) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if ingestor == nil {
		ingestor = ingest.NewIngestor(logger, ingest.Defaults{})
	}
	if classifier == nil {
		classifier = NewClassifier(DefaultCriteria())
	}
	if timing == nil {
		timing = NewTimingCalculator()
	}
	return &Pipeline{
		logger:     logger,
		ingestor:   ingestor,
		extractor:  extractors.NewFeatureExtractor(),
		classifier: classifier,
		timing:     timing,
		assembler:  assembler,
	}
}

// Analyze runs the full pipeline over one input.
func (p *Pipeline) Analyze(ctx context.Context, input models.EKGInput) (models.MedicalAnalysis, error) {
	if p.assembler == nil {
		return models.MedicalAnalysis{}, utils.NewAppError("analyze", "assembler not configured", nil)
	}
	if err := ctx.Err(); err != nil {
		return models.MedicalAnalysis{}, utils.NewAppError("analyze", "context cancelled", err)
	}

	waveform, err := p.ingestor.Normalize(input)
	if err != nil {
		return models.MedicalAnalysis{}, utils.NewAppError("ingest", "normalize input", err)
	}

	features, err := p.extractor.Extract(waveform)
	if err != nil {
		return models.MedicalAnalysis{}, utils.NewAppError("extract", "derive rhythm features", err)
	}

	classification := p.classifier.Classify(features)
	timing := p.timing.Derive(features, classification.HeartRate)
	analysis := p.assembler.Assemble(classification, timing, features)

	p.logger.Debug("analysis complete",
		slog.String("analysis_id", analysis.AnalysisID),
		slog.String("rhythm", string(analysis.RhythmClassification)),
		slog.Int("heart_rate", analysis.HeartRate),
		slog.Float64("rr_cov", classification.RRVariability),
	)
	return analysis, nil
}
