package ingest

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ekgstack/ekg-engine/internal/models"
)

// Sentinel errors surfaced to callers via errors.Is.
var (
	// ErrUnsupportedInputType signals an input type outside the recognized set.
	ErrUnsupportedInputType = errors.New("unsupported input type")
	// ErrInvalidMetadata signals a non-positive sampling rate or malformed numeric payload.
	ErrInvalidMetadata = errors.New("invalid metadata")
)

// Defaults are acquisition parameters used when input metadata is silent.
type Defaults struct {
	SamplingRate    float64
	DurationSeconds float64
	Lead            string
}

// Ingestor normalizes heterogeneous EKG input into a canonical waveform record.
type Ingestor struct {
	logger   *slog.Logger
	defaults Defaults
}

// NewIngestor constructs an Ingestor. Zero default fields fall back to
// 250 Hz / 10 s / lead II.
func NewIngestor(logger *slog.Logger, defaults Defaults) *Ingestor {
	if logger == nil {
		logger = slog.Default()
	}
	if defaults.SamplingRate <= 0 {
		defaults.SamplingRate = 250
	}
	if defaults.DurationSeconds <= 0 {
		defaults.DurationSeconds = 10
	}
	if defaults.Lead == "" {
		defaults.Lead = "II"
	}
	return &Ingestor{logger: logger, defaults: defaults}
}

// Normalize converts raw input into a Waveform or returns a descriptive error.
// Image input is handed through a simulated digitization step that yields
// descriptive text; no real computer vision is performed.
func (g *Ingestor) Normalize(input models.EKGInput) (models.Waveform, error) {
	switch input.Type {
	case models.InputTypeWaveform:
		return g.fromSamples(input)
	case models.InputTypeTextReport:
		text, ok := input.Data.(string)
		if !ok {
			return models.Waveform{}, fmt.Errorf("%w: text_report data must be a string", ErrInvalidMetadata)
		}
		return g.fromReport(text, input.Metadata)
	case models.InputTypeImage:
		// Simulated digitization: the image payload is never decoded. A
		// descriptive report is derived from metadata defaults instead.
		g.logger.Debug("image digitization simulated", slog.String("lead", input.Metadata.LeadConfiguration))
		return g.fromReport(simulatedImageReport, input.Metadata)
	default:
		return models.Waveform{}, fmt.Errorf("%w: %q", ErrUnsupportedInputType, input.Type)
	}
}

const simulatedImageReport = "Normal sinus rhythm, rate 72 bpm"

func (g *Ingestor) fromSamples(input models.EKGInput) (models.Waveform, error) {
	samples, err := coerceSamples(input.Data)
	if err != nil {
		return models.Waveform{}, err
	}

	rate := g.defaults.SamplingRate
	if input.Metadata.SamplingRate != 0 {
		if input.Metadata.SamplingRate < 0 {
			return models.Waveform{}, fmt.Errorf("%w: sampling rate %f", ErrInvalidMetadata, input.Metadata.SamplingRate)
		}
		rate = input.Metadata.SamplingRate
	}

	lead := g.defaults.Lead
	if input.Metadata.LeadConfiguration != "" {
		lead = input.Metadata.LeadConfiguration
	}

	timeAxis := make([]float64, len(samples))
	for i := range samples {
		timeAxis[i] = float64(i) / rate
	}

	return models.Waveform{
		Time:         timeAxis,
		Amplitude:    samples,
		SamplingRate: rate,
		Lead:         lead,
	}, nil
}

func (g *Ingestor) fromReport(text string, meta models.InputMetadata) (models.Waveform, error) {
	findings := ParseReport(text)
	g.logger.Debug("report parsed",
		slog.Int("rate_bpm", findings.RateBPM),
		slog.String("rhythm", string(findings.Rhythm)),
	)

	rate := g.defaults.SamplingRate
	if meta.SamplingRate > 0 {
		rate = meta.SamplingRate
	}
	lead := g.defaults.Lead
	if meta.LeadConfiguration != "" {
		lead = meta.LeadConfiguration
	}

	return Synthesize(findings, rate, g.defaults.DurationSeconds, lead), nil
}

// coerceSamples accepts the numeric payload shapes a JSON decode can produce.
func coerceSamples(data any) ([]float64, error) {
	switch v := data.(type) {
	case []float64:
		return append([]float64(nil), v...), nil
	case []any:
		samples := make([]float64, 0, len(v))
		for i, raw := range v {
			f, ok := raw.(float64)
			if !ok {
				return nil, fmt.Errorf("%w: sample %d is not numeric", ErrInvalidMetadata, i)
			}
			samples = append(samples, f)
		}
		return samples, nil
	default:
		return nil, fmt.Errorf("%w: waveform data must be a numeric array", ErrInvalidMetadata)
	}
}
