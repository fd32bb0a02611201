package extractors

import (
	"errors"

	"github.com/ekgstack/ekg-engine/internal/models"
)

// ErrEmptySignal signals that the peak detector found no usable R peaks, so
// classification cannot proceed meaningfully.
var ErrEmptySignal = errors.New("empty signal: no R peaks detected")

// FeatureExtractor derives rhythm features from a canonical waveform.
type FeatureExtractor struct{}

// NewFeatureExtractor creates a feature extractor.
func NewFeatureExtractor() *FeatureExtractor {
	return &FeatureExtractor{}
}

// Extract runs peak detection and the morphology analyzers over one waveform.
// A signal without at least two R peaks yields ErrEmptySignal.
func (e *FeatureExtractor) Extract(w models.Waveform) (models.RhythmFeatures, error) {
	peaks := DetectRPeaks(w.Amplitude, w.SamplingRate)
	rr := CalculateRRIntervals(peaks, w.SamplingRate)
	if len(rr) == 0 {
		return models.RhythmFeatures{}, ErrEmptySignal
	}

	p := analyzePWave(w.Amplitude, peaks, w.SamplingRate)
	t := analyzeTWave(w.Amplitude, peaks, w.SamplingRate)
	qrs := analyzeQRS(w.Amplitude, peaks, w.SamplingRate)

	return models.RhythmFeatures{
		PWave:     p.features,
		QRS:       qrs,
		TWave:     t,
		Intervals: calculateIntervals(p, rr),
	}, nil
}
