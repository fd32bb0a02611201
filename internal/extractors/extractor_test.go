package extractors

import (
	"errors"
	"math"
	"testing"

	"github.com/ekgstack/ekg-engine/internal/ingest"
	"github.com/ekgstack/ekg-engine/internal/models"
)

func synthesize(t *testing.T, report string) models.Waveform {
	t.Helper()
	return ingest.Synthesize(ingest.ParseReport(report), 250, 10, "II")
}

func TestExtractNormalSinus(t *testing.T) {
	wf := synthesize(t, "Normal sinus rhythm, rate 72 bpm, PR 160 ms")

	features, err := NewFeatureExtractor().Extract(wf)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if !features.PWave.Present {
		t.Error("P wave should be present in sinus rhythm")
	}
	if features.QRS.Morphology != "narrow" {
		t.Errorf("QRS morphology = %q, want narrow", features.QRS.Morphology)
	}
	if features.QRS.DurationMs != 95 {
		t.Errorf("QRS duration = %f, want 95", features.QRS.DurationMs)
	}
	if features.TWave.Polarity != "positive" {
		t.Errorf("T polarity = %q, want positive", features.TWave.Polarity)
	}

	if math.Abs(features.Intervals.PRMs-160) > 15 {
		t.Errorf("PR = %f, want ~160 ms", features.Intervals.PRMs)
	}

	meanRR := 0.0
	for _, v := range features.Intervals.RRMs {
		meanRR += v
	}
	meanRR /= float64(len(features.Intervals.RRMs))
	if math.Abs(meanRR-833) > 25 {
		t.Errorf("mean RR = %f, want ~833 ms for 72 bpm", meanRR)
	}

	if features.Intervals.QTcMs <= features.Intervals.QTMs {
		t.Errorf("QTc = %f should exceed QT = %f when RR < 1 s",
			features.Intervals.QTcMs, features.Intervals.QTMs)
	}
}

func TestExtractVentricularTachycardia(t *testing.T) {
	wf := synthesize(t, "monomorphic ventricular tachycardia, rate 180")

	features, err := NewFeatureExtractor().Extract(wf)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if features.PWave.Present {
		t.Error("P wave should be absent in ventricular tachycardia")
	}
	if features.Intervals.PRMs != 0 {
		t.Errorf("PR = %f, want 0 when no P wave is found", features.Intervals.PRMs)
	}
	if features.QRS.Morphology != "wide" {
		t.Errorf("QRS morphology = %q, want wide", features.QRS.Morphology)
	}
	if features.TWave.Polarity != "negative" {
		t.Errorf("T polarity = %q, want negative", features.TWave.Polarity)
	}
}

func TestExtractProlongedPR(t *testing.T) {
	wf := synthesize(t, "first degree AV block, PR 220 ms, rate 70")

	features, err := NewFeatureExtractor().Extract(wf)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if math.Abs(features.Intervals.PRMs-220) > 15 {
		t.Errorf("PR = %f, want ~220 ms", features.Intervals.PRMs)
	}
}

func TestExtractEmptySignal(t *testing.T) {
	flat := models.Waveform{
		Amplitude:    make([]float64, 2500),
		Time:         make([]float64, 2500),
		SamplingRate: 250,
	}
	_, err := NewFeatureExtractor().Extract(flat)
	if !errors.Is(err, ErrEmptySignal) {
		t.Fatalf("err = %v, want ErrEmptySignal", err)
	}
}
