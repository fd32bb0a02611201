package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/ekgstack/ekg-engine/internal/extractors"
	"github.com/ekgstack/ekg-engine/internal/ingest"
	"github.com/ekgstack/ekg-engine/internal/models"
	"github.com/ekgstack/ekg-engine/internal/utils"
)

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	kb, err := NewKnowledgeBase("", nil)
	if err != nil {
		t.Fatalf("NewKnowledgeBase: %v", err)
	}
	return NewPipeline(nil, nil, nil, nil, NewAssembler(kb))
}

func analyzeReport(t *testing.T, p *Pipeline, report string) models.MedicalAnalysis {
	t.Helper()
	analysis, err := p.Analyze(context.Background(), models.EKGInput{
		Type: models.InputTypeTextReport,
		Data: report,
	})
	if err != nil {
		t.Fatalf("Analyze(%q): %v", report, err)
	}
	return analysis
}

func TestPipelineNormalSinusReport(t *testing.T) {
	p := newTestPipeline(t)
	analysis := analyzeReport(t, p, "Normal sinus rhythm, rate 72 bpm")

	if analysis.RhythmClassification != models.RhythmNormalSinus {
		t.Errorf("rhythm = %q, want normal_sinus", analysis.RhythmClassification)
	}
	if analysis.HeartRate < 69 || analysis.HeartRate > 75 {
		t.Errorf("heart rate = %d, want ~72", analysis.HeartRate)
	}
	if analysis.ClinicalSignificance != models.SignificanceNormal {
		t.Errorf("significance = %q, want normal", analysis.ClinicalSignificance)
	}
	if !analysis.ChamberCoordination.Coordinated {
		t.Error("normal sinus should be coordinated")
	}
	if analysis.AnalysisID == "" {
		t.Error("analysis ID must be set")
	}
	if analysis.Pathophysiology == "" {
		t.Error("pathophysiology must be populated from the knowledge base")
	}
	if analysis.CreatedAt.IsZero() {
		t.Error("created_at must be set")
	}
}

func TestPipelineVentricularTachycardiaReport(t *testing.T) {
	p := newTestPipeline(t)
	analysis := analyzeReport(t, p, "wide complex ventricular tachycardia at 180 bpm")

	if analysis.RhythmClassification != models.RhythmVentricularTachycardia {
		t.Errorf("rhythm = %q, want ventricular_tachycardia", analysis.RhythmClassification)
	}
	if analysis.ClinicalSignificance != models.SignificanceCritical {
		t.Errorf("significance = %q, want critical", analysis.ClinicalSignificance)
	}
	if analysis.Intervals.QRSWidthMs <= 120 {
		t.Errorf("QRS width = %f, want wide (> 120)", analysis.Intervals.QRSWidthMs)
	}
}

func TestPipelineHeartBlockReport(t *testing.T) {
	p := newTestPipeline(t)
	analysis := analyzeReport(t, p, "First degree AV block, PR 220 ms, rate 70")

	if analysis.RhythmClassification != models.RhythmHeartBlock {
		t.Errorf("rhythm = %q, want heart_block", analysis.RhythmClassification)
	}
	if analysis.ClinicalSignificance != models.SignificanceMonitor {
		t.Errorf("significance = %q, want monitor", analysis.ClinicalSignificance)
	}
}

func TestPipelineUrgentHeartBlockReport(t *testing.T) {
	p := newTestPipeline(t)
	analysis := analyzeReport(t, p, "AV block with PR 320 ms, rate 70")

	if analysis.RhythmClassification != models.RhythmHeartBlock {
		t.Errorf("rhythm = %q, want heart_block", analysis.RhythmClassification)
	}
	if analysis.ClinicalSignificance != models.SignificanceUrgent {
		t.Errorf("significance = %q, want urgent for PR > 300", analysis.ClinicalSignificance)
	}
}

func TestPipelineAtrialFibrillationReport(t *testing.T) {
	p := newTestPipeline(t)
	analysis := analyzeReport(t, p, "Atrial fibrillation with rapid ventricular response, rate 110")

	if analysis.RhythmClassification != models.RhythmAtrialFibrillation {
		t.Errorf("rhythm = %q, want atrial_fibrillation", analysis.RhythmClassification)
	}
	if analysis.ChamberCoordination.AtrialContraction {
		t.Error("fibrillating atria should not report organized contraction")
	}
}

func TestPipelineHeartRateMatchesRRFormula(t *testing.T) {
	p := newTestPipeline(t)
	analysis := analyzeReport(t, p, "Sinus bradycardia at 45 bpm")

	if analysis.Intervals.RRIntervalMs <= 0 {
		t.Fatal("mean RR must be positive")
	}
	expected := int(60000.0/analysis.Intervals.RRIntervalMs + 0.5)
	if analysis.HeartRate != expected {
		t.Errorf("heart rate %d does not match 60000/meanRR = %d", analysis.HeartRate, expected)
	}
}

func TestPipelineWaveformInput(t *testing.T) {
	p := newTestPipeline(t)
	wf := ingest.Synthesize(ingest.ParseReport("normal sinus rhythm, rate 80"), 250, 10, "II")

	analysis, err := p.Analyze(context.Background(), models.EKGInput{
		Type:     models.InputTypeWaveform,
		Data:     wf.Amplitude,
		Metadata: models.InputMetadata{SamplingRate: 250},
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if analysis.RhythmClassification != models.RhythmNormalSinus {
		t.Errorf("rhythm = %q, want normal_sinus", analysis.RhythmClassification)
	}
}

func TestPipelineErrorWrapping(t *testing.T) {
	p := newTestPipeline(t)

	_, err := p.Analyze(context.Background(), models.EKGInput{Type: "telemetry"})
	if !errors.Is(err, ingest.ErrUnsupportedInputType) {
		t.Fatalf("err = %v, want wrapped ErrUnsupportedInputType", err)
	}
	var appErr *utils.AppError
	if !errors.As(err, &appErr) || appErr.Op != "ingest" {
		t.Fatalf("err = %v, want AppError with op ingest", err)
	}

	flat := make([]float64, 2500)
	_, err = p.Analyze(context.Background(), models.EKGInput{
		Type: models.InputTypeWaveform,
		Data: flat,
	})
	if !errors.Is(err, extractors.ErrEmptySignal) {
		t.Fatalf("err = %v, want wrapped ErrEmptySignal", err)
	}
}

func TestPipelineContextCancelled(t *testing.T) {
	p := newTestPipeline(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Analyze(ctx, models.EKGInput{
		Type: models.InputTypeTextReport,
		Data: "normal sinus",
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
