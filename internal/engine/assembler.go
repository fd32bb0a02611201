package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/ekgstack/ekg-engine/internal/models"
)

// Assembler composes classifier output, timing, and the clinical knowledge
// lookup into one immutable MedicalAnalysis record.
type Assembler struct {
	knowledge *KnowledgeBase
}

// NewAssembler constructs an Assembler over the given knowledge base.
func NewAssembler(knowledge *KnowledgeBase) *Assembler {
	return &Assembler{knowledge: knowledge}
}

// Assemble builds the analysis record. Pure composition: no field is mutated
// after the record is returned.
func (a *Assembler) Assemble(c Classification, timing models.ConductionTiming, f models.RhythmFeatures) models.MedicalAnalysis {
	entry := a.knowledge.Lookup(c.Rhythm)

	meanRR := 0.0
	if len(f.Intervals.RRMs) > 0 {
		for _, rr := range f.Intervals.RRMs {
			meanRR += rr
		}
		meanRR /= float64(len(f.Intervals.RRMs))
	}

	return models.MedicalAnalysis{
		AnalysisID:           uuid.NewString(),
		RhythmClassification: c.Rhythm,
		HeartRate:            c.HeartRate,
		ConductionTiming:     timing,
		ClinicalSignificance: c.Significance,
		ChamberCoordination:  coordinationFor(c.Rhythm),
		Intervals: models.AnalysisIntervals{
			PRIntervalMs:  f.Intervals.PRMs,
			QRSWidthMs:    f.QRS.DurationMs,
			QTCorrectedMs: f.Intervals.QTcMs,
			RRIntervalMs:  meanRR,
		},
		Pathophysiology: entry.Pathophysiology,
		ClinicalContext: models.ClinicalContext{
			SymptomsLikely:          append([]string(nil), entry.SymptomsLikely...),
			TreatmentConsiderations: append([]string(nil), entry.TreatmentConsiderations...),
			MonitoringRequirements:  append([]string(nil), entry.MonitoringRequirements...),
		},
		CreatedAt: time.Now().UTC(),
	}
}
