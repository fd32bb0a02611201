package models

import "time"

// Rhythm enumerates the closed set of rhythm classifications.
type Rhythm string

const (
	RhythmNormalSinus            Rhythm = "normal_sinus"
	RhythmAtrialFibrillation     Rhythm = "atrial_fibrillation"
	RhythmVentricularTachycardia Rhythm = "ventricular_tachycardia"
	RhythmHeartBlock             Rhythm = "heart_block"
	RhythmSinusBradycardia       Rhythm = "sinus_bradycardia"
	RhythmSinusTachycardia       Rhythm = "sinus_tachycardia"
	RhythmPVC                    Rhythm = "premature_ventricular_contractions"
)

// Rhythms lists every classification value; the mapper's dispatch table must
// cover all of them.
func Rhythms() []Rhythm {
	return []Rhythm{
		RhythmNormalSinus,
		RhythmAtrialFibrillation,
		RhythmVentricularTachycardia,
		RhythmHeartBlock,
		RhythmSinusBradycardia,
		RhythmSinusTachycardia,
		RhythmPVC,
	}
}

// Significance captures clinical urgency tiers.
type Significance string

const (
	SignificanceNormal   Significance = "normal"
	SignificanceMonitor  Significance = "monitor"
	SignificanceUrgent   Significance = "urgent"
	SignificanceCritical Significance = "critical"
)

// ConductionTiming carries inter-node delays derived from measured intervals.
// All values are ms and clamped to physiological floors before publication.
type ConductionTiming struct {
	SAToAVDelayMs        float64 `json:"sa_to_av_delay"`
	AVToHisDelayMs       float64 `json:"av_to_his_delay"`
	HisToPurkinjeDelayMs float64 `json:"his_to_purkinje_delay"`
	CardiacCycleMs       float64 `json:"cardiac_cycle_ms"`
	QRSDurationMs        float64 `json:"qrs_duration"`
	QTIntervalMs         float64 `json:"qt_interval"`
}

// ChamberCoordination records per-analysis mechanical coordination flags.
type ChamberCoordination struct {
	AtrialContraction      bool `json:"atrial_contraction"`
	VentricularContraction bool `json:"ventricular_contraction"`
	AVSynchrony            bool `json:"av_synchrony"`
	Coordinated            bool `json:"coordinated"`
}

// AnalysisIntervals summarizes the published interval measurements in ms.
type AnalysisIntervals struct {
	PRIntervalMs  float64 `json:"pr_interval"`
	QRSWidthMs    float64 `json:"qrs_width"`
	QTCorrectedMs float64 `json:"qt_corrected"`
	RRIntervalMs  float64 `json:"rr_interval"`
}

// ClinicalContext bundles the static knowledge attached to a rhythm.
type ClinicalContext struct {
	SymptomsLikely          []string `json:"symptoms_likely"`
	TreatmentConsiderations []string `json:"treatment_considerations"`
	MonitoringRequirements  []string `json:"monitoring_requirements"`
}

// MedicalAnalysis is the canonical immutable output of the analysis pipeline.
// Created once per input and never mutated afterwards.
type MedicalAnalysis struct {
	AnalysisID           string              `json:"analysis_id"`
	RhythmClassification Rhythm              `json:"rhythm_classification"`
	HeartRate            int                 `json:"heart_rate"`
	ConductionTiming     ConductionTiming    `json:"conduction_timing"`
	ClinicalSignificance Significance        `json:"clinical_significance"`
	ChamberCoordination  ChamberCoordination `json:"chamber_coordination"`
	Intervals            AnalysisIntervals   `json:"intervals"`
	Pathophysiology      string              `json:"pathophysiology"`
	ClinicalContext      ClinicalContext     `json:"clinical_context"`
	CreatedAt            time.Time           `json:"created_at"`
}

// ListAnalysesRequest captures filters for historical analyses.
type ListAnalysesRequest struct {
	Rhythm    Rhythm
	PageSize  int
	PageToken string
}

// ListAnalysesResponse contains analysis history records and pagination state.
type ListAnalysesResponse struct {
	Analyses      []MedicalAnalysis
	NextPageToken string
}
