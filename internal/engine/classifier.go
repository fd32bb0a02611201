package engine

import (
	"math"

	"github.com/ekgstack/ekg-engine/internal/models"
	"gonum.org/v1/gonum/stat"
)

// DiagnosticCriteria holds the classification thresholds. Constructed once and
// passed explicitly; never mutated after construction.
type DiagnosticCriteria struct {
	RRVariabilityCoV float64
	WideQRSMs        float64
	VTRateBPM        int
	PRBlockMs        float64
	BradycardiaBPM   int
	TachycardiaBPM   int

	PRUrgentMs     float64
	AFibUrgentBPM  int
	BradyUrgentBPM int
}

// DefaultCriteria returns the standard adult thresholds.
func DefaultCriteria() DiagnosticCriteria {
	return DiagnosticCriteria{
		RRVariabilityCoV: 0.2,
		WideQRSMs:        120,
		VTRateBPM:        150,
		PRBlockMs:        200,
		BradycardiaBPM:   60,
		TachycardiaBPM:   100,
		PRUrgentMs:       300,
		AFibUrgentBPM:    150,
		BradyUrgentBPM:   40,
	}
}

// Classification is the classifier verdict plus the derived rate statistics.
type Classification struct {
	Rhythm        models.Rhythm
	HeartRate     int
	Significance  models.Significance
	RRVariability float64
}

// Classifier applies the ordered diagnostic rule chain.
type Classifier struct {
	criteria DiagnosticCriteria
}

// NewClassifier constructs a Classifier with the given criteria.
func NewClassifier(criteria DiagnosticCriteria) *Classifier {
	return &Classifier{criteria: criteria}
}

// Classify evaluates the rule chain in fixed precedence. The ordering is part
// of the contract: RR variability with absent P waves wins over the wide-QRS
// high-rate rule even when both hold.
func (c *Classifier) Classify(f models.RhythmFeatures) Classification {
	rr := f.Intervals.RRMs
	heartRate := HeartRateFromRR(rr)
	cov := rrCoefficientOfVariation(rr)

	var rhythm models.Rhythm
	switch {
	case cov > c.criteria.RRVariabilityCoV && !f.PWave.Present:
		rhythm = models.RhythmAtrialFibrillation
	case f.QRS.DurationMs > c.criteria.WideQRSMs && heartRate > c.criteria.VTRateBPM:
		rhythm = models.RhythmVentricularTachycardia
	case f.Intervals.PRMs > c.criteria.PRBlockMs:
		rhythm = models.RhythmHeartBlock
	case heartRate < c.criteria.BradycardiaBPM:
		rhythm = models.RhythmSinusBradycardia
	case heartRate > c.criteria.TachycardiaBPM:
		rhythm = models.RhythmSinusTachycardia
	default:
		rhythm = models.RhythmNormalSinus
	}

	return Classification{
		Rhythm:        rhythm,
		HeartRate:     heartRate,
		Significance:  c.significance(rhythm, heartRate, f.Intervals.PRMs),
		RRVariability: cov,
	}
}

func (c *Classifier) significance(rhythm models.Rhythm, heartRate int, prMs float64) models.Significance {
	switch rhythm {
	case models.RhythmVentricularTachycardia:
		return models.SignificanceCritical
	case models.RhythmAtrialFibrillation:
		if heartRate > c.criteria.AFibUrgentBPM {
			return models.SignificanceUrgent
		}
		return models.SignificanceMonitor
	case models.RhythmHeartBlock:
		if prMs > c.criteria.PRUrgentMs {
			return models.SignificanceUrgent
		}
		return models.SignificanceMonitor
	case models.RhythmSinusBradycardia:
		if heartRate < c.criteria.BradyUrgentBPM {
			return models.SignificanceUrgent
		}
		return models.SignificanceMonitor
	default:
		return models.SignificanceNormal
	}
}

// HeartRateFromRR returns round(60000 / mean(rr_ms)), or zero for an empty
// sequence.
func HeartRateFromRR(rr []float64) int {
	if len(rr) == 0 {
		return 0
	}
	mean := stat.Mean(rr, nil)
	if mean <= 0 {
		return 0
	}
	return int(math.Round(60000.0 / mean))
}

func rrCoefficientOfVariation(rr []float64) float64 {
	if len(rr) < 2 {
		return 0
	}
	mean := stat.Mean(rr, nil)
	if mean <= 0 {
		return 0
	}
	return stat.StdDev(rr, nil) / mean
}
