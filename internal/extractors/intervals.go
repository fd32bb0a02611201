package extractors

import (
	"math"

	"github.com/ekgstack/ekg-engine/internal/models"
	"gonum.org/v1/gonum/stat"
)

const (
	// prOnsetCorrectionMs adds the P-onset-to-peak lead time to the measured
	// P-peak-to-R-peak offset.
	prOnsetCorrectionMs = 20.0
	// qtEstimateMs is the fixed QT estimate; only QTc varies with rate.
	qtEstimateMs = 400.0
)

// calculateIntervals derives PR/QT/QTc from the P-wave offset and the measured
// RR sequence. QTc uses Bazett's correction: qt / sqrt(rr_seconds). PR is zero
// when no organized P wave was found.
func calculateIntervals(p pWaveResult, rr []float64) models.IntervalFeatures {
	intervals := models.IntervalFeatures{
		QTMs: qtEstimateMs,
		RRMs: rr,
	}

	if p.features.Present {
		intervals.PRMs = p.meanOffsetMs + prOnsetCorrectionMs
	}

	if len(rr) > 0 {
		rrSeconds := stat.Mean(rr, nil) / 1000.0
		if rrSeconds > 0 {
			intervals.QTcMs = qtEstimateMs / math.Sqrt(rrSeconds)
		}
	}
	return intervals
}
