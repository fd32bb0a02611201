package engine

import (
	"github.com/ekgstack/ekg-engine/internal/models"
	"github.com/ekgstack/ekg-engine/internal/utils"
	"gonum.org/v1/gonum/stat"
)

// Conduction constants and physiological floors, all in ms.
const (
	atrialConductionOffsetMs = 50.0
	avToHisDelayMs           = 50.0
	hisPurkinjeOffsetMs      = 20.0

	saToAVFloorMs        = 20.0
	hisToPurkinjeFloorMs = 15.0
	cardiacCycleFloorMs  = 300.0
)

// TimingCalculator derives inter-node conduction delays from measured
// intervals. It is deterministic: identical inputs yield identical outputs.
type TimingCalculator struct{}

// NewTimingCalculator creates a TimingCalculator.
func NewTimingCalculator() *TimingCalculator {
	return &TimingCalculator{}
}

// Derive computes the conduction timing record. All outputs are clamped to
// non-negative physiological floors before publication.
func (t *TimingCalculator) Derive(f models.RhythmFeatures, heartRate int) models.ConductionTiming {
	cycle := 0.0
	if len(f.Intervals.RRMs) > 0 {
		cycle = stat.Mean(f.Intervals.RRMs, nil)
	} else if heartRate > 0 {
		cycle = 60000.0 / float64(heartRate)
	}

	return models.ConductionTiming{
		SAToAVDelayMs:        utils.Floor(f.Intervals.PRMs-atrialConductionOffsetMs, saToAVFloorMs),
		AVToHisDelayMs:       avToHisDelayMs,
		HisToPurkinjeDelayMs: utils.Floor(f.QRS.DurationMs-hisPurkinjeOffsetMs, hisToPurkinjeFloorMs),
		CardiacCycleMs:       utils.Floor(cycle, cardiacCycleFloorMs),
		QRSDurationMs:        f.QRS.DurationMs,
		QTIntervalMs:         f.Intervals.QTMs,
	}
}
