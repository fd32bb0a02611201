package electro

import (
	"errors"
	"log/slog"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/ekgstack/ekg-engine/internal/models"
)

// ErrNotCalibrated signals a position query before any analysis was supplied.
var ErrNotCalibrated = errors.New("mapper not calibrated: no analysis supplied")

// calibration is the timing snapshot derived once per analysis. It is the only
// mutable shared state in the mapper: written by Calibrate, read by Evaluate.
type calibration struct {
	rhythm        models.Rhythm
	heartRate     int
	cycleLengthMs float64
	avDelayMs     float64
	ventDepolMs   float64
	prMs          float64
	set           bool
}

type regionBuilder func(m *Mapper, cal calibration, cyclePos float64, cycleIndex int) []models.ConductionRegion

// Mapper maps a cycle position onto anatomical activation states and traveling
// wavefront geometry. Evaluate is a pure function of (calibration, position)
// except for the documented non-deterministic chaotic-rhythm branches, whose
// randomness comes from the injected source.
type Mapper struct {
	mu     sync.RWMutex
	cal    calibration
	logger *slog.Logger

	rngMu sync.Mutex
	rng   *rand.Rand

	builders map[models.Rhythm]regionBuilder
}

// NewMapper constructs a Mapper. A nil rng yields a wall-clock-seeded source;
// tests inject a fixed seed for deterministic geometry.
func NewMapper(logger *slog.Logger, rng *rand.Rand) *Mapper {
	if logger == nil {
		logger = slog.Default()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	m := &Mapper{logger: logger, rng: rng}
	m.builders = map[models.Rhythm]regionBuilder{
		models.RhythmNormalSinus:            (*Mapper).normalRegions,
		models.RhythmSinusBradycardia:       (*Mapper).normalRegions,
		models.RhythmSinusTachycardia:       (*Mapper).normalRegions,
		models.RhythmAtrialFibrillation:     (*Mapper).afibRegions,
		models.RhythmVentricularTachycardia: (*Mapper).vtRegions,
		models.RhythmHeartBlock:             (*Mapper).blockRegions,
		models.RhythmPVC:                    (*Mapper).pvcRegions,
	}
	return m
}

// Calibrate derives a fresh timing calibration from an assembled analysis.
// The update is atomic relative to in-flight Evaluate calls so a query never
// observes a torn calibration.
func (m *Mapper) Calibrate(analysis models.MedicalAnalysis) {
	cycle := analysis.ConductionTiming.CardiacCycleMs
	if cycle <= 0 {
		cycle = 833 // 72 bpm default
	}
	avDelay := analysis.Intervals.PRIntervalMs
	if avDelay <= 0 {
		avDelay = 160
	}
	ventDepol := analysis.ConductionTiming.QRSDurationMs
	if ventDepol <= 0 {
		ventDepol = 95
	}

	m.mu.Lock()
	m.cal = calibration{
		rhythm:        analysis.RhythmClassification,
		heartRate:     analysis.HeartRate,
		cycleLengthMs: cycle,
		avDelayMs:     avDelay,
		ventDepolMs:   ventDepol,
		prMs:          analysis.Intervals.PRIntervalMs,
		set:           true,
	}
	m.mu.Unlock()

	m.logger.Debug("mapper calibrated",
		slog.String("rhythm", string(analysis.RhythmClassification)),
		slog.Float64("cycle_ms", cycle),
	)
}

// Calibrated reports whether an analysis has been supplied.
func (m *Mapper) Calibrated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cal.set
}

// Evaluate returns the electrophysiology snapshot at currentTimeMs. The state
// is recomputed from scratch on every call; wavefront point sets are never
// cached. Intended to be invoked once per rendered frame.
func (m *Mapper) Evaluate(currentTimeMs float64) (models.ElectrophysiologyState, error) {
	m.mu.RLock()
	cal := m.cal
	m.mu.RUnlock()
	if !cal.set {
		return models.ElectrophysiologyState{}, ErrNotCalibrated
	}

	cyclePos := math.Mod(currentTimeMs, cal.cycleLengthMs)
	if cyclePos < 0 {
		cyclePos += cal.cycleLengthMs
	}
	cycleIndex := int(math.Floor(currentTimeMs / cal.cycleLengthMs))

	builder, ok := m.builders[cal.rhythm]
	if !ok {
		builder = (*Mapper).normalRegions
	}
	regions := builder(m, cal, cyclePos, cycleIndex)

	state := models.ElectrophysiologyState{
		TimestampMs:   cyclePos,
		ActiveRegions: regions,
	}
	m.attachWaves(&state, cal, cyclePos, regions)

	for c := models.Chamber(0); c < models.ChamberCount; c++ {
		state.ChamberStates[c] = chamberState(cal, c, cyclePos)
	}

	for _, region := range regions {
		if !region.IsBlocked && region.ConductionVelocityMS > state.ConductionVelocity {
			state.ConductionVelocity = region.ConductionVelocityMS
		}
	}
	return state, nil
}

func (m *Mapper) randFloat() float64 {
	m.rngMu.Lock()
	defer m.rngMu.Unlock()
	return m.rng.Float64()
}

func (m *Mapper) randIntn(n int) int {
	m.rngMu.Lock()
	defer m.rngMu.Unlock()
	return m.rng.Intn(n)
}
