package electro

import (
	"errors"
	"math/rand"
	"reflect"
	"strings"
	"testing"

	"github.com/ekgstack/ekg-engine/internal/models"
)

func seededMapper(seed int64) *Mapper {
	return NewMapper(nil, rand.New(rand.NewSource(seed)))
}

func analysisFor(rhythm models.Rhythm) models.MedicalAnalysis {
	a := models.MedicalAnalysis{
		RhythmClassification: rhythm,
		HeartRate:            75,
		ConductionTiming: models.ConductionTiming{
			CardiacCycleMs: 800,
			QRSDurationMs:  95,
		},
		Intervals: models.AnalysisIntervals{PRIntervalMs: 160},
	}
	switch rhythm {
	case models.RhythmHeartBlock:
		a.Intervals.PRIntervalMs = 220
	case models.RhythmVentricularTachycardia:
		a.HeartRate = 180
		a.ConductionTiming.CardiacCycleMs = 333
		a.ConductionTiming.QRSDurationMs = 150
		a.Intervals.PRIntervalMs = 0
	case models.RhythmAtrialFibrillation:
		a.HeartRate = 110
		a.ConductionTiming.CardiacCycleMs = 545
		a.Intervals.PRIntervalMs = 0
	}
	return a
}

func regionIDs(regions []models.ConductionRegion) []string {
	if len(regions) == 0 {
		return nil
	}
	ids := make([]string, 0, len(regions))
	for _, r := range regions {
		ids = append(ids, r.RegionID)
	}
	return ids
}

func findRegion(t *testing.T, regions []models.ConductionRegion, id string) models.ConductionRegion {
	t.Helper()
	for _, r := range regions {
		if r.RegionID == id {
			return r
		}
	}
	t.Fatalf("region %q not found in %v", id, regionIDs(regions))
	return models.ConductionRegion{}
}

func TestEvaluateBeforeCalibration(t *testing.T) {
	m := seededMapper(1)
	if m.Calibrated() {
		t.Error("fresh mapper should not report calibrated")
	}
	_, err := m.Evaluate(100)
	if !errors.Is(err, ErrNotCalibrated) {
		t.Fatalf("err = %v, want ErrNotCalibrated", err)
	}
}

func TestNormalSinusSequence(t *testing.T) {
	m := seededMapper(1)
	m.Calibrate(analysisFor(models.RhythmNormalSinus))

	tests := []struct {
		timeMs  float64
		regions []string
	}{
		{40, []string{"sa_node", "atrial_muscle"}},
		{120, []string{"av_node"}},
		{200, []string{"his_bundle", "purkinje_network", "ventricular_muscle"}},
		{300, []string{"ventricular_muscle"}},
		{600, nil},
	}

	for _, tt := range tests {
		state, err := m.Evaluate(tt.timeMs)
		if err != nil {
			t.Fatalf("Evaluate(%f): %v", tt.timeMs, err)
		}
		if got := regionIDs(state.ActiveRegions); !reflect.DeepEqual(got, tt.regions) {
			t.Errorf("t=%f: regions = %v, want %v", tt.timeMs, got, tt.regions)
		}
	}
}

func TestNormalSinusPeriodicity(t *testing.T) {
	m := seededMapper(1)
	m.Calibrate(analysisFor(models.RhythmNormalSinus))

	for _, timeMs := range []float64{40, 120, 200, 300, 420} {
		a, err := m.Evaluate(timeMs)
		if err != nil {
			t.Fatalf("Evaluate(%f): %v", timeMs, err)
		}
		b, err := m.Evaluate(timeMs + 800)
		if err != nil {
			t.Fatalf("Evaluate(%f): %v", timeMs+800, err)
		}
		if !reflect.DeepEqual(a, b) {
			t.Errorf("t=%f: state differs one full cycle later", timeMs)
		}
	}
}

func TestNormalSinusConductionVelocity(t *testing.T) {
	m := seededMapper(1)
	m.Calibrate(analysisFor(models.RhythmNormalSinus))

	state, err := m.Evaluate(200)
	if err != nil {
		t.Fatal(err)
	}
	if state.ConductionVelocity != 4.0 {
		t.Errorf("conduction velocity = %f, want 4.0 (Purkinje) during the QRS window", state.ConductionVelocity)
	}
}

func TestRepolarizationFrontHoldsThroughSTSegment(t *testing.T) {
	m := seededMapper(1)
	m.Calibrate(analysisFor(models.RhythmNormalSinus))

	st1, err := m.Evaluate(270)
	if err != nil {
		t.Fatal(err)
	}
	st2, err := m.Evaluate(340)
	if err != nil {
		t.Fatal(err)
	}
	if len(st1.ElectricalWaves) != 1 || st1.ElectricalWaves[0].Progress != 0 {
		t.Fatalf("ST waves = %+v, want one t_wavefront held at progress 0", st1.ElectricalWaves)
	}
	if !reflect.DeepEqual(st1.RepolarizationFront, st2.RepolarizationFront) {
		t.Error("repolarization front should not move within the ST segment")
	}

	tw, err := m.Evaluate(400)
	if err != nil {
		t.Fatal(err)
	}
	if len(tw.ElectricalWaves) != 1 || tw.ElectricalWaves[0].Progress != 0.5 {
		t.Fatalf("T waves = %+v, want t_wavefront at progress 0.5", tw.ElectricalWaves)
	}
	if reflect.DeepEqual(tw.RepolarizationFront, st1.RepolarizationFront) {
		t.Error("repolarization front should contract during the T window")
	}
}

func TestHeartBlockStretchesAVNode(t *testing.T) {
	m := seededMapper(1)
	m.Calibrate(analysisFor(models.RhythmHeartBlock))

	state, err := m.Evaluate(120)
	if err != nil {
		t.Fatal(err)
	}
	av := findRegion(t, state.ActiveRegions, "av_node")
	if av.DepolarizationDurationMs != 140 {
		t.Errorf("AV depolarization = %f, want 140 (PR 220 - 80)", av.DepolarizationDurationMs)
	}
	if av.ConductionVelocityMS != 0.025 {
		t.Errorf("AV velocity = %f, want halved 0.025", av.ConductionVelocityMS)
	}
	if av.IsBlocked {
		t.Error("first degree block still conducts; the AV node must not be marked blocked")
	}
}

func TestVentricularTachycardiaDissociation(t *testing.T) {
	m := seededMapper(1)
	m.Calibrate(analysisFor(models.RhythmVentricularTachycardia))

	state, err := m.Evaluate(50)
	if err != nil {
		t.Fatal(err)
	}

	findRegion(t, state.ActiveRegions, "ectopic_ventricular_focus")
	av := findRegion(t, state.ActiveRegions, "av_node")
	if !av.IsBlocked || av.BlockType != models.BlockComplete {
		t.Errorf("AV node = %+v, want complete block", av)
	}

	ra := state.ChamberStates[models.ChamberRightAtrium]
	if ra.CurrentState != models.CellResting {
		t.Errorf("right atrium = %q, want resting (no organized atrial activation)", ra.CurrentState)
	}
	rv := state.ChamberStates[models.ChamberRightVentricle]
	if rv.CurrentState == models.CellResting {
		t.Error("right ventricle should be active early in the cycle")
	}

	if len(state.ElectricalWaves) != 1 || state.ElectricalWaves[0].WaveID != "vt_wavefront" {
		t.Errorf("waves = %v, want a single vt_wavefront", state.ElectricalWaves)
	}
}

func TestAFibChaoticFoci(t *testing.T) {
	m := seededMapper(7)
	m.Calibrate(analysisFor(models.RhythmAtrialFibrillation))

	state, err := m.Evaluate(100)
	if err != nil {
		t.Fatal(err)
	}

	sa := findRegion(t, state.ActiveRegions, "sa_node")
	if !sa.IsBlocked || sa.BlockType != models.BlockComplete {
		t.Errorf("SA node = %+v, want complete block during fibrillation", sa)
	}

	foci := 0
	for _, r := range state.ActiveRegions {
		if strings.HasPrefix(r.RegionID, "chaotic_focus_") {
			foci++
		}
	}
	if foci < 3 || foci > 6 {
		t.Errorf("chaotic foci = %d, want 3..6", foci)
	}

	for c := models.Chamber(0); c < models.ChamberCount; c++ {
		if c.IsAtrial() && state.ChamberStates[c].CurrentState != models.CellResting {
			t.Errorf("%s = %q, want resting (no organized contraction)", c, state.ChamberStates[c].CurrentState)
		}
	}
}

func TestAFibSeededDeterminism(t *testing.T) {
	a := seededMapper(42)
	b := seededMapper(42)
	a.Calibrate(analysisFor(models.RhythmAtrialFibrillation))
	b.Calibrate(analysisFor(models.RhythmAtrialFibrillation))

	for _, timeMs := range []float64{0, 100, 250, 400} {
		sa, err := a.Evaluate(timeMs)
		if err != nil {
			t.Fatal(err)
		}
		sb, err := b.Evaluate(timeMs)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(sa, sb) {
			t.Fatalf("t=%f: identically seeded mappers diverged", timeMs)
		}
	}
}

func TestPVCEctopyEveryFourthCycle(t *testing.T) {
	m := seededMapper(1)
	m.Calibrate(analysisFor(models.RhythmPVC))

	// Cycle index 3, inside the QRS span of the cycle.
	state, err := m.Evaluate(3*800 + 100)
	if err != nil {
		t.Fatal(err)
	}
	findRegion(t, state.ActiveRegions, "ectopic_ventricular_focus")

	// Cycle index 2 carries no ectopy.
	state, err = m.Evaluate(2*800 + 100)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range state.ActiveRegions {
		if r.RegionID == "ectopic_ventricular_focus" {
			t.Fatal("ectopic focus should only fire on every fourth cycle")
		}
	}
}

func TestRecalibrationSwitchesRhythm(t *testing.T) {
	m := seededMapper(1)
	m.Calibrate(analysisFor(models.RhythmNormalSinus))
	if _, err := m.Evaluate(40); err != nil {
		t.Fatal(err)
	}

	m.Calibrate(analysisFor(models.RhythmVentricularTachycardia))
	state, err := m.Evaluate(40)
	if err != nil {
		t.Fatal(err)
	}
	findRegion(t, state.ActiveRegions, "ectopic_ventricular_focus")
}

func TestDispatchCoversEveryRhythm(t *testing.T) {
	m := seededMapper(1)
	for _, rhythm := range models.Rhythms() {
		if _, ok := m.builders[rhythm]; !ok {
			t.Errorf("no region builder registered for rhythm %q", rhythm)
		}
	}
}
