package electro

import (
	"fmt"
	"math"

	"github.com/ekgstack/ekg-engine/internal/models"
	"github.com/ekgstack/ekg-engine/internal/utils"
)

// Schematic heart coordinate anchors (arbitrary render units).
var (
	saNodeOrigin = models.Point3D{X: -20, Y: 30, Z: 0}
	avNodeOrigin = models.Point3D{X: 0, Y: 5, Z: 0}
	apexOrigin   = models.Point3D{X: 0, Y: -35, Z: 5}
)

// attachWaves populates the wave list and depolarization/repolarization
// fronts for the current cycle position. Point sets are regenerated from
// scratch on every call.
func (m *Mapper) attachWaves(state *models.ElectrophysiologyState, cal calibration, cyclePos float64, regions []models.ConductionRegion) {
	switch cal.rhythm {
	case models.RhythmAtrialFibrillation:
		m.attachChaoticWaves(state, cal, cyclePos, regions)
	case models.RhythmVentricularTachycardia:
		progress := utils.Clamp(cyclePos/vtDepolarizationMs, 0, 1)
		points := m.jitterPoints(ventricularWaveFront(progress), 4)
		state.ElectricalWaves = append(state.ElectricalWaves, models.ElectricalWave{
			WaveID:   "vt_wavefront",
			WaveType: "depolarization",
			Origin:   "ectopic_ventricular_focus",
			Progress: progress,
			Points:   points,
		})
		state.DepolarizationFront = points
	default:
		m.attachSequencedWaves(state, cyclePos)
	}
}

// attachSequencedWaves renders the normal activation sequence: an expanding
// atrial front, a ventricular front, then a contracting repolarization front.
func (m *Mapper) attachSequencedWaves(state *models.ElectrophysiologyState, cyclePos float64) {
	switch {
	case cyclePos < pWindowEndMs:
		progress := cyclePos / pWindowEndMs
		points := atrialWaveFront(progress)
		state.ElectricalWaves = append(state.ElectricalWaves, models.ElectricalWave{
			WaveID:   "p_wavefront",
			WaveType: "depolarization",
			Origin:   "sa_node",
			Progress: progress,
			Points:   points,
		})
		state.DepolarizationFront = points
	case cyclePos >= prSegmentEndMs && cyclePos < qrsWindowEndMs:
		progress := (cyclePos - prSegmentEndMs) / (qrsWindowEndMs - prSegmentEndMs)
		points := ventricularWaveFront(progress)
		state.ElectricalWaves = append(state.ElectricalWaves, models.ElectricalWave{
			WaveID:   "qrs_wavefront",
			WaveType: "depolarization",
			Origin:   "purkinje_network",
			Progress: progress,
			Points:   points,
		})
		state.DepolarizationFront = points
	case cyclePos >= qrsWindowEndMs && cyclePos < tWindowEndMs:
		// ST segment holds the front at full extent; it contracts only once
		// the T window begins.
		progress := 0.0
		if cyclePos >= stWindowEndMs {
			progress = (cyclePos - stWindowEndMs) / (tWindowEndMs - stWindowEndMs)
		}
		points := repolarizationWaveFront(progress)
		state.ElectricalWaves = append(state.ElectricalWaves, models.ElectricalWave{
			WaveID:   "t_wavefront",
			WaveType: "repolarization",
			Origin:   "ventricular_muscle",
			Progress: progress,
			Points:   points,
		})
		state.RepolarizationFront = points
	}
}

// attachChaoticWaves renders one irregular front per chaotic focus plus a
// ventricular front when the AV node conducted this evaluation.
func (m *Mapper) attachChaoticWaves(state *models.ElectrophysiologyState, cal calibration, cyclePos float64, regions []models.ConductionRegion) {
	conducted := false
	var avDelay float64
	for _, region := range regions {
		switch {
		case region.RegionID == "av_node" && !region.IsBlocked:
			conducted = true
			avDelay = region.ActivationTimeMs
		case region.AnatomicalLocation == "atrial myocardium" && !region.IsBlocked:
			progress := utils.Clamp(cyclePos/cal.cycleLengthMs, 0, 1)
			points := m.jitterPoints(atrialWaveFront(progress), 6)
			state.ElectricalWaves = append(state.ElectricalWaves, models.ElectricalWave{
				WaveID:   fmt.Sprintf("%s_wavefront", region.RegionID),
				WaveType: "fibrillatory",
				Origin:   region.RegionID,
				Progress: progress,
				Points:   points,
			})
			state.DepolarizationFront = append(state.DepolarizationFront, points...)
		}
	}

	if conducted && cyclePos >= avDelay {
		progress := utils.Clamp((cyclePos-avDelay)/cal.ventDepolMs, 0, 1)
		points := m.jitterPoints(ventricularWaveFront(progress), 3)
		state.ElectricalWaves = append(state.ElectricalWaves, models.ElectricalWave{
			WaveID:   "qrs_wavefront",
			WaveType: "depolarization",
			Origin:   "av_node",
			Progress: progress,
			Points:   points,
		})
		state.DepolarizationFront = append(state.DepolarizationFront, points...)
	}
}

// atrialWaveFront is an expanding ring around the SA node.
func atrialWaveFront(progress float64) []models.Point3D {
	radius := 4 + 18*utils.Clamp(progress, 0, 1)
	return ring(saNodeOrigin, radius, 8)
}

// ventricularWaveFront expands from the apex toward the base.
func ventricularWaveFront(progress float64) []models.Point3D {
	p := utils.Clamp(progress, 0, 1)
	center := models.Point3D{
		X: apexOrigin.X,
		Y: apexOrigin.Y + p*(avNodeOrigin.Y-apexOrigin.Y),
		Z: apexOrigin.Z,
	}
	return ring(center, 6+22*p, 10)
}

// repolarizationWaveFront contracts back toward the ventricular center.
func repolarizationWaveFront(progress float64) []models.Point3D {
	radius := 3 + 25*(1-utils.Clamp(progress, 0, 1))
	return ring(models.Point3D{X: 0, Y: -15, Z: 2}, radius, 8)
}

func ring(center models.Point3D, radius float64, count int) []models.Point3D {
	points := make([]models.Point3D, count)
	for i := range points {
		angle := 2 * math.Pi * float64(i) / float64(count)
		points[i] = models.Point3D{
			X: center.X + radius*math.Cos(angle),
			Y: center.Y + radius*math.Sin(angle),
			Z: center.Z,
		}
	}
	return points
}

// jitterPoints displaces each point by up to +-spread in every axis, conveying
// chaotic propagation visually for abnormal rhythms.
func (m *Mapper) jitterPoints(points []models.Point3D, spread float64) []models.Point3D {
	for i := range points {
		points[i].X += (m.randFloat()*2 - 1) * spread
		points[i].Y += (m.randFloat()*2 - 1) * spread
		points[i].Z += (m.randFloat()*2 - 1) * spread
	}
	return points
}
