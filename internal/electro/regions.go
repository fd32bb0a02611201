package electro

import (
	"fmt"

	"github.com/ekgstack/ekg-engine/internal/models"
	"github.com/ekgstack/ekg-engine/internal/utils"
)

// Canonical half-open windows of the normal conduction sequence, ms from cycle
// start. The P-wave window drives SA node and atrial muscle, the PR segment
// the AV node, the QRS window the His-Purkinje system and ventricular muscle;
// the remaining windows drive repolarization front generation.
const (
	pWindowEndMs   = 80.0
	prSegmentEndMs = 180.0
	qrsWindowEndMs = 255.0
	stWindowEndMs  = 350.0
	tWindowEndMs   = 450.0
)

// Representative conduction velocities in m/s.
const (
	saNodeVelocity      = 0.5
	atrialVelocity      = 0.5
	avNodeVelocity      = 0.05
	hisBundleVelocity   = 2.0
	purkinjeVelocity    = 4.0
	ventricularVelocity = 0.5
	ectopicVelocity     = 0.3
)

func (m *Mapper) normalRegions(cal calibration, cyclePos float64, _ int) []models.ConductionRegion {
	switch {
	case cyclePos < pWindowEndMs:
		return []models.ConductionRegion{
			{
				RegionID:                 "sa_node",
				AnatomicalLocation:       "sinoatrial node",
				ActivationTimeMs:         0,
				DepolarizationDurationMs: 30,
				RepolarizationTimeMs:     200,
				ConductionVelocityMS:     saNodeVelocity,
			},
			{
				RegionID:                 "atrial_muscle",
				AnatomicalLocation:       "atrial myocardium",
				ActivationTimeMs:         10,
				DepolarizationDurationMs: pWindowEndMs - 10,
				RepolarizationTimeMs:     250,
				ConductionVelocityMS:     atrialVelocity,
			},
		}
	case cyclePos < prSegmentEndMs:
		return []models.ConductionRegion{avNodeRegion(cal, false)}
	case cyclePos < qrsWindowEndMs:
		return []models.ConductionRegion{
			{
				RegionID:                 "his_bundle",
				AnatomicalLocation:       "bundle of His",
				ActivationTimeMs:         prSegmentEndMs,
				DepolarizationDurationMs: 20,
				RepolarizationTimeMs:     qrsWindowEndMs + 100,
				ConductionVelocityMS:     hisBundleVelocity,
			},
			{
				RegionID:                 "purkinje_network",
				AnatomicalLocation:       "Purkinje fibers",
				ActivationTimeMs:         prSegmentEndMs + 15,
				DepolarizationDurationMs: 30,
				RepolarizationTimeMs:     qrsWindowEndMs + 120,
				ConductionVelocityMS:     purkinjeVelocity,
			},
			{
				RegionID:                 "ventricular_muscle",
				AnatomicalLocation:       "ventricular myocardium",
				ActivationTimeMs:         prSegmentEndMs + 20,
				DepolarizationDurationMs: cal.ventDepolMs,
				RepolarizationTimeMs:     tWindowEndMs,
				ConductionVelocityMS:     ventricularVelocity,
			},
		}
	case cyclePos < tWindowEndMs:
		// ST segment and T wave: ventricular muscle recovering.
		return []models.ConductionRegion{
			{
				RegionID:                 "ventricular_muscle",
				AnatomicalLocation:       "ventricular myocardium",
				ActivationTimeMs:         prSegmentEndMs + 20,
				DepolarizationDurationMs: cal.ventDepolMs,
				RepolarizationTimeMs:     tWindowEndMs,
				ConductionVelocityMS:     ventricularVelocity,
			},
		}
	default:
		// Diastole: no active regions.
		return nil
	}
}

func avNodeRegion(cal calibration, blocked bool) models.ConductionRegion {
	region := models.ConductionRegion{
		RegionID:                 "av_node",
		AnatomicalLocation:       "atrioventricular node",
		ActivationTimeMs:         pWindowEndMs,
		DepolarizationDurationMs: prSegmentEndMs - pWindowEndMs,
		RepolarizationTimeMs:     300,
		ConductionVelocityMS:     avNodeVelocity,
	}
	if blocked {
		region.IsBlocked = true
		region.BlockType = models.BlockComplete
	}
	return region
}

// blockRegions mirrors the normal table except the AV node's depolarization is
// stretched to pr-80 and its conduction velocity halved.
func (m *Mapper) blockRegions(cal calibration, cyclePos float64, cycleIndex int) []models.ConductionRegion {
	regions := m.normalRegions(cal, cyclePos, cycleIndex)
	for i := range regions {
		if regions[i].RegionID == "av_node" {
			regions[i].DepolarizationDurationMs = utils.Floor(cal.prMs-pWindowEndMs, 60)
			regions[i].ConductionVelocityMS = avNodeVelocity / 2
		}
	}
	return regions
}

// afibRegions models chaotic atrial activity: the SA node is permanently
// blocked, 3-6 independently timed foci fire with randomized parameters, and
// AV conduction succeeds probabilistically per evaluation.
func (m *Mapper) afibRegions(cal calibration, cyclePos float64, _ int) []models.ConductionRegion {
	regions := []models.ConductionRegion{
		{
			RegionID:                 "sa_node",
			AnatomicalLocation:       "sinoatrial node",
			ActivationTimeMs:         0,
			DepolarizationDurationMs: 0,
			RepolarizationTimeMs:     0,
			ConductionVelocityMS:     0,
			IsBlocked:                true,
			BlockType:                models.BlockComplete,
		},
	}

	fociCount := 3 + m.randIntn(4)
	for i := 0; i < fociCount; i++ {
		regions = append(regions, models.ConductionRegion{
			RegionID:                 fmt.Sprintf("chaotic_focus_%d", i),
			AnatomicalLocation:       "atrial myocardium",
			ActivationTimeMs:         m.randFloat() * cal.cycleLengthMs,
			DepolarizationDurationMs: 40 + m.randFloat()*60,
			RepolarizationTimeMs:     150 + m.randFloat()*100,
			ConductionVelocityMS:     0.1 + m.randFloat()*0.4,
		})
	}

	// 60% chance per evaluation that an impulse conducts through the AV node,
	// with a randomized delay, modeling the irregular ventricular response.
	if m.randFloat() < 0.6 {
		delay := 80 + m.randFloat()*60
		regions = append(regions,
			models.ConductionRegion{
				RegionID:                 "av_node",
				AnatomicalLocation:       "atrioventricular node",
				ActivationTimeMs:         delay,
				DepolarizationDurationMs: delay,
				RepolarizationTimeMs:     delay + 200,
				ConductionVelocityMS:     avNodeVelocity,
			},
			models.ConductionRegion{
				RegionID:                 "ventricular_muscle",
				AnatomicalLocation:       "ventricular myocardium",
				ActivationTimeMs:         delay + 20,
				DepolarizationDurationMs: cal.ventDepolMs,
				RepolarizationTimeMs:     delay + 400,
				ConductionVelocityMS:     ventricularVelocity,
			},
		)
	}
	return regions
}

// vtDepolarizationMs is the fixed wide depolarization of the ectopic focus.
const vtDepolarizationMs = 150.0

// vtRegions models a single ventricular ectopic focus driving the whole cycle
// with the AV node permanently blocked (AV dissociation).
func (m *Mapper) vtRegions(cal calibration, cyclePos float64, _ int) []models.ConductionRegion {
	return []models.ConductionRegion{
		{
			RegionID:                 "ectopic_ventricular_focus",
			AnatomicalLocation:       "ventricular myocardium",
			ActivationTimeMs:         0,
			DepolarizationDurationMs: vtDepolarizationMs,
			RepolarizationTimeMs:     vtDepolarizationMs + 200,
			ConductionVelocityMS:     ectopicVelocity,
		},
		avNodeRegion(cal, true),
	}
}

// pvcRegions follows the normal table, adding an ectopic ventricular focus on
// every fourth cycle.
func (m *Mapper) pvcRegions(cal calibration, cyclePos float64, cycleIndex int) []models.ConductionRegion {
	regions := m.normalRegions(cal, cyclePos, cycleIndex)
	if cycleIndex%4 == 3 && cyclePos < qrsWindowEndMs {
		regions = append(regions, models.ConductionRegion{
			RegionID:                 "ectopic_ventricular_focus",
			AnatomicalLocation:       "ventricular myocardium",
			ActivationTimeMs:         0,
			DepolarizationDurationMs: vtDepolarizationMs,
			RepolarizationTimeMs:     vtDepolarizationMs + 200,
			ConductionVelocityMS:     ectopicVelocity,
		})
	}
	return regions
}
