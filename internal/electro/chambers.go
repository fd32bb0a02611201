package electro

import "github.com/ekgstack/ekg-engine/internal/models"

// Fixed-shape action-potential model, ms and mV. This approximates the staged
// voltage trajectory of working myocardium; it is modeled, not measured,
// behavior and makes no claim to ionic accuracy.
const (
	depolarizingPhaseMs = 20.0
	repolarizingPhaseMs = 50.0
	atrialAPDMs         = 250.0
	ventricularAPDMs    = 300.0

	restingVoltageMV     = -90.0
	depolarizedPeakMV    = 40.0
	atrialPlateauMV      = -70.0
	ventricularPlateauMV = 20.0
)

// inactiveOffset marks a chamber with no organized activation this rhythm.
const inactiveOffset = -1.0

// chamberActivationOffset returns the ms offset from cycle start at which the
// chamber activates, or inactiveOffset when it never does.
func chamberActivationOffset(cal calibration, chamber models.Chamber) float64 {
	switch cal.rhythm {
	case models.RhythmVentricularTachycardia:
		// AV dissociation: the ectopic focus drives the ventricles from cycle
		// start; organized atrial activation is not modeled.
		switch chamber {
		case models.ChamberRightVentricle:
			return 0
		case models.ChamberLeftVentricle:
			return 10
		default:
			return inactiveOffset
		}
	case models.RhythmAtrialFibrillation:
		// No organized atrial depolarization; ventricles respond after the
		// average AV delay.
		switch chamber {
		case models.ChamberRightVentricle:
			return cal.avDelayMs
		case models.ChamberLeftVentricle:
			return cal.avDelayMs + 10
		default:
			return inactiveOffset
		}
	default:
		switch chamber {
		case models.ChamberRightAtrium:
			return 0
		case models.ChamberLeftAtrium:
			return 10
		case models.ChamberRightVentricle:
			return cal.avDelayMs
		default:
			return cal.avDelayMs + 10
		}
	}
}

// chamberState runs the per-chamber sub-machine: exactly one CurrentState
// holds for a given cycle position.
func chamberState(cal calibration, chamber models.Chamber, cyclePos float64) models.ChamberElectricalState {
	state := models.ChamberElectricalState{
		ChamberName:          chamber.String(),
		CurrentState:         models.CellResting,
		MembraneVoltageMV:    restingVoltageMV,
		ActionPotentialPhase: 4,
	}

	offset := chamberActivationOffset(cal, chamber)
	if offset < 0 {
		return state
	}
	state.ActivationTimeMs = offset

	apd := ventricularAPDMs
	plateau := ventricularPlateauMV
	plateauPhase := 2
	if chamber.IsAtrial() {
		apd = atrialAPDMs
		plateau = atrialPlateauMV
		plateauPhase = 1
	}

	sinceActivation := cyclePos - offset
	switch {
	case sinceActivation < 0 || sinceActivation > apd:
		// resting; zero-value progression already set
	case sinceActivation < depolarizingPhaseMs:
		progress := sinceActivation / depolarizingPhaseMs
		state.CurrentState = models.CellDepolarizing
		state.DepolarizationProgress = progress
		state.MembraneVoltageMV = restingVoltageMV + progress*(depolarizedPeakMV-restingVoltageMV)
		state.ActionPotentialPhase = 0
	case sinceActivation < apd-repolarizingPhaseMs:
		state.CurrentState = models.CellDepolarized
		state.DepolarizationProgress = 1
		state.MembraneVoltageMV = plateau
		state.ActionPotentialPhase = plateauPhase
	default:
		progress := (sinceActivation - (apd - repolarizingPhaseMs)) / repolarizingPhaseMs
		state.CurrentState = models.CellRepolarizing
		state.DepolarizationProgress = 1
		state.RepolarizationProgress = progress
		state.MembraneVoltageMV = plateau + progress*(restingVoltageMV-plateau)
		state.ActionPotentialPhase = 3
	}
	return state
}
