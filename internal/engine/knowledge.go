package engine

import (
	"errors"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ekgstack/ekg-engine/internal/models"
)

// ClinicalEntry bundles the static pathophysiology and clinical-context
// knowledge attached to one rhythm.
type ClinicalEntry struct {
	Pathophysiology         string   `yaml:"pathophysiology"`
	SymptomsLikely          []string `yaml:"symptoms_likely"`
	TreatmentConsiderations []string `yaml:"treatment_considerations"`
	MonitoringRequirements  []string `yaml:"monitoring_requirements"`
}

// KnowledgeBase is an immutable clinical lookup table constructed once and
// passed explicitly into the assembler. These descriptions are modeled
// teaching content, not clinically validated guidance.
type KnowledgeBase struct {
	entries  map[models.Rhythm]ClinicalEntry
	fallback ClinicalEntry
}

type knowledgeFile struct {
	Rhythms  map[string]ClinicalEntry `yaml:"rhythms"`
	Fallback *ClinicalEntry           `yaml:"fallback"`
}

// NewKnowledgeBase loads the clinical knowledge pack from path, overlaying the
// built-in defaults. A missing file keeps the defaults; a malformed file is an
// error.
func NewKnowledgeBase(path string, logger *slog.Logger) (*KnowledgeBase, error) {
	if logger == nil {
		logger = slog.Default()
	}
	kb := &KnowledgeBase{
		entries:  defaultKnowledge(),
		fallback: defaultFallback(),
	}

	if path == "" {
		return kb, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Debug("knowledge pack not found, using built-in entries", slog.String("path", path))
			return kb, nil
		}
		return nil, err
	}

	var file knowledgeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	for name, entry := range file.Rhythms {
		kb.entries[models.Rhythm(name)] = entry
	}
	if file.Fallback != nil {
		kb.fallback = *file.Fallback
	}
	return kb, nil
}

// Lookup returns the entry for a rhythm, falling back to the generic entry.
func (kb *KnowledgeBase) Lookup(rhythm models.Rhythm) ClinicalEntry {
	if entry, ok := kb.entries[rhythm]; ok {
		return entry
	}
	return kb.fallback
}

func defaultKnowledge() map[models.Rhythm]ClinicalEntry {
	return map[models.Rhythm]ClinicalEntry{
		models.RhythmNormalSinus: {
			Pathophysiology:         "Impulses originate in the SA node and conduct through the AV node and His-Purkinje system at a regular rate of 60-100 bpm.",
			SymptomsLikely:          []string{"none expected"},
			TreatmentConsiderations: []string{"no treatment indicated"},
			MonitoringRequirements:  []string{"routine follow-up"},
		},
		models.RhythmAtrialFibrillation: {
			Pathophysiology:         "Disorganized atrial electrical activity from multiple chaotic foci replaces coordinated SA-node pacing; the AV node conducts irregularly, producing an irregularly irregular ventricular response.",
			SymptomsLikely:          []string{"palpitations", "fatigue", "dyspnea", "lightheadedness"},
			TreatmentConsiderations: []string{"rate control", "rhythm control", "anticoagulation assessment"},
			MonitoringRequirements:  []string{"continuous rhythm monitoring", "ventricular rate trending"},
		},
		models.RhythmVentricularTachycardia: {
			Pathophysiology:         "A ventricular ectopic focus drives rapid wide-complex depolarization independent of atrial activity, with AV dissociation and severely reduced cardiac output.",
			SymptomsLikely:          []string{"syncope", "chest pain", "hemodynamic collapse"},
			TreatmentConsiderations: []string{"immediate cardioversion if unstable", "antiarrhythmic therapy", "electrolyte correction"},
			MonitoringRequirements:  []string{"continuous monitoring with defibrillator availability"},
		},
		models.RhythmHeartBlock: {
			Pathophysiology:         "Conduction through the AV node is delayed, prolonging the PR interval while every atrial impulse still reaches the ventricles.",
			SymptomsLikely:          []string{"usually asymptomatic", "fatigue if progressive"},
			TreatmentConsiderations: []string{"review AV-nodal blocking agents", "observe for progression"},
			MonitoringRequirements:  []string{"periodic EKG surveillance"},
		},
		models.RhythmSinusBradycardia: {
			Pathophysiology:         "SA-node pacing below 60 bpm with otherwise normal conduction; common in athletes and during increased vagal tone.",
			SymptomsLikely:          []string{"fatigue", "dizziness", "exercise intolerance"},
			TreatmentConsiderations: []string{"treat only if symptomatic", "review rate-slowing medications"},
			MonitoringRequirements:  []string{"symptom-correlated monitoring"},
		},
		models.RhythmSinusTachycardia: {
			Pathophysiology:         "SA-node pacing above 100 bpm with normal conduction, usually a physiological response to demand rather than a primary arrhythmia.",
			SymptomsLikely:          []string{"palpitations", "anxiety"},
			TreatmentConsiderations: []string{"identify and treat the underlying driver"},
			MonitoringRequirements:  []string{"reassess after addressing the cause"},
		},
	}
}

func defaultFallback() ClinicalEntry {
	return ClinicalEntry{
		Pathophysiology:         "Rhythm-specific conduction details are not available for this classification.",
		SymptomsLikely:          []string{"variable"},
		TreatmentConsiderations: []string{"correlate clinically"},
		MonitoringRequirements:  []string{"monitoring per clinical judgment"},
	}
}

// coordinationFor derives the chamber coordination flags from the rhythm.
func coordinationFor(rhythm models.Rhythm) models.ChamberCoordination {
	switch rhythm {
	case models.RhythmAtrialFibrillation:
		return models.ChamberCoordination{
			AtrialContraction:      false,
			VentricularContraction: true,
			AVSynchrony:            false,
			Coordinated:            false,
		}
	case models.RhythmVentricularTachycardia:
		return models.ChamberCoordination{
			AtrialContraction:      true,
			VentricularContraction: true,
			AVSynchrony:            false,
			Coordinated:            false,
		}
	case models.RhythmPVC:
		return models.ChamberCoordination{
			AtrialContraction:      true,
			VentricularContraction: true,
			AVSynchrony:            true,
			Coordinated:            false,
		}
	default:
		return models.ChamberCoordination{
			AtrialContraction:      true,
			VentricularContraction: true,
			AVSynchrony:            true,
			Coordinated:            true,
		}
	}
}
