package models

// Chamber indexes the four cardiac chambers. Chamber state collections are
// fixed-size arrays indexed by this enum.
type Chamber int

const (
	ChamberRightAtrium Chamber = iota
	ChamberLeftAtrium
	ChamberRightVentricle
	ChamberLeftVentricle
	ChamberCount
)

// String returns the anatomical chamber name.
func (c Chamber) String() string {
	switch c {
	case ChamberRightAtrium:
		return "right_atrium"
	case ChamberLeftAtrium:
		return "left_atrium"
	case ChamberRightVentricle:
		return "right_ventricle"
	case ChamberLeftVentricle:
		return "left_ventricle"
	default:
		return "unknown"
	}
}

// IsAtrial reports whether the chamber belongs to the atria.
func (c Chamber) IsAtrial() bool {
	return c == ChamberRightAtrium || c == ChamberLeftAtrium
}

// CellState enumerates per-chamber action-potential states. Exactly one state
// holds per chamber per query instant.
type CellState string

const (
	CellResting      CellState = "resting"
	CellDepolarizing CellState = "depolarizing"
	CellDepolarized  CellState = "depolarized"
	CellRepolarizing CellState = "repolarizing"
)

// BlockType labels conduction block severity on a region.
type BlockType string

const (
	BlockNone     BlockType = ""
	BlockPartial  BlockType = "partial"
	BlockComplete BlockType = "complete"
)

// ConductionRegion describes one anatomical conduction structure active at the
// queried cycle position.
type ConductionRegion struct {
	RegionID                 string    `json:"regionId"`
	AnatomicalLocation       string    `json:"anatomicalLocation"`
	ActivationTimeMs         float64   `json:"activationTime_ms"`
	DepolarizationDurationMs float64   `json:"depolarizationDuration_ms"`
	RepolarizationTimeMs     float64   `json:"repolarizationTime_ms"`
	ConductionVelocityMS     float64   `json:"conductionVelocity_m_s"`
	IsBlocked                bool      `json:"isBlocked"`
	BlockType                BlockType `json:"blockType,omitempty"`
}

// Point3D is a wavefront geometry point in schematic heart coordinates.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// ElectricalWave is a traveling propagation front rendered by the caller.
type ElectricalWave struct {
	WaveID   string    `json:"waveId"`
	WaveType string    `json:"waveType"`
	Origin   string    `json:"origin"`
	Progress float64   `json:"progress"`
	Points   []Point3D `json:"points"`
}

// ChamberElectricalState is the per-chamber action-potential snapshot.
type ChamberElectricalState struct {
	ChamberName            string    `json:"chamberName"`
	CurrentState           CellState `json:"currentState"`
	ActivationTimeMs       float64   `json:"activationTime_ms"`
	DepolarizationProgress float64   `json:"depolarizationProgress"`
	RepolarizationProgress float64   `json:"repolarizationProgress"`
	MembraneVoltageMV      float64   `json:"membraneVoltage_mV"`
	ActionPotentialPhase   int       `json:"actionPotentialPhase"`
}

// ElectrophysiologyState is the ephemeral activation snapshot returned per
// query. It is recomputed from scratch each call and never cached.
type ElectrophysiologyState struct {
	TimestampMs         float64                              `json:"timestamp"`
	ActiveRegions       []ConductionRegion                   `json:"activeRegions"`
	ElectricalWaves     []ElectricalWave                     `json:"electricalWaves"`
	ChamberStates       [ChamberCount]ChamberElectricalState `json:"chamberStates"`
	ConductionVelocity  float64                              `json:"conductionVelocity"`
	DepolarizationFront []Point3D                            `json:"depolarizationFront"`
	RepolarizationFront []Point3D                            `json:"repolarizationFront"`
}
