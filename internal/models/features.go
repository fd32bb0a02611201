package models

// PWaveFeatures describes atrial depolarization morphology.
type PWaveFeatures struct {
	Present     bool    `json:"present"`
	DurationMs  float64 `json:"duration_ms"`
	AmplitudeMV float64 `json:"amplitude_mV"`
	Morphology  string  `json:"morphology"`
}

// QRSFeatures describes the ventricular depolarization complex.
type QRSFeatures struct {
	DurationMs  float64 `json:"duration_ms"`
	AmplitudeMV float64 `json:"amplitude_mV"`
	Morphology  string  `json:"morphology"`
	AxisDeg     float64 `json:"axis_deg"`
}

// TWaveFeatures describes ventricular repolarization morphology.
type TWaveFeatures struct {
	Present     bool    `json:"present"`
	Polarity    string  `json:"polarity"`
	AmplitudeMV float64 `json:"amplitude_mV"`
}

// IntervalFeatures holds measured and estimated interval statistics in ms.
type IntervalFeatures struct {
	PRMs  float64   `json:"pr_ms"`
	QTMs  float64   `json:"qt_ms"`
	QTcMs float64   `json:"qtc_ms"`
	RRMs  []float64 `json:"rr_ms"`
}

// RhythmFeatures is the read-only feature bundle consumed by the classifier and
// timing calculator. Derived once per waveform.
type RhythmFeatures struct {
	PWave     PWaveFeatures    `json:"pWave"`
	QRS       QRSFeatures      `json:"qrs"`
	TWave     TWaveFeatures    `json:"tWave"`
	Intervals IntervalFeatures `json:"intervals"`
}
