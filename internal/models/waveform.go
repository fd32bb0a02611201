package models

// InputType enumerates the recognized EKG input kinds.
type InputType string

const (
	InputTypeImage      InputType = "image"
	InputTypeWaveform   InputType = "waveform"
	InputTypeTextReport InputType = "text_report"
)

// EKGInput is the raw input contract handed to the ingestor. Data holds either a
// numeric sample slice (waveform) or descriptive text (text_report / simulated
// image digitization), depending on Type.
type EKGInput struct {
	Type     InputType     `json:"type"`
	Data     any           `json:"data"`
	Metadata InputMetadata `json:"metadata,omitempty"`
}

// InputMetadata carries optional acquisition parameters.
type InputMetadata struct {
	LeadConfiguration string  `json:"leadConfiguration,omitempty"`
	SamplingRate      float64 `json:"samplingRate,omitempty"`
	Calibration       float64 `json:"calibration,omitempty"`
	PaperSpeed        float64 `json:"paperSpeed,omitempty"`
}

// Waveform is the canonical single-lead record produced by the ingestor.
// Time and Amplitude have equal length; the record is never mutated after
// construction.
type Waveform struct {
	Time         []float64 `json:"time"`
	Amplitude    []float64 `json:"amplitude"`
	SamplingRate float64   `json:"samplingRate"`
	Lead         string    `json:"lead"`
}

// Duration returns the covered time span in seconds.
func (w Waveform) Duration() float64 {
	if w.SamplingRate <= 0 {
		return 0
	}
	return float64(len(w.Amplitude)) / w.SamplingRate
}
