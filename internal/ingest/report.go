package ingest

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ekgstack/ekg-engine/internal/models"
)

// ReportFindings is the lexical extraction result for a descriptive report.
// Missing fields keep the documented defaults: 72 bpm, normal sinus.
type ReportFindings struct {
	RateBPM int
	Rhythm  models.Rhythm
	PRMs    float64
	QRSMs   float64
	QTMs    float64
}

var (
	rateRe = regexp.MustCompile(`(?i)(?:rate|hr)[^0-9]{0,10}(\d{2,3})`)
	bpmRe  = regexp.MustCompile(`(?i)(\d{2,3})\s*bpm`)
	prRe   = regexp.MustCompile(`(?i)\bpr(?:\s*interval)?[^0-9]{0,5}(\d{2,3})\s*ms`)
	qrsRe  = regexp.MustCompile(`(?i)\bqrs(?:\s*duration)?[^0-9]{0,5}(\d{2,3})\s*ms`)
	qtRe   = regexp.MustCompile(`(?i)\bqt(?:\s*interval)?[^0-9c]{0,5}(\d{3})\s*ms`)
)

// ParseReport extracts heart rate, rhythm keyword, and optional interval values
// from free text. Unmatched fields fall back to 72 bpm / normal sinus; that
// fallback is a deliberate default, not a silent failure.
func ParseReport(text string) ReportFindings {
	findings := ReportFindings{
		RateBPM: 72,
		Rhythm:  models.RhythmNormalSinus,
	}

	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "fibrillation"):
		findings.Rhythm = models.RhythmAtrialFibrillation
	case strings.Contains(lower, "ventricular tachycardia"):
		findings.Rhythm = models.RhythmVentricularTachycardia
	case strings.Contains(lower, "block"):
		findings.Rhythm = models.RhythmHeartBlock
	case strings.Contains(lower, "bradycardia"):
		findings.Rhythm = models.RhythmSinusBradycardia
	case strings.Contains(lower, "tachycardia"):
		findings.Rhythm = models.RhythmSinusTachycardia
	}

	if m := rateRe.FindStringSubmatch(text); m != nil {
		if rate, err := strconv.Atoi(m[1]); err == nil && rate >= 20 && rate <= 300 {
			findings.RateBPM = rate
		}
	} else if m := bpmRe.FindStringSubmatch(text); m != nil {
		if rate, err := strconv.Atoi(m[1]); err == nil && rate >= 20 && rate <= 300 {
			findings.RateBPM = rate
		}
	}

	if m := prRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			findings.PRMs = v
		}
	}
	if m := qrsRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			findings.QRSMs = v
		}
	}
	if m := qtRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			findings.QTMs = v
		}
	}

	applyRhythmDefaults(&findings)
	return findings
}

// applyRhythmDefaults fills interval defaults consistent with the extracted
// rhythm so the synthesized waveform measures back to the reported picture.
func applyRhythmDefaults(f *ReportFindings) {
	switch f.Rhythm {
	case models.RhythmVentricularTachycardia:
		if f.RateBPM == 72 {
			f.RateBPM = 180
		}
		if f.QRSMs == 0 {
			f.QRSMs = 160
		}
	case models.RhythmHeartBlock:
		if f.PRMs == 0 {
			f.PRMs = 220
		}
	case models.RhythmAtrialFibrillation:
		if f.RateBPM == 72 {
			f.RateBPM = 110
		}
	}
	if f.PRMs == 0 {
		f.PRMs = 160
	}
	if f.QRSMs == 0 {
		f.QRSMs = 90
	}
	if f.QTMs == 0 {
		f.QTMs = 400
	}
}
