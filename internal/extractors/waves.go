package extractors

import (
	"math"

	"github.com/ekgstack/ekg-engine/internal/models"
)

// Morphology search windows relative to each R peak, and presence floors.
const (
	pWindowStartMs = 300.0
	pWindowEndMs   = 100.0
	tWindowStartMs = 200.0
	tWindowEndMs   = 400.0

	pMinAmplitudeMV = 0.03
	tMinAmplitudeMV = 0.05

	// prevTClearanceMs keeps the P search clear of the previous beat's T wave,
	// and nextQRSClearanceMs keeps the T search clear of the next QRS complex.
	prevTClearanceMs   = 450.0
	nextQRSClearanceMs = 80.0

	// pPresenceFraction is the share of beats that must carry a P wave for
	// the rhythm to count as having organized atrial activity.
	pPresenceFraction = 0.8
)

// pWaveResult bundles the morphology features with the mean P-to-R peak offset
// used by the interval calculator.
type pWaveResult struct {
	features     models.PWaveFeatures
	meanOffsetMs float64
}

// analyzePWave searches a fixed window before each R peak for the local
// maximum and reports a P wave only when enough beats carry one.
func analyzePWave(amplitude []float64, peaks []int, samplingRate float64) pWaveResult {
	if len(peaks) == 0 {
		return pWaveResult{features: models.PWaveFeatures{Morphology: "absent"}}
	}

	startOffset := int(pWindowStartMs / 1000.0 * samplingRate)
	endOffset := int(pWindowEndMs / 1000.0 * samplingRate)
	clearance := int(prevTClearanceMs / 1000.0 * samplingRate)

	carrying := 0
	sumAmplitude := 0.0
	sumOffsetMs := 0.0
	for n, peak := range peaks {
		lo := peak - startOffset
		hi := peak - endOffset
		if lo < 0 {
			lo = 0
		}
		// At short cycle lengths the previous T wave intrudes into the fixed
		// window; searching there would misread it as a P wave.
		if n > 0 && peaks[n-1]+clearance > lo {
			lo = peaks[n-1] + clearance
		}
		if hi <= lo || hi > len(amplitude) {
			continue
		}

		bestIdx := lo
		for i := lo + 1; i < hi; i++ {
			if amplitude[i] > amplitude[bestIdx] {
				bestIdx = i
			}
		}
		if amplitude[bestIdx] >= pMinAmplitudeMV {
			carrying++
			sumAmplitude += amplitude[bestIdx]
			sumOffsetMs += float64(peak-bestIdx) / samplingRate * 1000.0
		}
	}

	present := float64(carrying) >= pPresenceFraction*float64(len(peaks)) && carrying > 0
	if !present {
		return pWaveResult{features: models.PWaveFeatures{Morphology: "absent"}}
	}

	return pWaveResult{
		features: models.PWaveFeatures{
			Present:     true,
			DurationMs:  80,
			AmplitudeMV: sumAmplitude / float64(carrying),
			Morphology:  "normal",
		},
		meanOffsetMs: sumOffsetMs / float64(carrying),
	}
}

// analyzeTWave searches a fixed window after each R peak for the extreme
// amplitude and reports polarity from the mean extreme.
func analyzeTWave(amplitude []float64, peaks []int, samplingRate float64) models.TWaveFeatures {
	if len(peaks) == 0 {
		return models.TWaveFeatures{Polarity: "none"}
	}

	startOffset := int(tWindowStartMs / 1000.0 * samplingRate)
	endOffset := int(tWindowEndMs / 1000.0 * samplingRate)
	clearance := int(nextQRSClearanceMs / 1000.0 * samplingRate)

	measured := 0
	sumExtreme := 0.0
	for n, peak := range peaks {
		lo := peak + startOffset
		hi := peak + endOffset
		if n+1 < len(peaks) && peaks[n+1]-clearance < hi {
			hi = peaks[n+1] - clearance
		}
		if lo >= len(amplitude) || hi <= lo {
			continue
		}
		if hi > len(amplitude) {
			hi = len(amplitude)
		}

		extreme := amplitude[lo]
		for i := lo + 1; i < hi; i++ {
			if math.Abs(amplitude[i]) > math.Abs(extreme) {
				extreme = amplitude[i]
			}
		}
		measured++
		sumExtreme += extreme
	}

	if measured == 0 {
		return models.TWaveFeatures{Polarity: "none"}
	}

	mean := sumExtreme / float64(measured)
	features := models.TWaveFeatures{AmplitudeMV: mean}
	if math.Abs(mean) >= tMinAmplitudeMV {
		features.Present = true
	}
	if mean >= 0 {
		features.Polarity = "positive"
	} else {
		features.Polarity = "negative"
	}
	return features
}

// QRS width estimation: span around each R peak where the rectified signal
// stays above a fraction of the peak, classified into a fixed duration class.
const (
	qrsSpanFraction  = 0.3
	qrsWideRawSpanMs = 100.0
	qrsNormalMs      = 95.0
	qrsWideMs        = 150.0
)

// analyzeQRS reports a fixed estimated duration class (normal vs wide) and the
// mean peak amplitude. Axis is a constant placeholder since only one lead is
// modeled.
func analyzeQRS(amplitude []float64, peaks []int, samplingRate float64) models.QRSFeatures {
	if len(peaks) == 0 {
		return models.QRSFeatures{AxisDeg: 60}
	}

	sumSpanMs := 0.0
	sumAmplitude := 0.0
	for _, peak := range peaks {
		peakAmp := amplitude[peak]
		sumAmplitude += peakAmp
		floor := qrsSpanFraction * peakAmp

		lo := peak
		for lo > 0 && math.Abs(amplitude[lo-1]) > floor {
			lo--
		}
		hi := peak
		for hi < len(amplitude)-1 && math.Abs(amplitude[hi+1]) > floor {
			hi++
		}
		sumSpanMs += float64(hi-lo+1) / samplingRate * 1000.0
	}

	meanSpan := sumSpanMs / float64(len(peaks))
	features := models.QRSFeatures{
		AmplitudeMV: sumAmplitude / float64(len(peaks)),
		AxisDeg:     60,
	}
	if meanSpan > qrsWideRawSpanMs {
		features.DurationMs = qrsWideMs
		features.Morphology = "wide"
	} else {
		features.DurationMs = qrsNormalMs
		features.Morphology = "narrow"
	}
	return features
}
