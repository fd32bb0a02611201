package extractors

import "math"

// Peak detection thresholds.
const (
	// peakThresholdFraction is the dynamic amplitude threshold relative to the
	// signal maximum.
	peakThresholdFraction = 0.6
	// refractoryMs is the hard minimum inter-peak spacing.
	refractoryMs = 200.0
)

// DetectRPeaks finds R-peak sample indices using a local-maximum detector with
// a dynamic amplitude threshold and a refractory floor. Once a peak is
// accepted, no candidate within the refractory window may be accepted, so the
// returned indices are monotonic and at least 200 ms apart. An empty signal
// yields an empty list.
func DetectRPeaks(amplitude []float64, samplingRate float64) []int {
	if len(amplitude) == 0 || samplingRate <= 0 {
		return nil
	}

	maxAmp := amplitude[0]
	for _, v := range amplitude[1:] {
		if v > maxAmp {
			maxAmp = v
		}
	}
	if maxAmp <= 0 {
		return nil
	}
	threshold := peakThresholdFraction * maxAmp

	// Round up so the spacing never dips below 200 ms at sampling rates where
	// 0.2*fs is not a whole number of samples.
	minSpacing := int(math.Ceil(refractoryMs / 1000.0 * samplingRate))
	if minSpacing < 1 {
		minSpacing = 1
	}

	peaks := make([]int, 0, 16)
	lastPeak := -minSpacing
	for i := 1; i < len(amplitude)-1; i++ {
		if amplitude[i] < threshold {
			continue
		}
		if amplitude[i] < amplitude[i-1] || amplitude[i] <= amplitude[i+1] {
			continue
		}
		if i-lastPeak < minSpacing {
			continue
		}
		peaks = append(peaks, i)
		lastPeak = i
	}
	return peaks
}

// CalculateRRIntervals converts successive peak-index differences to ms.
func CalculateRRIntervals(peaks []int, samplingRate float64) []float64 {
	if len(peaks) < 2 || samplingRate <= 0 {
		return nil
	}
	intervals := make([]float64, 0, len(peaks)-1)
	for i := 1; i < len(peaks); i++ {
		intervals = append(intervals, float64(peaks[i]-peaks[i-1])/samplingRate*1000.0)
	}
	return intervals
}
