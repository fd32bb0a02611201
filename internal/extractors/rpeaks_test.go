package extractors

import "testing"

// spikeSignal builds a flat signal with unit spikes at the given sample indices.
func spikeSignal(n int, spikes ...int) []float64 {
	s := make([]float64, n)
	for _, i := range spikes {
		s[i] = 1.0
	}
	return s
}

func TestDetectRPeaksRegularTrain(t *testing.T) {
	fs := 250.0
	sig := spikeSignal(2500, 250, 500, 750, 1000)

	peaks := DetectRPeaks(sig, fs)
	if len(peaks) != 4 {
		t.Fatalf("detected %d peaks, want 4", len(peaks))
	}
	for i, want := range []int{250, 500, 750, 1000} {
		if peaks[i] != want {
			t.Errorf("peak[%d] = %d, want %d", i, peaks[i], want)
		}
	}
}

func TestDetectRPeaksRefractory(t *testing.T) {
	fs := 250.0
	// Second spike 100 ms after the first, inside the 200 ms refractory window.
	sig := spikeSignal(1000, 250, 275, 500)

	peaks := DetectRPeaks(sig, fs)
	if len(peaks) != 2 {
		t.Fatalf("detected %d peaks, want 2 (refractory should drop the middle spike)", len(peaks))
	}
	if peaks[0] != 250 || peaks[1] != 500 {
		t.Errorf("peaks = %v, want [250 500]", peaks)
	}
}

func TestDetectRPeaksRefractoryNonIntegralRate(t *testing.T) {
	// At 128 Hz, 0.2*fs = 25.6 samples. Truncating would admit peaks 25
	// samples (195.3 ms) apart; the window must round up to 26 samples.
	fs := 128.0
	sig := spikeSignal(512, 128, 153)

	peaks := DetectRPeaks(sig, fs)
	if len(peaks) != 1 {
		t.Fatalf("peaks = %v, want only the first spike (second is 195.3 ms later)", peaks)
	}

	// 26 samples = 203.1 ms is the closest admissible spacing.
	sig = spikeSignal(512, 128, 154)
	peaks = DetectRPeaks(sig, fs)
	if len(peaks) != 2 {
		t.Fatalf("peaks = %v, want both spikes 203.1 ms apart", peaks)
	}

	for i := 1; i < len(peaks); i++ {
		if sep := float64(peaks[i]-peaks[i-1]) / fs * 1000.0; sep < 200 {
			t.Errorf("peaks %d and %d are %f ms apart, want >= 200", i-1, i, sep)
		}
	}
}

func TestDetectRPeaksThreshold(t *testing.T) {
	fs := 250.0
	sig := make([]float64, 1000)
	sig[250] = 1.0
	sig[500] = 0.5 // below 0.6 of max

	peaks := DetectRPeaks(sig, fs)
	if len(peaks) != 1 || peaks[0] != 250 {
		t.Fatalf("peaks = %v, want only the full-amplitude spike at 250", peaks)
	}
}

func TestDetectRPeaksDegenerateSignals(t *testing.T) {
	if peaks := DetectRPeaks(nil, 250); peaks != nil {
		t.Errorf("nil signal: peaks = %v, want nil", peaks)
	}
	if peaks := DetectRPeaks(make([]float64, 100), 250); len(peaks) != 0 {
		t.Errorf("flat signal: peaks = %v, want none", peaks)
	}
	neg := make([]float64, 100)
	for i := range neg {
		neg[i] = -1
	}
	if peaks := DetectRPeaks(neg, 250); len(peaks) != 0 {
		t.Errorf("negative signal: peaks = %v, want none", peaks)
	}
}

func TestCalculateRRIntervals(t *testing.T) {
	rr := CalculateRRIntervals([]int{250, 500, 750}, 250)
	if len(rr) != 2 {
		t.Fatalf("len = %d, want 2", len(rr))
	}
	for i, v := range rr {
		if v != 1000 {
			t.Errorf("rr[%d] = %f, want 1000 ms", i, v)
		}
	}

	if rr := CalculateRRIntervals([]int{100}, 250); rr != nil {
		t.Errorf("single peak: rr = %v, want nil", rr)
	}
}
