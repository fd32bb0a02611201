package ingest

import (
	"math"

	"github.com/ekgstack/ekg-engine/internal/models"
)

// Synthetic complex amplitudes in mV.
const (
	synthPAmplitude = 0.15
	synthRAmplitude = 1.2
	synthQAmplitude = -0.15
	synthSAmplitude = -0.25
	synthTAmplitude = 0.3
)

// Synthesize generates a procedural PQRST waveform matching the report
// findings. The amplitude buffer is zero-initialized and each complex is
// superposed onto it, so output length is always samplingRate*durationSeconds.
func Synthesize(f ReportFindings, samplingRate, durationSeconds float64, lead string) models.Waveform {
	n := int(samplingRate * durationSeconds)
	amplitude := make([]float64, n)
	timeAxis := make([]float64, n)
	for i := range timeAxis {
		timeAxis[i] = float64(i) / samplingRate
	}

	cycleSec := 60.0 / float64(f.RateBPM)
	irregular := f.Rhythm == models.RhythmAtrialFibrillation

	if irregular {
		addFibrillatoryBaseline(amplitude, samplingRate)
	}

	beat := 0
	onset := 0.3 // leave room for the windows searched before the first R peak
	for onset < durationSeconds-0.5 {
		addBeat(amplitude, samplingRate, onset, f)
		beat++
		step := cycleSec
		if irregular {
			// Deterministic per-beat jitter; randomness is reserved for the
			// electrophysiology mapper's chaotic branches.
			step += 0.45 * cycleSec * jitter(beat)
		}
		if step < 0.3 {
			step = 0.3
		}
		onset += step
	}

	return models.Waveform{
		Time:         timeAxis,
		Amplitude:    amplitude,
		SamplingRate: samplingRate,
		Lead:         lead,
	}
}

// addBeat superposes one complex with its R peak at rSec seconds.
func addBeat(amplitude []float64, fs, rSec float64, f ReportFindings) {
	hasP := f.Rhythm != models.RhythmAtrialFibrillation && f.Rhythm != models.RhythmVentricularTachycardia
	wide := f.QRSMs > 120

	if hasP {
		// P peak sits PR-20 ms before R so the extractor measures the
		// reported PR back (p-peak offset + 20 ms onset correction).
		pCenter := rSec - (f.PRMs-20)/1000.0
		addGaussian(amplitude, fs, pCenter, 0.025, synthPAmplitude)
	}

	// Three-segment QRS: Q dip, R spike, S dip.
	half := f.QRSMs / 2000.0
	if !wide {
		addGaussian(amplitude, fs, rSec-0.035, 0.008, synthQAmplitude)
		addGaussian(amplitude, fs, rSec+0.035, 0.010, synthSAmplitude)
	}
	addTriangle(amplitude, fs, rSec, half, synthRAmplitude)

	tAmp := synthTAmplitude
	if f.Rhythm == models.RhythmVentricularTachycardia {
		tAmp = -synthTAmplitude
	}
	tCenter := rSec + f.QTMs/1000.0*0.75
	addGaussian(amplitude, fs, tCenter, 0.05, tAmp)
}

func addGaussian(amplitude []float64, fs, centerSec, sigmaSec, peak float64) {
	lo := int((centerSec - 4*sigmaSec) * fs)
	hi := int((centerSec + 4*sigmaSec) * fs)
	for i := max(lo, 0); i <= hi && i < len(amplitude); i++ {
		t := float64(i)/fs - centerSec
		z := t / sigmaSec
		amplitude[i] += peak * math.Exp(-0.5*z*z)
	}
}

func addTriangle(amplitude []float64, fs, centerSec, halfWidthSec, peak float64) {
	lo := int((centerSec - halfWidthSec) * fs)
	hi := int((centerSec + halfWidthSec) * fs)
	for i := max(lo, 0); i <= hi && i < len(amplitude); i++ {
		t := math.Abs(float64(i)/fs - centerSec)
		if t > halfWidthSec {
			continue
		}
		amplitude[i] += peak * (1 - t/halfWidthSec)
	}
}

// addFibrillatoryBaseline overlays coarse f-waves in place of organized P waves.
func addFibrillatoryBaseline(amplitude []float64, fs float64) {
	for i := range amplitude {
		t := float64(i) / fs
		// Coarse f-waves stay under the P-wave presence floor so they read as
		// absent atrial activity rather than organized P waves.
		amplitude[i] += 0.015*math.Sin(2*math.Pi*6.5*t) + 0.01*math.Sin(2*math.Pi*9.1*t)
	}
}

// jitter returns a deterministic pseudo-random value in [-1, 1) keyed by beat index.
func jitter(beat int) float64 {
	x := math.Sin(float64(beat)*12.9898) * 43758.5453
	return 2*(x-math.Floor(x)) - 1
}
