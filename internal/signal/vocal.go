package signal

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/thebtf/stagewhisper/pkg/models"
)

// Vocal-delivery thresholds, tuned against float32 PCM in [-1, 1].
const (
	minChunkSamples = 100
	highEnergyRMS   = 0.05
	medEnergyRMS    = 0.02

	minPaceWPM = 80
	maxPaceWPM = 200
)

// VocalDSP is the in-process vocal-delivery analyzer: RMS energy bucketing,
// zero-crossing pitch variance, and an energy-flux speaking-pace proxy. It is
// stateless and safe for concurrent use across sessions.
type VocalDSP struct{}

// NewVocalDSP creates the analyzer.
func NewVocalDSP() *VocalDSP { return &VocalDSP{} }

// AnalyzeChunk computes delivery metrics for one PCM chunk. Degenerate input
// (too short, or entirely non-finite) yields the neutral fallback rather than
// an error; non-finite samples are zeroed before analysis.
func (a *VocalDSP) AnalyzeChunk(pcm []float32, sampleRate int) (models.AudioResult, error) {
	if len(pcm) < minChunkSamples || sampleRate <= 0 {
		return models.NeutralAudio(), nil
	}

	samples := make([]float64, len(pcm))
	for i, v := range pcm {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			f = 0
		}
		samples[i] = f
	}

	rms := rootMeanSquare(samples)
	energy := models.EnergyLow
	switch {
	case rms > highEnergyRMS:
		energy = models.EnergyHigh
	case rms > medEnergyRMS:
		energy = models.EnergyMed
	}

	return models.AudioResult{
		Energy:        energy,
		PaceWPM:       paceWPM(samples, sampleRate),
		PitchVariance: math.Round(zeroCrossingRate(samples)*1000*100) / 100,
		RMS:           math.Round(rms*10000) / 10000,
	}, nil
}

func rootMeanSquare(samples []float64) float64 {
	var sum float64
	for _, v := range samples {
		sum += v * v
	}
	rms := math.Sqrt(sum / float64(len(samples)))
	if math.IsNaN(rms) || math.IsInf(rms, 0) {
		return 0
	}
	return rms
}

// zeroCrossingRate returns the fraction of adjacent sample pairs that change
// sign, a cheap stand-in for pitch activity.
func zeroCrossingRate(samples []float64) float64 {
	if len(samples) < 2 {
		return 0
	}
	crossings := 0
	for i := 1; i < len(samples); i++ {
		if (samples[i-1] >= 0) != (samples[i] >= 0) {
			crossings++
		}
	}
	return float64(crossings) / float64(len(samples)-1)
}

// paceWPM estimates speaking pace from the mean positive energy flux across
// 20 ms frames, clamped to the plausible 80-200 WPM band. It is a proxy, not
// a word counter: syllable onsets show up as energy rises between frames.
func paceWPM(samples []float64, sampleRate int) int {
	frameLen := sampleRate / 50
	if frameLen < 1 {
		frameLen = 1
	}

	var energies []float64
	for start := 0; start+frameLen <= len(samples); start += frameLen {
		energies = append(energies, rootMeanSquare(samples[start:start+frameLen]))
	}
	if len(energies) < 2 {
		return models.NeutralAudio().PaceWPM
	}

	flux := make([]float64, 0, len(energies)-1)
	for i := 1; i < len(energies); i++ {
		rise := energies[i] - energies[i-1]
		if rise < 0 {
			rise = 0
		}
		flux = append(flux, rise)
	}

	proxy := int(stat.Mean(flux, nil) * 1000)
	pace := proxy + 100
	if pace < minPaceWPM {
		pace = minPaceWPM
	}
	if pace > maxPaceWPM {
		pace = maxPaceWPM
	}
	return pace
}
