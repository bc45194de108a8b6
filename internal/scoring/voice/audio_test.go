package voice

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// sineWave appends seconds of a pure tone at freq Hz to dst.
func sineWave(dst []float64, freq float64, seconds float64, sampleRate int) []float64 {
	n := int(seconds * float64(sampleRate))
	for i := 0; i < n; i++ {
		dst = append(dst, 0.5*math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate)))
	}
	return dst
}

func TestAnalyzeAudioEmptyStream(t *testing.T) {
	assert.Equal(t, AudioFeatures{}, AnalyzeAudio(nil, 16000))
	assert.Equal(t, AudioFeatures{}, AnalyzeAudio([]float64{0.1}, 0))
}

func TestAnalyzeAudioHalfSilence(t *testing.T) {
	const sampleRate = 16000

	// Two seconds of silence followed by two seconds of a 440 Hz tone.
	samples := make([]float64, 2*sampleRate)
	samples = sineWave(samples, 440, 2, sampleRate)

	af := AnalyzeAudio(samples, sampleRate)

	assert.InDelta(t, 0.5, af.VoiceActivityRatio, 0.1)
	assert.InDelta(t, 440, af.SpectralCentroid, 60)
	assert.InDelta(t, 440, af.SpectralRolloff, 100)
	// A constant tone has a stable dominant frequency.
	assert.Less(t, af.PitchVariation, 10.0)
	assert.Greater(t, af.ClarityScore, 0.0)
	assert.LessOrEqual(t, af.ClarityScore, 10.0)
}

func TestAnalyzeAudioShortStreamIsPadded(t *testing.T) {
	const sampleRate = 16000
	samples := sineWave(nil, 440, 0.05, sampleRate) // 800 samples, under one frame

	af := AnalyzeAudio(samples, sampleRate)

	// The single padded frame cannot exceed its own energy threshold.
	assert.Equal(t, 0.0, af.VoiceActivityRatio)
	assert.Greater(t, af.SpectralCentroid, 0.0)
}

func TestPercentile(t *testing.T) {
	assert.Equal(t, 3.0, percentile([]float64{5, 1, 4, 2, 3}, 50))
	assert.Equal(t, 0.0, percentile([]float64{0, 0, 0, 1, 1}, 20))
	assert.Equal(t, 0.0, percentile(nil, 20))
	assert.InDelta(t, 1.5, percentile([]float64{1, 2}, 50), 1e-9)
}
