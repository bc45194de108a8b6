// Package voice scores delivery from two independent inputs: signal-level
// audio features computed over the mono sample stream, and text-level
// metrics computed over the transcript.
package voice

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/oratoria/presentation-scoring-service/internal/scoring"
)

const (
	frameLength = 2048
	hopLength   = 512

	energyPercentile = 20   // voice activity: frames louder than this percentile
	rolloffPercent   = 0.85 // spectral rolloff energy fraction
)

// AudioFeatures are the session-level signal metrics.
type AudioFeatures struct {
	VoiceActivityRatio float64
	PitchVariation     float64
	SpectralCentroid   float64
	SpectralRolloff    float64
	ClarityScore       float64
}

// AnalyzeAudio computes voice-activity ratio, pitch variation and the
// spectral clarity features over a mono sample stream. An empty stream
// yields all-zero features.
func AnalyzeAudio(samples []float64, sampleRate int) AudioFeatures {
	if len(samples) == 0 || sampleRate <= 0 {
		return AudioFeatures{}
	}
	if len(samples) < frameLength {
		padded := make([]float64, frameLength)
		copy(padded, samples)
		samples = padded
	}

	var (
		frames    [][]float64
		energies  []float64
		centroids []float64
		rolloffs  []float64
		pitches   []float64
	)
	for start := 0; start+frameLength <= len(samples); start += hopLength {
		frames = append(frames, samples[start:start+frameLength])
	}

	fft := fourier.NewFFT(frameLength)
	window := hannWindow(frameLength)
	buf := make([]float64, frameLength)

	for _, frame := range frames {
		energies = append(energies, rms(frame))

		for i, v := range frame {
			buf[i] = v * window[i]
		}
		coeffs := fft.Coefficients(nil, buf)

		mags := make([]float64, len(coeffs))
		total := 0.0
		for k, c := range coeffs {
			mags[k] = math.Hypot(real(c), imag(c))
			total += mags[k]
		}
		if total == 0 {
			continue
		}

		binHz := float64(sampleRate) / frameLength

		weighted := 0.0
		for k, m := range mags {
			weighted += float64(k) * binHz * m
		}
		centroids = append(centroids, weighted/total)

		cum := 0.0
		for k, m := range mags {
			cum += m
			if cum >= rolloffPercent*total {
				rolloffs = append(rolloffs, float64(k)*binHz)
				break
			}
		}

		// Peak-picked dominant frequency stands in for pitch.
		peak := 1
		for k := 2; k < len(mags); k++ {
			if mags[k] > mags[peak] {
				peak = k
			}
		}
		if mags[peak] > 0 {
			pitches = append(pitches, float64(peak)*binHz)
		}
	}

	voiced := 0
	threshold := percentile(energies, energyPercentile)
	for _, e := range energies {
		if e > threshold {
			voiced++
		}
	}

	centroid := scoring.Mean(centroids)
	rolloff := scoring.Mean(rolloffs)

	return AudioFeatures{
		VoiceActivityRatio: float64(voiced) / float64(len(energies)),
		PitchVariation:     scoring.Std(pitches),
		SpectralCentroid:   centroid,
		SpectralRolloff:    rolloff,
		ClarityScore:       scoring.Round1(scoring.Clamp(centroid/1000+rolloff/2000, 0, 10)),
	}
}

func rms(frame []float64) float64 {
	sum := 0.0
	for _, v := range frame {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(frame)))
}

func hannWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return w
}

// percentile computes the p-th percentile with linear interpolation between
// closest ranks.
func percentile(vs []float64, p float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	sorted := make([]float64, len(vs))
	copy(sorted, vs)
	sort.Float64s(sorted)

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
