package port

import "context"

// MediaProbe holds the basic properties of a decoded video.
type MediaProbe struct {
	Duration float64 // seconds
	FPS      float64 // capture frame rate
}

// FrameSet is an ordered, finite sequence of sampled frame images.
type FrameSet struct {
	Paths      []string
	SampleRate float64 // effective frames per second of the sampled stream
}

// MediaProcessor decodes a source video into the inputs the scoring core
// consumes: sampled frame images and a mono resampled audio track. Codec
// handling and quality gating happen before the core runs.
type MediaProcessor interface {
	Probe(ctx context.Context, videoPath string) (*MediaProbe, error)
	SampleFrames(ctx context.Context, videoPath, outputDir string, fps float64) (*FrameSet, error)
	ExtractAudio(ctx context.Context, videoPath, wavPath string) error
}

// AudioDecoder reads an extracted WAV file into normalized mono samples.
type AudioDecoder interface {
	DecodeWAV(path string) (samples []float64, sampleRate int, err error)
}
