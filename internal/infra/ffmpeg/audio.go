package ffmpeg

import (
	"fmt"
	"os"

	"github.com/go-audio/wav"
)

// WAVDecoder reads the extracted mono track into normalized [-1,1] samples.
type WAVDecoder struct{}

func NewWAVDecoder() *WAVDecoder {
	return &WAVDecoder{}
}

func (WAVDecoder) DecodeWAV(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open wav: %w", err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, 0, fmt.Errorf("invalid wav file: %s", path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("decode pcm: %w", err)
	}

	bitDepth := int(decoder.BitDepth)
	if bitDepth == 0 {
		bitDepth = 16
	}
	scale := float64(int64(1) << (bitDepth - 1))

	samples := make([]float64, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = float64(v) / scale
	}

	return samples, buf.Format.SampleRate, nil
}
