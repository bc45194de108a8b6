package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/oratoria/presentation-scoring-service/internal/domain/port"
)

type MediaProcessor struct {
	audioSampleRate int
	logger          *zap.Logger
}

func NewMediaProcessor(audioSampleRate int, logger *zap.Logger) *MediaProcessor {
	if audioSampleRate <= 0 {
		audioSampleRate = 16000
	}
	return &MediaProcessor{audioSampleRate: audioSampleRate, logger: logger}
}

func (m *MediaProcessor) Probe(ctx context.Context, videoPath string) (*port.MediaProbe, error) {
	duration, err := m.probeValue(ctx, videoPath, "format=duration")
	if err != nil {
		return nil, fmt.Errorf("probe duration: %w", err)
	}

	fps, err := m.probeFrameRate(ctx, videoPath)
	if err != nil {
		m.logger.Warn("could not probe frame rate", zap.Error(err))
	}

	return &port.MediaProbe{Duration: duration, FPS: fps}, nil
}

func (m *MediaProcessor) SampleFrames(ctx context.Context, videoPath, outputDir string, fps float64) (*port.FrameSet, error) {
	framePattern := filepath.Join(outputDir, "frame_%05d.jpg")
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-i", videoPath,
		"-vf", fmt.Sprintf("fps=%g", fps),
		"-q:v", "3",
		"-y",
		framePattern,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg error: %w, output: %s", err, string(output))
	}

	frames, err := filepath.Glob(filepath.Join(outputDir, "*.jpg"))
	if err != nil {
		return nil, fmt.Errorf("glob frames: %w", err)
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("no frames sampled from video")
	}

	m.logger.Info("frames sampled",
		zap.Int("count", len(frames)),
		zap.Float64("fps", fps),
	)

	return &port.FrameSet{Paths: frames, SampleRate: fps}, nil
}

func (m *MediaProcessor) ExtractAudio(ctx context.Context, videoPath, wavPath string) error {
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-i", videoPath,
		"-vn",
		"-ac", "1",
		"-ar", strconv.Itoa(m.audioSampleRate),
		"-acodec", "pcm_s16le",
		"-y",
		wavPath,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg audio error: %w, output: %s", err, string(output))
	}
	return nil
}

func (m *MediaProcessor) probeValue(ctx context.Context, videoPath, entries string) (float64, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", entries,
		"-of", "default=noprint_wrappers=1:nokey=1",
		videoPath,
	)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe: %w", err)
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("parse ffprobe output: %w", err)
	}
	return value, nil
}

// probeFrameRate reads the capture rate of the first video stream, reported
// by ffprobe as a rational like "25/1".
func (m *MediaProcessor) probeFrameRate(ctx context.Context, videoPath string) (float64, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=r_frame_rate",
		"-of", "default=noprint_wrappers=1:nokey=1",
		videoPath,
	)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe: %w", err)
	}

	rate := strings.TrimSpace(string(output))
	num, den, ok := strings.Cut(rate, "/")
	if !ok {
		return strconv.ParseFloat(rate, 64)
	}

	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("parse frame rate %q: %w", rate, err)
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0, fmt.Errorf("parse frame rate %q: %w", rate, err)
	}
	return n / d, nil
}
