package port

import (
	"context"

	"github.com/oratoria/presentation-scoring-service/internal/domain/entity"
)

// PoseProvider detects body keypoints in a single frame image. It returns
// (nil, nil) when no subject is found; a frame where detection fails is a
// gap, not an error. Available reports whether the underlying model loaded;
// an unavailable provider degrades the body pipeline to an all-zero
// sub-score for the process lifetime.
type PoseProvider interface {
	Available() bool
	DetectPose(ctx context.Context, framePath string) (*entity.PoseLandmarks, error)
}

// FaceProvider detects the face mesh of the first face in a frame image.
// Same nil-on-no-detection and availability contract as PoseProvider.
type FaceProvider interface {
	Available() bool
	DetectFace(ctx context.Context, framePath string) (*entity.FaceLandmarks, error)
}

// TranscriptProvider transcribes an audio track. On model failure it returns
// a transcript with empty segments rather than an error; callers check
// Transcript.Usable.
type TranscriptProvider interface {
	Available() bool
	Transcribe(ctx context.Context, audioPath, language string) (*entity.Transcript, error)
}
