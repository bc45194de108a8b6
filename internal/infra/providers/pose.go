package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/oratoria/presentation-scoring-service/internal/domain/entity"
)

type PoseClient struct {
	baseURL   string
	client    *http.Client
	available bool
}

func NewPoseClient(baseURL string) *PoseClient {
	return &PoseClient{
		baseURL:   baseURL,
		client:    newHTTPClient(),
		available: ping(baseURL),
	}
}

func (c *PoseClient) Available() bool { return c.available }

type poseResponse struct {
	Detected  bool                  `json:"detected"`
	Landmarks *entity.PoseLandmarks `json:"landmarks"`
}

// DetectPose sends one frame image to the landmark sidecar. A frame with no
// subject returns (nil, nil).
func (c *PoseClient) DetectPose(ctx context.Context, framePath string) (*entity.PoseLandmarks, error) {
	body, contentType, err := multipartFile(framePath, "image", nil)
	if err != nil {
		return nil, fmt.Errorf("pose request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/pose", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, "pose"); err != nil {
		return nil, err
	}

	var out poseResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("pose decode: %w", err)
	}
	if !out.Detected || out.Landmarks == nil {
		return nil, nil
	}
	return out.Landmarks, nil
}
