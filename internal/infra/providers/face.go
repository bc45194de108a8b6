package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/oratoria/presentation-scoring-service/internal/domain/entity"
)

type FaceClient struct {
	baseURL   string
	client    *http.Client
	available bool
}

func NewFaceClient(baseURL string) *FaceClient {
	return &FaceClient{
		baseURL:   baseURL,
		client:    newHTTPClient(),
		available: ping(baseURL),
	}
}

func (c *FaceClient) Available() bool { return c.available }

type faceResponse struct {
	Detected    bool           `json:"detected"`
	Points      []entity.Point `json:"points"`
	FrameWidth  int            `json:"frame_width"`
	FrameHeight int            `json:"frame_height"`
}

// DetectFace sends one frame image to the landmark sidecar and returns the
// dense mesh of the first detected face, or (nil, nil) without one.
func (c *FaceClient) DetectFace(ctx context.Context, framePath string) (*entity.FaceLandmarks, error) {
	body, contentType, err := multipartFile(framePath, "image", nil)
	if err != nil {
		return nil, fmt.Errorf("face request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/face_mesh", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, "face_mesh"); err != nil {
		return nil, err
	}

	var out faceResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("face_mesh decode: %w", err)
	}
	if !out.Detected || len(out.Points) == 0 {
		return nil, nil
	}
	return &entity.FaceLandmarks{
		Points:      out.Points,
		FrameWidth:  out.FrameWidth,
		FrameHeight: out.FrameHeight,
	}, nil
}
