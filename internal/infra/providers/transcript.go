package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/oratoria/presentation-scoring-service/internal/domain/entity"
)

type TranscriptClient struct {
	baseURL   string
	client    *http.Client
	available bool
}

func NewTranscriptClient(baseURL string) *TranscriptClient {
	return &TranscriptClient{
		baseURL:   baseURL,
		client:    newHTTPClient(),
		available: ping(baseURL),
	}
}

func (c *TranscriptClient) Available() bool { return c.available }

type transcriptResponse struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Segments []struct {
		Start      float64 `json:"start"`
		End        float64 `json:"end"`
		Text       string  `json:"text"`
		AvgLogProb float64 `json:"avg_logprob"`
	} `json:"segments"`
}

// Transcribe uploads the mono WAV track. The language field is a hint; the
// sidecar may override it with its own detection.
func (c *TranscriptClient) Transcribe(ctx context.Context, audioPath, language string) (*entity.Transcript, error) {
	body, contentType, err := multipartFile(audioPath, "file", map[string]string{"language": language})
	if err != nil {
		return nil, fmt.Errorf("transcribe request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transcribe", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, "transcribe"); err != nil {
		return nil, err
	}

	var out transcriptResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("transcribe decode: %w", err)
	}

	tr := &entity.Transcript{Text: out.Text, Language: out.Language}
	for _, seg := range out.Segments {
		tr.Segments = append(tr.Segments, entity.TranscriptSegment{
			Start:      seg.Start,
			End:        seg.End,
			Text:       seg.Text,
			AvgLogProb: seg.AvgLogProb,
		})
	}
	return tr, nil
}
