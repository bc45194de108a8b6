package entity

import "strings"

// TranscriptSegment is one time-aligned piece of the transcription.
type TranscriptSegment struct {
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Text       string  `json:"text"`
	AvgLogProb float64 `json:"avg_logprob"`
}

// Transcript is the full output of the transcript provider for one session.
type Transcript struct {
	Text     string              `json:"text"`
	Language string              `json:"language"`
	Segments []TranscriptSegment `json:"segments"`
}

// Usable reports whether the transcript carries any signal. A provider that
// failed to load its model returns an error-marker text with zero segments;
// that counts as no signal.
func (t *Transcript) Usable() bool {
	if t == nil {
		return false
	}
	return strings.TrimSpace(t.Text) != "" && len(t.Segments) > 0
}
