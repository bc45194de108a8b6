package voice

import (
	"math"
	"regexp"
	"strings"

	"github.com/oratoria/presentation-scoring-service/internal/domain/entity"
)

// Spanish filler words (muletillas). Single tokens are matched per word;
// the multi-word entries are matched over consecutive token pairs.
var fillerTokens = map[string]struct{}{
	"eh": {}, "ehh": {}, "ehhh": {}, "em": {}, "emm": {}, "emmm": {},
	"este": {}, "esta": {}, "esto": {}, "entonces": {}, "pues": {},
	"bueno": {}, "digamos": {}, "tipo": {},
	"mmm": {}, "aaa": {}, "eee": {}, "ooo": {},
}

var fillerPhrases = map[string]struct{}{
	"o sea": {}, "como que": {},
}

var (
	wordRe     = regexp.MustCompile(`[\p{L}\p{N}_]+`)
	sentenceRe = regexp.MustCompile(`[.!?]+`)
)

const idealSpeakingRate = 150 // words per minute

// TextMetrics are the session-level transcript metrics.
type TextMetrics struct {
	WordCount         int
	UniqueWords       int
	FillerCount       int
	FillerRatio       float64
	SpeakingRate      float64 // words per minute over the estimated duration
	AvgSentenceLength float64
}

// AnalyzeText tokenizes the transcript and derives word, filler and pacing
// metrics. The speaking rate divides by an estimated duration of
// max(2, words/150) minutes, a deliberate approximation of the original
// behavior, not the true video duration.
func AnalyzeText(text string) TextMetrics {
	rawTokens := wordRe.FindAllString(strings.ToLower(text), -1)

	// Filler matching runs over raw tokens, unfiltered by length.
	fillers := 0
	for i, tok := range rawTokens {
		if _, ok := fillerTokens[tok]; ok {
			fillers++
			continue
		}
		if i+1 < len(rawTokens) {
			if _, ok := fillerPhrases[tok+" "+rawTokens[i+1]]; ok {
				fillers++
			}
		}
	}

	// Word counting drops short tokens.
	words := make([]string, 0, len(rawTokens))
	unique := map[string]struct{}{}
	for _, tok := range rawTokens {
		if len([]rune(tok)) > 2 {
			words = append(words, tok)
			unique[tok] = struct{}{}
		}
	}

	estimatedMinutes := math.Max(2, float64(len(words))/idealSpeakingRate)
	speakingRate := math.Round(float64(len(words)) / estimatedMinutes)

	return TextMetrics{
		WordCount:         len(words),
		UniqueWords:       len(unique),
		FillerCount:       fillers,
		FillerRatio:       float64(fillers) / math.Max(1, float64(len(words))),
		SpeakingRate:      speakingRate,
		AvgSentenceLength: avgSentenceLength(text),
	}
}

func avgSentenceLength(text string) float64 {
	var lengths []int
	for _, s := range sentenceRe.Split(text, -1) {
		if fields := strings.Fields(strings.TrimSpace(s)); len(fields) > 0 {
			lengths = append(lengths, len(fields))
		}
	}
	if len(lengths) == 0 {
		return 0
	}
	sum := 0
	for _, l := range lengths {
		sum += l
	}
	return float64(sum) / float64(len(lengths))
}

// ConfidenceTimeline maps transcript segments to the speech confidence
// timeline, one entry per segment.
func ConfidenceTimeline(segments []entity.TranscriptSegment) []entity.ConfidencePoint {
	points := make([]entity.ConfidencePoint, 0, len(segments))
	for _, seg := range segments {
		points = append(points, entity.ConfidencePoint{
			Time:       seg.Start,
			Confidence: seg.AvgLogProb + 1,
			Text:       seg.Text,
		})
	}
	return points
}
