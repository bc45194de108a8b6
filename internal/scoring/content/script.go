package content

import (
	"math"
	"regexp"
	"strings"

	"github.com/oratoria/presentation-scoring-service/internal/domain/entity"
	"github.com/oratoria/presentation-scoring-service/internal/scoring"
)

// Weights for the with-script overall score.
const (
	scriptContentWeight   = 0.4
	scriptAdherenceWeight = 0.3
	scriptClarityWeight   = 0.3
)

var nonWordRe = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)

// ScriptAnalysis compares the spoken transcript against the prepared script.
type ScriptAnalysis struct {
	Score             float64  `json:"score"`
	ContentScore      float64  `json:"content_score"`
	ScriptAdherence   float64  `json:"script_adherence"`
	MessageClarity    float64  `json:"message_clarity"`
	SimilarityRatio   float64  `json:"similarity_ratio"`
	TranscribedLength int      `json:"transcribed_length"`
	ScriptLength      int      `json:"script_length"`
	Feedback          []string `json:"feedback"`
	Content           Analysis `json:"content_analysis"`
}

// AnalyzeWithScript evaluates the transcript content and how closely it
// follows the prepared script.
func AnalyzeWithScript(transcript, script, language string) ScriptAnalysis {
	analysis := Analyze(transcript, language)
	adherence := scriptAdherence(transcript, script)
	clarity := messageClarity(transcript, analysis.Coherence.Score)

	overall := scoring.Round1(analysis.ContentScore*scriptContentWeight +
		adherence*scriptAdherenceWeight +
		clarity*scriptClarityWeight)

	return ScriptAnalysis{
		Score:             overall,
		ContentScore:      analysis.ContentScore,
		ScriptAdherence:   adherence,
		MessageClarity:    clarity,
		SimilarityRatio:   Similarity(transcript, script),
		TranscribedLength: len(strings.Fields(transcript)),
		ScriptLength:      len(strings.Fields(script)),
		Feedback:          scriptFeedback(analysis.ContentScore, adherence, clarity),
		Content:           analysis,
	}
}

// Score builds the content sub-score. With a script it grades adherence and
// clarity alongside the content itself; without one it grades content alone.
// An empty transcript yields the degenerate zero sub-score.
func Score(transcript, script, language string) entity.SubScore {
	if strings.TrimSpace(transcript) == "" {
		return entity.SubScore{
			Value:      0,
			Components: map[string]float64{"content_score": 0, "script_adherence": 0, "message_clarity": 0},
			Feedback:   []string{"Error en análisis de contenido: no hay transcripción disponible."},
		}
	}

	if strings.TrimSpace(script) == "" {
		return ScoreText(transcript, language)
	}

	sa := AnalyzeWithScript(transcript, script, language)
	return entity.SubScore{
		Value: sa.Score,
		Components: map[string]float64{
			"content_score":    sa.ContentScore,
			"script_adherence": sa.ScriptAdherence,
			"message_clarity":  sa.MessageClarity,
			"similarity_ratio": sa.SimilarityRatio,
			"word_count":       float64(sa.Content.WordCount),
		},
		Feedback: sa.Feedback,
	}
}

// scriptAdherence blends script word coverage with raw length similarity,
// on a 0-10 scale.
func scriptAdherence(transcript, script string) float64 {
	if transcript == "" || script == "" {
		return 0
	}

	transcriptWords := wordSet(transcript)
	scriptWords := wordSet(script)

	coverage := 0.0
	if len(scriptWords) > 0 {
		common := 0
		for w := range transcriptWords {
			if _, ok := scriptWords[w]; ok {
				common++
			}
		}
		coverage = float64(common) / float64(len(scriptWords))
	}

	tLen := float64(len([]rune(transcript)))
	sLen := float64(len([]rune(script)))
	lengthRatio := 0.0
	if max := math.Max(tLen, sLen); max > 0 {
		lengthRatio = math.Min(tLen, sLen) / max
	}

	return scoring.Round1((coverage*0.7 + lengthRatio*0.3) * 10)
}

// messageClarity scores sentence pacing against the 10-20 word sweet spot and
// blends in the coherence score, on a 0-10 scale.
func messageClarity(transcript string, coherenceScore float64) float64 {
	if transcript == "" {
		return 0
	}

	sentences := splitSentences(transcript)
	avgLen := 0.0
	if len(sentences) > 0 {
		total := 0
		for _, s := range sentences {
			total += len(strings.Fields(s))
		}
		avgLen = float64(total) / float64(len(sentences))
	}

	lengthScore := 0.0
	if avgLen > 0 {
		lengthScore = scoring.Clamp(1-math.Abs(avgLen-15)/15, 0, 1)
	}

	return scoring.Round1((lengthScore*0.4 + coherenceScore/10*0.6) * 10)
}

// Similarity is the Jaccard index over the two normalized word sets.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}

	setA := wordSet(a)
	setB := wordSet(b)

	intersection := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func wordSet(text string) map[string]struct{} {
	normalized := nonWordRe.ReplaceAllString(strings.ToLower(text), "")
	set := map[string]struct{}{}
	for _, w := range strings.Fields(normalized) {
		set[w] = struct{}{}
	}
	return set
}

func scriptFeedback(contentScore, adherence, clarity float64) []string {
	var fb []string

	switch {
	case contentScore < 6:
		fb = append(fb, "El contenido de tu presentación necesita mejorar en estructura y calidad")
	case contentScore < 8:
		fb = append(fb, "Buen contenido, pero puedes mejorarlo con más detalles y ejemplos")
	default:
		fb = append(fb, "Excelente calidad de contenido en tu presentación")
	}

	switch {
	case adherence < 6:
		fb = append(fb, "Te desviaste considerablemente del guión planificado")
	case adherence < 8:
		fb = append(fb, "Siguiste parcialmente el guión, pero hubo algunas desviaciones")
	default:
		fb = append(fb, "Excelente adherencia al guión planificado")
	}

	switch {
	case clarity < 6:
		fb = append(fb, "Tu mensaje podría ser más claro y mejor estructurado")
	case clarity < 8:
		fb = append(fb, "Mensaje relativamente claro, pero puede mejorarse")
	default:
		fb = append(fb, "Tu mensaje fue claro y bien estructurado")
	}

	return fb
}
