// Package content scores the transcript text itself: structure, readability,
// coherence and presentation flow, plus rubric evaluation and comparison
// against a prepared script.
package content

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/oratoria/presentation-scoring-service/internal/domain/entity"
	"github.com/oratoria/presentation-scoring-service/internal/scoring"
)

// Score weights for the overall content score.
const (
	structureWeight   = 0.30
	readabilityWeight = 0.25
	coherenceWeight   = 0.25
	flowWeight        = 0.20
)

const estimationWPM = 155 // average speaking pace for time estimation

var transitionWords = map[string][]string{
	"es": {
		"además", "por otro lado", "sin embargo", "por lo tanto",
		"en consecuencia", "finalmente", "en primer lugar", "segundo",
		"también", "asimismo", "no obstante", "por consiguiente",
		"en resumen", "para concluir", "en definitiva",
	},
	"en": {
		"furthermore", "however", "therefore", "consequently",
		"finally", "first", "second", "also", "moreover",
		"nevertheless", "thus", "in conclusion", "to summarize",
	},
}

var (
	introKeywords = []string{
		"buenos días", "buenas tardes", "hola", "mi nombre es",
		"me llamo", "soy", "presentar", "hablar sobre",
	}
	objectiveKeywords = []string{"objetivo", "meta", "propósito", "vamos a ver", "explicaré"}
	closingKeywords   = []string{
		"en conclusión", "para terminar", "finalmente", "resumiendo",
		"para concluir", "en resumen",
	}
	sequenceWords = []string{
		"primero", "segundo", "tercero", "luego", "después",
		"finalmente", "first", "second", "then", "finally",
	}
	exampleIndicators = []string{"por ejemplo", "como", "tal como", "for example", "such as"}
	emphasisWords     = []string{
		"importante", "clave", "fundamental", "esencial",
		"crucial", "important", "key", "essential",
	}
	engagementPhrases = []string{"ustedes", "you", "pregunta", "question", "opinión", "opinion"}
	sectionIndicators = []string{"parte", "sección", "punto", "tema", "part", "section", "point"}
	directAddress     = []string{"ustedes", "vosotros", "tú", "usted"}
	actionVerbs       = []string{"piensen", "imaginen", "consideren", "recuerden"}
)

var (
	tokenRe    = regexp.MustCompile(`[\p{L}\p{N}_]+`)
	sentenceRe = regexp.MustCompile(`[.!?]+`)
	spanishVowels = "aeiouáéíóúü"
)

// StructureAnalysis captures which presentation elements the text contains.
type StructureAnalysis struct {
	Score           float64 `json:"score"`
	HasIntroduction bool    `json:"has_introduction"`
	HasObjectives   bool    `json:"has_objectives"`
	HasConclusion   bool    `json:"has_conclusion"`
	TransitionCount int     `json:"transition_count"`
	ParagraphCount  int     `json:"paragraph_count"`
}

// ReadabilityAnalysis is the Flesch reading-ease result on a 0-10 scale.
type ReadabilityAnalysis struct {
	Score               float64 `json:"score"`
	Level               string  `json:"level"`
	FleschScore         float64 `json:"flesch_score"`
	AvgSentenceLength   float64 `json:"avg_sentence_length"`
	AvgSyllablesPerWord float64 `json:"avg_syllables_per_word"`
}

// CoherenceAnalysis measures logical connection between sentences.
type CoherenceAnalysis struct {
	Score              float64 `json:"score"`
	ConnectionStrength float64 `json:"connection_strength"`
	KeyTermCount       int     `json:"key_terms_count"`
	SequenceIndicators int     `json:"sequence_indicators"`
}

// FlowAnalysis counts audience-engagement devices in the text.
type FlowAnalysis struct {
	Score           float64 `json:"score"`
	QuestionCount   int     `json:"question_count"`
	ExampleCount    int     `json:"example_count"`
	EmphasisCount   int     `json:"emphasis_count"`
	EngagementCount int     `json:"engagement_count"`
	SectionCount    int     `json:"section_count"`
}

// Metrics are the supplementary vocabulary statistics.
type Metrics struct {
	VocabularyDiversity float64 `json:"vocabulary_diversity"`
	TechnicalTerms      int     `json:"technical_terms"`
	EngagementElements  int     `json:"engagement_elements"`
	EstimatedMinutes    float64 `json:"estimated_minutes"`
}

// Analysis is the full content evaluation of a transcript or script.
type Analysis struct {
	ContentScore      float64             `json:"content_score"`
	WordCount         int                 `json:"word_count"`
	SentenceCount     int                 `json:"sentence_count"`
	ParagraphCount    int                 `json:"paragraph_count"`
	AvgSentenceLength float64             `json:"average_sentence_length"`
	Structure         StructureAnalysis   `json:"structure_analysis"`
	Readability       ReadabilityAnalysis `json:"readability_analysis"`
	Coherence         CoherenceAnalysis   `json:"coherence_analysis"`
	Flow              FlowAnalysis        `json:"presentation_flow"`
	Metrics           Metrics             `json:"detailed_metrics"`
	Feedback          []string            `json:"feedback"`
}

// Analyze evaluates the text as presentation content. The language selects
// the transition-word lexicon and defaults to Spanish.
func Analyze(text, language string) Analysis {
	if _, ok := transitionWords[language]; !ok {
		language = "es"
	}

	words := tokenize(text)
	sentences := splitSentences(text)
	paragraphs := splitParagraphs(text)

	structure := analyzeStructure(text, language)
	readability := analyzeReadability(words, sentences)
	coherence := analyzeCoherence(text, sentences, words, language)
	flow := analyzeFlow(text)

	score := scoring.Round1(structure.Score*structureWeight +
		readability.Score*readabilityWeight +
		coherence.Score*coherenceWeight +
		flow.Score*flowWeight)

	avgLen := 0.0
	if len(sentences) > 0 {
		avgLen = float64(len(words)) / float64(len(sentences))
	}

	return Analysis{
		ContentScore:      score,
		WordCount:         len(words),
		SentenceCount:     len(sentences),
		ParagraphCount:    len(paragraphs),
		AvgSentenceLength: avgLen,
		Structure:         structure,
		Readability:       readability,
		Coherence:         coherence,
		Flow:              flow,
		Metrics: Metrics{
			VocabularyDiversity: vocabularyDiversity(words),
			TechnicalTerms:      technicalTerms(words),
			EngagementElements:  engagementElements(text),
			EstimatedMinutes:    scoring.Round1(float64(len(words)) / estimationWPM),
		},
		Feedback: contentFeedback(structure, readability, coherence, flow),
	}
}

// ScoreText wraps Analyze into the content sub-score used without a script.
func ScoreText(text, language string) entity.SubScore {
	a := Analyze(text, language)
	return entity.SubScore{
		Value: a.ContentScore,
		Components: map[string]float64{
			"structure_score":      a.Structure.Score,
			"readability_score":    a.Readability.Score,
			"coherence_score":      a.Coherence.Score,
			"flow_score":           a.Flow.Score,
			"word_count":           float64(a.WordCount),
			"vocabulary_diversity": a.Metrics.VocabularyDiversity,
		},
		Feedback: a.Feedback,
	}
}

func analyzeStructure(text, language string) StructureAnalysis {
	lower := strings.ToLower(text)
	score := 0.0

	runes := []rune(lower)

	head := lower
	if len(runes) > 200 {
		head = string(runes[:200])
	}
	hasIntro := containsAny(head, introKeywords)
	if hasIntro {
		score += 2
	}

	hasObjectives := containsAny(lower, objectiveKeywords)
	if hasObjectives {
		score += 2
	}

	tail := lower
	if len(runes) > 300 {
		tail = string(runes[len(runes)-300:])
	}
	hasConclusion := containsAny(tail, closingKeywords)
	if hasConclusion {
		score += 2
	}

	transitions := countPresent(lower, transitionWords[language])
	switch {
	case transitions >= 3:
		score += 2
	case transitions >= 1:
		score++
	}

	paragraphs := splitParagraphs(text)
	if len(paragraphs) >= 3 {
		score += 2
	}

	return StructureAnalysis{
		Score:           math.Min(10, score),
		HasIntroduction: hasIntro,
		HasObjectives:   hasObjectives,
		HasConclusion:   hasConclusion,
		TransitionCount: transitions,
		ParagraphCount:  len(paragraphs),
	}
}

func analyzeReadability(words, sentences []string) ReadabilityAnalysis {
	if len(words) == 0 || len(sentences) == 0 {
		return ReadabilityAnalysis{Level: "unknown"}
	}

	avgSentenceLength := float64(len(words)) / float64(len(sentences))

	syllables := 0
	for _, w := range words {
		syllables += countSyllables(w)
	}
	avgSyllables := float64(syllables) / float64(len(words))

	// Flesch reading ease, with the coefficients kept for Spanish text.
	flesch := 206.835 - 1.015*avgSentenceLength - 84.6*avgSyllables

	level := "very_difficult"
	for _, band := range []struct {
		min   float64
		level string
	}{
		{90, "very_easy"}, {80, "easy"}, {70, "fairly_easy"},
		{60, "standard"}, {50, "fairly_difficult"}, {30, "difficult"},
	} {
		if flesch >= band.min {
			level = band.level
			break
		}
	}

	return ReadabilityAnalysis{
		Score:               scoring.Round1(scoring.Clamp(flesch/10, 0, 10)),
		Level:               level,
		FleschScore:         scoring.Round1(flesch),
		AvgSentenceLength:   scoring.Round1(avgSentenceLength),
		AvgSyllablesPerWord: scoring.Round1(avgSyllables),
	}
}

func analyzeCoherence(text string, sentences, words []string, language string) CoherenceAnalysis {
	if len(sentences) < 2 {
		return CoherenceAnalysis{Score: 5}
	}

	connectors := transitionWords[language]
	connected := 0
	for _, s := range sentences {
		if containsAny(strings.ToLower(s), connectors) {
			connected++
		}
	}
	connectionRatio := float64(connected) / float64(len(sentences))
	score := connectionRatio * 4

	keyTerms := keyTermCount(words)
	switch {
	case keyTerms >= 3:
		score += 3
	case keyTerms >= 1:
		score++
	}

	sequences := countPresent(strings.ToLower(text), sequenceWords)
	if sequences >= 2 {
		score += 3
	}

	return CoherenceAnalysis{
		Score:              math.Min(10, score),
		ConnectionStrength: scoring.Round1(connectionRatio * 10),
		KeyTermCount:       keyTerms,
		SequenceIndicators: sequences,
	}
}

func analyzeFlow(text string) FlowAnalysis {
	lower := strings.ToLower(text)
	score := 0.0

	questions := strings.Count(text, "?")
	switch {
	case questions >= 2:
		score += 2
	case questions >= 1:
		score++
	}

	examples := countPresent(lower, exampleIndicators)
	if examples >= 2 {
		score += 2
	}

	emphasis := countPresent(lower, emphasisWords)
	if emphasis >= 2 {
		score += 2
	}

	engagement := countPresent(lower, engagementPhrases)
	if engagement >= 1 {
		score += 2
	}

	sections := countPresent(lower, sectionIndicators)
	if sections >= 2 {
		score += 2
	}

	return FlowAnalysis{
		Score:           math.Min(10, score),
		QuestionCount:   questions,
		ExampleCount:    examples,
		EmphasisCount:   emphasis,
		EngagementCount: engagement,
		SectionCount:    sections,
	}
}

func contentFeedback(structure StructureAnalysis, readability ReadabilityAnalysis, coherence CoherenceAnalysis, flow FlowAnalysis) []string {
	var fb []string

	switch {
	case structure.Score >= 8:
		fb = append(fb, "Excelente estructura de presentación con todos los elementos clave.")
	case structure.Score >= 6:
		fb = append(fb, "Buena estructura general, pero puedes mejorar algunos elementos.")
	default:
		fb = append(fb, "Mejora la estructura: incluye introducción clara, objetivos y conclusión.")
	}

	if !structure.HasIntroduction {
		fb = append(fb, "Agrega una introducción que capte la atención del público.")
	}
	if !structure.HasConclusion {
		fb = append(fb, "Incluye una conclusión sólida que resuma los puntos clave.")
	}
	if structure.TransitionCount < 2 {
		fb = append(fb, "Usa más palabras de transición para conectar tus ideas.")
	}

	switch {
	case readability.Score >= 7:
		fb = append(fb, "Tu texto tiene buena legibilidad y es fácil de seguir.")
	case readability.AvgSentenceLength > 20:
		fb = append(fb, "Acorta tus oraciones para mejorar la claridad.")
	case readability.AvgSentenceLength < 8:
		fb = append(fb, "Combina algunas oraciones cortas para mejor fluidez.")
	}

	if coherence.Score >= 7 {
		fb = append(fb, "Tu presentación mantiene buena coherencia y flujo lógico.")
	} else {
		fb = append(fb, "Mejora la conexión entre ideas usando más conectores lógicos.")
	}

	if flow.Score >= 7 {
		fb = append(fb, "Excelente uso de elementos que mantienen el interés del público.")
	} else {
		if flow.QuestionCount == 0 {
			fb = append(fb, "Incluye preguntas para involucrar más al público.")
		}
		if flow.ExampleCount < 1 {
			fb = append(fb, "Agrega ejemplos concretos para ilustrar tus puntos.")
		}
	}

	return fb
}

// tokenize lowercases the text and keeps word tokens longer than two runes.
func tokenize(text string) []string {
	raw := tokenRe.FindAllString(strings.ToLower(text), -1)
	words := make([]string, 0, len(raw))
	for _, tok := range raw {
		if len([]rune(tok)) > 2 {
			words = append(words, tok)
		}
	}
	return words
}

func splitSentences(text string) []string {
	var out []string
	for _, s := range sentenceRe.Split(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func splitParagraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// countSyllables approximates Spanish syllables as vowel clusters.
func countSyllables(word string) int {
	count := 0
	prevVowel := false
	for _, r := range strings.ToLower(word) {
		isVowel := strings.ContainsRune(spanishVowels, r)
		if isVowel && !prevVowel {
			count++
		}
		prevVowel = isVowel
	}
	if count < 1 {
		return 1
	}
	return count
}

// keyTermCount returns how many of the ten most frequent words recur and are
// longer than four runes.
func keyTermCount(words []string) int {
	freq := map[string]int{}
	for _, w := range words {
		freq[w]++
	}

	type wordFreq struct {
		word string
		n    int
	}
	ranked := make([]wordFreq, 0, len(freq))
	for w, n := range freq {
		ranked = append(ranked, wordFreq{w, n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].n != ranked[j].n {
			return ranked[i].n > ranked[j].n
		}
		return ranked[i].word < ranked[j].word
	})
	if len(ranked) > 10 {
		ranked = ranked[:10]
	}

	count := 0
	for _, wf := range ranked {
		if wf.n > 1 && len([]rune(wf.word)) > 4 {
			count++
		}
	}
	return count
}

func vocabularyDiversity(words []string) float64 {
	if len(words) == 0 {
		return 0
	}
	unique := map[string]struct{}{}
	for _, w := range words {
		unique[w] = struct{}{}
	}
	ttr := float64(len(unique)) / float64(len(words))
	return math.Round(ttr*1000) / 1000
}

// technicalTerms counts distinct words longer than seven runes.
func technicalTerms(words []string) int {
	long := map[string]struct{}{}
	for _, w := range words {
		if len([]rune(w)) > 7 {
			long[w] = struct{}{}
		}
	}
	return len(long)
}

func engagementElements(text string) int {
	lower := strings.ToLower(text)
	count := strings.Count(text, "?")
	count += countPresent(lower, directAddress)
	count += countPresent(lower, actionVerbs)
	return count
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

// countPresent counts lexicon entries present in the text, each at most once.
func countPresent(haystack string, needles []string) int {
	count := 0
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			count++
		}
	}
	return count
}
