package scoring

// Fixed fusion weights. Policy constants, not configurable per call.
const (
	voiceWeight  = 0.40
	bodyWeight   = 0.35
	facialWeight = 0.25

	voiceWeightWithContent   = 0.30
	bodyWeightWithContent    = 0.25
	facialWeightWithContent  = 0.20
	contentWeightWithContent = 0.25
)

// Fuse combines the three modality sub-scores into the overall score.
func Fuse(voice, body, facial float64) float64 {
	return Round1(voice*voiceWeight + body*bodyWeight + facial*facialWeight)
}

// FuseWithContent combines the four sub-scores of an advanced-mode analysis.
func FuseWithContent(voice, body, facial, content float64) float64 {
	return Round1(voice*voiceWeightWithContent +
		body*bodyWeightWithContent +
		facial*facialWeightWithContent +
		content*contentWeightWithContent)
}
