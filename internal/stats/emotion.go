package stats

import "strings"

// emotionScores maps emotion labels to a 0-100 intensity scale used by the
// emotion trend and mood insights. Higher means a more favorable trading
// state of mind.
var emotionScores = map[string]float64{
	"confident":  85,
	"focused":    80,
	"excited":    75,
	"calm":       70,
	"hopeful":    60,
	"neutral":    50,
	"bored":      40,
	"greedy":     35,
	"tired":      35,
	"anxious":    30,
	"frustrated": 25,
	"fearful":    15,
	"angry":      10,
}

// EmotionScore maps an emotion label to its numeric score. The second
// return is false for labels outside the domain scale; entries carrying
// such labels are excluded from score-based statistics rather than being
// scored zero.
func EmotionScore(label string) (float64, bool) {
	score, ok := emotionScores[strings.ToLower(strings.TrimSpace(label))]
	return score, ok
}
