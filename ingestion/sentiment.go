package ingestion

import (
	"strings"

	"github.com/jonreiter/govader"
)

// analyzer only reads its lexicon after construction and is shared by every
// goroutine that scores text.
var analyzer = govader.NewSentimentIntensityAnalyzer()

// Score returns the VADER compound polarity of text, in [-1, 1]. Text
// shorter than ten characters scores 0.
func Score(text string) float64 {
	text = strings.TrimSpace(text)
	if len(text) < 10 {
		return 0
	}
	return analyzer.PolarityScores(text).Compound
}
