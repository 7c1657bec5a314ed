package sentiment

import (
	"sync"

	"github.com/jonreiter/govader"
)

var (
	sharedAnalyzer     *govader.SentimentIntensityAnalyzer
	sharedAnalyzerOnce sync.Once
)

// VaderEstimator scores text with the VADER compound score. Text without any
// lexicon or emoji hit scores 0, which is the case for most Japanese comments;
// the keyword tiers cover those.
type VaderEstimator struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVaderEstimator returns an estimator backed by a process-wide analyzer.
// Building the lexicon is not free, and the analyzer is read-only once built.
func NewVaderEstimator() *VaderEstimator {
	sharedAnalyzerOnce.Do(func() {
		sharedAnalyzer = govader.NewSentimentIntensityAnalyzer()
	})
	return &VaderEstimator{analyzer: sharedAnalyzer}
}

// Polarity implements PolarityEstimator
func (e *VaderEstimator) Polarity(text string) float64 {
	if text == "" {
		return 0
	}
	return e.analyzer.PolarityScores(text).Compound
}
