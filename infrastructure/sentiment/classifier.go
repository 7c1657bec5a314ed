package sentiment

import (
	"math"
	"strings"
	"unicode"

	"comment-insight/domain/model"
)

const (
	baseThreshold     = 0.05
	fallbackThreshold = 0.02

	strongFloor   = 0.3
	mixedFloor    = 0.2
	ordinaryFloor = 0.1
	ordinaryGuard = 0.1

	// more than this many neutral expressions halves the ordinary keyword weight
	neutralDampenAbove = 2
)

// PolarityEstimator scores free text in [-1, 1]
type PolarityEstimator interface {
	Polarity(text string) float64
}

// Classifier labels comment bodies by combining a base polarity estimate with
// keyword tiers. Strong keywords win over ordinary keywords, which win over the
// raw estimate.
type Classifier struct {
	estimator PolarityEstimator
	keywords  Keywords
}

// NewClassifier returns a classifier using the default keyword tiers.
// A nil estimator falls back to the VADER estimator.
func NewClassifier(estimator PolarityEstimator) *Classifier {
	if estimator == nil {
		estimator = NewVaderEstimator()
	}
	return &Classifier{estimator: estimator, keywords: DefaultKeywords()}
}

// WithKeywords swaps the keyword tiers
func (c *Classifier) WithKeywords(k Keywords) *Classifier {
	c.keywords = k
	return c
}

// Classify returns the adjusted score and label for text
func (c *Classifier) Classify(text string) model.Sentiment {
	score := clamp(c.estimator.Polarity(text))
	label := labelFor(score, baseThreshold)

	clean := normalize(text)
	strongPos := countHits(clean, c.keywords.StrongPositive)
	strongNeg := countHits(clean, c.keywords.StrongNegative)

	switch {
	case strongPos > 0 && strongNeg == 0:
		return model.Sentiment{Score: math.Max(score, strongFloor), Label: model.SentimentPositive}
	case strongNeg > 0 && strongPos == 0:
		return model.Sentiment{Score: math.Min(score, -strongFloor), Label: model.SentimentNegative}
	case strongPos > 0 && strongNeg > 0:
		// equal strong counts resolve to negative
		if strongPos > strongNeg {
			return model.Sentiment{Score: math.Max(score, mixedFloor), Label: model.SentimentPositive}
		}
		return model.Sentiment{Score: math.Min(score, -mixedFloor), Label: model.SentimentNegative}
	}

	pos := float64(countHits(clean, c.keywords.Positive))
	neg := float64(countHits(clean, c.keywords.Negative))
	if countHits(clean, c.keywords.NeutralExpressions) > neutralDampenAbove {
		pos *= 0.5
		neg *= 0.5
	}

	switch {
	case pos > neg && pos > 0:
		if score >= -ordinaryGuard {
			return model.Sentiment{Score: math.Max(score, ordinaryFloor), Label: model.SentimentPositive}
		}
	case neg > pos && neg > 0:
		if score <= ordinaryGuard {
			return model.Sentiment{Score: math.Min(score, -ordinaryFloor), Label: model.SentimentNegative}
		}
	default:
		label = labelFor(score, fallbackThreshold)
	}

	return model.Sentiment{Score: score, Label: label}
}

func labelFor(score, threshold float64) model.SentimentLabel {
	switch {
	case score > threshold:
		return model.SentimentPositive
	case score < -threshold:
		return model.SentimentNegative
	default:
		return model.SentimentNeutral
	}
}

// normalize lowercases text and strips every Unicode space, ideographic space included
func normalize(text string) string {
	lower := strings.ToLower(text)
	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// countHits counts keywords contained in text; each keyword counts at most once
func countHits(text string, keywords []string) int {
	n := 0
	for _, k := range keywords {
		if strings.Contains(text, k) {
			n++
		}
	}
	return n
}

func clamp(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(-1, math.Min(1, v))
}
