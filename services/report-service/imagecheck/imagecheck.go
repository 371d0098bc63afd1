// Package imagecheck decides whether uploaded photo evidence looks related
// to pollution. The actual image model lives behind the Classifier
// interface; this package only consumes its label output.
package imagecheck

import (
	"context"
	"strings"
)

// Label is one prediction from an image classifier.
type Label struct {
	Name        string  `json:"name"`
	Probability float64 `json:"probability"`
}

// Classifier produces labeled predictions for raw image bytes.
type Classifier interface {
	ClassifyImage(ctx context.Context, image []byte) ([]Label, error)
}

// defaultKeywords are the label substrings treated as pollution evidence.
var defaultKeywords = []string{"smoke", "waste", "pollution"}

// RelevanceChecker matches classifier labels against pollution keywords.
type RelevanceChecker struct {
	keywords []string
}

func NewRelevanceChecker(keywords []string) RelevanceChecker {
	normalized := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		normalized = append(normalized, k)
	}
	if len(normalized) == 0 {
		normalized = defaultKeywords
	}
	return RelevanceChecker{keywords: normalized}
}

// Relevant reports whether any label name contains a pollution keyword.
func (c RelevanceChecker) Relevant(labels []Label) bool {
	for _, label := range labels {
		lower := strings.ToLower(label.Name)
		for _, keyword := range c.keywords {
			if strings.Contains(lower, keyword) {
				return true
			}
		}
	}
	return false
}
