package emotion

import (
	"errors"
	"strings"

	model "github.com/ecoute-app/ecoute/backend/internal/model/emotion"
)

// ErrInvalidInput is returned for empty or whitespace-only text.
var ErrInvalidInput = errors.New("text is required")

type bucket struct {
	label    model.Label
	keywords []string
}

// Classifier maps free text onto at most one catalog emotion.
type Classifier struct {
	buckets []bucket
}

// NewClassifier snapshots the catalog entries in declaration order.
func NewClassifier(catalog *model.Catalog) *Classifier {
	entries := catalog.Entries()
	buckets := make([]bucket, len(entries))
	for i, entry := range entries {
		buckets[i] = bucket{label: entry.Label, keywords: entry.Keywords}
	}
	return &Classifier{buckets: buckets}
}

// Classify lowercases text and returns the label of the first catalog entry
// with a keyword occurring anywhere in it, or model.None.
//
// Matching is on raw substrings, not words: a keyword embedded in a longer
// unrelated word still counts. Accents and punctuation are kept as typed.
func (c *Classifier) Classify(text string) (model.Label, error) {
	if strings.TrimSpace(text) == "" {
		return model.None, ErrInvalidInput
	}

	normalized := strings.ToLower(text)
	for _, b := range c.buckets {
		for _, keyword := range b.keywords {
			if strings.Contains(normalized, keyword) {
				return b.label, nil
			}
		}
	}
	return model.None, nil
}
