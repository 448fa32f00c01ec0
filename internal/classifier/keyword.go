package classifier

import (
	"context"
	"strings"

	"github.com/sie-tools/eeat-mentions/internal/models"
)

// DefaultNegativeKeywords mark a snippet as Uncertain
var DefaultNegativeKeywords = []string{
	"過熱", "災情", "下跌", "電池續航力沒有想像中好",
	"overheating", "recall", "lawsuit", "outage", "shares fell", "worse than expected", "complaint",
}

// KeywordClassifier is a deterministic stand-in for a language model.
// A snippet containing any negative keyword is Uncertain, everything else is Correct.
type KeywordClassifier struct {
	negative []string
}

var _ Classifier = (*KeywordClassifier)(nil)

// NewKeywordClassifier creates a keyword classifier; nil keywords select the defaults
func NewKeywordClassifier(negative []string) *KeywordClassifier {
	if negative == nil {
		negative = DefaultNegativeKeywords
	}
	lowered := make([]string, 0, len(negative))
	for _, kw := range negative {
		if kw = strings.TrimSpace(kw); kw != "" {
			lowered = append(lowered, strings.ToLower(kw))
		}
	}
	return &KeywordClassifier{negative: lowered}
}

func (k *KeywordClassifier) Name() string {
	return "keyword"
}

func (k *KeywordClassifier) Classify(ctx context.Context, snippet, referenceText string) (models.AccuracyLabel, error) {
	content := strings.ToLower(snippet)
	for _, kw := range k.negative {
		if strings.Contains(content, kw) {
			return models.LabelUncertain, nil
		}
	}
	return models.LabelCorrect, nil
}
