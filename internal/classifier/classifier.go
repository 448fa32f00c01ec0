// Package classifier labels a mention snippet as consistent with the brand's
// official information (Correct) or not (Uncertain).
package classifier

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/sie-tools/eeat-mentions/internal/models"
)

// ErrUnparseableLabel is returned when a model answer is neither label
var ErrUnparseableLabel = errors.New("unparseable accuracy label")

// Classifier decides whether a snippet agrees with the reference text.
// Implementations only ever return models.LabelCorrect or models.LabelUncertain.
type Classifier interface {
	Name() string
	Classify(ctx context.Context, snippet, referenceText string) (models.AccuracyLabel, error)
}

const maxSnippetChars = 2000

func buildPrompt(snippet, referenceText string) string {
	if runes := []rune(snippet); len(runes) > maxSnippetChars {
		snippet = string(runes[:maxSnippetChars])
	}
	return fmt.Sprintf(`You verify media coverage against a brand's official information.

Official information:
%s

Media snippet:
%s

Answer with exactly one word: "Correct" if the snippet is consistent with the official information,
or "Uncertain" if it contradicts it, reports problems, or cannot be verified.`, referenceText, snippet)
}

var (
	uncertainWords = map[string]bool{"uncertain": true, "incorrect": true, "inaccurate": true, "wrong": true}
	negationWords  = map[string]bool{"not": true, "no": true, "never": true, "cannot": true, "isn": true, "doesn": true}
)

// parseLabel maps a free text model answer onto the closed label set.
// A negated "correct" counts as Uncertain.
func parseLabel(answer string) (models.AccuracyLabel, error) {
	words := strings.FieldsFunc(strings.ToLower(answer), func(r rune) bool {
		return !unicode.IsLetter(r)
	})

	var correct, uncertain, negated bool
	for _, word := range words {
		switch {
		case uncertainWords[word]:
			uncertain = true
		case word == "correct" || word == "accurate":
			correct = true
		case negationWords[word]:
			negated = true
		}
	}

	switch {
	case uncertain, correct && negated:
		return models.LabelUncertain, nil
	case correct:
		return models.LabelCorrect, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnparseableLabel, answer)
	}
}
