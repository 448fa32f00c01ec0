package classifier

import (
	"bytes"
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
	"github.com/sie-tools/eeat-mentions/internal/models"
)

var (
	markdownLinkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	bareURLPattern      = regexp.MustCompile(`https?://\S+|www\.\S+`)
)

// VaderClassifier labels snippets with a clearly negative VADER compound score as Uncertain
type VaderClassifier struct {
	analyzer  *govader.SentimentIntensityAnalyzer
	threshold float64
}

var _ Classifier = (*VaderClassifier)(nil)

// NewVaderClassifier creates a sentiment classifier. A compound score at or below
// -threshold is Uncertain; 0.2 matches the usual negative cut-off.
func NewVaderClassifier(threshold float64) *VaderClassifier {
	if threshold <= 0 {
		threshold = 0.20
	}
	return &VaderClassifier{
		analyzer:  govader.NewSentimentIntensityAnalyzer(),
		threshold: threshold,
	}
}

func (v *VaderClassifier) Name() string {
	return "vader"
}

func (v *VaderClassifier) Classify(ctx context.Context, snippet, referenceText string) (models.AccuracyLabel, error) {
	if v.Score(snippet) <= -v.threshold {
		return models.LabelUncertain, nil
	}
	return models.LabelCorrect, nil
}

// Score returns the VADER compound score of the snippet's plain text
func (v *VaderClassifier) Score(snippet string) float64 {
	return v.analyzer.PolarityScores(PlainText(snippet)).Compound
}

// PlainText renders markdown to text and drops links
func PlainText(input string) string {
	input = markdownLinkPattern.ReplaceAllString(input, "$1")

	html := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	text := string(html)
	if doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html)); err == nil {
		text = doc.Text()
	}

	text = bareURLPattern.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}
