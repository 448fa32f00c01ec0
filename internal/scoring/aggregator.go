// Package scoring aggregates media mentions per category and folds them into
// E-E-A-T scores. Everything here is a pure function of its inputs.
package scoring

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sie-tools/eeat-mentions/internal/models"
)

// ErrUnknownCategory is returned when mentions are supplied for a category that has no configured weight
var ErrUnknownCategory = errors.New("mentions for unconfigured media category")

// Aggregate groups mentions into one summary per configured category, in configuration order.
// Configured categories without data yield an empty summary. The input slices are not modified.
func Aggregate(mentions map[models.MediaCategory][]models.MentionRecord, weights models.CategoryWeights) (models.MediaAnalysis, error) {
	var unknown []string
	for category := range mentions {
		if _, ok := weights.Lookup(category); !ok {
			unknown = append(unknown, string(category))
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return models.MediaAnalysis{}, fmt.Errorf("%w: %s", ErrUnknownCategory, strings.Join(unknown, ", "))
	}

	analysis := models.MediaAnalysis{
		MentionsByType: make([]models.CategorySummary, 0, len(weights)),
	}

	for _, cw := range weights {
		summary := summarize(cw, mentions[cw.Category])
		analysis.TotalMentions += summary.Count
		analysis.MentionsByType = append(analysis.MentionsByType, summary)
	}

	return analysis, nil
}

func summarize(cw models.CategoryWeight, records []models.MentionRecord) models.CategorySummary {
	summary := models.CategorySummary{
		Category: cw.Category,
		Count:    len(records),
		Weight:   cw.Weight,
	}
	if len(records) == 0 {
		return summary
	}

	sorted := make([]models.MentionRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return newerThan(sorted[i], sorted[j])
	})

	latest := sorted[0]
	summary.LatestMention = &latest
	summary.Mentions = sorted
	return summary
}

// newerThan orders dated records before undated ones, then by date descending
func newerThan(a, b models.MentionRecord) bool {
	if a.HasDate() != b.HasDate() {
		return a.HasDate()
	}
	if !a.HasDate() {
		return false
	}
	return a.PublishedDate.After(b.PublishedDate)
}
