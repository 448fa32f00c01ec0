package sources

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/sie-tools/eeat-mentions/internal/models"
)

// ErrMalformedItem is returned for search items that cannot become a mention record
var ErrMalformedItem = errors.New("malformed search item")

// ParseDate reduces a source timestamp to its calendar day.
// Missing or unparseable timestamps yield models.SentinelDate.
func ParseDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return models.SentinelDate
	}

	parsed, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil {
		return models.SentinelDate
	}

	y, m, d := parsed.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ToRecord converts a raw search item into a mention record
func ToRecord(item models.SearchItem, entity string, category models.MediaCategory, label models.AccuracyLabel) (models.MentionRecord, error) {
	link := strings.TrimSpace(item.Link)
	if link == "" {
		return models.MentionRecord{}, fmt.Errorf("%w: item %q has no link", ErrMalformedItem, item.Title)
	}
	if !label.Valid() {
		return models.MentionRecord{}, fmt.Errorf("%w: unknown accuracy label %q", ErrMalformedItem, label)
	}

	return models.MentionRecord{
		Title:         strings.TrimSpace(item.Title),
		URL:           link,
		PublishedDate: ParseDate(item.PublishedTime),
		AccuracyLabel: label,
		Snippet:       item.Snippet,
		Category:      category,
		Entity:        entity,
	}, nil
}
