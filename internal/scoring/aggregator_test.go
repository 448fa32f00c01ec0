package scoring

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sie-tools/eeat-mentions/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultWeights() models.CategoryWeights {
	return models.CategoryWeights{
		{Category: models.CategoryIndustryNews, Weight: 10},
		{Category: models.CategoryMainstreamNews, Weight: 8},
		{Category: models.CategorySocialMedia, Weight: 5},
		{Category: models.CategoryVideoSites, Weight: 5},
		{Category: models.CategoryEcommerceRetail, Weight: 2},
	}
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func mention(category models.MediaCategory, title, date string, label models.AccuracyLabel) models.MentionRecord {
	published := models.SentinelDate
	if date != "" {
		published = day(date)
	}
	return models.MentionRecord{
		Title:         title,
		URL:           "https://example.com/" + title,
		PublishedDate: published,
		AccuracyLabel: label,
		Category:      category,
		Entity:        "Brand A",
	}
}

func TestAggregate_OrderFollowsConfiguration(t *testing.T) {
	weights := models.CategoryWeights{
		{Category: models.CategoryVideoSites, Weight: 5},
		{Category: models.CategoryIndustryNews, Weight: 10},
		{Category: models.CategoryEcommerceRetail, Weight: 2},
	}
	input := map[models.MediaCategory][]models.MentionRecord{
		models.CategoryIndustryNews: {
			mention(models.CategoryIndustryNews, "launch", "2025-07-01", models.LabelCorrect),
			mention(models.CategoryIndustryNews, "strategy", "2025-06-15", models.LabelCorrect),
		},
		models.CategoryVideoSites: {
			mention(models.CategoryVideoSites, "unboxing", "2025-06-20", models.LabelCorrect),
		},
	}

	analysis, err := Aggregate(input, weights)
	require.NoError(t, err)

	require.Len(t, analysis.MentionsByType, 3)
	assert.Equal(t, 3, analysis.TotalMentions)

	assert.Equal(t, models.CategoryVideoSites, analysis.MentionsByType[0].Category)
	assert.Equal(t, 1, analysis.MentionsByType[0].Count)
	assert.Equal(t, 5.0, analysis.MentionsByType[0].Weight)

	assert.Equal(t, models.CategoryIndustryNews, analysis.MentionsByType[1].Category)
	assert.Equal(t, 2, analysis.MentionsByType[1].Count)
	require.NotNil(t, analysis.MentionsByType[1].LatestMention)
	assert.Equal(t, "launch", analysis.MentionsByType[1].LatestMention.Title)

	assert.Equal(t, models.CategoryEcommerceRetail, analysis.MentionsByType[2].Category)
	assert.Equal(t, 0, analysis.MentionsByType[2].Count)
	assert.Nil(t, analysis.MentionsByType[2].LatestMention)
}

func TestAggregate_UnknownCategoryIsAnError(t *testing.T) {
	input := map[models.MediaCategory][]models.MentionRecord{
		"podcasts": {mention("podcasts", "episode", "2025-01-01", models.LabelCorrect)},
	}

	_, err := Aggregate(input, defaultWeights())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownCategory))
	assert.Contains(t, err.Error(), "podcasts")
}

func TestAggregate_MissingAndEmptyCategoriesAreEquivalent(t *testing.T) {
	missing, err := Aggregate(map[models.MediaCategory][]models.MentionRecord{}, defaultWeights())
	require.NoError(t, err)

	empty, err := Aggregate(map[models.MediaCategory][]models.MentionRecord{
		models.CategoryEcommerceRetail: {},
	}, defaultWeights())
	require.NoError(t, err)

	assert.Equal(t, missing, empty)
	for _, summary := range missing.MentionsByType {
		assert.Equal(t, 0, summary.Count)
		assert.Nil(t, summary.LatestMention)
	}
	assert.Equal(t, 0, missing.TotalMentions)
}

func TestAggregate_CountZeroIffNoLatestMention(t *testing.T) {
	input := map[models.MediaCategory][]models.MentionRecord{
		models.CategorySocialMedia: {mention(models.CategorySocialMedia, "post", "", models.LabelCorrect)},
	}

	analysis, err := Aggregate(input, defaultWeights())
	require.NoError(t, err)

	for _, summary := range analysis.MentionsByType {
		assert.Equal(t, summary.Count == 0, summary.LatestMention == nil, string(summary.Category))
	}
}

func TestAggregate_LatestMentionTieKeepsSourceOrder(t *testing.T) {
	input := map[models.MediaCategory][]models.MentionRecord{
		models.CategoryMainstreamNews: {
			mention(models.CategoryMainstreamNews, "older", "2025-05-20", models.LabelCorrect),
			mention(models.CategoryMainstreamNews, "first-on-day", "2025-07-02", models.LabelCorrect),
			mention(models.CategoryMainstreamNews, "second-on-day", "2025-07-02", models.LabelUncertain),
		},
	}

	analysis, err := Aggregate(input, defaultWeights())
	require.NoError(t, err)

	summary, ok := analysis.Summary(models.CategoryMainstreamNews)
	require.True(t, ok)
	require.NotNil(t, summary.LatestMention)
	assert.Equal(t, "first-on-day", summary.LatestMention.Title)

	titles := make([]string, 0, len(summary.Mentions))
	for _, m := range summary.Mentions {
		titles = append(titles, m.Title)
	}
	assert.Equal(t, []string{"first-on-day", "second-on-day", "older"}, titles)
}

func TestAggregate_SentinelDateSortsOldest(t *testing.T) {
	tests := []struct {
		name     string
		records  []models.MentionRecord
		expected string
	}{
		{
			name: "undated before dated",
			records: []models.MentionRecord{
				mention(models.CategorySocialMedia, "undated", "", models.LabelCorrect),
				mention(models.CategorySocialMedia, "dated", "2024-01-01", models.LabelCorrect),
			},
			expected: "dated",
		},
		{
			name: "undated against a pre-1970 date",
			records: []models.MentionRecord{
				mention(models.CategorySocialMedia, "undated", "", models.LabelCorrect),
				mention(models.CategorySocialMedia, "archive", "1965-03-01", models.LabelCorrect),
			},
			expected: "archive",
		},
		{
			name: "zero time is undated",
			records: []models.MentionRecord{
				{Title: "zero", Category: models.CategorySocialMedia},
				mention(models.CategorySocialMedia, "dated", "2024-01-01", models.LabelCorrect),
			},
			expected: "dated",
		},
		{
			name: "undated records keep source order",
			records: []models.MentionRecord{
				{Title: "zero", Category: models.CategorySocialMedia},
				mention(models.CategorySocialMedia, "undated", "", models.LabelCorrect),
			},
			expected: "zero",
		},
		{
			name: "only undated",
			records: []models.MentionRecord{
				mention(models.CategorySocialMedia, "undated", "", models.LabelCorrect),
			},
			expected: "undated",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis, err := Aggregate(map[models.MediaCategory][]models.MentionRecord{
				models.CategorySocialMedia: tt.records,
			}, defaultWeights())
			require.NoError(t, err)

			summary, _ := analysis.Summary(models.CategorySocialMedia)
			require.NotNil(t, summary.LatestMention)
			assert.Equal(t, tt.expected, summary.LatestMention.Title)
		})
	}
}

func TestAggregate_IsIdempotentAndDoesNotMutateInput(t *testing.T) {
	records := []models.MentionRecord{
		mention(models.CategoryIndustryNews, "b", "2025-06-15", models.LabelCorrect),
		mention(models.CategoryIndustryNews, "undated", "", models.LabelCorrect),
		mention(models.CategoryIndustryNews, "a", "2025-07-01", models.LabelCorrect),
	}
	original := make([]models.MentionRecord, len(records))
	copy(original, records)

	input := map[models.MediaCategory][]models.MentionRecord{models.CategoryIndustryNews: records}

	first, err := Aggregate(input, defaultWeights())
	require.NoError(t, err)
	second, err := Aggregate(input, defaultWeights())
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second aggregation differs (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(original, records); diff != "" {
		t.Errorf("input records were mutated (-want +got):\n%s", diff)
	}
}

func TestAggregate_KeepsEntityAttribution(t *testing.T) {
	brand := mention(models.CategoryVideoSites, "brand-video", "2025-06-20", models.LabelCorrect)
	product := mention(models.CategoryVideoSites, "product-video", "2025-06-21", models.LabelCorrect)
	product.Entity = "Product B"

	analysis, err := Aggregate(map[models.MediaCategory][]models.MentionRecord{
		models.CategoryVideoSites: {brand, product},
	}, defaultWeights())
	require.NoError(t, err)

	summary, _ := analysis.Summary(models.CategoryVideoSites)
	require.NotNil(t, summary.LatestMention)
	assert.Equal(t, "Product B", summary.LatestMention.Entity)
	assert.Equal(t, "Brand A", summary.Mentions[1].Entity)
}
