package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// MediaCategory is a configured bucket of media (industry press, social media, ...)
type MediaCategory string

// Categories used by the default configuration and the default scoring rules
const (
	CategoryIndustryNews    MediaCategory = "industry_news"
	CategoryMainstreamNews  MediaCategory = "mainstream_news"
	CategorySocialMedia     MediaCategory = "social_media"
	CategoryVideoSites      MediaCategory = "video_sites"
	CategoryEcommerceRetail MediaCategory = "ecommerce_retail"
)

// AccuracyLabel classifies whether a mention is consistent with the official information
type AccuracyLabel string

const (
	LabelCorrect   AccuracyLabel = "Correct"
	LabelUncertain AccuracyLabel = "Uncertain"
)

// Valid reports whether the label is one of the known values
func (l AccuracyLabel) Valid() bool {
	return l == LabelCorrect || l == LabelUncertain
}

// SentinelDate marks a mention whose publication time could not be parsed
var SentinelDate = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

// DateNotAvailable is how a sentinel date is rendered
const DateNotAvailable = "N/A"

const dateLayout = "2006-01-02"

// SearchItem is a raw search result as returned by a search adapter
type SearchItem struct {
	Title         string `json:"title" yaml:"title"`
	Link          string `json:"link" yaml:"link"`
	Snippet       string `json:"snippet" yaml:"snippet"`
	PublishedTime string `json:"published_time,omitempty" yaml:"published_time"`
}

// MentionRecord is a single mention of a searched entity in one media category
type MentionRecord struct {
	Title         string        `json:"title"`
	URL           string        `json:"url"`
	PublishedDate time.Time     `json:"-"`
	AccuracyLabel AccuracyLabel `json:"accuracy_check"`
	Snippet       string        `json:"snippet"`
	Category      MediaCategory `json:"type"`
	Entity        string        `json:"entity"` // brand or related entity that was searched
}

// HasDate reports whether the record carries a real publication date.
// The zero time counts as undated, like the sentinel.
func (m MentionRecord) HasDate() bool {
	return !m.PublishedDate.IsZero() && !m.PublishedDate.Equal(SentinelDate)
}

// DisplayDate renders the publication date, or "N/A" for the sentinel
func (m MentionRecord) DisplayDate() string {
	if !m.HasDate() {
		return DateNotAvailable
	}
	return m.PublishedDate.Format(dateLayout)
}

type mentionRecordJSON struct {
	Title         string        `json:"title"`
	URL           string        `json:"url"`
	Date          string        `json:"date"`
	AccuracyLabel AccuracyLabel `json:"accuracy_check"`
	Snippet       string        `json:"snippet,omitempty"`
	Category      MediaCategory `json:"type"`
	Entity        string        `json:"entity"`
}

func (m MentionRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(mentionRecordJSON{
		Title:         m.Title,
		URL:           m.URL,
		Date:          m.DisplayDate(),
		AccuracyLabel: m.AccuracyLabel,
		Snippet:       m.Snippet,
		Category:      m.Category,
		Entity:        m.Entity,
	})
}

func (m *MentionRecord) UnmarshalJSON(data []byte) error {
	var raw mentionRecordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	date := SentinelDate
	if raw.Date != "" && raw.Date != DateNotAvailable {
		parsed, err := time.Parse(dateLayout, raw.Date)
		if err != nil {
			return fmt.Errorf("invalid mention date %q: %w", raw.Date, err)
		}
		date = parsed
	}

	*m = MentionRecord{
		Title:         raw.Title,
		URL:           raw.URL,
		PublishedDate: date,
		AccuracyLabel: raw.AccuracyLabel,
		Snippet:       raw.Snippet,
		Category:      raw.Category,
		Entity:        raw.Entity,
	}
	return nil
}

// CategorySummary aggregates the mentions of one media category
type CategorySummary struct {
	Category      MediaCategory   `json:"type"`
	Count         int             `json:"count"`
	Weight        float64         `json:"weight"`
	LatestMention *MentionRecord  `json:"latest_mention"`
	Mentions      []MentionRecord `json:"-"` // sorted most recent first
}

// MediaAnalysis is the aggregator output
type MediaAnalysis struct {
	TotalMentions  int               `json:"total_mentions"`
	MentionsByType []CategorySummary `json:"mentions_by_type"`
}

// Summary returns the summary for a category
func (a MediaAnalysis) Summary(category MediaCategory) (CategorySummary, bool) {
	for _, s := range a.MentionsByType {
		if s.Category == category {
			return s, true
		}
	}
	return CategorySummary{}, false
}

// Count returns the number of mentions in a category, 0 when not configured
func (a MediaAnalysis) Count(category MediaCategory) int {
	s, _ := a.Summary(category)
	return s.Count
}

// RawMentions returns every category's sorted records keyed by category
func (a MediaAnalysis) RawMentions() map[MediaCategory][]MentionRecord {
	raw := make(map[MediaCategory][]MentionRecord, len(a.MentionsByType))
	for _, s := range a.MentionsByType {
		raw[s.Category] = s.Mentions
	}
	return raw
}

// ScoreBundle holds the four E-E-A-T sub-scores and their average
type ScoreBundle struct {
	Experience        int `json:"experience"`
	Expertise         int `json:"expertise"`
	Authoritativeness int `json:"authoritativeness"`
	Trustworthiness   int `json:"trustworthiness"`
	Overall           int `json:"overall_score"`
}

// PresenceResult is the outcome of an encyclopedia presence check
type PresenceResult struct {
	BrandFound           bool     `json:"brand_found"`
	RelatedEntitiesFound []string `json:"related_entities_found"`
}

// SiteAnalysis describes what was found on the brand website
type SiteAnalysis struct {
	URL                    string   `json:"url"`
	FinalURL               string   `json:"final_url"`
	StatusCode             int      `json:"status_code"`
	UsesHTTPS              bool     `json:"uses_https"`
	SocialPlatforms        []string `json:"social_platforms"`
	AITechnologyIndicators []string `json:"ai_technology_indicators"`
	AIContentSignals       []string `json:"ai_content_signals"`
	AILeaderScore          int      `json:"ai_leader_score"`
	AILeadershipPosition   string   `json:"ai_leadership_position"`
}

// Recommendation is a strategic suggestion derived from the scores
type Recommendation struct {
	Strategy            string   `json:"strategy"`
	Description         string   `json:"description"`
	Priority            string   `json:"priority"`
	Timeline            string   `json:"timeline"`
	ExpectedImpact      string   `json:"expected_impact"`
	ImplementationSteps []string `json:"implementation_steps"`
}

// Report represents the outcome of one analysis run
type Report struct {
	ID              string                            `json:"id"`
	GeneratedAt     time.Time                         `json:"generated_at"`
	Period          string                            `json:"period"` // "manual", "daily" or "weekly"
	Brand           string                            `json:"brand_name"`
	RelatedEntities []string                          `json:"related_entities"`
	Scores          ScoreBundle                       `json:"eeat_scores"`
	MediaAnalysis   MediaAnalysis                     `json:"media_analysis"`
	RawMentions     map[MediaCategory][]MentionRecord `json:"raw_mentions"`
	Presence        PresenceResult                    `json:"wiki_presence"`
	UsesHTTPS       bool                              `json:"uses_https"`
	Site            *SiteAnalysis                     `json:"site_analysis,omitempty"`
	Recommendations []Recommendation                  `json:"recommendations,omitempty"`
	PreviousOverall *int                              `json:"previous_overall_score,omitempty"`
	Warnings        []string                          `json:"warnings,omitempty"`
}

// Alert represents an urgent notification
type Alert struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"` // "critical", "urgent", "info"
	Brand     string         `json:"brand_name"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Mention   *MentionRecord `json:"mention,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// MarketPosition ranks a brand against its competitors
type MarketPosition string

const (
	PositionLeader  MarketPosition = "leader"
	PositionStrong  MarketPosition = "strong"
	PositionAverage MarketPosition = "average"
	PositionLaggard MarketPosition = "laggard"
	PositionUnknown MarketPosition = "unknown"
)

// BenchmarkEntry is one analysed brand in a benchmark. The site fields are
// only set when the website could be analysed.
type BenchmarkEntry struct {
	Name            string      `json:"name"`
	Website         string      `json:"website,omitempty"`
	Scores          ScoreBundle `json:"eeat_scores"`
	AILeaderScore   *int        `json:"ai_leader_score,omitempty"`
	SocialPlatforms []string    `json:"social_platforms,omitempty"`
	Error           string      `json:"error,omitempty"`
}

// NewBenchmarkEntry builds an entry from an analysis report
func NewBenchmarkEntry(name, website string, report *Report) BenchmarkEntry {
	entry := BenchmarkEntry{Name: name, Website: website, Scores: report.Scores}
	if report.Site != nil {
		score := report.Site.AILeaderScore
		entry.AILeaderScore = &score
		entry.SocialPlatforms = report.Site.SocialPlatforms
	}
	return entry
}

// BenchmarkResult compares a target brand with its competitors
type BenchmarkResult struct {
	GeneratedAt              time.Time        `json:"generated_at"`
	Target                   BenchmarkEntry   `json:"target"`
	Competitors              []BenchmarkEntry `json:"competitors"`
	MarketPosition           MarketPosition   `json:"market_position"`
	CompetitiveAdvantages    []string         `json:"competitive_advantages"`
	ImprovementOpportunities []string         `json:"improvement_opportunities"`
	Recommendations          []Recommendation `json:"strategic_recommendations"`
}
