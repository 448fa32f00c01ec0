package sources

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/sie-tools/eeat-mentions/internal/models"
	"gopkg.in/yaml.v3"
)

// FixtureSearcher serves canned search results, keyed by entity then category.
// Titles, links and snippets may contain "{entity}", replaced with the searched entity.
type FixtureSearcher struct {
	byEntity map[string]map[models.MediaCategory][]models.SearchItem
	fallback map[models.MediaCategory][]models.SearchItem
}

// NewFixtureSearcher creates a fixture searcher. The fallback set answers entities with no own entry.
func NewFixtureSearcher(byEntity map[string]map[models.MediaCategory][]models.SearchItem, fallback map[models.MediaCategory][]models.SearchItem) *FixtureSearcher {
	return &FixtureSearcher{byEntity: byEntity, fallback: fallback}
}

// DefaultFixtureSearcher answers every entity from the built-in sample catalog
func DefaultFixtureSearcher() *FixtureSearcher {
	return NewFixtureSearcher(nil, sampleCatalog)
}

type fixtureFile struct {
	Default  map[models.MediaCategory][]models.SearchItem            `yaml:"default"`
	Entities map[string]map[models.MediaCategory][]models.SearchItem `yaml:"entities"`
}

// LoadFixtures reads a YAML (or JSON) fixtures file
func LoadFixtures(path string) (*FixtureSearcher, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures file: %w", err)
	}

	var file fixtureFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures file %s: %w", path, err)
	}

	return NewFixtureSearcher(file.Entities, file.Default), nil
}

func (f *FixtureSearcher) GetName() string {
	return "fixture"
}

func (f *FixtureSearcher) IsEnabled() bool {
	return true
}

func (f *FixtureSearcher) Search(ctx context.Context, entity string, category models.MediaCategory) ([]models.SearchItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	templates, ok := f.byEntity[entity][category]
	if !ok {
		templates = f.fallback[category]
	}

	items := make([]models.SearchItem, 0, len(templates))
	for _, tmpl := range templates {
		items = append(items, models.SearchItem{
			Title:         expand(tmpl.Title, entity),
			Link:          strings.ReplaceAll(tmpl.Link, "{entity}", url.PathEscape(strings.ToLower(entity))),
			Snippet:       expand(tmpl.Snippet, entity),
			PublishedTime: tmpl.PublishedTime,
		})
	}
	return items, nil
}

func expand(s, entity string) string {
	if !strings.Contains(s, "{entity}") {
		return s
	}
	return strings.ReplaceAll(s, "{entity}", entity)
}

// sampleCatalog is a small result set for offline runs
var sampleCatalog = map[models.MediaCategory][]models.SearchItem{
	models.CategoryIndustryNews: {
		{
			Title:         "{entity} launches revolutionary flagship product, setting a new industry standard",
			Link:          "https://news.example-industry.com/{entity}/product-launch",
			Snippet:       "{entity} announced its new flagship built on the latest AI chip with a 200% performance gain.",
			PublishedTime: "2025-07-01T10:00:00Z",
		},
		{
			Title:         "Expert analysis: how {entity}'s market strategy disrupts the status quo",
			Link:          "https://analysis.example-industry.com/{entity}/strategy",
			Snippet:       "Analysts point to {entity}'s diversification into green energy as a sign of strong ambition.",
			PublishedTime: "2025-06-15T14:30:00Z",
		},
	},
	models.CategoryMainstreamNews: {
		{
			Title:         "{entity} named best employer for the third year running",
			Link:          "https://mainstream.example.com/{entity}/best-employer-2025",
			Snippet:       "A well known HR consultancy listed {entity} among this year's best employers for its benefits and culture.",
			PublishedTime: "2025-05-20T11:00:00Z",
		},
		{
			Title:         "{entity} shares move slightly today",
			Link:          "https://finance.example.com/{entity}/stock-today",
			Snippet:       "Following international markets, {entity} shares fell 0.5% at the close, seen as a normal technical pullback.",
			PublishedTime: "2025-07-02T08:00:00Z",
		},
		{
			Title:         "Consumer report: {entity} customer service satisfaction survey",
			Link:          "https://consumer.example.com/{entity}/service-review",
			Snippet:       "About 5% of users reported overheating under certain conditions; {entity} said a software update will follow.",
			PublishedTime: "2025-06-10T18:00:00Z",
		},
	},
	models.CategorySocialMedia: {
		{
			Title:         "Forum users rave about {entity}'s new features, great value!",
			Link:          "https://social.example.com/{entity}/p/123456789",
			Snippet:       "Just picked up {entity}'s new product, it runs smoothly and looks great. What do you all think?",
			PublishedTime: "2025-06-28T22:15:00Z",
		},
		{
			Title:         "{entity} product issues thread?",
			Link:          "https://board.example.com/{entity}/M.1234567890",
			Snippet:       "Used my {entity} product for a week and the battery life is worse than expected, anyone else?",
			PublishedTime: "2025-06-25T13:00:00Z",
		},
	},
	models.CategoryVideoSites: {
		{
			Title:         "{entity} flagship in-depth unboxing! Is it worth buying?",
			Link:          "https://video.example.com/{entity}/watch/abcdef123",
			Snippet:       "We got early access to {entity}'s flagship and tested everything from design to performance.",
			PublishedTime: "2025-06-20T20:00:00Z",
		},
	},
	models.CategoryEcommerceRetail: {},
}
