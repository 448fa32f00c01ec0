package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sie-tools/eeat-mentions/internal/models"
	"github.com/sie-tools/eeat-mentions/internal/resilience/circuitbreaker"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const googleSearchBaseURL = "https://www.googleapis.com"

// DefaultCategoryQueries narrow a Google query to the sites of each media category
var DefaultCategoryQueries = map[models.MediaCategory]string{
	models.CategoryIndustryNews:    "(industry OR analysis OR technology) news",
	models.CategoryMainstreamNews:  "news",
	models.CategorySocialMedia:     "site:dcard.tw OR site:ptt.cc OR site:facebook.com OR site:reddit.com",
	models.CategoryVideoSites:      "site:youtube.com",
	models.CategoryEcommerceRetail: "site:shopee.tw OR site:momoshop.com.tw OR site:pchome.com.tw",
}

// GoogleSearch implements the Google Custom Search JSON API
type GoogleSearch struct {
	apiKey   string
	engineID string
	queries  map[models.MediaCategory]string
	client   *resty.Client
	limiter  *rate.Limiter
	breaker  *circuitbreaker.CircuitBreaker
}

type googleSearchResponse struct {
	Items []googleSearchItem `json:"items"`
}

type googleSearchItem struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
	Pagemap struct {
		Metatags []map[string]string `json:"metatags"`
	} `json:"pagemap"`
}

// NewGoogleSearch creates a new Google Custom Search source.
// queriesPerSecond bounds the request rate; zero disables the limit.
func NewGoogleSearch(apiKey, engineID string, queriesPerSecond float64) *GoogleSearch {
	limit := rate.Inf
	if queriesPerSecond > 0 {
		limit = rate.Limit(queriesPerSecond)
	}

	queries := make(map[models.MediaCategory]string, len(DefaultCategoryQueries))
	for category, q := range DefaultCategoryQueries {
		queries[category] = q
	}

	return &GoogleSearch{
		apiKey:   apiKey,
		engineID: engineID,
		queries:  queries,
		client: resty.New().
			SetBaseURL(googleSearchBaseURL).
			SetTimeout(30*time.Second).
			SetHeader("User-Agent", userAgent),
		limiter: rate.NewLimiter(limit, 1),
		breaker: circuitbreaker.New(circuitbreaker.SearchAPIConfig("google-search")),
	}
}

// SetBaseURL points the client at another endpoint
func (g *GoogleSearch) SetBaseURL(baseURL string) *GoogleSearch {
	g.client.SetBaseURL(baseURL)
	return g
}

// SetCategoryQuery overrides the query suffix used for a category
func (g *GoogleSearch) SetCategoryQuery(category models.MediaCategory, suffix string) {
	g.queries[category] = suffix
}

func (g *GoogleSearch) GetName() string {
	return "google"
}

func (g *GoogleSearch) IsEnabled() bool {
	return g.apiKey != "" && g.engineID != ""
}

func (g *GoogleSearch) Search(ctx context.Context, entity string, category models.MediaCategory) ([]models.SearchItem, error) {
	if !g.IsEnabled() {
		logrus.Debug("Google search disabled - missing API key or engine ID")
		return nil, nil
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed: %w", err)
	}

	result, err := g.breaker.Execute(func() (interface{}, error) {
		return g.query(ctx, g.buildQuery(entity, category))
	})
	if err != nil {
		return nil, fmt.Errorf("google search for %q in %s failed: %w", entity, category, err)
	}

	return result.([]models.SearchItem), nil
}

func (g *GoogleSearch) buildQuery(entity string, category models.MediaCategory) string {
	query := fmt.Sprintf("%q", entity)
	if suffix := strings.TrimSpace(g.queries[category]); suffix != "" {
		query += " " + suffix
	}
	return query
}

func (g *GoogleSearch) query(ctx context.Context, q string) ([]models.SearchItem, error) {
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"key": g.apiKey,
			"cx":  g.engineID,
			"q":   q,
			"num": "10",
		}).
		Get("/customsearch/v1")

	if err != nil {
		return nil, err
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("google search API returned status %d", resp.StatusCode())
	}

	var searchResp googleSearchResponse
	if err := json.Unmarshal(resp.Body(), &searchResp); err != nil {
		return nil, fmt.Errorf("failed to parse Google search response: %w", err)
	}

	items := make([]models.SearchItem, 0, len(searchResp.Items))
	for _, item := range searchResp.Items {
		items = append(items, models.SearchItem{
			Title:         item.Title,
			Link:          item.Link,
			Snippet:       item.Snippet,
			PublishedTime: publishedTime(item.Pagemap.Metatags),
		})
	}

	return items, nil
}

// publishedTime reads article:published_time from the first metatag block
func publishedTime(metatags []map[string]string) string {
	if len(metatags) == 0 {
		return ""
	}
	return metatags[0]["article:published_time"]
}
