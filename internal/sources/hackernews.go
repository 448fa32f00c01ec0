package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sie-tools/eeat-mentions/internal/models"
)

const hackerNewsSearchBaseURL = "https://hn.algolia.com"

// HackerNewsSource searches Hacker News stories through the Algolia API
type HackerNewsSource struct {
	client *resty.Client
	limit  int
}

type hackerNewsSearchResponse struct {
	Hits []hackerNewsHit `json:"hits"`
}

type hackerNewsHit struct {
	ObjectID  string `json:"objectID"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	StoryText string `json:"story_text"`
	Author    string `json:"author"`
	CreatedAt string `json:"created_at"`
}

// NewHackerNewsSource creates a new Hacker News source
func NewHackerNewsSource() *HackerNewsSource {
	return &HackerNewsSource{
		client: resty.New().
			SetBaseURL(hackerNewsSearchBaseURL).
			SetTimeout(30*time.Second).
			SetHeader("User-Agent", userAgent),
		limit: 20,
	}
}

// SetBaseURL points the client at another endpoint
func (h *HackerNewsSource) SetBaseURL(baseURL string) *HackerNewsSource {
	h.client.SetBaseURL(baseURL)
	return h
}

func (h *HackerNewsSource) GetName() string {
	return "hackernews"
}

func (h *HackerNewsSource) IsEnabled() bool {
	return true // the search API doesn't require authentication
}

func (h *HackerNewsSource) Search(ctx context.Context, entity string, category models.MediaCategory) ([]models.SearchItem, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query":       entity,
			"tags":        "story",
			"hitsPerPage": fmt.Sprintf("%d", h.limit),
		}).
		Get("/api/v1/search_by_date")

	if err != nil {
		return nil, err
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("hacker news API returned status %d", resp.StatusCode())
	}

	var searchResp hackerNewsSearchResponse
	if err := json.Unmarshal(resp.Body(), &searchResp); err != nil {
		return nil, fmt.Errorf("failed to parse Hacker News response: %w", err)
	}

	items := make([]models.SearchItem, 0, len(searchResp.Hits))
	for _, hit := range searchResp.Hits {
		link := hit.URL
		// Ask HN and text posts have no external URL
		if link == "" && hit.ObjectID != "" {
			link = "https://news.ycombinator.com/item?id=" + hit.ObjectID
		}

		items = append(items, models.SearchItem{
			Title:         hit.Title,
			Link:          link,
			Snippet:       hit.StoryText,
			PublishedTime: hit.CreatedAt,
		})
	}

	return items, nil
}
