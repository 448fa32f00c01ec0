package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sie-tools/eeat-mentions/internal/models"
	"github.com/sirupsen/logrus"
)

const youTubeBaseURL = "https://www.googleapis.com"

// YouTubeSource implements YouTube Data API search
type YouTubeSource struct {
	apiKey string
	client *resty.Client
}

type youTubeSearchResponse struct {
	Items []youTubeVideo `json:"items"`
}

type youTubeVideo struct {
	ID struct {
		VideoID string `json:"videoId"`
	} `json:"id"`
	Snippet struct {
		Title        string `json:"title"`
		Description  string `json:"description"`
		ChannelTitle string `json:"channelTitle"`
		PublishedAt  string `json:"publishedAt"`
	} `json:"snippet"`
}

// NewYouTubeSource creates a new YouTube source
func NewYouTubeSource(apiKey string) *YouTubeSource {
	return &YouTubeSource{
		apiKey: apiKey,
		client: resty.New().
			SetBaseURL(youTubeBaseURL).
			SetTimeout(30*time.Second).
			SetHeader("User-Agent", userAgent),
	}
}

// SetBaseURL points the client at another endpoint
func (y *YouTubeSource) SetBaseURL(baseURL string) *YouTubeSource {
	y.client.SetBaseURL(baseURL)
	return y
}

func (y *YouTubeSource) GetName() string {
	return "youtube"
}

func (y *YouTubeSource) IsEnabled() bool {
	return y.apiKey != ""
}

func (y *YouTubeSource) Search(ctx context.Context, entity string, category models.MediaCategory) ([]models.SearchItem, error) {
	if !y.IsEnabled() {
		logrus.Debug("YouTube source disabled - missing API key")
		return nil, nil
	}

	resp, err := y.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"part":       "snippet",
			"q":          entity,
			"type":       "video",
			"order":      "date",
			"maxResults": "25",
			"key":        y.apiKey,
		}).
		Get("/youtube/v3/search")

	if err != nil {
		return nil, err
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("youtube API returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	var searchResp youTubeSearchResponse
	if err := json.Unmarshal(resp.Body(), &searchResp); err != nil {
		return nil, fmt.Errorf("failed to parse YouTube response: %w", err)
	}

	items := make([]models.SearchItem, 0, len(searchResp.Items))
	for _, video := range searchResp.Items {
		if video.ID.VideoID == "" {
			continue
		}
		items = append(items, models.SearchItem{
			Title:         video.Snippet.Title,
			Link:          "https://www.youtube.com/watch?v=" + video.ID.VideoID,
			Snippet:       video.Snippet.Description,
			PublishedTime: video.Snippet.PublishedAt,
		})
	}

	return items, nil
}
