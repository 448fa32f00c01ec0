package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sie-tools/eeat-mentions/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	redditAuthURL     = "https://www.reddit.com/api/v1/access_token"
	redditOAuthAPIURL = "https://oauth.reddit.com"
)

// RedditSource implements Reddit API search
type RedditSource struct {
	clientID     string
	clientSecret string
	authURL      string
	client       *resty.Client

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

type redditAuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type redditSearchResponse struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Selftext  string  `json:"selftext"`
	Subreddit string  `json:"subreddit"`
	Permalink string  `json:"permalink"`
	Created   float64 `json:"created_utc"`
}

// NewRedditSource creates a new Reddit source
func NewRedditSource(clientID, clientSecret string) *RedditSource {
	return &RedditSource{
		clientID:     clientID,
		clientSecret: clientSecret,
		authURL:      redditAuthURL,
		client: resty.New().
			SetBaseURL(redditOAuthAPIURL).
			SetTimeout(30*time.Second).
			SetHeader("User-Agent", userAgent),
	}
}

// SetEndpoints points the client at other auth and API endpoints
func (r *RedditSource) SetEndpoints(authURL, apiURL string) *RedditSource {
	r.authURL = authURL
	r.client.SetBaseURL(apiURL)
	return r
}

func (r *RedditSource) GetName() string {
	return "reddit"
}

func (r *RedditSource) IsEnabled() bool {
	return r.clientID != "" && r.clientSecret != ""
}

func (r *RedditSource) Search(ctx context.Context, entity string, category models.MediaCategory) ([]models.SearchItem, error) {
	if !r.IsEnabled() {
		logrus.Debug("Reddit source disabled - missing credentials")
		return nil, nil
	}

	token, err := r.token(ctx)
	if err != nil {
		return nil, fmt.Errorf("reddit authentication failed: %w", err)
	}

	resp, err := r.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParams(map[string]string{
			"q":     fmt.Sprintf("%q", entity),
			"sort":  "new",
			"limit": "25",
		}).
		Get("/search.json")

	if err != nil {
		return nil, err
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("reddit API returned status %d", resp.StatusCode())
	}

	var searchResp redditSearchResponse
	if err := json.Unmarshal(resp.Body(), &searchResp); err != nil {
		return nil, fmt.Errorf("failed to parse Reddit response: %w", err)
	}

	items := make([]models.SearchItem, 0, len(searchResp.Data.Children))
	for _, child := range searchResp.Data.Children {
		post := child.Data
		item := models.SearchItem{
			Title:   post.Title,
			Link:    "https://www.reddit.com" + post.Permalink,
			Snippet: post.Selftext,
		}
		if post.Created > 0 {
			item.PublishedTime = time.Unix(int64(post.Created), 0).UTC().Format(time.RFC3339)
		}
		items = append(items, item)
	}

	return items, nil
}

// token returns a cached application token, refreshing it shortly before expiry
func (r *RedditSource) token(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.accessToken != "" && time.Now().Before(r.expiresAt) {
		return r.accessToken, nil
	}

	resp, err := r.client.R().
		SetContext(ctx).
		SetBasicAuth(r.clientID, r.clientSecret).
		SetFormData(map[string]string{
			"grant_type": "client_credentials",
		}).
		Post(r.authURL)

	if err != nil {
		return "", err
	}

	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("reddit token endpoint returned status %d", resp.StatusCode())
	}

	var authResp redditAuthResponse
	if err := json.Unmarshal(resp.Body(), &authResp); err != nil {
		return "", err
	}
	if authResp.AccessToken == "" {
		return "", fmt.Errorf("reddit token endpoint returned no access token")
	}

	r.accessToken = authResp.AccessToken
	r.expiresAt = time.Now().Add(time.Duration(authResp.ExpiresIn)*time.Second - time.Minute)
	return r.accessToken, nil
}
