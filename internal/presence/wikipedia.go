package presence

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
)

// Wikipedia checks page existence through the MediaWiki query API
type Wikipedia struct {
	client   *resty.Client
	language string
	variant  string
	breaker  *circuitbreaker.CircuitBreaker
}

var _ Checker = (*Wikipedia)(nil)

type wikiQueryResponse struct {
	Query struct {
		Pages []struct {
			PageID  int    `json:"pageid"`
			Title   string `json:"title"`
			Missing bool   `json:"missing"`
			Invalid bool   `json:"invalid"`
		} `json:"pages"`
	} `json:"query"`
}

// NewWikipedia creates a checker for the given language edition (e.g. "zh") and
// optional script variant (e.g. "zh-tw"). Wikimedia requires a descriptive user agent.
func NewWikipedia(language, variant, userAgent string) *Wikipedia {
	if language == "" {
		language = "zh"
	}
	return &Wikipedia{
		client: resty.New().
			SetBaseURL(fmt.Sprintf("https://%s.wikipedia.org", language)).
			SetTimeout(15*time.Second).
			SetHeader("User-Agent", userAgent),
		language: language,
		variant:  variant,
		breaker:  circuitbreaker.New(circuitbreaker.DefaultConfig("wikipedia")),
	}
}

// SetBaseURL points the client at another MediaWiki endpoint
func (w *Wikipedia) SetBaseURL(baseURL string) *Wikipedia {
	w.client.SetBaseURL(baseURL)
	return w
}

func (w *Wikipedia) Name() string {
	return "wikipedia-" + w.language
}

func (w *Wikipedia) Check(ctx context.Context, entities []string) (models.PresenceResult, error) {
	return collect(entities, func(entity string) (bool, error) {
		found, err := w.pageExists(ctx, entity)
		if err != nil {
			return false, fmt.Errorf("wikipedia lookup for %q failed: %w", entity, err)
		}
		logrus.WithFields(logrus.Fields{"entity": entity, "found": found}).Debug("Wikipedia presence checked")
		return found, nil
	})
}

func (w *Wikipedia) pageExists(ctx context.Context, title string) (bool, error) {
	if strings.TrimSpace(title) == "" {
		return false, nil
	}

	result, err := w.breaker.Execute(func() (interface{}, error) {
		params := map[string]string{
			"action":        "query",
			"format":        "json",
			"formatversion": "2",
			"redirects":     "1",
			"converttitles": "1",
			"titles":        title,
		}
		if w.variant != "" {
			params["variant"] = w.variant
		}

		resp, err := w.client.R().
			SetContext(ctx).
			SetQueryParams(params).
			Get("/w/api.php")
		if err != nil {
			return nil, err
		}
		if resp.StatusCode() != 200 {
			return nil, fmt.Errorf("mediawiki API returned status %d", resp.StatusCode())
		}

		var queryResp wikiQueryResponse
		if err := json.Unmarshal(resp.Body(), &queryResp); err != nil {
			return nil, fmt.Errorf("failed to parse mediawiki response: %w", err)
		}

		for _, page := range queryResp.Query.Pages {
			if !page.Missing && !page.Invalid && page.PageID > 0 {
				return true, nil
			}
		}
		return false, nil
	})
	if err != nil {
		return false, err
	}

	return result.(bool), nil
}
