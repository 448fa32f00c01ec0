// Package siteanalysis inspects a brand website for trust and AI leadership signals.
package siteanalysis

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/sie-tools/eeat-mentions/internal/models"
	"github.com/sie-tools/eeat-mentions/internal/resilience/circuitbreaker"
	"github.com/sirupsen/logrus"
)

var aiTerms = []string{"ai", "artificial intelligence", "machine learning", "automation"}

var aiContentKeywords = []string{
	"artificial intelligence", "machine learning", "ai", "automation",
	"predictive analytics", "natural language processing", "nlp",
	"computer vision", "deep learning", "neural networks",
}

// socialPlatforms maps platform names to the host they link to, in report order
var socialPlatforms = []struct {
	name string
	host string
}{
	{"linkedin", "linkedin.com"},
	{"twitter", "twitter.com"},
	{"facebook", "facebook.com"},
	{"instagram", "instagram.com"},
	{"youtube", "youtube.com"},
}

var termPatterns = map[string]*regexp.Regexp{}

func init() {
	for _, term := range append(append([]string{}, aiTerms...), aiContentKeywords...) {
		termPatterns[term] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
	}
}

// Analyzer fetches and inspects websites
type Analyzer struct {
	client  *resty.Client
	breaker *circuitbreaker.CircuitBreaker
}

// NewAnalyzer creates a website analyzer
func NewAnalyzer(userAgent string) *Analyzer {
	return &Analyzer{
		client: resty.New().
			SetTimeout(15*time.Second).
			SetRedirectPolicy(resty.FlexibleRedirectPolicy(10)).
			SetHeader("User-Agent", userAgent),
		breaker: circuitbreaker.New(circuitbreaker.DefaultConfig("site-fetch")),
	}
}

// Analyze fetches the website and inspects the landing page. A bare host is tried
// over HTTPS first and over plain HTTP when HTTPS is unreachable.
func (a *Analyzer) Analyze(ctx context.Context, website string) (*models.SiteAnalysis, error) {
	candidates, err := candidateURLs(website)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for _, candidate := range candidates {
		analysis, err := a.fetch(ctx, candidate)
		if err == nil {
			analysis.URL = website
			return analysis, nil
		}
		logrus.WithError(err).WithField("url", candidate).Debug("Website fetch failed")
		lastErr = err
	}

	return nil, fmt.Errorf("failed to analyze %s: %w", website, lastErr)
}

func (a *Analyzer) fetch(ctx context.Context, target string) (*models.SiteAnalysis, error) {
	result, err := a.breaker.Execute(func() (interface{}, error) {
		resp, err := a.client.R().SetContext(ctx).Get(target)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode() != 200 {
			return nil, fmt.Errorf("website returned status %d", resp.StatusCode())
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	resp := result.(*resty.Response)
	finalURL := target
	if resp.RawResponse != nil && resp.RawResponse.Request != nil {
		finalURL = resp.RawResponse.Request.URL.String()
	}

	return AnalyzeHTML(finalURL, resp.StatusCode(), bytes.NewReader(resp.Body()))
}

// AnalyzeHTML inspects an already fetched page
func AnalyzeHTML(finalURL string, statusCode int, body io.Reader) (*models.SiteAnalysis, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	analysis := &models.SiteAnalysis{
		FinalURL:               finalURL,
		StatusCode:             statusCode,
		UsesHTTPS:              strings.HasPrefix(strings.ToLower(finalURL), "https://"),
		SocialPlatforms:        findSocialPlatforms(doc),
		AITechnologyIndicators: findAIIndicators(doc),
		AIContentSignals:       findAIContentSignals(doc),
	}

	score := len(analysis.AITechnologyIndicators)*10 + len(analysis.AIContentSignals)*5
	if score > 100 {
		score = 100
	}
	analysis.AILeaderScore = score
	analysis.AILeadershipPosition = LeadershipPosition(score)

	return analysis, nil
}

// LeadershipPosition buckets an AI leader score
func LeadershipPosition(score int) string {
	switch {
	case score >= 80:
		return "leader"
	case score >= 50:
		return "emerging"
	case score >= 20:
		return "follower"
	default:
		return "laggard"
	}
}

func findSocialPlatforms(doc *goquery.Document) []string {
	found := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.ToLower(href)
		for _, p := range socialPlatforms {
			if strings.Contains(href, p.host) {
				found[p.name] = true
			}
		}
	})

	platforms := []string{}
	for _, p := range socialPlatforms {
		if found[p.name] {
			platforms = append(platforms, p.name)
		}
	}
	return platforms
}

func findAIIndicators(doc *goquery.Document) []string {
	indicators := []string{}

	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		content, _ := s.Attr("content")
		if !mentionsAny(content, aiTerms) {
			return
		}
		name, ok := s.Attr("name")
		if !ok {
			name, ok = s.Attr("property")
		}
		if !ok || name == "" {
			name = "unknown"
		}
		indicators = append(indicators, "AI Meta Tag: "+name)
	})

	scriptHit := false
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if mentionsAny(s.Text(), aiTerms) {
			scriptHit = true
			return false
		}
		return true
	})
	if scriptHit {
		indicators = append(indicators, "AI JavaScript Integration")
	}

	return indicators
}

func findAIContentSignals(doc *goquery.Document) []string {
	body := doc.Find("body").Clone()
	body.Find("script, style, noscript").Remove()
	text := body.Text()

	signals := []string{}
	for _, keyword := range aiContentKeywords {
		if termPatterns[keyword].MatchString(text) {
			signals = append(signals, keyword)
		}
	}
	return signals
}

func mentionsAny(text string, terms []string) bool {
	for _, term := range terms {
		if termPatterns[term].MatchString(text) {
			return true
		}
	}
	return false
}

func candidateURLs(website string) ([]string, error) {
	website = strings.TrimSpace(website)
	if website == "" {
		return nil, fmt.Errorf("website is empty")
	}

	if strings.Contains(website, "://") {
		u, err := url.Parse(website)
		if err != nil || u.Host == "" {
			return nil, fmt.Errorf("invalid website URL %q", website)
		}
		return []string{u.String()}, nil
	}

	return []string{"https://" + website, "http://" + website}, nil
}
