package siteanalysis

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
  <meta name="description" content="Brand A builds AI powered appliances">
  <meta property="og:title" content="Brand A">
  <script>window.recommender = "machine learning";</script>
  <script>console.log("machine learning again")</script>
</head>
<body>
  <h1>Brand A</h1>
  <p>We use artificial intelligence and deep learning to maintain your devices.</p>
  <p>Email us for a demo.</p>
  <a href="https://www.linkedin.com/company/brand-a">LinkedIn</a>
  <a href="https://YOUTUBE.com/@branda">YouTube</a>
  <a href="https://www.youtube.com/watch?v=1">Video</a>
  <a href="/about">About</a>
</body>
</html>`

func TestAnalyzeHTML(t *testing.T) {
	analysis, err := AnalyzeHTML("https://www.brand-a.example/", 200, strings.NewReader(samplePage))
	require.NoError(t, err)

	assert.True(t, analysis.UsesHTTPS)
	assert.Equal(t, []string{"linkedin", "youtube"}, analysis.SocialPlatforms)
	assert.Equal(t, []string{"AI Meta Tag: description", "AI JavaScript Integration"}, analysis.AITechnologyIndicators)
	// "maintain" and "email" must not count as "ai"
	assert.Equal(t, []string{"artificial intelligence", "deep learning"}, analysis.AIContentSignals)
	assert.Equal(t, 30, analysis.AILeaderScore)
	assert.Equal(t, "follower", analysis.AILeadershipPosition)
}

func TestAnalyzeHTML_PlainPage(t *testing.T) {
	analysis, err := AnalyzeHTML("http://plain.example/", 200, strings.NewReader("<html><body>Hello</body></html>"))
	require.NoError(t, err)

	assert.False(t, analysis.UsesHTTPS)
	assert.Empty(t, analysis.SocialPlatforms)
	assert.Empty(t, analysis.AITechnologyIndicators)
	assert.Empty(t, analysis.AIContentSignals)
	assert.Equal(t, 0, analysis.AILeaderScore)
	assert.Equal(t, "laggard", analysis.AILeadershipPosition)
}

func TestLeadershipPosition(t *testing.T) {
	tests := []struct {
		score    int
		expected string
	}{
		{100, "leader"},
		{80, "leader"},
		{79, "emerging"},
		{50, "emerging"},
		{49, "follower"},
		{20, "follower"},
		{19, "laggard"},
		{0, "laggard"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("score %d", tt.score), func(t *testing.T) {
			assert.Equal(t, tt.expected, LeadershipPosition(tt.score))
		})
	}
}

func TestAnalyzer_FollowsRedirects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			http.Redirect(w, r, "/home", http.StatusMovedPermanently)
		case "/home":
			fmt.Fprint(w, samplePage)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	analysis, err := NewAnalyzer("EEAT-Test/1.0").Analyze(context.Background(), server.URL+"/")
	require.NoError(t, err)

	assert.Equal(t, server.URL+"/", analysis.URL)
	assert.Equal(t, server.URL+"/home", analysis.FinalURL)
	assert.Equal(t, 200, analysis.StatusCode)
	assert.False(t, analysis.UsesHTTPS)
	assert.Equal(t, []string{"linkedin", "youtube"}, analysis.SocialPlatforms)
}

func TestAnalyzer_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewAnalyzer("EEAT-Test/1.0").Analyze(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestCandidateURLs(t *testing.T) {
	urls, err := candidateURLs("brand-a.example")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://brand-a.example", "http://brand-a.example"}, urls)

	urls, err = candidateURLs("http://brand-a.example/path")
	require.NoError(t, err)
	assert.Equal(t, []string{"http://brand-a.example/path"}, urls)

	_, err = candidateURLs("  ")
	assert.Error(t, err)

	_, err = candidateURLs("https://")
	assert.Error(t, err)
}
