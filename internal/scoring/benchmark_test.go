package scoring

import (
	"testing"

	"github.com/sie-tools/eeat-mentions/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestMarketPositionOf(t *testing.T) {
	tests := []struct {
		name        string
		target      int
		competitors []int
		expected    models.MarketPosition
	}{
		{name: "leader", target: 70, competitors: []int{50, 50}, expected: models.PositionLeader},
		{name: "exactly 1.2x is strong", target: 60, competitors: []int{50}, expected: models.PositionStrong},
		{name: "strong", target: 55, competitors: []int{40, 60}, expected: models.PositionStrong},
		{name: "equal to average is average", target: 50, competitors: []int{50}, expected: models.PositionAverage},
		{name: "laggard", target: 30, competitors: []int{50, 60}, expected: models.PositionLaggard},
		{name: "zero competitors are ignored", target: 45, competitors: []int{0, 50}, expected: models.PositionAverage},
		{name: "no scored competitors", target: 40, competitors: []int{0, 0}, expected: models.PositionUnknown},
		{name: "no competitors", target: 40, expected: models.PositionUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MarketPositionOf(tt.target, tt.competitors))
		})
	}
}

func TestBenchmark_SkipsFailedCompetitors(t *testing.T) {
	target := models.BenchmarkEntry{
		Name:   "Brand A",
		Scores: models.ScoreBundle{Authoritativeness: 80, Expertise: 20, Experience: 10, Trustworthiness: 40, Overall: 37},
	}
	competitors := []models.BenchmarkEntry{
		{Name: "Rival X", Scores: models.ScoreBundle{Overall: 35}},
		{Name: "Rival Y", Error: "search quota exceeded", Scores: models.ScoreBundle{Overall: 90}},
	}

	result := Benchmark(target, competitors)

	assert.Equal(t, models.PositionStrong, result.MarketPosition)
	assert.Len(t, result.Competitors, 2)
	assert.Equal(t, []string{"Strong Media Authority"}, result.CompetitiveAdvantages)
	assert.Equal(t, []string{
		"Increase Industry Press Coverage",
		"Strengthen Social Media Presence",
		"Address Trust Signals",
	}, result.ImprovementOpportunities)
	assert.False(t, result.GeneratedAt.IsZero())
}

func TestBenchmark_SiteSignals(t *testing.T) {
	intPtr := func(i int) *int { return &i }
	scores := models.ScoreBundle{Authoritativeness: 60, Expertise: 40, Experience: 50, Trustworthiness: 60, Overall: 52}

	tests := []struct {
		name                  string
		aiLeaderScore         *int
		expectedAdvantages    []string
		expectedOpportunities []string
	}{
		{
			name:                  "AI leader",
			aiLeaderScore:         intPtr(65),
			expectedAdvantages:    []string{"AI Leadership"},
			expectedOpportunities: []string{},
		},
		{
			name:                  "AI laggard",
			aiLeaderScore:         intPtr(10),
			expectedAdvantages:    []string{},
			expectedOpportunities: []string{"Enhance AI Technology Integration"},
		},
		{
			name:                  "between thresholds",
			aiLeaderScore:         intPtr(30),
			expectedAdvantages:    []string{},
			expectedOpportunities: []string{},
		},
		{
			name:                  "website not analysed",
			expectedAdvantages:    []string{},
			expectedOpportunities: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := models.BenchmarkEntry{Name: "Brand A", Scores: scores, AILeaderScore: tt.aiLeaderScore}
			result := Benchmark(target, []models.BenchmarkEntry{{Name: "Rival X", Scores: models.ScoreBundle{Overall: 50}}})

			assert.Equal(t, tt.expectedAdvantages, result.CompetitiveAdvantages)
			assert.Equal(t, tt.expectedOpportunities, result.ImprovementOpportunities)
		})
	}
}

func TestNewBenchmarkEntry(t *testing.T) {
	report := &models.Report{
		Scores: models.ScoreBundle{Overall: 40},
		Site:   &models.SiteAnalysis{AILeaderScore: 55, SocialPlatforms: []string{"linkedin"}},
	}
	entry := models.NewBenchmarkEntry("Brand A", "brand-a.example", report)
	assert.Equal(t, 40, entry.Scores.Overall)
	if assert.NotNil(t, entry.AILeaderScore) {
		assert.Equal(t, 55, *entry.AILeaderScore)
	}
	assert.Equal(t, []string{"linkedin"}, entry.SocialPlatforms)

	entry = models.NewBenchmarkEntry("Brand A", "", &models.Report{})
	assert.Nil(t, entry.AILeaderScore)
	assert.Nil(t, entry.SocialPlatforms)
}

func TestRecommend(t *testing.T) {
	strategies := func(recs []models.Recommendation) []string {
		names := make([]string, 0, len(recs))
		for _, r := range recs {
			names = append(names, r.Strategy)
		}
		return names
	}

	weak := models.ScoreBundle{Authoritativeness: 10, Expertise: 5, Experience: 4, Trustworthiness: 0}
	assert.Equal(t, []string{
		"Media Authority Building",
		"Industry Thought Leadership",
		"Social Media Authority Building",
		"Trust Signal Repair",
	}, strategies(Recommend(weak, models.PositionUnknown)))

	strong := models.ScoreBundle{Authoritativeness: 90, Expertise: 60, Experience: 70, Trustworthiness: 80}
	assert.Empty(t, Recommend(strong, models.PositionLeader))
	assert.Equal(t, []string{"Competitive Differentiation"}, strategies(Recommend(strong, models.PositionLaggard)))

	for _, rec := range Recommend(weak, models.PositionAverage) {
		assert.NotEmpty(t, rec.ImplementationSteps, rec.Strategy)
		assert.NotEmpty(t, rec.Priority, rec.Strategy)
	}
}
