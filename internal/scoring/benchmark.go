package scoring

import (
	"time"

	"github.com/sie-tools/eeat-mentions/internal/models"
)

// MarketPositionOf ranks the target overall score against the average of the
// competitors that produced a positive score.
func MarketPositionOf(target int, competitors []int) models.MarketPosition {
	sum, n := 0, 0
	for _, score := range competitors {
		if score > 0 {
			sum += score
			n++
		}
	}
	if n == 0 {
		return models.PositionUnknown
	}

	avg := float64(sum) / float64(n)
	t := float64(target)

	switch {
	case t > avg*1.2:
		return models.PositionLeader
	case t > avg:
		return models.PositionStrong
	case t > avg*0.8:
		return models.PositionAverage
	default:
		return models.PositionLaggard
	}
}

// Benchmark compares the target with its competitors
func Benchmark(target models.BenchmarkEntry, competitors []models.BenchmarkEntry) models.BenchmarkResult {
	competitorScores := make([]int, 0, len(competitors))
	for _, c := range competitors {
		if c.Error != "" {
			continue
		}
		competitorScores = append(competitorScores, c.Scores.Overall)
	}

	position := MarketPositionOf(target.Scores.Overall, competitorScores)

	return models.BenchmarkResult{
		GeneratedAt:              time.Now(),
		Target:                   target,
		Competitors:              competitors,
		MarketPosition:           position,
		CompetitiveAdvantages:    Advantages(target),
		ImprovementOpportunities: Opportunities(target),
		Recommendations:          Recommend(target.Scores, position),
	}
}

// Advantages lists the dimensions where the brand is clearly strong
func Advantages(target models.BenchmarkEntry) []string {
	scores := target.Scores
	advantages := []string{}
	if target.AILeaderScore != nil && *target.AILeaderScore > 50 {
		advantages = append(advantages, "AI Leadership")
	}
	if scores.Authoritativeness > 70 {
		advantages = append(advantages, "Strong Media Authority")
	}
	if scores.Expertise > 50 {
		advantages = append(advantages, "Recognized Industry Expertise")
	}
	if scores.Experience > 60 {
		advantages = append(advantages, "Strong Social Presence")
	}
	if scores.Trustworthiness > 70 {
		advantages = append(advantages, "Positive Media Coverage")
	}
	return advantages
}

// Opportunities lists the dimensions that lag behind. Site signals only count
// when the website was analysed.
func Opportunities(target models.BenchmarkEntry) []string {
	scores := target.Scores
	opportunities := []string{}
	if target.AILeaderScore != nil && *target.AILeaderScore < 30 {
		opportunities = append(opportunities, "Enhance AI Technology Integration")
	}
	if scores.Authoritativeness < 50 {
		opportunities = append(opportunities, "Improve Media Relations")
	}
	if scores.Expertise < 30 {
		opportunities = append(opportunities, "Increase Industry Press Coverage")
	}
	if scores.Experience < 40 {
		opportunities = append(opportunities, "Strengthen Social Media Presence")
	}
	if scores.Trustworthiness < 50 {
		opportunities = append(opportunities, "Address Trust Signals")
	}
	return opportunities
}
