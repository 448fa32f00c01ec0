package scoring

import "github.com/sie-tools/eeat-mentions/internal/models"

// Recommend derives strategic recommendations from the scores and market position.
// Pass PositionUnknown when no benchmark is available.
func Recommend(scores models.ScoreBundle, position models.MarketPosition) []models.Recommendation {
	recommendations := []models.Recommendation{}

	if scores.Authoritativeness < 50 {
		recommendations = append(recommendations, models.Recommendation{
			Strategy:       "Media Authority Building",
			Description:    "Earn coverage in weighted media categories and complete encyclopedia entries for the brand and its products",
			Priority:       "High",
			Timeline:       "Medium-term",
			ExpectedImpact: "Raise authoritativeness by 20-40 points",
			ImplementationSteps: []string{
				"Identify the highest weighted media categories",
				"Build a press outreach calendar",
				"Create or improve encyclopedia entries for related entities",
				"Track coverage monthly",
			},
		})
	}

	if scores.Expertise < 30 {
		recommendations = append(recommendations, models.Recommendation{
			Strategy:       "Industry Thought Leadership",
			Description:    "Publish expert analysis and product news aimed at trade press",
			Priority:       "Medium",
			Timeline:       "Medium-term",
			ExpectedImpact: "Raise expertise through industry press mentions",
			ImplementationSteps: []string{
				"Pitch technical stories to trade publications",
				"Publish analyst briefings",
				"Contribute expert commentary on industry trends",
			},
		})
	}

	if scores.Experience < 40 {
		recommendations = append(recommendations, models.Recommendation{
			Strategy:       "Social Media Authority Building",
			Description:    "Grow first-hand user content on social and video platforms",
			Priority:       "Medium",
			Timeline:       "Long-term",
			ExpectedImpact: "Raise experience through social and video mentions",
			ImplementationSteps: []string{
				"Define a social content strategy",
				"Partner with creators for reviews",
				"Run community management on forums",
				"Publish high value content regularly",
			},
		})
	}

	if scores.Trustworthiness < 50 {
		recommendations = append(recommendations, models.Recommendation{
			Strategy:       "Trust Signal Repair",
			Description:    "Serve the website over HTTPS and respond to inaccurate mainstream coverage",
			Priority:       "High",
			Timeline:       "Short-term",
			ExpectedImpact: "Remove trust penalties",
			ImplementationSteps: []string{
				"Enforce HTTPS across the website",
				"Review mainstream mentions flagged as uncertain",
				"Publish official clarifications where coverage is inaccurate",
			},
		})
	}

	if position == models.PositionAverage || position == models.PositionLaggard {
		recommendations = append(recommendations, models.Recommendation{
			Strategy:       "Competitive Differentiation",
			Description:    "Build a distinct advantage over benchmarked competitors",
			Priority:       "High",
			Timeline:       "Medium-term",
			ExpectedImpact: "Move the market position to strong",
			ImplementationSteps: []string{
				"Identify a unique value proposition",
				"Develop differentiated content",
				"Build brand authority in the weakest dimension",
			},
		})
	}

	return recommendations
}
