package scoring

import (
	"math"

	"github.com/sie-tools/eeat-mentions/internal/models"
)

// Calculator folds an aggregated media analysis into E-E-A-T scores
type Calculator struct {
	cfg Config
}

// NewCalculator creates a calculator with the given constants
func NewCalculator(cfg Config) *Calculator {
	return &Calculator{cfg: cfg}
}

// Calculate computes the four sub-scores and the overall score.
// Inputs are assumed well formed; nothing is validated and no error is returned.
func (c *Calculator) Calculate(analysis models.MediaAnalysis, presence models.PresenceResult, usesHTTPS bool) models.ScoreBundle {
	scores := models.ScoreBundle{
		Experience:        c.experience(analysis),
		Expertise:         c.expertise(analysis),
		Authoritativeness: c.authoritativeness(analysis, presence),
		Trustworthiness:   c.trustworthiness(analysis, usesHTTPS),
	}

	sum := scores.Experience + scores.Expertise + scores.Authoritativeness + scores.Trustworthiness
	scores.Overall = sum / 4

	return scores
}

// authoritativeness is a saturating sum of weighted coverage plus presence bonuses
func (c *Calculator) authoritativeness(analysis models.MediaAnalysis, presence models.PresenceResult) int {
	raw := 0.0
	for _, summary := range analysis.MentionsByType {
		raw += float64(summary.Count) * summary.Weight
	}

	if presence.BrandFound {
		raw += c.cfg.BrandPresenceBonus
	}
	raw += float64(len(presence.RelatedEntitiesFound)) * c.cfg.RelatedEntityBonus

	return clampFloat(raw)
}

// expertise depends on the industry press only
func (c *Calculator) expertise(analysis models.MediaAnalysis) int {
	return clamp(c.cfg.ExpertisePerMention * analysis.Count(c.cfg.ExpertiseCategory))
}

func (c *Calculator) experience(analysis models.MediaAnalysis) int {
	mentions := 0
	for _, category := range c.cfg.ExperienceCategories {
		mentions += analysis.Count(category)
	}
	return clamp(c.cfg.ExperiencePerMention * mentions)
}

// trustworthiness penalizes uncertain mainstream coverage harder than it rewards correct coverage
func (c *Calculator) trustworthiness(analysis models.MediaAnalysis, usesHTTPS bool) int {
	score := 0
	if usesHTTPS {
		score += c.cfg.HTTPSBonus
	}

	summary, ok := analysis.Summary(c.cfg.TrustCategory)
	if ok && summary.Count > 0 {
		positive := 0
		for _, mention := range summary.Mentions {
			if mention.AccuracyLabel == models.LabelCorrect {
				positive++
			}
		}
		negative := summary.Count - positive

		score += positive * c.cfg.PositiveMentionReward
		score -= negative * c.cfg.NegativeMentionPenalty
	}

	return clamp(score)
}

func clamp(score int) int {
	if score > MaxScore {
		return MaxScore
	}
	if score < 0 {
		return 0
	}
	return score
}

func clampFloat(raw float64) int {
	floored := math.Floor(raw)
	if math.IsNaN(floored) || floored < 0 {
		return 0
	}
	if floored > MaxScore {
		return MaxScore
	}
	return int(floored)
}
