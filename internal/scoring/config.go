package scoring

import (
	"fmt"

	"github.com/sie-tools/eeat-mentions/internal/models"
)

// MaxScore is the upper bound of every sub-score
const MaxScore = 100

// Config holds the tunable constants of the score calculator
type Config struct {
	BrandPresenceBonus     float64                `yaml:"brand_presence_bonus" json:"brand_presence_bonus"`
	RelatedEntityBonus     float64                `yaml:"related_entity_bonus" json:"related_entity_bonus"`
	ExpertiseCategory      models.MediaCategory   `yaml:"expertise_category" json:"expertise_category"`
	ExpertisePerMention    int                    `yaml:"expertise_per_mention" json:"expertise_per_mention"`
	ExperienceCategories   []models.MediaCategory `yaml:"experience_categories" json:"experience_categories"`
	ExperiencePerMention   int                    `yaml:"experience_per_mention" json:"experience_per_mention"`
	TrustCategory          models.MediaCategory   `yaml:"trust_category" json:"trust_category"`
	HTTPSBonus             int                    `yaml:"https_bonus" json:"https_bonus"`
	PositiveMentionReward  int                    `yaml:"positive_mention_reward" json:"positive_mention_reward"`
	NegativeMentionPenalty int                    `yaml:"negative_mention_penalty" json:"negative_mention_penalty"`
}

// DefaultConfig returns the standard scoring constants
func DefaultConfig() Config {
	return Config{
		BrandPresenceBonus:     20,
		RelatedEntityBonus:     10,
		ExpertiseCategory:      models.CategoryIndustryNews,
		ExpertisePerMention:    5,
		ExperienceCategories:   []models.MediaCategory{models.CategorySocialMedia, models.CategoryVideoSites},
		ExperiencePerMention:   2,
		TrustCategory:          models.CategoryMainstreamNews,
		HTTPSBonus:             40,
		PositiveMentionReward:  5,
		NegativeMentionPenalty: 15,
	}
}

// Validate rejects constants that would let a sub-score move the wrong way
func (c Config) Validate() error {
	if c.BrandPresenceBonus < 0 || c.RelatedEntityBonus < 0 {
		return fmt.Errorf("presence bonuses must be non-negative")
	}
	if c.ExpertisePerMention < 0 || c.ExperiencePerMention < 0 {
		return fmt.Errorf("per-mention points must be non-negative")
	}
	if c.HTTPSBonus < 0 || c.PositiveMentionReward < 0 || c.NegativeMentionPenalty < 0 {
		return fmt.Errorf("trust constants must be non-negative")
	}
	if c.ExpertiseCategory == "" || c.TrustCategory == "" || len(c.ExperienceCategories) == 0 {
		return fmt.Errorf("expertise, experience and trust categories must be set")
	}
	return nil
}
