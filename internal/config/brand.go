package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sie-tools/eeat-mentions/internal/models"
	"github.com/sie-tools/eeat-mentions/internal/scoring"
	"gopkg.in/yaml.v3"
)

// ErrInvalidWeights is returned for negative or repeated media weights
var ErrInvalidWeights = errors.New("invalid media weights")

// DefaultMediaWeights is used when a brand file configures no weights
func DefaultMediaWeights() models.CategoryWeights {
	return models.CategoryWeights{
		{Category: models.CategoryIndustryNews, Weight: 10},
		{Category: models.CategoryMainstreamNews, Weight: 8},
		{Category: models.CategorySocialMedia, Weight: 5},
		{Category: models.CategoryVideoSites, Weight: 5},
		{Category: models.CategoryEcommerceRetail, Weight: 2},
	}
}

// Competitor is a brand benchmarked against the analysed one
type Competitor struct {
	Name            string   `yaml:"name" json:"name"`
	Website         string   `yaml:"website" json:"website,omitempty"`
	RelatedEntities []string `yaml:"related_entities" json:"related_entities,omitempty"`
	OfficialInfo    string   `yaml:"official_info" json:"official_info,omitempty"`
}

// Brand describes one brand analysis. UsesHTTPS, when set, overrides the website check.
type Brand struct {
	Name            string                 `yaml:"brand_name" json:"brand_name"`
	RelatedEntities []string               `yaml:"related_entities" json:"related_entities"`
	OfficialInfo    string                 `yaml:"official_info" json:"official_info"`
	Website         string                 `yaml:"website" json:"website,omitempty"`
	Competitors     []Competitor           `yaml:"competitors" json:"competitors,omitempty"`
	MediaWeights    models.CategoryWeights `yaml:"media_weights" json:"media_weights"`
	ExcludeTerms    []string               `yaml:"exclude_terms" json:"exclude_terms,omitempty"`
	UsesHTTPS       *bool                  `yaml:"uses_https" json:"uses_https,omitempty"`
	Scoring         scoring.Config         `yaml:"scoring" json:"scoring"`
}

// Entities returns the brand followed by its related entities
func (b *Brand) Entities() []string {
	return append([]string{b.Name}, uniqueEntities(b.Name, b.RelatedEntities)...)
}

// uniqueEntities trims related entity names and drops blanks, repeats and the brand itself
func uniqueEntities(brand string, entities []string) []string {
	seen := map[string]bool{strings.TrimSpace(brand): true}
	unique := make([]string, 0, len(entities))
	for _, entity := range entities {
		entity = strings.TrimSpace(entity)
		if entity == "" || seen[entity] {
			continue
		}
		seen[entity] = true
		unique = append(unique, entity)
	}
	return unique
}

// AsCompetitor turns a competitor entry into a brand analysed with the same weights and scoring
func (b *Brand) AsCompetitor(c Competitor) *Brand {
	return &Brand{
		Name:            c.Name,
		RelatedEntities: c.RelatedEntities,
		OfficialInfo:    c.OfficialInfo,
		Website:         c.Website,
		MediaWeights:    b.MediaWeights,
		ExcludeTerms:    b.ExcludeTerms,
		Scoring:         b.Scoring,
	}
}

// LoadBrand reads a YAML or JSON brand file
func LoadBrand(path string) (*Brand, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read brand config %s: %w", path, err)
	}

	brand, err := ParseBrand(data)
	if err != nil {
		return nil, fmt.Errorf("brand config %s: %w", path, err)
	}
	return brand, nil
}

// ParseBrand decodes and validates a brand document, JSON when it is an object literal
// and YAML otherwise. Scoring constants that are not set keep their defaults.
func ParseBrand(data []byte) (*Brand, error) {
	brand := &Brand{Scoring: scoring.DefaultConfig()}

	var err error
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		err = json.Unmarshal(data, brand)
	} else {
		err = yaml.Unmarshal(data, brand)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse brand config: %w", err)
	}

	if len(brand.MediaWeights) == 0 {
		brand.MediaWeights = DefaultMediaWeights()
	}

	if err := brand.Validate(); err != nil {
		return nil, err
	}
	return brand, nil
}

// Validate checks the brand definition
func (b *Brand) Validate() error {
	b.Name = strings.TrimSpace(b.Name)
	if b.Name == "" {
		return fmt.Errorf("brand_name is required")
	}

	b.RelatedEntities = uniqueEntities(b.Name, b.RelatedEntities)

	seen := make(map[models.MediaCategory]bool, len(b.MediaWeights))
	for _, cw := range b.MediaWeights {
		if cw.Category == "" {
			return fmt.Errorf("%w: empty category name", ErrInvalidWeights)
		}
		if seen[cw.Category] {
			return fmt.Errorf("%w: category %q configured twice", ErrInvalidWeights, cw.Category)
		}
		if cw.Weight < 0 {
			return fmt.Errorf("%w: category %q has negative weight %g", ErrInvalidWeights, cw.Category, cw.Weight)
		}
		seen[cw.Category] = true
	}

	for i, c := range b.Competitors {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("competitor %d has no name", i+1)
		}
	}

	if err := b.Scoring.Validate(); err != nil {
		return fmt.Errorf("invalid scoring constants: %w", err)
	}
	return nil
}
