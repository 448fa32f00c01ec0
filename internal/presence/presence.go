// Package presence checks whether a brand and its related entities have encyclopedia entries.
package presence

import (
	"context"

	"github.com/sie-tools/eeat-mentions/internal/models"
)

// Checker looks up entities. The first entity is the brand, the rest are related entities.
type Checker interface {
	Name() string
	Check(ctx context.Context, entities []string) (models.PresenceResult, error)
}

// Static answers from a fixed set of known entity names
type Static struct {
	known map[string]bool
}

var _ Checker = (*Static)(nil)

// NewStatic creates a checker that finds exactly the given names
func NewStatic(known ...string) *Static {
	s := &Static{known: make(map[string]bool, len(known))}
	for _, name := range known {
		s.known[name] = true
	}
	return s
}

func (s *Static) Name() string {
	return "static"
}

func (s *Static) Check(ctx context.Context, entities []string) (models.PresenceResult, error) {
	return collect(entities, func(entity string) (bool, error) {
		return s.known[entity], nil
	})
}

// collect applies exists to every entity and folds the answers into a result
func collect(entities []string, exists func(entity string) (bool, error)) (models.PresenceResult, error) {
	result := models.PresenceResult{RelatedEntitiesFound: []string{}}
	seen := make(map[string]bool, len(entities))
	for i, entity := range entities {
		if seen[entity] {
			continue
		}
		seen[entity] = true

		found, err := exists(entity)
		if err != nil {
			return models.PresenceResult{RelatedEntitiesFound: []string{}}, err
		}
		if !found {
			continue
		}
		if i == 0 {
			result.BrandFound = true
		} else {
			result.RelatedEntitiesFound = append(result.RelatedEntitiesFound, entity)
		}
	}
	return result, nil
}
