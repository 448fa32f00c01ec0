package sources

import (
	"context"

	"github.com/sie-tools/eeat-mentions/internal/models"
)

// Searcher defines the contract for all search adapters
type Searcher interface {
	GetName() string
	Search(ctx context.Context, entity string, category models.MediaCategory) ([]models.SearchItem, error)
	IsEnabled() bool
}

const userAgent = "EEAT-Mentions/1.0"
