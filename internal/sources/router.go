package sources

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sie-tools/eeat-mentions/internal/models"
)

// ErrNoSearcher is returned for a category that no enabled searcher answers
var ErrNoSearcher = errors.New("no search adapter configured")

// Router dispatches each category to its own searcher, falling back to a default one
type Router struct {
	routes   map[models.MediaCategory]Searcher
	fallback Searcher
}

var _ Searcher = (*Router)(nil)

// NewRouter creates a router with the given default searcher (may be nil)
func NewRouter(fallback Searcher) *Router {
	return &Router{
		routes:   make(map[models.MediaCategory]Searcher),
		fallback: fallback,
	}
}

// Route sends a category to a searcher. Disabled searchers are ignored.
func (r *Router) Route(category models.MediaCategory, searcher Searcher) *Router {
	if searcher != nil && searcher.IsEnabled() {
		r.routes[category] = searcher
	}
	return r
}

// SearcherFor returns the searcher answering a category
func (r *Router) SearcherFor(category models.MediaCategory) Searcher {
	if s, ok := r.routes[category]; ok {
		return s
	}
	if r.fallback != nil && r.fallback.IsEnabled() {
		return r.fallback
	}
	return nil
}

func (r *Router) GetName() string {
	names := []string{}
	if r.fallback != nil {
		names = append(names, r.fallback.GetName())
	}
	for _, category := range sortedCategories(r.routes) {
		names = append(names, string(category)+"="+r.routes[category].GetName())
	}
	return "router(" + strings.Join(names, ",") + ")"
}

func (r *Router) IsEnabled() bool {
	return len(r.routes) > 0 || (r.fallback != nil && r.fallback.IsEnabled())
}

// Search returns the routed searcher's items with duplicate links removed
func (r *Router) Search(ctx context.Context, entity string, category models.MediaCategory) ([]models.SearchItem, error) {
	searcher := r.SearcherFor(category)
	if searcher == nil {
		return nil, fmt.Errorf("%w for %s", ErrNoSearcher, category)
	}

	items, err := searcher.Search(ctx, entity, category)
	if err != nil {
		return nil, err
	}
	return deduplicateItems(items), nil
}

// Searchers lists the distinct searchers behind the router
func (r *Router) Searchers() []Searcher {
	seen := make(map[Searcher]bool)
	var all []Searcher
	add := func(s Searcher) {
		if s != nil && !seen[s] {
			seen[s] = true
			all = append(all, s)
		}
	}
	add(r.fallback)
	for _, category := range sortedCategories(r.routes) {
		add(r.routes[category])
	}
	return all
}

func deduplicateItems(items []models.SearchItem) []models.SearchItem {
	seen := make(map[string]bool)
	var unique []models.SearchItem

	for _, item := range items {
		key := strings.TrimSpace(item.Link)
		if key != "" && seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, item)
	}

	return unique
}

func sortedCategories(routes map[models.MediaCategory]Searcher) []models.MediaCategory {
	categories := make([]models.MediaCategory, 0, len(routes))
	for category := range routes {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })
	return categories
}
