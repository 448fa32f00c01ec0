package analysis

import (
	"context"
	"fmt"

	"github.com/sie-tools/eeat-mentions/internal/classifier"
	"github.com/sie-tools/eeat-mentions/internal/config"
	"github.com/sie-tools/eeat-mentions/internal/models"
	"github.com/sie-tools/eeat-mentions/internal/notifications"
	"github.com/sie-tools/eeat-mentions/internal/presence"
	"github.com/sie-tools/eeat-mentions/internal/siteanalysis"
	"github.com/sie-tools/eeat-mentions/internal/sources"
	"github.com/sie-tools/eeat-mentions/internal/storage"
	"github.com/sirupsen/logrus"
)

// NewDependencies builds the adapters selected by the configuration
func NewDependencies(ctx context.Context, cfg *config.Config) (Dependencies, error) {
	searcher, err := NewSearcher(cfg)
	if err != nil {
		return Dependencies{}, err
	}

	store, err := NewStorage(ctx, cfg)
	if err != nil {
		return Dependencies{}, err
	}

	deps := Dependencies{
		Searcher:   searcher,
		Classifier: NewClassifier(cfg),
		Presence:   presence.NewWikipedia(cfg.WikipediaLanguage, cfg.WikipediaVariant, cfg.UserAgent),
		Site:       siteanalysis.NewAnalyzer(cfg.UserAgent),
		Storage:    store,
		Notifier:   notifications.NewService(cfg),
	}

	logrus.WithFields(logrus.Fields{
		"searcher":   searcher.GetName(),
		"classifier": deps.Classifier.Name(),
		"presence":   deps.Presence.Name(),
		"storage":    cfg.StorageBackend,
	}).Info("Analysis adapters configured")

	return deps, nil
}

// NewSearcher builds the search adapter for the configured mode. Live mode routes
// categories to dedicated sources and everything else to Google Custom Search.
func NewSearcher(cfg *config.Config) (sources.Searcher, error) {
	if cfg.SearchMode == config.SearchFixture {
		if cfg.FixturesPath == "" {
			return sources.DefaultFixtureSearcher(), nil
		}
		return sources.LoadFixtures(cfg.FixturesPath)
	}

	router := sources.NewRouter(sources.NewGoogleSearch(cfg.GoogleAPIKey, cfg.GoogleEngineID, cfg.GoogleQPS)).
		Route(models.CategorySocialMedia, sources.NewRedditSource(cfg.RedditClientID, cfg.RedditClientSecret)).
		Route(models.CategoryVideoSites, sources.NewYouTubeSource(cfg.YouTubeAPIKey))
	if cfg.EnableHackerNews {
		router.Route(models.CategoryIndustryNews, sources.NewHackerNewsSource())
	}

	if !router.IsEnabled() {
		logrus.Warn("No search adapter has credentials, every category will be empty")
	}
	return router, nil
}

// NewClassifier builds the configured accuracy classifier
func NewClassifier(cfg *config.Config) classifier.Classifier {
	switch cfg.ClassifierProvider {
	case config.ClassifierVader:
		return classifier.NewVaderClassifier(cfg.VaderThreshold)
	case config.ClassifierOpenAI:
		return classifier.NewOpenAIClassifier(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
	case config.ClassifierAnthropic:
		return classifier.NewAnthropicClassifier(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	default:
		return classifier.NewKeywordClassifier(cfg.NegativeKeywords)
	}
}

// NewStorage opens the configured report storage, nil for "none"
func NewStorage(ctx context.Context, cfg *config.Config) (storage.StorageInterface, error) {
	switch cfg.StorageBackend {
	case config.StorageAzure:
		if cfg.StorageConnectionString != "" {
			return storage.NewAzureStorageFromConnectionString(ctx, cfg.StorageConnectionString, cfg.StorageContainer)
		}
		return storage.NewAzureStorage(ctx, cfg.StorageAccount, cfg.StorageContainer)
	case config.StorageSQLite:
		return storage.NewSQLiteStorage(cfg.SQLitePath)
	case config.StorageNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
