package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Storage backends
const (
	StorageAzure  = "azure"
	StorageSQLite = "sqlite"
	StorageNone   = "none"
)

// Search modes
const (
	SearchLive    = "live"
	SearchFixture = "fixture"
)

// Classifier providers
const (
	ClassifierKeyword   = "keyword"
	ClassifierVader     = "vader"
	ClassifierOpenAI    = "openai"
	ClassifierAnthropic = "anthropic"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port  string
	Debug bool

	// Schedule configuration
	ReportSchedule string // "daily" or "weekly"
	TimeZone       string

	// Brand analysed by scheduled runs
	BrandConfigPath string

	// Storage configuration
	StorageBackend          string
	SQLitePath              string
	StorageAccount          string
	StorageContainer        string
	StorageConnectionString string
	ReportRetention         int

	// Notification configuration
	TeamsWebhookURL   string
	NotificationEmail string
	SMTPHost          string
	SMTPPort          int
	SMTPUsername      string
	SMTPPassword      string

	// Search adapters
	SearchMode         string
	FixturesPath       string
	GoogleAPIKey       string
	GoogleEngineID     string
	GoogleQPS          float64
	RedditClientID     string
	RedditClientSecret string
	YouTubeAPIKey      string
	EnableHackerNews   bool

	// Accuracy classification
	ClassifierProvider string
	NegativeKeywords   []string
	VaderThreshold     float64
	OpenAIAPIKey       string
	OpenAIModel        string
	OpenAIBaseURL      string
	AnthropicAPIKey    string
	AnthropicModel     string

	// Presence and site checks
	WikipediaLanguage string
	WikipediaVariant  string
	UserAgent         string
	AnalyzeWebsite    bool

	// Relevance filtering and reputation alerts
	EnableRelevanceFilter bool
	AlertKeywords         []string

	// Benchmarking
	BenchmarkConcurrency int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		Debug:          getBoolEnv("DEBUG", false),
		ReportSchedule: getEnv("REPORT_SCHEDULE", "weekly"),
		TimeZone:       getEnv("TIMEZONE", "UTC"),

		BrandConfigPath: getEnv("BRAND_CONFIG", ""),

		StorageBackend:          strings.ToLower(getEnv("STORAGE_BACKEND", StorageSQLite)),
		SQLitePath:              getEnv("SQLITE_PATH", "data/eeat.db"),
		StorageAccount:          getEnv("AZURE_STORAGE_ACCOUNT", ""),
		StorageContainer:        getEnv("AZURE_STORAGE_CONTAINER", "eeat-reports"),
		StorageConnectionString: getEnv("AZURE_STORAGE_CONNECTION_STRING", ""),
		ReportRetention:         getIntEnv("REPORT_RETENTION", 0),

		TeamsWebhookURL:   getEnv("TEAMS_WEBHOOK_URL", ""),
		NotificationEmail: getEnv("NOTIFICATION_EMAIL", ""),
		SMTPHost:          getEnv("SMTP_HOST", ""),
		SMTPPort:          getIntEnv("SMTP_PORT", 587),
		SMTPUsername:      getEnv("SMTP_USERNAME", ""),
		SMTPPassword:      getEnv("SMTP_PASSWORD", ""),

		SearchMode:         strings.ToLower(getEnv("SEARCH_MODE", SearchLive)),
		FixturesPath:       getEnv("FIXTURES_PATH", ""),
		GoogleAPIKey:       getEnv("GOOGLE_API_KEY", ""),
		GoogleEngineID:     getEnv("GOOGLE_CSE_ID", ""),
		GoogleQPS:          getFloatEnv("GOOGLE_QPS", 1),
		RedditClientID:     getEnv("REDDIT_CLIENT_ID", ""),
		RedditClientSecret: getEnv("REDDIT_CLIENT_SECRET", ""),
		YouTubeAPIKey:      getEnv("YOUTUBE_API_KEY", ""),
		EnableHackerNews:   getBoolEnv("ENABLE_HACKERNEWS", false),

		ClassifierProvider: strings.ToLower(getEnv("CLASSIFIER_PROVIDER", ClassifierKeyword)),
		NegativeKeywords:   getSliceEnv("NEGATIVE_KEYWORDS", nil),
		VaderThreshold:     getFloatEnv("VADER_THRESHOLD", 0.2),
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:        getEnv("OPENAI_MODEL", ""),
		OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", ""),
		AnthropicAPIKey:    getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:     getEnv("ANTHROPIC_MODEL", ""),

		WikipediaLanguage: getEnv("WIKIPEDIA_LANGUAGE", "zh"),
		WikipediaVariant:  getEnv("WIKIPEDIA_VARIANT", "zh-tw"),
		UserAgent:         getEnv("USER_AGENT", "EEAT-Mentions/1.0 (https://github.com/sie-tools/eeat-mentions)"),
		AnalyzeWebsite:    getBoolEnv("ANALYZE_WEBSITE", true),

		EnableRelevanceFilter: getBoolEnv("ENABLE_RELEVANCE_FILTER", false),

		AlertKeywords: getSliceEnv("ALERT_KEYWORDS", []string{
			"recall", "lawsuit", "scandal", "fraud", "data breach", "boycott",
			"召回", "訴訟", "詐騙", "醜聞",
		}),

		BenchmarkConcurrency: getIntEnv("BENCHMARK_CONCURRENCY", 3),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.ReportSchedule != "daily" && c.ReportSchedule != "weekly" {
		return fmt.Errorf("REPORT_SCHEDULE must be 'daily' or 'weekly'")
	}

	switch c.StorageBackend {
	case StorageAzure:
		if c.StorageAccount == "" && c.StorageConnectionString == "" {
			return fmt.Errorf("AZURE_STORAGE_ACCOUNT or AZURE_STORAGE_CONNECTION_STRING is required when STORAGE_BACKEND is azure")
		}
	case StorageSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required when STORAGE_BACKEND is sqlite")
		}
	case StorageNone:
	default:
		return fmt.Errorf("STORAGE_BACKEND must be 'azure', 'sqlite' or 'none'")
	}

	if c.SearchMode != SearchLive && c.SearchMode != SearchFixture {
		return fmt.Errorf("SEARCH_MODE must be 'live' or 'fixture'")
	}

	switch c.ClassifierProvider {
	case ClassifierKeyword, ClassifierVader:
	case ClassifierOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when CLASSIFIER_PROVIDER is openai")
		}
	case ClassifierAnthropic:
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required when CLASSIFIER_PROVIDER is anthropic")
		}
	default:
		return fmt.Errorf("CLASSIFIER_PROVIDER must be one of keyword, vader, openai, anthropic")
	}

	if c.NotificationEmail != "" {
		if c.SMTPHost == "" || c.SMTPUsername == "" || c.SMTPPassword == "" {
			return fmt.Errorf("SMTP configuration is required when NOTIFICATION_EMAIL is set")
		}
	}

	if c.GoogleQPS < 0 {
		return fmt.Errorf("GOOGLE_QPS must not be negative")
	}
	if c.BenchmarkConcurrency < 1 {
		return fmt.Errorf("BENCHMARK_CONCURRENCY must be at least 1")
	}

	return nil
}

// NotificationsEnabled reports whether any notification channel is configured
func (c *Config) NotificationsEnabled() bool {
	return c.TeamsWebhookURL != "" || c.NotificationEmail != ""
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		var items []string
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return items
	}
	return defaultValue
}
