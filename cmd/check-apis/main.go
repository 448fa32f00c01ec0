package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sie-tools/eeat-mentions/internal/analysis"
	"github.com/sie-tools/eeat-mentions/internal/config"
	"github.com/sie-tools/eeat-mentions/internal/models"
	"github.com/sie-tools/eeat-mentions/internal/presence"
	"github.com/sie-tools/eeat-mentions/internal/siteanalysis"
	"github.com/sie-tools/eeat-mentions/internal/sources"
	"github.com/sie-tools/eeat-mentions/internal/storage"
)

func main() {
	entity := flag.String("entity", "台灣品牌A", "entity to search for")
	website := flag.String("website", "", "website to fetch, skipped when empty")
	flag.Parse()

	fmt.Println("🔍 E-E-A-T Mentions - API Connectivity Test")
	fmt.Println("===========================================")

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	fmt.Println("\n📡 Testing search adapters...")
	fmt.Println(strings.Repeat("-", 40))

	testSearcher(ctx, "Google Custom Search", sources.NewGoogleSearch(cfg.GoogleAPIKey, cfg.GoogleEngineID, cfg.GoogleQPS), *entity, models.CategoryMainstreamNews)
	testSearcher(ctx, "Reddit", sources.NewRedditSource(cfg.RedditClientID, cfg.RedditClientSecret), *entity, models.CategorySocialMedia)
	testSearcher(ctx, "YouTube", sources.NewYouTubeSource(cfg.YouTubeAPIKey), *entity, models.CategoryVideoSites)
	testSearcher(ctx, "Hacker News", sources.NewHackerNewsSource(), *entity, models.CategoryIndustryNews)

	fmt.Println("\n📚 Testing presence and site checks...")
	fmt.Println(strings.Repeat("-", 40))

	testPresence(ctx, presence.NewWikipedia(cfg.WikipediaLanguage, cfg.WikipediaVariant, cfg.UserAgent), *entity)
	if *website != "" {
		testWebsite(ctx, siteanalysis.NewAnalyzer(cfg.UserAgent), *website)
	}

	fmt.Println("\n🧠 Testing accuracy classifier...")
	fmt.Println(strings.Repeat("-", 40))

	testClassifier(ctx, cfg, *entity)

	fmt.Println("\n💾 Testing report storage...")
	fmt.Println(strings.Repeat("-", 40))

	testStorage(ctx, cfg)

	fmt.Println("\n✅ API connectivity test completed!")
	fmt.Println("\n💡 Next steps:")
	fmt.Println("   • Configure missing API keys in .env file")
	fmt.Println("   • Analyse a brand offline with: eeat -fixtures configs/brand.example.yaml")
}

func testSearcher(ctx context.Context, name string, searcher sources.Searcher, entity string, category models.MediaCategory) {
	fmt.Printf("🔸 Testing %s... ", name)

	if !searcher.IsEnabled() {
		fmt.Printf("⚠️  DISABLED (missing API key)\n")
		return
	}

	items, err := searcher.Search(ctx, entity, category)
	if err != nil {
		fmt.Printf("❌ ERROR: %v\n", err)
		return
	}

	fmt.Printf("✅ SUCCESS (%d results for %s)\n", len(items), category)
	if len(items) > 0 {
		fmt.Printf("   📝 Sample: \"%s\"\n", items[0].Title)
	}
}

func testPresence(ctx context.Context, checker presence.Checker, entity string) {
	fmt.Printf("🔸 Testing %s... ", checker.Name())

	result, err := checker.Check(ctx, []string{entity})
	if err != nil {
		fmt.Printf("❌ ERROR: %v\n", err)
		return
	}
	fmt.Printf("✅ SUCCESS (%s found: %t)\n", entity, result.BrandFound)
}

func testWebsite(ctx context.Context, analyzer *siteanalysis.Analyzer, website string) {
	fmt.Printf("🔸 Testing website %s... ", website)

	site, err := analyzer.Analyze(ctx, website)
	if err != nil {
		fmt.Printf("❌ ERROR: %v\n", err)
		return
	}
	fmt.Printf("✅ SUCCESS (https: %t, social: %s, AI position: %s)\n",
		site.UsesHTTPS, strings.Join(site.SocialPlatforms, ","), site.AILeadershipPosition)
}

func testClassifier(ctx context.Context, cfg *config.Config, entity string) {
	cls := analysis.NewClassifier(cfg)
	fmt.Printf("🔸 Testing %s... ", cls.Name())

	label, err := cls.Classify(ctx,
		entity+" opened a new flagship store this week.",
		entity+" is a retail brand with stores across Taiwan.")
	if err != nil {
		fmt.Printf("❌ ERROR: %v\n", err)
		return
	}
	fmt.Printf("✅ SUCCESS (label: %s)\n", label)
}

func testStorage(ctx context.Context, cfg *config.Config) {
	fmt.Printf("🔸 Testing %s backend... ", cfg.StorageBackend)

	store, err := analysis.NewStorage(ctx, cfg)
	if err != nil {
		fmt.Printf("❌ ERROR: %v\n", err)
		return
	}
	if store == nil {
		fmt.Printf("⚠️  DISABLED (history is not stored)\n")
		return
	}
	if closer, ok := store.(io.Closer); ok {
		defer closer.Close()
	}

	if err := roundTrip(ctx, store); err != nil {
		fmt.Printf("❌ ERROR: %v\n", err)
		return
	}
	fmt.Printf("✅ SUCCESS (write, read and delete)\n")
}

func roundTrip(ctx context.Context, store storage.StorageInterface) error {
	name := fmt.Sprintf("connectivity/%d.txt", time.Now().UnixNano())
	payload := []byte("ok")

	if err := store.Store(ctx, name, payload); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	data, err := store.Retrieve(ctx, name)
	if err != nil {
		return fmt.Errorf("retrieve: %w", err)
	}
	if string(data) != string(payload) {
		return fmt.Errorf("retrieve returned %q", data)
	}
	return store.Delete(ctx, name)
}
