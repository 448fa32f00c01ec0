package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sie-tools/eeat-mentions/internal/analysis"
	"github.com/sie-tools/eeat-mentions/internal/config"
	"github.com/sie-tools/eeat-mentions/internal/presence"
	"github.com/sirupsen/logrus"
)

const usage = `Usage: eeat [flags] <brand.yaml>

Analyses one brand and prints the E-E-A-T report as JSON.

Flags:
`

type options struct {
	fixtures   bool
	https      bool
	httpsSet   bool
	siteReport string
	store      bool
	benchmark  bool
	brandPath  string
}

// siteReport is the website summary produced by the site crawler
type siteReport struct {
	SiteAnalysis struct {
		UsesHTTPS *bool `json:"uses_https"`
	} `json:"site_analysis"`
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using environment variables")
	}

	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, os.Stdout); err != nil {
		logrus.Fatalf("eeat: %v", err)
	}
}

func parseFlags(args []string, output io.Writer) (*options, error) {
	fs := flag.NewFlagSet("eeat", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprint(output, usage)
		fs.PrintDefaults()
	}

	opts := &options{}
	fs.BoolVar(&opts.fixtures, "fixtures", false, "answer searches from bundled fixtures and skip every network lookup")
	fs.BoolVar(&opts.https, "https", false, "declare whether the brand website is served over HTTPS")
	fs.StringVar(&opts.siteReport, "site-report", "", "JSON file with a site_analysis.uses_https field")
	fs.BoolVar(&opts.store, "store", false, "store the report in the configured history backend and send notifications")
	fs.BoolVar(&opts.benchmark, "benchmark", false, "benchmark the brand against its competitors")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "https" {
			opts.httpsSet = true
		}
	})

	if fs.NArg() != 1 {
		fs.Usage()
		return nil, fmt.Errorf("expected exactly one brand config, got %d", fs.NArg())
	}
	opts.brandPath = fs.Arg(0)

	return opts, nil
}

func run(ctx context.Context, opts *options, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	if !opts.store {
		cfg.StorageBackend = config.StorageNone
	}
	if opts.fixtures {
		cfg.SearchMode = config.SearchFixture
		cfg.AnalyzeWebsite = false
	}

	brand, err := config.LoadBrand(opts.brandPath)
	if err != nil {
		return err
	}
	if err := applyHTTPS(brand, opts); err != nil {
		return err
	}

	deps, err := analysis.NewDependencies(ctx, cfg)
	if err != nil {
		return err
	}
	if closer, ok := deps.Storage.(io.Closer); ok {
		defer closer.Close()
	}
	if opts.fixtures {
		deps.Presence = presence.NewStatic()
	}
	if !opts.store {
		deps.Notifier = nil
	}

	service := analysis.NewService(cfg, deps)

	var result interface{}
	switch {
	case opts.benchmark:
		result, err = service.Benchmark(ctx, brand)
	case opts.store:
		result, err = service.Run(ctx, brand)
	default:
		result, err = service.Analyze(ctx, brand)
	}
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(result)
}

// applyHTTPS sets the HTTPS flag from -https or a site report, -https winning
func applyHTTPS(brand *config.Brand, opts *options) error {
	if opts.siteReport != "" {
		data, err := os.ReadFile(opts.siteReport)
		if err != nil {
			return fmt.Errorf("failed to read site report: %w", err)
		}
		var report siteReport
		if err := json.Unmarshal(data, &report); err != nil {
			return fmt.Errorf("failed to parse site report %s: %w", opts.siteReport, err)
		}
		if report.SiteAnalysis.UsesHTTPS != nil {
			brand.UsesHTTPS = report.SiteAnalysis.UsesHTTPS
		}
	}

	if opts.httpsSet {
		usesHTTPS := opts.https
		brand.UsesHTTPS = &usesHTTPS
	}
	return nil
}
