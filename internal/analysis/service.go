// Package analysis runs the E-E-A-T pipeline for a brand: presence check, media search,
// accuracy classification, aggregation and scoring, then history, notifications and alerts.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sie-tools/eeat-mentions/internal/classifier"
	"github.com/sie-tools/eeat-mentions/internal/config"
	"github.com/sie-tools/eeat-mentions/internal/metrics"
	"github.com/sie-tools/eeat-mentions/internal/models"
	"github.com/sie-tools/eeat-mentions/internal/notifications"
	"github.com/sie-tools/eeat-mentions/internal/presence"
	"github.com/sie-tools/eeat-mentions/internal/scoring"
	"github.com/sie-tools/eeat-mentions/internal/sources"
	"github.com/sie-tools/eeat-mentions/internal/storage"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// PeriodManual marks reports produced on demand
const PeriodManual = "manual"

// SiteAnalyzer inspects a brand website
type SiteAnalyzer interface {
	Analyze(ctx context.Context, website string) (*models.SiteAnalysis, error)
}

// Dependencies are the adapters a Service runs with. Site, Storage and Notifier are optional.
type Dependencies struct {
	Searcher   sources.Searcher
	Classifier classifier.Classifier
	Presence   presence.Checker
	Site       SiteAnalyzer
	Storage    storage.StorageInterface
	Notifier   notifications.NotificationInterface
}

// Service runs brand analyses
type Service struct {
	config     *config.Config
	searcher   sources.Searcher
	classifier classifier.Classifier
	fallback   classifier.Classifier
	presence   presence.Checker
	site       SiteAnalyzer
	reports    *storage.ReportStore
	notifier   notifications.NotificationInterface
	metrics    *Metrics
	mu         sync.RWMutex
	now        func() time.Time
}

// Metrics holds the status of the most recent runs
type Metrics struct {
	TotalRuns        int                `json:"total_runs"`
	FailedRuns       int                `json:"failed_runs"`
	LastRun          time.Time          `json:"last_run"`
	LastRunDuration  string             `json:"last_run_duration"`
	LastBrand        string             `json:"last_brand"`
	LastScores       models.ScoreBundle `json:"last_scores"`
	CategoryMentions map[string]int     `json:"category_mentions"`
	WarningCount     int                `json:"warning_count"`
	AlertCount       int                `json:"alert_count"`
}

// NewService creates an analysis service
func NewService(cfg *config.Config, deps Dependencies) *Service {
	s := &Service{
		config:     cfg,
		searcher:   deps.Searcher,
		classifier: deps.Classifier,
		fallback:   classifier.NewKeywordClassifier(cfg.NegativeKeywords),
		presence:   deps.Presence,
		site:       deps.Site,
		notifier:   deps.Notifier,
		metrics:    &Metrics{CategoryMentions: make(map[string]int)},
		now:        time.Now,
	}
	if s.classifier == nil {
		s.classifier = s.fallback
	}
	if deps.Storage != nil {
		s.reports = storage.NewReportStore(deps.Storage)
	}
	return s
}

// runState collects the degradations of a single run
type runState struct {
	mu       sync.Mutex
	warnings []string
}

func (r *runState) warn(adapter string, err error, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}

	logrus.WithField("adapter", adapter).Warn(msg)
	metrics.RecordAdapterFailure(adapter)

	r.mu.Lock()
	r.warnings = append(r.warnings, msg)
	r.mu.Unlock()
}

// Run analyses a brand on demand, stores the report and sends notifications
func (s *Service) Run(ctx context.Context, brand *config.Brand) (*models.Report, error) {
	return s.run(ctx, brand, PeriodManual)
}

// RunScheduled analyses the brand configured for scheduled runs
func (s *Service) RunScheduled(ctx context.Context) error {
	if s.config.BrandConfigPath == "" {
		return fmt.Errorf("BRAND_CONFIG is not set")
	}

	brand, err := config.LoadBrand(s.config.BrandConfigPath)
	if err != nil {
		return err
	}

	_, err = s.run(ctx, brand, s.config.ReportSchedule)
	return err
}

func (s *Service) run(ctx context.Context, brand *config.Brand, period string) (*models.Report, error) {
	start := s.now()
	logrus.WithFields(logrus.Fields{"brand": brand.Name, "period": period}).Info("Starting analysis run")

	report, err := s.analyze(ctx, brand)
	if err != nil {
		s.recordFailure(time.Since(start))
		return nil, err
	}
	report.Period = period

	if s.reports != nil {
		s.attachHistory(ctx, report)
		if _, err := s.reports.Save(ctx, report); err != nil {
			logrus.Errorf("Failed to store report: %v", err)
			report.Warnings = append(report.Warnings, fmt.Sprintf("report not stored: %v", err))
		} else if s.config.ReportRetention > 0 {
			if removed, err := s.reports.Prune(ctx, brand.Name, s.config.ReportRetention); err != nil {
				logrus.Warnf("Failed to prune report history: %v", err)
			} else if removed > 0 {
				logrus.Infof("Pruned %d old reports of %s", removed, brand.Name)
			}
		}
	}

	if s.notifier != nil {
		if err := s.notifier.SendReport(ctx, report); err != nil {
			logrus.Errorf("Failed to send report: %v", err)
		}
	}

	alerts := s.raiseAlerts(ctx, report, brand.Scoring.TrustCategory)

	duration := time.Since(start)
	s.updateMetrics(report, len(alerts), duration)
	metrics.RecordScores(brand.Name, report.Scores)
	metrics.RecordRun(true, duration)

	logrus.WithFields(logrus.Fields{
		"brand":    brand.Name,
		"overall":  report.Scores.Overall,
		"mentions": report.MediaAnalysis.TotalMentions,
		"warnings": len(report.Warnings),
	}).Infof("Analysis run completed in %v", duration)

	return report, nil
}

// Analyze computes a report without storing or notifying
func (s *Service) Analyze(ctx context.Context, brand *config.Brand) (*models.Report, error) {
	return s.analyze(ctx, brand)
}

func (s *Service) analyze(ctx context.Context, brand *config.Brand) (*models.Report, error) {
	state := &runState{}
	entities := brand.Entities()

	found := s.checkPresence(ctx, state, entities)
	site, usesHTTPS := s.checkWebsite(ctx, state, brand)

	mentions, err := s.collectMentions(ctx, state, brand)
	if err != nil {
		return nil, err
	}

	analysis, err := scoring.Aggregate(mentions, brand.MediaWeights)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate mentions: %w", err)
	}

	scores := scoring.NewCalculator(brand.Scoring).Calculate(analysis, found, usesHTTPS)

	return &models.Report{
		ID:              uuid.New().String(),
		GeneratedAt:     s.now(),
		Period:          PeriodManual,
		Brand:           brand.Name,
		RelatedEntities: brand.RelatedEntities,
		Scores:          scores,
		MediaAnalysis:   analysis,
		RawMentions:     analysis.RawMentions(),
		Presence:        found,
		UsesHTTPS:       usesHTTPS,
		Site:            site,
		Recommendations: scoring.Recommend(scores, models.PositionUnknown),
		Warnings:        state.warnings,
	}, nil
}

func (s *Service) checkPresence(ctx context.Context, state *runState, entities []string) models.PresenceResult {
	empty := models.PresenceResult{RelatedEntitiesFound: []string{}}
	if s.presence == nil {
		return empty
	}

	result, err := s.presence.Check(ctx, entities)
	if err != nil {
		state.warn("presence", err, "presence check %s failed, treating all entities as not found", s.presence.Name())
		return empty
	}
	return result
}

func (s *Service) checkWebsite(ctx context.Context, state *runState, brand *config.Brand) (*models.SiteAnalysis, bool) {
	var site *models.SiteAnalysis
	if s.site != nil && s.config.AnalyzeWebsite && brand.Website != "" {
		analysis, err := s.site.Analyze(ctx, brand.Website)
		if err != nil {
			state.warn("site", err, "website analysis of %s failed", brand.Website)
		} else {
			site = analysis
		}
	}

	if brand.UsesHTTPS != nil {
		return site, *brand.UsesHTTPS
	}
	if site != nil {
		return site, site.UsesHTTPS
	}
	return site, false
}

// collectMentions searches every (category, entity) pair in configuration order
func (s *Service) collectMentions(ctx context.Context, state *runState, brand *config.Brand) (map[models.MediaCategory][]models.MentionRecord, error) {
	cls := s.classifier
	if cls != s.fallback {
		cls = classifier.NewFallback(s.classifier, s.fallback, func(err error) {
			state.warn("classifier", err, "classifier %s failed, used keyword classifier", s.classifier.Name())
		})
	}

	mentions := make(map[models.MediaCategory][]models.MentionRecord, len(brand.MediaWeights))
	for _, category := range brand.MediaWeights.Categories() {
	entities:
		for _, entity := range brand.Entities() {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("analysis of %s cancelled: %w", brand.Name, err)
			}

			items, err := s.searcher.Search(ctx, entity, category)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return nil, fmt.Errorf("analysis of %s cancelled: %w", brand.Name, err)
				}
				if errors.Is(err, sources.ErrNoSearcher) {
					state.warn("search", nil, "no search adapter for %s, category counted as empty", category)
					break entities
				}
				state.warn("search", err, "search %s/%s for %s failed", s.searcher.GetName(), category, entity)
				continue
			}

			for _, item := range items {
				if s.config.EnableRelevanceFilter && !IsRelevant(item, brand) {
					logrus.Debugf("Dropping irrelevant %s mention %q", category, item.Title)
					continue
				}

				record, err := sources.ToRecord(item, entity, category, models.LabelCorrect)
				if err != nil {
					logrus.WithError(err).Debug("Skipping search item")
					continue
				}

				label, err := cls.Classify(ctx, item.Snippet, brand.OfficialInfo)
				if err != nil || !label.Valid() {
					state.warn("classifier", err, "could not classify %q, marked Uncertain", record.Title)
					label = models.LabelUncertain
				}
				record.AccuracyLabel = label

				mentions[category] = append(mentions[category], record)
			}
		}
		metrics.RecordMentions(category, len(mentions[category]))
	}

	return mentions, nil
}

func (s *Service) attachHistory(ctx context.Context, report *models.Report) {
	previous, err := s.reports.Latest(ctx, report.Brand)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logrus.Warnf("Failed to load report history: %v", err)
		}
		return
	}
	overall := previous.Scores.Overall
	report.PreviousOverall = &overall
}

func (s *Service) raiseAlerts(ctx context.Context, report *models.Report, trustCategory models.MediaCategory) []models.Alert {
	alerts := FindAlerts(report, trustCategory, s.config.AlertKeywords, s.now())
	for i := range alerts {
		alert := &alerts[i]
		if s.reports != nil {
			if err := s.reports.SaveAlert(ctx, *alert); err != nil {
				logrus.Warnf("Failed to store alert: %v", err)
			}
		}
		if s.notifier != nil {
			if err := s.notifier.SendAlert(ctx, alert); err != nil {
				logrus.Errorf("Failed to send alert: %v", err)
			}
		}
	}
	if len(alerts) > 0 {
		logrus.Infof("Raised %d alerts for %s", len(alerts), report.Brand)
	}
	return alerts
}

// Benchmark analyses the brand and its competitors and compares their scores.
// Competitors are analysed concurrently, each in its own run.
func (s *Service) Benchmark(ctx context.Context, brand *config.Brand) (*models.BenchmarkResult, error) {
	start := s.now()

	target, err := s.analyze(ctx, brand)
	if err != nil {
		return nil, err
	}

	competitors := make([]models.BenchmarkEntry, len(brand.Competitors))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.BenchmarkConcurrency)

	for i, competitor := range brand.Competitors {
		g.Go(func() error {
			report, err := s.analyze(gctx, brand.AsCompetitor(competitor))
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				logrus.Warnf("Competitor analysis of %s failed: %v", competitor.Name, err)
				competitors[i] = models.BenchmarkEntry{Name: competitor.Name, Website: competitor.Website, Error: err.Error()}
				return nil
			}

			competitors[i] = models.NewBenchmarkEntry(competitor.Name, competitor.Website, report)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("benchmark of %s cancelled: %w", brand.Name, err)
	}

	result := scoring.Benchmark(models.NewBenchmarkEntry(brand.Name, brand.Website, target), competitors)

	if s.reports != nil {
		if _, err := s.reports.SaveBenchmark(ctx, &result); err != nil {
			logrus.Errorf("Failed to store benchmark: %v", err)
		}
	}

	logrus.WithFields(logrus.Fields{
		"brand":       brand.Name,
		"position":    result.MarketPosition,
		"competitors": len(competitors),
	}).Infof("Benchmark completed in %v", time.Since(start))

	return &result, nil
}

func (s *Service) updateMetrics(report *models.Report, alerts int, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.TotalRuns++
	s.metrics.LastRun = report.GeneratedAt
	s.metrics.LastRunDuration = duration.String()
	s.metrics.LastBrand = report.Brand
	s.metrics.LastScores = report.Scores
	s.metrics.WarningCount = len(report.Warnings)
	s.metrics.AlertCount = alerts

	s.metrics.CategoryMentions = make(map[string]int)
	for _, summary := range report.MediaAnalysis.MentionsByType {
		s.metrics.CategoryMentions[string(summary.Category)] = summary.Count
	}
}

func (s *Service) recordFailure(duration time.Duration) {
	s.mu.Lock()
	s.metrics.TotalRuns++
	s.metrics.FailedRuns++
	s.mu.Unlock()

	metrics.RecordRun(false, duration)
}

// GetMetrics returns current metrics as JSON
func (s *Service) GetMetrics() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, _ := json.MarshalIndent(s.metrics, "", "  ")
	return string(data)
}
