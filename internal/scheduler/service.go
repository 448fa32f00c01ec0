package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sie-tools/eeat-mentions/internal/config"
	"github.com/sirupsen/logrus"
)

// Runner performs a scheduled analysis
type Runner interface {
	RunScheduled(ctx context.Context) error
}

// runTimeout bounds a single scheduled analysis
const runTimeout = 30 * time.Minute

// Service handles scheduling of analysis runs
type Service struct {
	config *config.Config
	runner Runner
	cron   *cron.Cron
}

// NewService creates a new scheduler service
func NewService(cfg *config.Config, runner Runner) (*Service, error) {
	location, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.TimeZone, err)
	}

	return &Service{
		config: cfg,
		runner: runner,
		cron:   cron.New(cron.WithSeconds(), cron.WithLocation(location)),
	}, nil
}

// Expression returns the cron expression of a report schedule
func Expression(schedule string) string {
	switch schedule {
	case "daily":
		// every day at 9 AM
		return "0 0 9 * * *"
	default:
		// Monday at 9 AM
		return "0 0 9 * * MON"
	}
}

// Start begins the scheduled analysis runs
func (s *Service) Start() error {
	_, err := s.cron.AddFunc(Expression(s.config.ReportSchedule), s.runOnce)
	if err != nil {
		return err
	}

	s.cron.Start()
	logrus.Infof("Scheduler started with %s schedule (%s)", s.config.ReportSchedule, s.config.TimeZone)
	return nil
}

func (s *Service) runOnce() {
	logrus.Info("Starting scheduled analysis run")

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	if err := s.runner.RunScheduled(ctx); err != nil {
		logrus.Errorf("Scheduled analysis run failed: %v", err)
	}
}

// Next returns the time of the next scheduled run, zero when not started
func (s *Service) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// Stop stops the scheduler and waits for a running analysis to finish
func (s *Service) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
		logrus.Info("Scheduler stopped")
	}
}
