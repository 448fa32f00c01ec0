package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/sie-tools/eeat-mentions/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	reportsPrefix    = "reports/"
	alertsPrefix     = "alerts/"
	benchmarksPrefix = "benchmarks/"
	keyTimeLayout    = "20060102T150405.000Z" // sorts lexicographically in time order
)

// Slug turns a brand name into a storage path segment. Letters of any script are kept.
func Slug(brand string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(brand)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}

	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return "brand"
	}
	return slug
}

// ReportKey is the object name of a report generated at the given time
func ReportKey(brand string, at time.Time) string {
	return fmt.Sprintf("%s%s/%s.json", reportsPrefix, Slug(brand), at.UTC().Format(keyTimeLayout))
}

// AlertKey is the object name of an alert
func AlertKey(alert models.Alert) string {
	return fmt.Sprintf("%s%s/%s-%s.json", alertsPrefix, Slug(alert.Brand), alert.CreatedAt.UTC().Format(keyTimeLayout), alert.ID)
}

// BenchmarkKey is the object name of a benchmark of the given target brand
func BenchmarkKey(brand string, at time.Time) string {
	return fmt.Sprintf("%s%s/%s.json", benchmarksPrefix, Slug(brand), at.UTC().Format(keyTimeLayout))
}

// ReportStore keeps the report history of every analysed brand on top of a backend
type ReportStore struct {
	backend StorageInterface
}

// NewReportStore wraps a storage backend
func NewReportStore(backend StorageInterface) *ReportStore {
	return &ReportStore{backend: backend}
}

// Save stores the report and returns its key
func (r *ReportStore) Save(ctx context.Context, report *models.Report) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	key := ReportKey(report.Brand, report.GeneratedAt)
	if err := r.backend.Store(ctx, key, data); err != nil {
		return "", err
	}

	logrus.WithFields(logrus.Fields{"brand": report.Brand, "key": key}).Info("Report stored")
	return key, nil
}

// Keys lists the stored report keys of a brand, oldest first
func (r *ReportStore) Keys(ctx context.Context, brand string) ([]string, error) {
	keys, err := r.backend.List(ctx, reportsPrefix+Slug(brand)+"/")
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

// Latest returns the most recent stored report of a brand, ErrNotFound when there is none
func (r *ReportStore) Latest(ctx context.Context, brand string) (*models.Report, error) {
	keys, err := r.Keys(ctx, brand)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("no reports for %s: %w", brand, ErrNotFound)
	}
	return r.Load(ctx, keys[len(keys)-1])
}

// Load reads a single report
func (r *ReportStore) Load(ctx context.Context, key string) (*models.Report, error) {
	data, err := r.backend.Retrieve(ctx, key)
	if err != nil {
		return nil, err
	}

	var report models.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to parse report %s: %w", key, err)
	}
	return &report, nil
}

// SaveAlert stores an alert next to the reports
func (r *ReportStore) SaveAlert(ctx context.Context, alert models.Alert) error {
	data, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}
	return r.backend.Store(ctx, AlertKey(alert), data)
}

// Prune deletes all but the newest keep reports of a brand
func (r *ReportStore) Prune(ctx context.Context, brand string, keep int) (int, error) {
	keys, err := r.Keys(ctx, brand)
	if err != nil {
		return 0, err
	}
	if keep < 0 {
		keep = 0
	}
	if len(keys) <= keep {
		return 0, nil
	}

	stale := keys[:len(keys)-keep]
	for _, key := range stale {
		if err := r.backend.Delete(ctx, key); err != nil {
			return 0, err
		}
	}
	return len(stale), nil
}

// SaveBenchmark stores a benchmark result and returns its key
func (r *ReportStore) SaveBenchmark(ctx context.Context, result *models.BenchmarkResult) (string, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal benchmark: %w", err)
	}

	key := BenchmarkKey(result.Target.Name, result.GeneratedAt)
	if err := r.backend.Store(ctx, key, data); err != nil {
		return "", err
	}
	return key, nil
}
