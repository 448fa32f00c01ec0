package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sie-tools/eeat-mentions/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStorage is a mock implementation of the storage interface
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Store(ctx context.Context, name string, data []byte) error {
	args := m.Called(ctx, name, data)
	return args.Error(0)
}

func (m *MockStorage) Retrieve(ctx context.Context, name string) ([]byte, error) {
	args := m.Called(ctx, name)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *MockStorage) List(ctx context.Context, prefix string) ([]string, error) {
	args := m.Called(ctx, prefix)
	names, _ := args.Get(0).([]string)
	return names, args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func newTestSQLite(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "data", "eeat.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStorage_CRUD(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	require.NoError(t, s.Store(ctx, "reports/a/1.json", []byte("one")))
	require.NoError(t, s.Store(ctx, "reports/a/2.json", []byte("two")))
	require.NoError(t, s.Store(ctx, "reports/b/1.json", []byte("other")))
	require.NoError(t, s.Store(ctx, "reports/a/1.json", []byte("one again")))

	data, err := s.Retrieve(ctx, "reports/a/1.json")
	require.NoError(t, err)
	assert.Equal(t, "one again", string(data))

	names, err := s.List(ctx, "reports/a/")
	require.NoError(t, err)
	assert.Equal(t, []string{"reports/a/1.json", "reports/a/2.json"}, names)

	require.NoError(t, s.Delete(ctx, "reports/a/1.json"))
	_, err = s.Retrieve(ctx, "reports/a/1.json")
	assert.True(t, errors.Is(err, ErrNotFound))

	names, err = s.List(ctx, "reports/")
	require.NoError(t, err)
	assert.Equal(t, []string{"reports/a/2.json", "reports/b/1.json"}, names)
}

func TestSQLiteStorage_InMemory(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Store(ctx, "k", []byte("v")))
	data, err := s.Retrieve(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(data))
}

func TestSlug(t *testing.T) {
	tests := []struct {
		brand    string
		expected string
	}{
		{"Brand A", "brand-a"},
		{"  ACME, Inc. ", "acme-inc"},
		{"台灣品牌A", "台灣品牌a"},
		{"---", "brand"},
		{"", "brand"},
	}

	for _, tt := range tests {
		t.Run(tt.brand, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slug(tt.brand))
		})
	}
}

func TestReportKey(t *testing.T) {
	at := time.Date(2026, time.March, 4, 9, 30, 15, 250_000_000, time.FixedZone("CST", 8*3600))
	assert.Equal(t, "reports/brand-a/20260304T013015.250Z.json", ReportKey("Brand A", at))
}

func TestReportStore_History(t *testing.T) {
	ctx := context.Background()
	reports := NewReportStore(newTestSQLite(t))

	_, err := reports.Latest(ctx, "Brand A")
	assert.True(t, errors.Is(err, ErrNotFound))

	base := time.Date(2026, time.January, 1, 9, 0, 0, 0, time.UTC)
	for i, overall := range []int{21, 35, 30} {
		_, err := reports.Save(ctx, &models.Report{
			ID:          "run",
			GeneratedAt: base.Add(time.Duration(i) * 24 * time.Hour),
			Brand:       "Brand A",
			Scores:      models.ScoreBundle{Overall: overall},
		})
		require.NoError(t, err)
	}
	_, err = reports.Save(ctx, &models.Report{GeneratedAt: base.Add(72 * time.Hour), Brand: "Brand B"})
	require.NoError(t, err)

	latest, err := reports.Latest(ctx, "Brand A")
	require.NoError(t, err)
	assert.Equal(t, 30, latest.Scores.Overall)

	removed, err := reports.Prune(ctx, "Brand A", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	keys, err := reports.Keys(ctx, "Brand A")
	require.NoError(t, err)
	assert.Equal(t, []string{"reports/brand-a/20260103T090000.000Z.json"}, keys)
}

func TestReportStore_SaveAlert(t *testing.T) {
	backend := &MockStorage{}
	alert := models.Alert{
		ID:        "abc",
		Brand:     "Brand A",
		CreatedAt: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
	backend.On("Store", mock.Anything, "alerts/brand-a/20260101T000000.000Z-abc.json", mock.Anything).Return(nil)

	require.NoError(t, NewReportStore(backend).SaveAlert(context.Background(), alert))
	backend.AssertExpectations(t)
}

func TestReportStore_BackendFailure(t *testing.T) {
	backend := &MockStorage{}
	backend.On("List", mock.Anything, "reports/brand-a/").Return(nil, errors.New("unavailable"))

	_, err := NewReportStore(backend).Latest(context.Background(), "Brand A")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}
