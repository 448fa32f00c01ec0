package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sie-tools/eeat-mentions/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"-fixtures", "-https=false", "brand.yaml"}, io.Discard)
	require.NoError(t, err)
	assert.True(t, opts.fixtures)
	assert.True(t, opts.httpsSet)
	assert.False(t, opts.https)
	assert.Equal(t, "brand.yaml", opts.brandPath)

	opts, err = parseFlags([]string{"brand.yaml"}, io.Discard)
	require.NoError(t, err)
	assert.False(t, opts.httpsSet)

	_, err = parseFlags([]string{"-fixtures"}, io.Discard)
	assert.Error(t, err)

	_, err = parseFlags([]string{"a.yaml", "b.yaml"}, io.Discard)
	assert.Error(t, err)
}

func TestApplyHTTPS(t *testing.T) {
	dir := t.TempDir()
	reportPath := filepath.Join(dir, "module1_output.json")
	require.NoError(t, os.WriteFile(reportPath, []byte(`{"site_analysis":{"uses_https":true}}`), 0644))

	brand := &config.Brand{Name: "Brand A"}
	require.NoError(t, applyHTTPS(brand, &options{siteReport: reportPath}))
	require.NotNil(t, brand.UsesHTTPS)
	assert.True(t, *brand.UsesHTTPS)

	// -https wins over the site report
	brand = &config.Brand{Name: "Brand A"}
	require.NoError(t, applyHTTPS(brand, &options{siteReport: reportPath, httpsSet: true, https: false}))
	require.NotNil(t, brand.UsesHTTPS)
	assert.False(t, *brand.UsesHTTPS)

	brand = &config.Brand{Name: "Brand A"}
	require.NoError(t, applyHTTPS(brand, &options{}))
	assert.Nil(t, brand.UsesHTTPS)

	err := applyHTTPS(brand, &options{siteReport: filepath.Join(dir, "missing.json")})
	assert.Error(t, err)
}

func TestRun_Fixtures(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("SEARCH_MODE", "")
	t.Setenv("CLASSIFIER_PROVIDER", "")
	t.Setenv("NOTIFICATION_EMAIL", "")

	var out bytes.Buffer
	err := run(context.Background(), &options{
		fixtures:  true,
		https:     true,
		httpsSet:  true,
		brandPath: "../../configs/brand.example.yaml",
	}, &out)
	require.NoError(t, err)

	var report map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, "台灣品牌A", report["brand_name"])
	assert.Equal(t, true, report["uses_https"])
	assert.Contains(t, report, "eeat_scores")
	assert.Contains(t, report, "raw_mentions")
	assert.NotContains(t, report, "site_analysis")
}

func TestRun_MissingBrandConfig(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("SEARCH_MODE", "")
	t.Setenv("CLASSIFIER_PROVIDER", "")
	t.Setenv("NOTIFICATION_EMAIL", "")

	err := run(context.Background(), &options{fixtures: true, brandPath: "does-not-exist.yaml"}, io.Discard)
	assert.Error(t, err)
}
