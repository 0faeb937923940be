package reporter

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"auto-api-docs/internal/docerrors"
	"auto-api-docs/internal/executor"
	"auto-api-docs/internal/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResults() []executor.Result {
	return []executor.Result{
		{
			Route: "/orders", Method: "post", Path: "/orders", Status: 201,
			Duration: 20 * time.Millisecond, Attempts: 1,
			Request: &types.RecordedRequest{RequestBody: `{"name":"Order 1"}`, ResponseBody: `{"id":1}`},
		},
		{
			Route: "/orders/:id", Method: "get", Duration: 5 * time.Millisecond, Attempts: 2,
			Error: errors.New("connection refused"),
		},
	}
}

func newTestReporter(config ReportingConfig) *Reporter {
	r := NewReporter(config)
	r.now = func() time.Time { return time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC) }
	return r
}

func TestGenerateReportJSON(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	r := newTestReporter(ReportingConfig{Format: []string{"json"}, OutputDir: dir})

	paths, err := r.GenerateReport(sampleResults())
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "report_20240301_103000.json")}, paths)

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	var report Report
	require.NoError(t, json.Unmarshal(data, &report))

	_, err = uuid.Parse(report.RunID)
	assert.NoError(t, err)
	assert.Equal(t, 2, report.TotalScenarios)
	assert.Equal(t, 1, report.Recorded)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 25*time.Millisecond, report.Duration)
	require.Len(t, report.Results, 2)
	assert.Equal(t, 201, report.Results[0].Status)
	assert.Empty(t, report.Results[0].ResponseBody)
	assert.Equal(t, "connection refused", report.Results[1].Error)
	assert.Equal(t, 2, report.Results[1].Attempts)
}

func TestGenerateReportDetailed(t *testing.T) {
	r := newTestReporter(ReportingConfig{Detailed: true})
	report := r.buildReport(sampleResults())

	assert.Equal(t, `{"name":"Order 1"}`, report.Results[0].RequestBody)
	assert.Equal(t, `{"id":1}`, report.Results[0].ResponseBody)
	assert.Empty(t, report.Results[1].ResponseBody)
}

func TestGenerateReportUnsupportedFormat(t *testing.T) {
	r := newTestReporter(ReportingConfig{Format: []string{"html"}, OutputDir: t.TempDir()})

	_, err := r.GenerateReport(sampleResults())
	assert.True(t, errors.Is(err, docerrors.ErrConfig))
}

func TestGenerateReportNoFormats(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	paths, err := newTestReporter(ReportingConfig{OutputDir: dir}).GenerateReport(sampleResults())
	require.NoError(t, err)
	assert.Empty(t, paths)
	assert.NoDirExists(t, dir)
}
