package reporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"auto-api-docs/internal/docerrors"
	"auto-api-docs/internal/executor"

	"github.com/google/uuid"
)

// Report represents the outcome of one recording run
type Report struct {
	RunID          string           `json:"run_id"`
	Timestamp      time.Time        `json:"timestamp"`
	TotalScenarios int              `json:"total_scenarios"`
	Recorded       int              `json:"recorded"`
	Failed         int              `json:"failed"`
	Duration       time.Duration    `json:"duration"`
	Results        []ScenarioResult `json:"results"`
}

// ScenarioResult represents a single recorded scenario
type ScenarioResult struct {
	Route        string        `json:"route"`
	Method       string        `json:"method"`
	Path         string        `json:"path,omitempty"`
	Status       int           `json:"status,omitempty"`
	Duration     time.Duration `json:"duration"`
	Attempts     int           `json:"attempts"`
	Error        string        `json:"error,omitempty"`
	RequestBody  string        `json:"request_body,omitempty"`
	ResponseBody string        `json:"response_body,omitempty"`
}

// Reporter handles the generation of run reports
type Reporter struct {
	config ReportingConfig
	now    func() time.Time
}

// ReportingConfig holds the configuration for reporting
type ReportingConfig struct {
	Format    []string
	OutputDir string
	Detailed  bool
}

// NewReporter creates a new instance of Reporter
func NewReporter(config ReportingConfig) *Reporter {
	return &Reporter{
		config: config,
		now:    time.Now,
	}
}

// GenerateReport writes the run report in every configured format and
// returns the written paths.
func (r *Reporter) GenerateReport(results []executor.Result) ([]string, error) {
	report := r.buildReport(results)

	var paths []string
	for _, format := range r.config.Format {
		switch format {
		case "json":
			path, err := r.generateJSONReport(report)
			if err != nil {
				return paths, fmt.Errorf("failed to generate JSON report: %w", err)
			}
			paths = append(paths, path)
		default:
			return paths, &docerrors.ConfigError{Field: "reporting.format", Message: fmt.Sprintf("unsupported report format %q", format)}
		}
	}

	return paths, nil
}

func (r *Reporter) buildReport(results []executor.Result) Report {
	report := Report{
		RunID:          uuid.NewString(),
		Timestamp:      r.now(),
		TotalScenarios: len(results),
		Results:        make([]ScenarioResult, 0, len(results)),
	}

	for _, result := range results {
		entry := ScenarioResult{
			Route:    result.Route,
			Method:   result.Method,
			Path:     result.Path,
			Status:   result.Status,
			Duration: result.Duration,
			Attempts: result.Attempts,
		}
		if result.Error != nil {
			entry.Error = result.Error.Error()
			report.Failed++
		} else {
			report.Recorded++
		}
		if r.config.Detailed && result.Request != nil {
			entry.RequestBody = result.Request.RequestBody
			entry.ResponseBody = result.Request.ResponseBody
		}
		report.Duration += result.Duration
		report.Results = append(report.Results, entry)
	}

	return report
}

// generateJSONReport generates a JSON format report
func (r *Reporter) generateJSONReport(report Report) (string, error) {
	// Create output directory if it doesn't exist
	if err := os.MkdirAll(r.config.OutputDir, 0755); err != nil {
		return "", &docerrors.IOError{Op: "mkdir", Path: r.config.OutputDir, Cause: err}
	}

	reportPath := filepath.Join(r.config.OutputDir, fmt.Sprintf("report_%s.json", report.Timestamp.Format("20060102_150405")))

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", &docerrors.SerializationError{Format: "json", Cause: err}
	}

	if err := os.WriteFile(reportPath, data, 0644); err != nil {
		return "", &docerrors.IOError{Op: "write", Path: reportPath, Cause: err}
	}
	return reportPath, nil
}
