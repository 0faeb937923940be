package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"auto-api-docs/internal/docerrors"
	"auto-api-docs/internal/logger"
	"auto-api-docs/internal/types"

	"github.com/google/uuid"
)

// Result is the outcome of recording a single scenario
type Result struct {
	Route    string
	Method   string
	Path     string
	Status   int
	Duration time.Duration
	Attempts int
	Error    error
	Request  *types.RecordedRequest
}

// RecorderConfig holds configuration for scenario recording
type RecorderConfig struct {
	BaseURL    string
	Concurrent bool
	MaxWorkers int
	Timeout    time.Duration
	Retry      RetryConfig
	Auth       AuthConfig
}

// RetryConfig holds configuration for retry behavior
type RetryConfig struct {
	Attempts int
	Delay    time.Duration
}

// AuthConfig describes credentials added to every recorded request
type AuthConfig struct {
	Type   string
	Token  string
	Header string
}

// Recorder issues the requests described by scenarios and captures the
// exchanges as documented examples.
type Recorder struct {
	config RecorderConfig
	client *http.Client
	logger *logger.Logger
}

// NewRecorder creates a new recorder
func NewRecorder(config RecorderConfig, log *logger.Logger) *Recorder {
	if config.MaxWorkers < 1 {
		config.MaxWorkers = 1
	}
	if config.Retry.Attempts < 1 {
		config.Retry.Attempts = 1
	}
	return &Recorder{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: log,
	}
}

// Record runs every scenario and returns the recorded examples together with
// one result per scenario. Both keep the scenarios' order. Scenarios whose
// exchange failed produce a result with an error and no example.
func (r *Recorder) Record(ctx context.Context, scenarios []types.Scenario) ([]types.Example, []Result) {
	results := make([]Result, len(scenarios))
	examples := make([]*types.Example, len(scenarios))

	run := func(i int) {
		example, result := r.recordScenario(ctx, scenarios[i])
		results[i] = result
		examples[i] = example
	}

	if r.config.Concurrent {
		var wg sync.WaitGroup
		// Create a channel to limit concurrent executions
		sem := make(chan struct{}, r.config.MaxWorkers)
		for i := range scenarios {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()
				run(i)
			}(i)
		}
		wg.Wait()
	} else {
		for i := range scenarios {
			run(i)
		}
	}

	recorded := make([]types.Example, 0, len(scenarios))
	for _, example := range examples {
		if example != nil {
			recorded = append(recorded, *example)
		}
	}
	return recorded, results
}

func (r *Recorder) recordScenario(ctx context.Context, scenario types.Scenario) (*types.Example, Result) {
	method := strings.ToUpper(scenario.Method)
	result := Result{Route: scenario.Route, Method: method}

	if err := scenario.Validate(); err != nil {
		result.Error = &docerrors.MalformedExampleError{Route: scenario.Route, Method: scenario.Method, Cause: err}
		return nil, result
	}

	path, err := ExpandRoute(scenario.Route, scenario.PathParams)
	if err != nil {
		result.Error = err
		return nil, result
	}
	result.Path = path

	body, err := encodeBody(scenario.Body)
	if err != nil {
		result.Error = fmt.Errorf("failed to marshal request body: %w", err)
		return nil, result
	}

	query := encodeQuery(scenario.QueryParams)

	// Execute with retries; only transport errors are retried
	var recorded *types.RecordedRequest
	for attempt := 1; attempt <= r.config.Retry.Attempts; attempt++ {
		result.Attempts = attempt
		var req *http.Request
		req, err = r.buildRequest(ctx, method, path, query, body, scenario.Headers)
		if err != nil {
			break
		}

		start := time.Now()
		recorded, err = r.execute(req, body)
		result.Duration = time.Since(start)
		r.logger.LogRecording(method, path, statusOf(recorded), result.Duration, err)
		if err == nil || ctx.Err() != nil {
			break
		}
		if attempt < r.config.Retry.Attempts {
			select {
			case <-ctx.Done():
			case <-time.After(r.config.Retry.Delay):
			}
		}
	}
	if err != nil {
		result.Error = &docerrors.RecordingError{Route: scenario.Route, Method: method, Attempt: result.Attempts, Cause: err}
		return nil, result
	}

	result.Status = recorded.ResponseStatus
	result.Request = recorded

	example := &types.Example{
		Resource:        scenario.Resource,
		Route:           scenario.Route,
		Method:          strings.ToLower(scenario.Method),
		Description:     scenario.Description,
		FullDescription: scenario.Explanation,
		Parameters:      scenario.Parameters,
		Requests:        []types.RecordedRequest{*recorded},
		Headers:         scenario.Headers,
		Definitions:     scenario.Definitions,
	}
	return example, result
}

// ExpandRoute fills :name placeholders in route with escaped values from params.
func ExpandRoute(route string, params map[string]any) (string, error) {
	segments := strings.Split(route, "/")
	for i, segment := range segments {
		if !strings.HasPrefix(segment, ":") {
			continue
		}
		name := segment[1:]
		value, ok := params[name]
		if !ok {
			return "", fmt.Errorf("no value for path parameter %q in %s", name, route)
		}
		segments[i] = url.PathEscape(fmt.Sprint(value))
	}
	return strings.Join(segments, "/"), nil
}

func encodeQuery(params map[string]any) url.Values {
	values := url.Values{}
	for key, value := range params {
		switch v := value.(type) {
		case []any:
			for _, item := range v {
				values.Add(key, fmt.Sprint(item))
			}
		default:
			values.Set(key, fmt.Sprint(v))
		}
	}
	return values
}

func encodeBody(body any) ([]byte, error) {
	switch v := body.(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(v), nil
	default:
		return json.Marshal(v)
	}
}

// buildRequest creates an HTTP request for a scenario
func (r *Recorder) buildRequest(ctx context.Context, method, path string, query url.Values, body []byte, headers map[string]string) (*http.Request, error) {
	target := strings.TrimRight(r.config.BaseURL, "/") + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	switch r.config.Auth.Type {
	case "bearer":
		if r.config.Auth.Token != "" {
			req.Header.Set("Authorization", "Bearer "+r.config.Auth.Token)
		}
	case "basic":
		if user, pass, ok := strings.Cut(r.config.Auth.Token, ":"); ok {
			req.SetBasicAuth(user, pass)
		}
	case "header":
		if r.config.Auth.Token != "" {
			req.Header.Set(r.config.Auth.Header, r.config.Auth.Token)
		}
	}

	return req, nil
}

// execute sends the request and captures the exchange
func (r *Recorder) execute(req *http.Request, body []byte) (*types.RecordedRequest, error) {
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	recorded := &types.RecordedRequest{
		ID:                  uuid.NewString(),
		RequestMethod:       req.Method,
		RequestPath:         req.URL.Path,
		RequestHeaders:      r.redact(flattenHeader(req.Header)),
		RequestQueryParams:  flattenQuery(req.URL.Query()),
		RequestBody:         string(body),
		ResponseStatus:      resp.StatusCode,
		ResponseStatusText:  http.StatusText(resp.StatusCode),
		ResponseHeaders:     flattenHeader(resp.Header),
		ResponseBody:        formatBody(resp.Header.Get("Content-Type"), respBody),
		ResponseContentType: resp.Header.Get("Content-Type"),
	}
	return recorded, nil
}

// formatBody pretty prints JSON bodies and keeps anything else verbatim
func formatBody(contentType string, body []byte) string {
	if strings.Contains(contentType, "json") {
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, body, "", "  "); err == nil {
			return pretty.String()
		}
	}
	return string(body)
}

func flattenHeader(header http.Header) map[string]string {
	if len(header) == 0 {
		return nil
	}
	out := make(map[string]string, len(header))
	for key, values := range header {
		out[key] = strings.Join(values, ", ")
	}
	return out
}

func flattenQuery(values url.Values) map[string]string {
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]string, len(values))
	for key, vals := range values {
		out[key] = strings.Join(vals, ",")
	}
	return out
}

// redact hides the configured credentials from recorded headers
func (r *Recorder) redact(headers map[string]string) map[string]string {
	for _, name := range []string{"Authorization", r.config.Auth.Header} {
		if name == "" {
			continue
		}
		if _, ok := headers[http.CanonicalHeaderKey(name)]; ok {
			headers[http.CanonicalHeaderKey(name)] = "[REDACTED]"
		}
	}
	return headers
}

func statusOf(recorded *types.RecordedRequest) int {
	if recorded == nil {
		return 0
	}
	return recorded.ResponseStatus
}
