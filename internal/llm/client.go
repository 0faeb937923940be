package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"auto-api-docs/internal/logger"
	"auto-api-docs/internal/types"
)

// maxBodyInPrompt bounds the part of a recorded response body sent to the model
const maxBodyInPrompt = 2000

// BaseClient implements Client on top of a provider call
type BaseClient struct {
	config *Config
	logger *logger.Logger
	call   callFunc
}

// NewBaseClient creates a new base LLM client
func NewBaseClient(config *Config, logger *logger.Logger, call callFunc) *BaseClient {
	return &BaseClient{
		config: config,
		logger: logger,
		call:   call,
	}
}

// Describe implements the Client interface
func (c *BaseClient) Describe(ctx context.Context, example types.Example) (string, error) {
	input := map[string]interface{}{
		"method": example.Method,
		"route":  example.Route,
	}
	if c.call == nil {
		err := errors.New("no provider call configured")
		c.logger.LogLLMInteraction("Describe", input, nil, err)
		return "", err
	}

	response, err := c.call(ctx, describePrompt(example))
	if err != nil {
		c.logger.LogLLMInteraction("Describe", input, nil, err)
		return "", fmt.Errorf("failed to describe %s %s: %w", example.Method, example.Route, err)
	}

	description := strings.TrimSpace(response)
	if description == "" {
		err := errors.New("empty response")
		c.logger.LogLLMInteraction("Describe", input, nil, err)
		return "", fmt.Errorf("failed to describe %s %s: %w", example.Method, example.Route, err)
	}

	c.logger.LogLLMInteraction("Describe", input, description, nil)
	return description, nil
}

// Enrich implements the Client interface. Failures are logged and skipped;
// examples that already carry a full description are left alone.
func (c *BaseClient) Enrich(ctx context.Context, examples []types.Example) int {
	enriched := 0
	for i := range examples {
		if examples[i].FullDescription != "" {
			continue
		}
		if ctx.Err() != nil {
			c.logger.Errorf("Stopping description enrichment: %v", ctx.Err())
			break
		}
		description, err := c.Describe(ctx, examples[i])
		if err != nil {
			c.logger.Errorf("Skipping description for %s %s: %v", examples[i].Method, examples[i].Route, err)
			continue
		}
		examples[i].FullDescription = description
		enriched++
	}
	return enriched
}

func describePrompt(example types.Example) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Describe in one or two plain sentences what the API operation %s %s does.\n",
		strings.ToUpper(example.Method), example.Route)
	if example.Description != "" {
		fmt.Fprintf(&b, "Title: %s\n", example.Description)
	}
	for _, param := range example.Parameters {
		if param.Name == nil {
			continue
		}
		in := param.In
		if in == "" {
			in = "query"
		}
		fmt.Fprintf(&b, "Parameter: %s (%s)\n", *param.Name, in)
	}
	if len(example.Requests) > 0 {
		request := example.Requests[len(example.Requests)-1]
		fmt.Fprintf(&b, "Observed response: %d %s\n", request.ResponseStatus, request.ResponseStatusText)
		if body := request.ResponseBody; body != "" {
			body = truncate(body, maxBodyInPrompt)
			fmt.Fprintf(&b, "Response body:\n%s\n", body)
		}
	}
	b.WriteString("Respond with the description only.")
	return b.String()
}

// truncate cuts s to at most limit bytes without splitting a UTF-8 sequence
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
