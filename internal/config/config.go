package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"auto-api-docs/internal/docerrors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where LoadConfig looks when no path is given.
const DefaultPath = "config/config.yaml"

// Config holds the application configuration
type Config struct {
	APIName           string   `yaml:"api_name"`
	DocsDir           string   `yaml:"docs_dir"`
	Format            []string `yaml:"format"`
	ConsumesNullEntry bool     `yaml:"consumes_null_entry"`
	Environment       Environment
	Test              TestConfig
	Reporting         ReportingConfig
	LLM               LLMConfig `yaml:"llm"`
}

// Environment holds environment-specific configuration
type Environment struct {
	BaseURL string `yaml:"base_url"`
	Auth    AuthConfig
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	Type   string `yaml:"type"`
	Token  string `yaml:"token"`
	Header string `yaml:"header"`
}

// TestConfig holds recording configuration
type TestConfig struct {
	Concurrent bool        `yaml:"concurrent"`
	MaxWorkers int         `yaml:"max_workers"`
	Timeout    int         `yaml:"timeout"`
	Retry      RetryConfig `yaml:"retry"`
}

// RetryConfig holds retry configuration
type RetryConfig struct {
	Attempts int `yaml:"attempts"`
	Delay    int `yaml:"delay"`
}

// ReportingConfig holds reporting configuration
type ReportingConfig struct {
	Format    []string `yaml:"format"`
	OutputDir string   `yaml:"output_dir"`
	Detailed  bool     `yaml:"detailed"`
}

// LLMConfig holds configuration for the optional example describer.
// The describer is disabled when Provider is empty.
type LLMConfig struct {
	Provider string `yaml:"provider"`
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
}

// Enabled reports whether an LLM provider is configured.
func (c LLMConfig) Enabled() bool {
	return c.Provider != ""
}

// LoadConfig loads the configuration from path (DefaultPath when empty),
// applies environment overrides and defaults, and validates the result.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &docerrors.ConfigError{Message: fmt.Sprintf("config file not found at %s", path), Cause: err}
		}
		return nil, &docerrors.IOError{Op: "read", Path: path, Cause: err}
	}

	config, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return config, nil
}

// Parse decodes YAML configuration and finishes it like LoadConfig does.
func Parse(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, &docerrors.ConfigError{Message: "failed to parse config file", Cause: err}
	}

	config.applyEnv()
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) applyEnv() {
	if name := os.Getenv("API_NAME"); name != "" {
		c.APIName = name
	}
	if dir := os.Getenv("DOCS_DIR"); dir != "" {
		c.DocsDir = dir
	}
	if token := os.Getenv("AUTH_TOKEN"); token != "" {
		c.Environment.Auth.Token = token
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.LLM.APIKey = key
	}
}

func (c *Config) applyDefaults() {
	if c.DocsDir == "" {
		c.DocsDir = filepath.Join("doc", "api")
	}
	if len(c.Format) == 0 {
		c.Format = []string{"swagger"}
	}
	if c.Test.MaxWorkers == 0 {
		c.Test.MaxWorkers = 5
	}
	if c.Test.Timeout == 0 {
		c.Test.Timeout = 30
	}
	if c.Test.Retry.Attempts == 0 {
		c.Test.Retry.Attempts = 1
	}
	if c.Test.Retry.Delay == 0 {
		c.Test.Retry.Delay = 1
	}
	if c.Environment.Auth.Type == "header" && c.Environment.Auth.Header == "" {
		c.Environment.Auth.Header = "X-Api-Key"
	}
	if len(c.Reporting.Format) == 0 {
		c.Reporting.Format = []string{"json"}
	}
	if c.Reporting.OutputDir == "" {
		c.Reporting.OutputDir = "reports"
	}
	if c.LLM.Enabled() && c.LLM.Model == "" {
		c.LLM.Model = "gpt-4o-mini"
	}
}

// Validate checks the configuration. Failures are reported as *docerrors.ConfigError.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.APIName, validation.Required),
		validation.Field(&c.DocsDir, validation.Required),
		validation.Field(&c.Format, validation.Each(validation.In("swagger", "swagger_yaml"))),
	)
	if err == nil {
		err = validation.ValidateStruct(&c.Environment,
			validation.Field(&c.Environment.BaseURL, is.URL),
		)
	}
	if err == nil {
		err = validation.ValidateStruct(&c.Environment.Auth,
			validation.Field(&c.Environment.Auth.Type, validation.In("bearer", "basic", "header")),
		)
	}
	if err == nil {
		err = validation.ValidateStruct(&c.Test,
			validation.Field(&c.Test.MaxWorkers, validation.Min(1)),
			validation.Field(&c.Test.Timeout, validation.Min(1)),
		)
	}
	if err == nil {
		err = validation.ValidateStruct(&c.Test.Retry,
			validation.Field(&c.Test.Retry.Attempts, validation.Min(1)),
			validation.Field(&c.Test.Retry.Delay, validation.Min(0)),
		)
	}
	if err == nil {
		err = validation.ValidateStruct(&c.Reporting,
			validation.Field(&c.Reporting.Format, validation.Each(validation.In("json"))),
		)
	}
	if err == nil {
		err = validation.ValidateStruct(&c.LLM,
			validation.Field(&c.LLM.Provider, validation.In("openai")),
		)
	}
	if err != nil {
		return &docerrors.ConfigError{Message: "invalid configuration", Cause: err}
	}
	return nil
}

// RequireBaseURL reports an error when no base URL is configured; recording needs one.
func (c *Config) RequireBaseURL() error {
	if c.Environment.BaseURL == "" {
		return &docerrors.ConfigError{Field: "environment.base_url", Message: "required for recording"}
	}
	return nil
}
