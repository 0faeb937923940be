package testdata

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"auto-api-docs/internal/docerrors"
	"auto-api-docs/internal/types"

	"gopkg.in/yaml.v3"
)

// ScenarioFile is the on-disk layout of a scenarios file
type ScenarioFile struct {
	Scenarios []types.Scenario `json:"scenarios" yaml:"scenarios"`
}

// Loader handles loading scenarios from a directory
type Loader struct {
	dir string
}

// NewLoader creates a new scenario loader
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// candidates are tried in order; the template written by scaffold comes last
// so that a reviewed scenarios file always wins.
var candidates = []string{"scenarios.yaml", "scenarios.yml", "scenarios.json", TemplateFileName}

// LoadScenarios loads the first scenarios file found in the loader's directory
func (l *Loader) LoadScenarios() ([]types.Scenario, error) {
	for _, name := range candidates {
		scenarios, err := l.loadFromFile(name)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		return scenarios, err
	}
	return nil, &docerrors.ConfigError{
		Field:   "scenarios",
		Message: fmt.Sprintf("no scenarios file found in %s", l.dir),
		Cause:   os.ErrNotExist,
	}
}

func (l *Loader) loadFromFile(filename string) ([]types.Scenario, error) {
	path := filepath.Join(l.dir, filename)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file ScenarioFile
	if filepath.Ext(filename) == ".json" {
		err = json.Unmarshal(data, &file)
	} else {
		err = yaml.Unmarshal(data, &file)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse scenarios %s: %w", path, err)
	}

	for i, scenario := range file.Scenarios {
		if err := scenario.Validate(); err != nil {
			return nil, &docerrors.MalformedExampleError{Index: i, Route: scenario.Route, Method: scenario.Method, Cause: err}
		}
	}
	return file.Scenarios, nil
}
