// Package index persists the recorded example index between the recording
// and the documentation steps.
package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"auto-api-docs/internal/docerrors"
	"auto-api-docs/internal/types"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the index file written into the docs directory.
const DefaultFileName = "index.json"

// Load reads an index from a .json, .yaml or .yml file.
func Load(path string) (*types.Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &docerrors.IOError{Op: "read", Path: path, Cause: err}
	}

	var idx types.Index
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &idx)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &idx)
	default:
		return nil, &docerrors.ConfigError{Field: "index", Message: fmt.Sprintf("unsupported index file extension %q", ext)}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse index %s: %w", path, err)
	}
	return &idx, nil
}

// Save writes the index as indented JSON, or YAML for a .yaml or .yml path,
// replacing path atomically.
func Save(path string, idx *types.Index) (err error) {
	data, err := encode(path, idx)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &docerrors.IOError{Op: "mkdir", Path: dir, Cause: err}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &docerrors.IOError{Op: "create", Path: path, Cause: err}
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return &docerrors.IOError{Op: "write", Path: tmp.Name(), Cause: err}
	}
	if err = tmp.Close(); err != nil {
		return &docerrors.IOError{Op: "close", Path: tmp.Name(), Cause: err}
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return &docerrors.IOError{Op: "rename", Path: path, Cause: err}
	}
	return nil
}

func encode(path string, idx *types.Index) (data []byte, err error) {
	// yaml.v3 panics on values it cannot represent
	defer func() {
		if r := recover(); r != nil {
			data, err = nil, &docerrors.SerializationError{Format: "yaml", Cause: fmt.Errorf("%v", r)}
		}
	}()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		data, err = json.MarshalIndent(idx, "", "  ")
		if err != nil {
			return nil, &docerrors.SerializationError{Format: "json", Cause: err}
		}
		return append(data, '\n'), nil
	case ".yaml", ".yml":
		data, err = yaml.Marshal(idx)
		if err != nil {
			return nil, &docerrors.SerializationError{Format: "yaml", Cause: err}
		}
		return data, nil
	default:
		return nil, &docerrors.ConfigError{Field: "index", Message: fmt.Sprintf("unsupported index file extension %q", ext)}
	}
}

// Validate reports the first example without a route or method.
func Validate(idx *types.Index) error {
	for i, example := range idx.Examples {
		if err := example.Validate(); err != nil {
			field := "method"
			if example.Route == "" {
				field = "route"
			}
			return &docerrors.MalformedExampleError{Index: i, Route: example.Route, Method: example.Method, Field: field}
		}
	}
	return nil
}

// Merge appends newly recorded examples to an existing index file, creating
// it when absent. Earlier examples keep their position.
func Merge(path string, examples []types.Example) (*types.Index, error) {
	idx, err := Load(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		idx = &types.Index{}
	}
	idx.Examples = append(idx.Examples, examples...)
	if err := Save(path, idx); err != nil {
		return nil, err
	}
	return idx, nil
}
