package swagger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"auto-api-docs/internal/docerrors"
	"auto-api-docs/internal/logger"
	"auto-api-docs/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestWriteCreatesSwaggerJSON(t *testing.T) {
	dir := t.TempDir()
	doc, err := Build(ordersExamples(), Config{APIName: "Example App API"})
	require.NoError(t, err)

	path, err := Write(dir, doc)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileName), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "2.0", decoded["swagger"])
	assert.Contains(t, decoded["paths"], "/orders/{id}")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files must not be left behind")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestWriteTruncatesExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("x"), 4096), 0644))

	doc, err := Build(nil, Config{APIName: "API"})
	require.NoError(t, err)
	_, err = Write(dir, doc)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"swagger":"2.0","info":{"version":"0.0.1","title":"API"}}`, string(data))
}

func TestWriteMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	doc, err := Build(nil, Config{APIName: "API"})
	require.NoError(t, err)

	_, err = Write(dir, doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, docerrors.ErrIO))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, statErr := os.Stat(filepath.Join(dir, FileName))
	assert.True(t, os.IsNotExist(statErr))
}

func TestWriteRenameFailureCleansUp(t *testing.T) {
	dir := t.TempDir()
	// A directory in the way makes the final rename fail.
	require.NoError(t, os.Mkdir(filepath.Join(dir, FileName), 0755))

	doc, err := Build(nil, Config{APIName: "API"})
	require.NoError(t, err)
	_, err = Write(dir, doc)

	var ioErr *docerrors.IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "rename", ioErr.Op)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].IsDir())
}

func TestMarshalSerializationError(t *testing.T) {
	doc, err := Build([]types.Example{{
		Route:  "/orders",
		Method: "get",
		Parameters: []types.Parameter{
			{Name: strPtr("callback"), Schema: map[string]any{"default": func() {}}},
		},
	}}, Config{APIName: "API"})
	require.NoError(t, err)

	dir := t.TempDir()
	_, err = Write(dir, doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, docerrors.ErrSerialization))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMarshalYAMLSerializationError(t *testing.T) {
	doc, err := Build([]types.Example{{
		Route:  "/orders",
		Method: "get",
		Parameters: []types.Parameter{
			{Name: strPtr("callback"), Schema: map[string]any{"default": func() {}}},
		},
	}}, Config{APIName: "API"})
	require.NoError(t, err)

	_, err = MarshalYAML(doc)
	assert.True(t, errors.Is(err, docerrors.ErrSerialization))

	dir := t.TempDir()
	_, err = WriteYAML(dir, doc)
	assert.True(t, errors.Is(err, docerrors.ErrSerialization))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGeneratorYAMLSerializationError(t *testing.T) {
	generator, err := NewGenerator(Config{APIName: "API"}, []string{FormatYAML}, nil)
	require.NoError(t, err)

	dir := t.TempDir()
	_, err = generator.Generate(dir, []types.Example{{
		Route:       "/orders",
		Method:      "get",
		Definitions: map[string]any{"Order": make(chan int)},
	}})
	assert.True(t, errors.Is(err, docerrors.ErrSerialization))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWriteYAML(t *testing.T) {
	dir := t.TempDir()
	doc, err := Build(ordersExamples(), Config{APIName: "Example App API"})
	require.NoError(t, err)

	path, err := WriteYAML(dir, doc)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, YAMLFileName), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded struct {
		Swagger string                               `yaml:"swagger"`
		Paths   map[string]map[string]map[string]any `yaml:"paths"`
	}
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, "2.0", decoded.Swagger)
	assert.Equal(t, "Getting a specific order", decoded.Paths["/orders/{id}"]["get"]["summary"])
}

func TestGeneratorWritesEveryFormat(t *testing.T) {
	var buf bytes.Buffer
	dir := t.TempDir()

	g, err := NewGenerator(Config{APIName: "API"}, []string{FormatJSON, FormatYAML}, logger.New(&buf))
	require.NoError(t, err)

	paths, err := g.Generate(dir, ordersExamples())
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, FileName), filepath.Join(dir, YAMLFileName)}, paths)
	assert.Contains(t, buf.String(), "built swagger document with 2 path(s) from 4 example(s)")
}

func TestGeneratorDefaultsToJSON(t *testing.T) {
	dir := t.TempDir()
	g, err := NewGenerator(Config{APIName: "API"}, nil, nil)
	require.NoError(t, err)

	paths, err := g.Generate(dir, ordersExamples())
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, FileName)}, paths)
}

func TestNewGeneratorRejectsUnknownFormat(t *testing.T) {
	_, err := NewGenerator(Config{APIName: "API"}, []string{"swagger", "raml"}, nil)
	assert.True(t, errors.Is(err, docerrors.ErrConfig))
}

func TestGeneratorFailsOnMalformedExample(t *testing.T) {
	dir := t.TempDir()
	g, err := NewGenerator(Config{APIName: "API"}, nil, nil)
	require.NoError(t, err)

	_, err = g.Generate(dir, []types.Example{{Route: "/orders"}})
	assert.True(t, errors.Is(err, docerrors.ErrMalformedExample))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
