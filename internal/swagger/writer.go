package swagger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"auto-api-docs/internal/docerrors"
	"auto-api-docs/internal/logger"
	"auto-api-docs/internal/types"

	"gopkg.in/yaml.v3"
)

// Output formats understood by Generate.
const (
	FormatJSON = "swagger"
	FormatYAML = "swagger_yaml"
)

// Output file names, written into the docs directory.
const (
	FileName     = "swagger.json"
	YAMLFileName = "swagger.yaml"
)

// Marshal encodes the document as indented JSON.
func Marshal(doc *Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, &docerrors.SerializationError{Format: "json", Cause: err}
	}
	return append(data, '\n'), nil
}

// MarshalYAML encodes the document as YAML. The encoder panics on values it
// cannot represent; those surface as a SerializationError.
func MarshalYAML(doc *Document) (data []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			data, err = nil, &docerrors.SerializationError{Format: "yaml", Cause: fmt.Errorf("%v", r)}
		}
	}()

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return nil, &docerrors.SerializationError{Format: "yaml", Cause: err}
	}
	if err := encoder.Close(); err != nil {
		return nil, &docerrors.SerializationError{Format: "yaml", Cause: err}
	}
	return buf.Bytes(), nil
}

// Write serializes the document to swagger.json in dir and returns the file path.
func Write(dir string, doc *Document) (string, error) {
	data, err := Marshal(doc)
	if err != nil {
		return "", err
	}
	return writeFile(dir, FileName, data)
}

// WriteYAML serializes the document to swagger.yaml in dir and returns the file path.
func WriteYAML(dir string, doc *Document) (string, error) {
	data, err := MarshalYAML(doc)
	if err != nil {
		return "", err
	}
	return writeFile(dir, YAMLFileName, data)
}

// writeFile writes data to a temporary file in dir and renames it into place,
// so name is either absent, left as before, or complete.
func writeFile(dir, name string, data []byte) (path string, err error) {
	path = filepath.Join(dir, name)

	tmp, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return "", &docerrors.IOError{Op: "create", Path: path, Cause: err}
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return "", &docerrors.IOError{Op: "write", Path: tmp.Name(), Cause: err}
	}
	if err = tmp.Chmod(0644); err != nil {
		return "", &docerrors.IOError{Op: "chmod", Path: tmp.Name(), Cause: err}
	}
	if err = tmp.Close(); err != nil {
		return "", &docerrors.IOError{Op: "close", Path: tmp.Name(), Cause: err}
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return "", &docerrors.IOError{Op: "rename", Path: path, Cause: err}
	}
	return path, nil
}

// Generator builds the document once and runs every configured writer.
type Generator struct {
	config  Config
	formats []string
	logger  *logger.Logger
}

// NewGenerator creates a generator for the given formats. An empty format
// list means swagger.json only.
func NewGenerator(config Config, formats []string, log *logger.Logger) (*Generator, error) {
	if len(formats) == 0 {
		formats = []string{FormatJSON}
	}
	for _, format := range formats {
		if format != FormatJSON && format != FormatYAML {
			return nil, &docerrors.ConfigError{Field: "format", Message: fmt.Sprintf("unsupported format %q", format)}
		}
	}
	return &Generator{config: config, formats: formats, logger: log}, nil
}

// Generate writes one file per format into dir and returns their paths.
func (g *Generator) Generate(dir string, examples []types.Example) ([]string, error) {
	doc, err := Build(examples, g.config)
	if err != nil {
		return nil, fmt.Errorf("failed to build swagger document: %w", err)
	}
	g.logger.Infof("built swagger document with %d path(s) from %d example(s)", len(doc.Paths), len(examples))

	var written []string
	for _, format := range g.formats {
		var path string
		switch format {
		case FormatJSON:
			path, err = Write(dir, doc)
		case FormatYAML:
			path, err = WriteYAML(dir, doc)
		}
		if err != nil {
			g.logger.Errorf("writing %s: %v", format, err)
			return written, fmt.Errorf("failed to write %s: %w", format, err)
		}
		g.logger.Infof("wrote %s", path)
		written = append(written, path)
	}
	return written, nil
}
