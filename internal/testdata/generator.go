package testdata

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"auto-api-docs/internal/types"

	"gopkg.in/yaml.v3"
)

// TemplateFileName is the scenarios template written by GenerateTemplate
const TemplateFileName = "scenarios_template.yaml"

// Generator handles the generation of scenario templates
type Generator struct {
	outputDir string
}

// NewGenerator creates a new instance of Generator
func NewGenerator(outputDir string) *Generator {
	return &Generator{
		outputDir: outputDir,
	}
}

// GenerateTemplate writes one scenario per endpoint, sorted by route then
// method, and returns the template path. Definitions, when present, are
// attached to the first scenario.
func (g *Generator) GenerateTemplate(endpoints []types.Endpoint, definitions map[string]any) (string, error) {
	scenarios := make([]types.Scenario, 0, len(endpoints))
	for _, endpoint := range endpoints {
		scenarios = append(scenarios, g.generateScenario(endpoint))
	}
	sort.SliceStable(scenarios, func(i, j int) bool {
		if scenarios[i].Route != scenarios[j].Route {
			return scenarios[i].Route < scenarios[j].Route
		}
		return scenarios[i].Method < scenarios[j].Method
	})
	if len(scenarios) > 0 && len(definitions) > 0 {
		scenarios[0].Definitions = definitions
	}

	// Create output directory if it doesn't exist
	if err := os.MkdirAll(g.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := yaml.Marshal(ScenarioFile{Scenarios: scenarios})
	if err != nil {
		return "", fmt.Errorf("failed to marshal template: %w", err)
	}

	outputPath := filepath.Join(g.outputDir, TemplateFileName)
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write template file: %w", err)
	}
	return outputPath, nil
}

// ColonRoute rewrites {name} placeholders into :name segments.
func ColonRoute(path string) string {
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		if strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}") && len(segment) > 2 {
			segments[i] = ":" + segment[1:len(segment)-1]
		}
	}
	return strings.Join(segments, "/")
}

// generateScenario fills a scenario with sample values for every parameter
func (g *Generator) generateScenario(endpoint types.Endpoint) types.Scenario {
	description := endpoint.Summary
	if description == "" {
		description = fmt.Sprintf("%s %s", strings.ToUpper(endpoint.Method), endpoint.Path)
	}

	scenario := types.Scenario{
		Route:       ColonRoute(endpoint.Path),
		Method:      strings.ToLower(endpoint.Method),
		Description: description,
		Explanation: endpoint.Description,
		Headers: map[string]string{
			"Accept": "application/json",
		},
	}

	for _, param := range endpoint.Parameters {
		scenario.Parameters = append(scenario.Parameters, toParameter(param))
		switch param.In {
		case "path":
			if scenario.PathParams == nil {
				scenario.PathParams = make(map[string]any)
			}
			scenario.PathParams[param.Name] = generateSampleValue(param.Type, param.Format, param.Schema)
		case "query":
			if scenario.QueryParams == nil {
				scenario.QueryParams = make(map[string]any)
			}
			scenario.QueryParams[param.Name] = generateSampleValue(param.Type, param.Format, param.Schema)
		case "header":
			scenario.Headers[param.Name] = fmt.Sprint(generateSampleValue(param.Type, param.Format, param.Schema))
		case "body":
			scenario.Body = generateBody(param.Schema)
			contentType := param.ContentType
			if contentType == "" {
				contentType = "application/json"
			}
			scenario.Headers["Content-Type"] = contentType
		}
	}

	return scenario
}

func toParameter(param types.EndpointParameter) types.Parameter {
	name := param.Name
	required := param.Required
	out := types.Parameter{
		Name:     &name,
		Type:     param.Type,
		Format:   param.Format,
		In:       param.In,
		Required: &required,
	}
	if param.Description != "" {
		description := param.Description
		out.Description = &description
	}
	if param.In == "body" {
		out.Schema = param.Schema
	}
	return out
}

// generateSampleValue generates a sample value based on parameter type
func generateSampleValue(typ, format string, schema map[string]any) interface{} {
	if typ == "" {
		typ, _ = schema["type"].(string)
		format, _ = schema["format"].(string)
	}
	if enum, ok := schema["enum"].([]any); ok && len(enum) > 0 {
		return enum[0]
	}
	switch typ {
	case "string":
		switch format {
		case "email":
			return "test@example.com"
		case "date":
			return "2024-01-01"
		case "date-time":
			return "2024-01-01T12:00:00Z"
		case "uuid":
			return "123e4567-e89b-12d3-a456-426614174000"
		case "uri":
			return "https://example.com"
		default:
			return "string"
		}
	case "integer":
		return 1
	case "number":
		return 1.0
	case "boolean":
		return true
	case "array":
		items, _ := schema["items"].(map[string]any)
		return []interface{}{generateSampleValue("", "", items)}
	default:
		return "value"
	}
}

// generateBody builds a sample request body from a JSON schema
func generateBody(schema map[string]any) interface{} {
	if schema == nil {
		return map[string]interface{}{}
	}
	typ, _ := schema["type"].(string)
	switch typ {
	case "array":
		items, _ := schema["items"].(map[string]any)
		return []interface{}{generateBody(items)}
	case "object", "":
		properties, ok := schema["properties"].(map[string]any)
		if !ok {
			if typ == "" {
				return generateSampleValue("", "", schema)
			}
			return map[string]interface{}{}
		}
		body := make(map[string]interface{}, len(properties))
		for name, raw := range properties {
			property, _ := raw.(map[string]any)
			propertyType, _ := property["type"].(string)
			propertyFormat, _ := property["format"].(string)
			if propertyType == "object" || propertyType == "array" {
				body[name] = generateBody(property)
			} else {
				body[name] = generateSampleValue(propertyType, propertyFormat, property)
			}
		}
		return body
	default:
		return generateSampleValue(typ, "", schema)
	}
}
