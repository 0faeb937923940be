package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"

	"auto-api-docs/internal/logger"
	"auto-api-docs/internal/types"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
	yamlconv "github.com/oasdiff/yaml"
)

// wellKnownPaths are tried in order when fetching a document from a base URL
var wellKnownPaths = []string{
	"/swagger/v1/swagger.json",
	"/swagger.json",
	"/v1/swagger.json",
	"/api/swagger.json",
	"/api/v1/swagger.json",
	"/openapi.json",
	"/openapi.yaml",
	"/swagger/v1/swagger",
	"/swagger",
}

// SwaggerParser reads existing Swagger/OpenAPI documents so that scenarios
// can be scaffolded from them
type SwaggerParser struct {
	baseURL string
	client  *http.Client
	logger  *logger.Logger
	doc     *openapi3.T
}

// NewSwaggerParser creates a new instance of SwaggerParser
func NewSwaggerParser(baseURL string, log *logger.Logger) *SwaggerParser {
	return &SwaggerParser{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
		logger:  log,
	}
}

// ParseEndpoints fetches the document from the first well-known URL that
// serves one and extracts its endpoints
func (p *SwaggerParser) ParseEndpoints(ctx context.Context) ([]types.Endpoint, error) {
	var lastErr error
	for _, path := range wellKnownPaths {
		url := p.baseURL + path
		p.logger.Infof("Trying to fetch OpenAPI documentation from: %s", url)
		p.doc, lastErr = p.fetchOpenAPIDoc(ctx, url)
		if lastErr == nil {
			p.logger.Infof("Successfully fetched OpenAPI documentation from: %s", url)
			break
		}
		p.logger.Infof("Failed to fetch from %s: %v", url, lastErr)
		if ctx.Err() != nil {
			break
		}
	}

	if p.doc == nil {
		return nil, fmt.Errorf("failed to fetch OpenAPI documentation from any known URL: %w", lastErr)
	}

	return p.extractEndpoints(), nil
}

// ParseFile reads a local Swagger 2.0 or OpenAPI 3 document and extracts its endpoints
func (p *SwaggerParser) ParseFile(path string) ([]types.Endpoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	p.doc, err = LoadDocument(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return p.extractEndpoints(), nil
}

// Definitions returns the component schemas of the parsed document with
// references rewritten to the Swagger 2.0 #/definitions form
func (p *SwaggerParser) Definitions() map[string]any {
	if p.doc == nil || p.doc.Components == nil || len(p.doc.Components.Schemas) == 0 {
		return nil
	}
	definitions := make(map[string]any, len(p.doc.Components.Schemas))
	for name, schema := range p.doc.Components.Schemas {
		if m := schemaToMap(schema); m != nil {
			definitions[name] = m
		}
	}
	return definitions
}

// fetchOpenAPIDoc fetches the OpenAPI documentation from the given URL
func (p *SwaggerParser) fetchOpenAPIDoc(ctx context.Context, url string) (*openapi3.T, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return LoadDocument(body)
}

// LoadDocument parses JSON or YAML data holding either a Swagger 2.0 or an
// OpenAPI 3 document. Swagger 2.0 documents are converted to OpenAPI 3.
func LoadDocument(data []byte) (*openapi3.T, error) {
	jsonData, err := yamlconv.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}

	var version struct {
		Swagger string `json:"swagger"`
		OpenAPI string `json:"openapi"`
	}
	if err := json.Unmarshal(jsonData, &version); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}

	loader := openapi3.NewLoader()
	switch {
	case strings.HasPrefix(version.Swagger, "2."):
		var doc2 openapi2.T
		if err := json.Unmarshal(jsonData, &doc2); err != nil {
			return nil, fmt.Errorf("failed to parse Swagger 2.0 doc: %w", err)
		}
		doc, err := openapi2conv.ToV3(&doc2)
		if err != nil {
			return nil, fmt.Errorf("failed to convert Swagger 2.0 doc: %w", err)
		}
		if err := loader.ResolveRefsIn(doc, nil); err != nil {
			return nil, fmt.Errorf("failed to resolve references: %w", err)
		}
		return doc, nil
	case strings.HasPrefix(version.OpenAPI, "3."):
		doc, err := loader.LoadFromData(jsonData)
		if err != nil {
			return nil, fmt.Errorf("failed to parse OpenAPI doc: %w", err)
		}
		return doc, nil
	default:
		return nil, fmt.Errorf("unsupported document version (swagger %q, openapi %q)", version.Swagger, version.OpenAPI)
	}
}

// extractEndpoints lists the document's operations sorted by path and method
func (p *SwaggerParser) extractEndpoints() []types.Endpoint {
	var endpoints []types.Endpoint
	if p.doc.Paths == nil {
		return endpoints
	}

	paths := p.doc.Paths.Map()
	keys := make([]string, 0, len(paths))
	for path := range paths {
		keys = append(keys, path)
	}
	sort.Strings(keys)

	for _, path := range keys {
		pathItem := paths[path]
		operations := pathItem.Operations()
		methods := make([]string, 0, len(operations))
		for method := range operations {
			methods = append(methods, method)
		}
		sort.Strings(methods)

		for _, method := range methods {
			operation := operations[method]
			endpoint := types.Endpoint{
				Path:        path,
				Method:      strings.ToUpper(method),
				Summary:     operation.Summary,
				Description: operation.Description,
				Responses:   make(map[int]types.Response),
			}

			// Path-level parameters apply to every operation
			params := make(openapi3.Parameters, 0, len(pathItem.Parameters)+len(operation.Parameters))
			params = append(params, pathItem.Parameters...)
			params = append(params, operation.Parameters...)
			for _, param := range params {
				if param == nil || param.Value == nil {
					continue
				}
				endpoint.Parameters = append(endpoint.Parameters, toEndpointParameter(param.Value))
			}

			// Extract request body if present
			if operation.RequestBody != nil && operation.RequestBody.Value != nil {
				if param, ok := bodyParameter(operation.RequestBody.Value); ok {
					endpoint.Parameters = append(endpoint.Parameters, param)
				}
			}

			// Extract responses
			if operation.Responses != nil {
				for statusCode, response := range operation.Responses.Map() {
					code := 0
					fmt.Sscanf(statusCode, "%d", &code)
					if code == 0 || response.Value == nil {
						continue
					}
					description := ""
					if response.Value.Description != nil {
						description = *response.Value.Description
					}
					endpoint.Responses[code] = types.Response{Description: description}
				}
			}

			endpoints = append(endpoints, endpoint)
		}
	}

	return endpoints
}

func toEndpointParameter(param *openapi3.Parameter) types.EndpointParameter {
	out := types.EndpointParameter{
		Name:        param.Name,
		In:          param.In,
		Description: param.Description,
		Required:    param.Required,
	}
	if param.Schema != nil && param.Schema.Value != nil {
		out.Type = schemaType(param.Schema.Value)
		out.Format = param.Schema.Value.Format
		out.Schema = schemaToMap(param.Schema)
	}
	return out
}

// bodyParameter describes a request body as a Swagger 2.0 style body
// parameter, preferring a JSON media type
func bodyParameter(body *openapi3.RequestBody) (types.EndpointParameter, bool) {
	contentTypes := make([]string, 0, len(body.Content))
	for contentType := range body.Content {
		contentTypes = append(contentTypes, contentType)
	}
	sort.Strings(contentTypes)
	sort.SliceStable(contentTypes, func(i, j int) bool {
		return strings.Contains(contentTypes[i], "json") && !strings.Contains(contentTypes[j], "json")
	})

	for _, contentType := range contentTypes {
		media := body.Content[contentType]
		if media == nil || media.Schema == nil {
			continue
		}
		return types.EndpointParameter{
			Name:        "body",
			In:          "body",
			Description: body.Description,
			Required:    body.Required,
			Schema:      schemaToMap(media.Schema),
			ContentType: contentType,
		}, true
	}
	return types.EndpointParameter{}, false
}

func schemaType(schema *openapi3.Schema) string {
	if schema.Type == nil || len(*schema.Type) == 0 {
		return ""
	}
	return (*schema.Type)[0]
}

// schemaToMap inlines the top-level schema; nested references stay references
func schemaToMap(ref *openapi3.SchemaRef) map[string]any {
	if ref == nil || ref.Value == nil {
		return nil
	}
	data, err := json.Marshal(ref.Value)
	if err != nil {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil
	}
	rewriteRefs(m)
	return m
}

func rewriteRefs(value any) {
	switch v := value.(type) {
	case map[string]any:
		for key, item := range v {
			if ref, ok := item.(string); ok && key == "$ref" {
				v[key] = strings.Replace(ref, "#/components/schemas/", "#/definitions/", 1)
				continue
			}
			rewriteRefs(item)
		}
	case []any:
		for _, item := range v {
			rewriteRefs(item)
		}
	}
}
