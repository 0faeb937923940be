package swagger

import (
	"errors"
	"strconv"
	"strings"

	"auto-api-docs/internal/docerrors"
	"auto-api-docs/internal/types"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Selector reduces all examples recorded for one route and method to the
// single example that documents the operation. Groups are never empty.
type Selector func(group []types.Example) types.Example

// FirstExample documents an operation with the first example recorded for it.
func FirstExample(group []types.Example) types.Example {
	return group[0]
}

// Config holds what the builder needs beyond the examples themselves.
type Config struct {
	APIName string
	// Selector defaults to FirstExample
	Selector Selector
	// NullConsumes writes "consumes": [null] for examples without a
	// Content-Type header instead of leaving consumes out.
	NullConsumes bool
}

// Build turns recorded examples into a Swagger document. Examples are grouped
// by raw route, then by method, both in first-seen order.
func Build(examples []types.Example, cfg Config) (*Document, error) {
	for i, example := range examples {
		if err := validateExample(i, example); err != nil {
			return nil, err
		}
	}

	selector := cfg.Selector
	if selector == nil {
		selector = FirstExample
	}

	doc := &Document{
		Swagger: Version,
		Info: Info{
			Version: InfoVersion,
			Title:   cfg.APIName,
		},
	}

	paths := make(map[string]map[string]*PathItem)
	for _, routeGroup := range groupBy(examples, func(e types.Example) string { return e.Route }) {
		normalizedPath := NormalizePath(routeGroup.key)
		operations, ok := paths[normalizedPath]
		if !ok {
			operations = make(map[string]*PathItem)
			paths[normalizedPath] = operations
		}
		for _, methodGroup := range groupBy(routeGroup.examples, func(e types.Example) string { return e.Method }) {
			// Distinct raw routes can normalize to the same path; the first one keeps the operation.
			if _, exists := operations[methodGroup.key]; exists {
				continue
			}
			operations[methodGroup.key] = toPathItem(selector(methodGroup.examples), cfg)
		}
	}
	if len(paths) > 0 {
		doc.Paths = paths
	}

	if definitions := firstDefinitions(examples); len(definitions) > 0 {
		doc.Definitions = definitions
	}

	return doc, nil
}

// NormalizePath rewrites :name segments of a route into {name} placeholders.
func NormalizePath(route string) string {
	segments := strings.Split(route, "/")
	for i, segment := range segments {
		if strings.HasPrefix(segment, ":") {
			segments[i] = "{" + segment[1:] + "}"
		}
	}
	return strings.Join(segments, "/")
}

type group struct {
	key      string
	examples []types.Example
}

func groupBy(examples []types.Example, key func(types.Example) string) []group {
	var groups []group
	positions := make(map[string]int)
	for _, example := range examples {
		k := key(example)
		pos, ok := positions[k]
		if !ok {
			pos = len(groups)
			positions[k] = pos
			groups = append(groups, group{key: k})
		}
		groups[pos].examples = append(groups[pos].examples, example)
	}
	return groups
}

func toPathItem(example types.Example, cfg Config) *PathItem {
	item := &PathItem{
		Summary:     example.Description,
		Description: example.FullDescription,
		Parameters:  toParameters(example.Parameters),
		Responses:   toResponses(example.Requests),
	}

	if contentType, ok := example.Header("Content-Type"); ok && contentType != "" {
		item.Consumes = []*string{&contentType}
	} else if cfg.NullConsumes {
		item.Consumes = []*string{nil}
	}

	return item
}

func toParameters(parameters []types.Parameter) []Parameter {
	out := make([]Parameter, 0, len(parameters))
	for _, p := range parameters {
		param := Parameter{
			Type:        p.Type,
			Format:      p.Format,
			In:          p.In,
			Required:    true,
			Name:        p.Name,
			Description: p.Description,
		}
		if param.In == "" {
			param.In = DefaultParameterLocation
		}
		if p.Required != nil {
			param.Required = *p.Required
		}
		if len(p.Schema) > 0 {
			param.Schema = p.Schema
		}
		out = append(out, param)
	}
	return out
}

// toResponses keys responses by status code; a later request with the same
// status replaces the earlier description.
func toResponses(requests []types.RecordedRequest) map[string]Response {
	responses := make(map[string]Response, len(requests))
	for _, request := range requests {
		responses[strconv.Itoa(request.ResponseStatus)] = Response{Description: request.ResponseStatusText}
	}
	return responses
}

func firstDefinitions(examples []types.Example) map[string]any {
	for _, example := range examples {
		if example.Definitions != nil {
			return example.Definitions
		}
	}
	return nil
}

func validateExample(i int, example types.Example) error {
	err := example.Validate()
	if err == nil {
		return nil
	}

	malformed := &docerrors.MalformedExampleError{
		Index:  i,
		Route:  example.Route,
		Method: example.Method,
		Cause:  err,
	}
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		for _, field := range []string{"route", "method"} {
			if fieldErrs[field] != nil {
				malformed.Field = field
				malformed.Cause = nil
				break
			}
		}
	}
	return malformed
}
