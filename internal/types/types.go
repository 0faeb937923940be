package types

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Example is one documented scenario: a single API operation together with
// the request/response traffic recorded while exercising it.
type Example struct {
	Resource        string            `json:"resource,omitempty" yaml:"resource,omitempty"`
	Route           string            `json:"route" yaml:"route"`
	Method          string            `json:"method" yaml:"method"`
	Description     string            `json:"description" yaml:"description"`
	FullDescription string            `json:"full_description" yaml:"full_description"`
	Parameters      []Parameter       `json:"parameters" yaml:"parameters"`
	Requests        []RecordedRequest `json:"requests" yaml:"requests"`
	Headers         map[string]string `json:"headers" yaml:"headers"`
	Definitions     map[string]any    `json:"definitions,omitempty" yaml:"definitions,omitempty"`
}

// Validate checks the fields every documented example must carry.
func (e Example) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Route, validation.Required),
		validation.Field(&e.Method, validation.Required),
	)
}

// Header returns the value of the named example header, if set.
// An exact match wins over a case-insensitive one.
func (e Example) Header(name string) (string, bool) {
	if v, ok := e.Headers[name]; ok {
		return v, true
	}
	for k, v := range e.Headers {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}

// Parameter describes a single documented parameter of an example.
// Nil pointer fields mean "not given"; defaults are applied by the writers.
type Parameter struct {
	Name        *string        `json:"name" yaml:"name"`
	Description *string        `json:"description" yaml:"description"`
	Type        string         `json:"type,omitempty" yaml:"type,omitempty"`
	Format      string         `json:"format,omitempty" yaml:"format,omitempty"`
	In          string         `json:"in,omitempty" yaml:"in,omitempty"`
	Required    *bool          `json:"required,omitempty" yaml:"required,omitempty"`
	Schema      map[string]any `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// RecordedRequest is one request/response pair captured while recording an example.
type RecordedRequest struct {
	ID                  string            `json:"id,omitempty" yaml:"id,omitempty"`
	RequestMethod       string            `json:"request_method,omitempty" yaml:"request_method,omitempty"`
	RequestPath         string            `json:"request_path,omitempty" yaml:"request_path,omitempty"`
	RequestHeaders      map[string]string `json:"request_headers,omitempty" yaml:"request_headers,omitempty"`
	RequestQueryParams  map[string]string `json:"request_query_parameters,omitempty" yaml:"request_query_parameters,omitempty"`
	RequestBody         string            `json:"request_body,omitempty" yaml:"request_body,omitempty"`
	ResponseStatus      int               `json:"response_status" yaml:"response_status"`
	ResponseStatusText  string            `json:"response_status_text" yaml:"response_status_text"`
	ResponseHeaders     map[string]string `json:"response_headers,omitempty" yaml:"response_headers,omitempty"`
	ResponseBody        string            `json:"response_body,omitempty" yaml:"response_body,omitempty"`
	ResponseContentType string            `json:"response_content_type,omitempty" yaml:"response_content_type,omitempty"`
}

// Index is the collection of recorded examples handed to the writers.
type Index struct {
	Examples []Example `json:"examples" yaml:"examples"`
}

// Scenario describes an example to be recorded: which route to call and with
// which values. Route uses :name placeholders filled from PathParams.
type Scenario struct {
	Resource    string            `json:"resource,omitempty" yaml:"resource,omitempty"`
	Route       string            `json:"route" yaml:"route"`
	Method      string            `json:"method" yaml:"method"`
	Description string            `json:"description" yaml:"description"`
	Explanation string            `json:"explanation,omitempty" yaml:"explanation,omitempty"`
	Parameters  []Parameter       `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Headers     map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	PathParams  map[string]any    `json:"path_params,omitempty" yaml:"path_params,omitempty"`
	QueryParams map[string]any    `json:"query_params,omitempty" yaml:"query_params,omitempty"`
	Body        any               `json:"body,omitempty" yaml:"body,omitempty"`
	Definitions map[string]any    `json:"definitions,omitempty" yaml:"definitions,omitempty"`
}

// Validate checks that a scenario names a route and a method.
func (s Scenario) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Route, validation.Required, validation.By(routeRule)),
		validation.Field(&s.Method, validation.Required),
	)
}

func routeRule(value interface{}) error {
	route, _ := value.(string)
	if route != "" && !strings.HasPrefix(route, "/") {
		return validation.NewError("validation_route_absolute", "must start with /")
	}
	return nil
}

// Endpoint represents an API endpoint discovered in an existing OpenAPI document
type Endpoint struct {
	Method      string
	Path        string
	Summary     string
	Description string
	Parameters  []EndpointParameter
	Responses   map[int]Response
}

// EndpointParameter represents a parameter of a discovered endpoint
type EndpointParameter struct {
	Name        string
	In          string
	Description string
	Required    bool
	Type        string
	Format      string
	Schema      map[string]any
	ContentType string
}

// Response represents an API response
type Response struct {
	Description string
}
