package swagger

const (
	// Version is the Swagger specification version written to every document.
	Version = "2.0"

	// InfoVersion is the API version advertised in the info object.
	InfoVersion = "0.0.1"

	// DefaultParameterLocation is used for parameters that do not say where they live.
	DefaultParameterLocation = "query"
)

// Document is a Swagger 2.0 document assembled from recorded examples.
type Document struct {
	Swagger     string                          `json:"swagger" yaml:"swagger"`
	Info        Info                            `json:"info" yaml:"info"`
	Paths       map[string]map[string]*PathItem `json:"paths,omitempty" yaml:"paths,omitempty"`
	Definitions map[string]any                  `json:"definitions,omitempty" yaml:"definitions,omitempty"`
}

// Info is the document's info object.
type Info struct {
	Version string `json:"version" yaml:"version"`
	Title   string `json:"title" yaml:"title"`
}

// PathItem describes one operation on one path.
type PathItem struct {
	Summary     string              `json:"summary" yaml:"summary"`
	Description string              `json:"description" yaml:"description"`
	Parameters  []Parameter         `json:"parameters" yaml:"parameters"`
	Responses   map[string]Response `json:"responses" yaml:"responses"`
	Consumes    []*string           `json:"consumes,omitempty" yaml:"consumes,omitempty"`
}

// Parameter is a Swagger parameter object. Name and Description are always
// written, null when unknown.
type Parameter struct {
	Type        string         `json:"type,omitempty" yaml:"type,omitempty"`
	Format      string         `json:"format,omitempty" yaml:"format,omitempty"`
	In          string         `json:"in" yaml:"in"`
	Required    bool           `json:"required" yaml:"required"`
	Name        *string        `json:"name" yaml:"name"`
	Description *string        `json:"description" yaml:"description"`
	Schema      map[string]any `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// Response is a Swagger response object.
type Response struct {
	Description string `json:"description" yaml:"description"`
}
