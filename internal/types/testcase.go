package types

import "time"

// TestCase is one benchmark fixture derived from a captured entry
type TestCase struct {
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description" yaml:"description"`
	Request     RequestData  `json:"request" yaml:"request"`
	Response    ResponseData `json:"response" yaml:"response"`
}

// RequestData is the request half of a test case
type RequestData struct {
	Method  string            `json:"method" yaml:"method"`
	Host    string            `json:"host" yaml:"host"`
	Path    string            `json:"path" yaml:"path"`
	Headers map[string]string `json:"headers" yaml:"headers"`
	Body    string            `json:"body,omitempty" yaml:"body,omitempty"`
}

// ResponseData is the response half of a test case
type ResponseData struct {
	StatusCode int               `json:"statusCode" yaml:"statusCode"`
	Headers    map[string]string `json:"headers" yaml:"headers"`
	Body       string            `json:"body,omitempty" yaml:"body,omitempty"`
}

// ContentType returns the response content-type header (header names are stored lower-case)
func (tc *TestCase) ContentType() string {
	return tc.Response.Headers["content-type"]
}

// Run records one generate invocation
type Run struct {
	ID         string        `json:"id" yaml:"id"`
	Timestamp  time.Time     `json:"timestamp" yaml:"timestamp"`
	Sources    []string      `json:"sources" yaml:"sources"`
	OutputPath string        `json:"outputPath" yaml:"outputPath"`
	Format     string        `json:"format" yaml:"format"`
	Seed       int64         `json:"seed" yaml:"seed"`
	Limit      int           `json:"limit" yaml:"limit"`
	Total      int           `json:"total" yaml:"total"`       // entries in the captures
	Filtered   int           `json:"filtered" yaml:"filtered"` // entries left after exclusion
	Selected   int           `json:"selected" yaml:"selected"`
	Written    int           `json:"written" yaml:"written"`
	Deficit    int           `json:"deficit,omitempty" yaml:"deficit,omitempty"`
	Categories []RunCategory `json:"categories,omitempty" yaml:"categories,omitempty"`
}

// RunCategory is the per-category outcome of a run
type RunCategory struct {
	Category  string  `json:"category" yaml:"category"`
	Share     float64 `json:"share" yaml:"share"`
	Bucket    int     `json:"bucket" yaml:"bucket"`
	Quota     int     `json:"quota" yaml:"quota"`
	Selected  int     `json:"selected" yaml:"selected"`
	Shortfall int     `json:"shortfall,omitempty" yaml:"shortfall,omitempty"`
}
