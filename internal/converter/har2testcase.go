package converter

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/studiowebux/harsample/internal/types"
)

// ConvertOptions contains options for HAR entry to test case conversion
type ConvertOptions struct {
	IncludeBodies bool // If true, copy request and response bodies
	MaxBodyBytes  int  // Bodies larger than this are dropped (0 = no limit)
}

// ConvertEntry converts a single HAR entry to a test case. index is the
// 1-based position used in the test case name.
func ConvertEntry(entry *types.HAREntry, index int, opts ConvertOptions) (types.TestCase, error) {
	req := entry.Request
	if req.Method == "" {
		return types.TestCase{}, fmt.Errorf("missing request method")
	}
	if req.URL == "" {
		return types.TestCase{}, fmt.Errorf("missing request URL")
	}

	parsed, err := url.Parse(req.URL)
	if err != nil {
		return types.TestCase{}, fmt.Errorf("invalid URL: %w", err)
	}

	host := parsed.Host
	path := parsed.EscapedPath()
	if parsed.RawQuery != "" {
		path += "?" + parsed.RawQuery
	}
	if path == "" {
		path = "/"
	}

	tc := types.TestCase{
		Name:        fmt.Sprintf("Request %d: %s %s", index, req.Method, path),
		Description: fmt.Sprintf("%s %s%s - Status %d", req.Method, host, path, entry.Response.Status),
		Request: types.RequestData{
			Method:  req.Method,
			Host:    host,
			Path:    path,
			Headers: headerMap(req.Headers),
		},
		Response: types.ResponseData{
			StatusCode: entry.Response.Status,
			Headers:    headerMap(entry.Response.Headers),
		},
	}

	if opts.IncludeBodies {
		if req.PostData != nil && withinLimit(req.PostData.Text, opts.MaxBodyBytes) {
			tc.Request.Body = req.PostData.Text
		}
		content := entry.Response.Content
		// base64 content is binary; keep fixtures textual
		if content.Encoding == "" && withinLimit(content.Text, opts.MaxBodyBytes) {
			tc.Response.Body = content.Text
		}
	}

	return tc, nil
}

// ConversionWarning describes an entry that could not be converted
type ConversionWarning struct {
	Index int
	URL   string
	Err   error
}

func (w ConversionWarning) Error() string {
	return fmt.Sprintf("failed to convert entry %d (%s): %v", w.Index, w.URL, w.Err)
}

func (w ConversionWarning) Unwrap() error {
	return w.Err
}

// ConvertEntries converts entries in order, numbering them from 1. Entries
// that fail are skipped and reported as warnings; numbering is not compacted.
func ConvertEntries(entries []*types.HAREntry, opts ConvertOptions) ([]types.TestCase, []ConversionWarning) {
	cases := make([]types.TestCase, 0, len(entries))
	var warnings []ConversionWarning

	for i, entry := range entries {
		tc, err := ConvertEntry(entry, i+1, opts)
		if err != nil {
			warnings = append(warnings, ConversionWarning{Index: i + 1, URL: entry.Request.URL, Err: err})
			continue
		}
		cases = append(cases, tc)
	}

	return cases, warnings
}

// headerMap lower-cases header names and skips HTTP/2 pseudo-headers
func headerMap(headers []types.HARHeader) map[string]string {
	m := make(map[string]string, len(headers))
	for _, h := range headers {
		name := strings.ToLower(h.Name)
		if strings.HasPrefix(name, ":") {
			continue
		}
		m[name] = h.Value
	}
	return m
}

func withinLimit(body string, limit int) bool {
	return body != "" && (limit <= 0 || len(body) <= limit)
}
