package filter

import (
	"testing"

	"github.com/studiowebux/harsample/internal/types"
)

var defaultPatterns = []string{
	".woff", ".woff2", ".ttf", ".eot", "favicon", "analytics",
	"tracking", "ads", "doubleclick", "googletagmanager",
}

func TestShouldExclude(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		patterns []string
		want     bool
	}{
		{name: "font", url: "https://cdn.example.com/fonts/Inter.woff2", patterns: defaultPatterns, want: true},
		{name: "case-insensitive", url: "https://example.com/FAVICON.ico", patterns: defaultPatterns, want: true},
		{name: "tag manager", url: "https://www.googletagmanager.com/gtm.js?id=1", patterns: defaultPatterns, want: true},
		{name: "api call kept", url: "https://api.example.com/v1/users", patterns: defaultPatterns, want: false},
		{name: "substring match is broad", url: "https://example.com/uploads/a.png", patterns: defaultPatterns, want: true},
		{name: "no patterns", url: "https://example.com/favicon.ico", patterns: nil, want: false},
		{name: "empty pattern ignored", url: "https://example.com/", patterns: []string{""}, want: false},
		{name: "glob match", url: "https://example.com/static/css/site.CSS", patterns: []string{"glob:static/**/*.css"}, want: true},
		{name: "glob miss", url: "https://example.com/app/site.css", patterns: []string{"glob:static/**/*.css"}, want: false},
		{name: "glob ignores query", url: "https://example.com/a/b.map?v=1", patterns: []string{"glob:**/*.map"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldExclude(tt.url, tt.patterns); got != tt.want {
				t.Errorf("ShouldExclude(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestValidatePatterns(t *testing.T) {
	if err := ValidatePatterns([]string{"ads", "glob:**/*.woff"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidatePatterns([]string{"glob:[unclosed"}); err == nil {
		t.Error("expected error for malformed glob")
	}
}

func entry(method, url string, status int, mime string) *types.HAREntry {
	return &types.HAREntry{
		Request:  types.HARRequest{Method: method, URL: url},
		Response: types.HARResponse{Status: status, Content: types.HARContent{MimeType: mime}},
	}
}

func TestExcludeByURL(t *testing.T) {
	entries := []*types.HAREntry{
		entry("GET", "https://api.example.com/v1/items", 200, "application/json"),
		entry("GET", "https://www.google-analytics.com/collect", 204, ""),
		entry("GET", "https://example.com/index.html", 200, "text/html"),
	}

	got := ExcludeByURL(entries, defaultPatterns)
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0] != entries[0] || got[1] != entries[2] {
		t.Error("kept entries must be the same pointers in input order")
	}

	if all := ExcludeByURL(entries, nil); len(all) != 3 {
		t.Errorf("no patterns should keep everything, got %d", len(all))
	}
}

func TestWhere(t *testing.T) {
	entries := []*types.HAREntry{
		entry("GET", "https://api.example.com/a", 200, "application/json"),
		entry("POST", "https://api.example.com/b", 201, "application/json"),
		entry("GET", "https://api.example.com/c", 404, "text/html"),
	}

	tests := []struct {
		name    string
		expr    string
		want    int
		wantErr bool
	}{
		{name: "empty expression keeps all", expr: "", want: 3},
		{name: "status filter", expr: "response.status == `200`", want: 1},
		{name: "method filter", expr: "request.method == 'GET'", want: 2},
		{name: "status range", expr: "response.status < `400`", want: 2},
		{name: "mime contains", expr: "contains(response.content.mimeType, 'json')", want: 2},
		{name: "missing field is falsy", expr: "request.postData", want: 0},
		{name: "invalid expression", expr: "response.[", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Where(entries, tt.expr)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Where() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && len(got) != tt.want {
				t.Errorf("Where(%q) kept %d entries, want %d", tt.expr, len(got), tt.want)
			}
		})
	}
}

func TestIsValidJMESPath(t *testing.T) {
	if !IsValidJMESPath("response.status") {
		t.Error("expected valid expression")
	}
	if IsValidJMESPath("[?") {
		t.Error("expected invalid expression")
	}
}
