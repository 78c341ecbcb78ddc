package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/studiowebux/harsample/internal/converter"
	"github.com/studiowebux/harsample/internal/sampling"
	"github.com/studiowebux/harsample/internal/types"
)

func TestInspect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cases.yaml")
	cases := []types.TestCase{
		{
			Name:     "Request 1: GET /api",
			Request:  types.RequestData{Method: "GET", Host: "api.example.com", Path: "/api"},
			Response: types.ResponseData{StatusCode: 200, Headers: map[string]string{"content-type": "application/json"}},
		},
		{
			Name:     "Request 2: POST /form",
			Request:  types.RequestData{Method: "POST", Host: "www.example.com", Path: "/form", Body: "a=1"},
			Response: types.ResponseData{StatusCode: 302, Headers: map[string]string{}},
		},
	}
	if err := converter.WriteTestCases(path, cases, ""); err != nil {
		t.Fatalf("WriteTestCases() error: %v", err)
	}

	var out bytes.Buffer
	if err := Inspect(path, &out); err != nil {
		t.Fatalf("Inspect() error: %v", err)
	}

	for _, want := range []string{"2 test cases", "Hosts: 2, with bodies: 1", "Methods: GET=1 POST=1"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}

	if err := Inspect(filepath.Join(t.TempDir(), "missing.json"), &out); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name        string
		labels      []string
		categorizer *sampling.Categorizer
		want        string
	}{
		{
			name:   "default rules",
			labels: []string{"application/json; charset=utf-8", "text/html", ""},
			want:   "application/json; charset=utf-8\tjson\ntext/html\thtml\n\tother\n",
		},
		{
			name:   "custom rules",
			labels: []string{"application/x-ndjson", "text/css"},
			categorizer: sampling.NewCategorizer([]sampling.Rule{
				{Pattern: "ndjson", Category: sampling.CategoryOther},
				{Pattern: "json", Category: sampling.CategoryJSON},
			}),
			want: "application/x-ndjson\tother\ntext/css\tother\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			Categorize(tt.labels, tt.categorizer, &out)
			if out.String() != tt.want {
				t.Errorf("Categorize() = %q, want %q", out.String(), tt.want)
			}
		})
	}
}
