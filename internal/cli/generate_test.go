package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/studiowebux/harsample/internal/converter"
	"github.com/studiowebux/harsample/internal/history"
	"github.com/studiowebux/harsample/internal/sampling"
	"github.com/studiowebux/harsample/internal/types"
	"go.uber.org/zap/zaptest"
)

type harGroup struct {
	mime  string
	count int
	path  string
}

// writeHAR writes a capture holding count entries per group
func writeHAR(t *testing.T, dir, name string, groups ...harGroup) string {
	t.Helper()
	var har types.HARFile
	har.Log.Version = "1.2"
	har.Log.Creator = types.HARCreator{Name: "test", Version: "1"}
	for _, g := range groups {
		for i := 0; i < g.count; i++ {
			har.Log.Entries = append(har.Log.Entries, types.HAREntry{
				Request: types.HARRequest{
					Method: "GET",
					URL:    fmt.Sprintf("https://example.com/%s/%d", g.path, i),
				},
				Response: types.HARResponse{
					Status:  200,
					Headers: []types.HARHeader{{Name: "Content-Type", Value: g.mime}},
					Content: types.HARContent{MimeType: g.mime},
				},
			})
		}
	}
	data, err := json.Marshal(har)
	if err != nil {
		t.Fatalf("failed to marshal HAR: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write HAR: %v", err)
	}
	return path
}

var thinPoolDistribution = sampling.Distribution{
	{Category: sampling.CategoryJSON, Proportion: 0.5},
	{Category: sampling.CategoryHTML, Proportion: 0.1},
	{Category: sampling.CategoryJavaScript, Proportion: 0.1},
	{Category: sampling.CategoryCSS, Proportion: 0.1},
	{Category: sampling.CategoryImage, Proportion: 0.1},
	{Category: sampling.CategoryOther, Proportion: 0.1},
}

func thinPoolOptions(t *testing.T, dir string) GenerateOptions {
	t.Helper()
	input := writeHAR(t, dir, "capture.har",
		harGroup{mime: "application/json", count: 10, path: "api"},
		harGroup{mime: "text/html; charset=utf-8", count: 5, path: "page"},
	)
	return GenerateOptions{
		Inputs:   []string{input},
		Output:   filepath.Join(dir, "out", "cases.json"),
		Limit:    10,
		Seed:     42,
		Sampling: sampling.Config{Distribution: thinPoolDistribution},
		Stderr:   &bytes.Buffer{},
		Logger:   zaptest.NewLogger(t),
	}
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	opts := thinPoolOptions(t, dir)
	var stderr bytes.Buffer
	opts.Stderr = &stderr

	run, err := Generate(context.Background(), opts)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if run.Total != 15 || run.Filtered != 15 {
		t.Errorf("total/filtered = %d/%d, want 15/15", run.Total, run.Filtered)
	}
	if run.Selected != 10 || run.Written != 10 {
		t.Errorf("selected/written = %d/%d, want 10/10", run.Selected, run.Written)
	}
	if run.Deficit != 4 {
		t.Errorf("deficit = %d, want 4", run.Deficit)
	}
	if run.Format != converter.FormatJSON {
		t.Errorf("format = %q, want json", run.Format)
	}

	cases, err := converter.LoadTestCases(opts.Output)
	if err != nil {
		t.Fatalf("LoadTestCases() error: %v", err)
	}
	if len(cases) != 10 {
		t.Fatalf("expected 10 test cases, got %d", len(cases))
	}
	seen := make(map[string]bool)
	for i, tc := range cases {
		if !strings.HasPrefix(tc.Name, fmt.Sprintf("Request %d: GET /", i+1)) {
			t.Errorf("case %d name = %q", i, tc.Name)
		}
		key := tc.Request.Path
		if seen[key] {
			t.Errorf("duplicate entry %s", key)
		}
		seen[key] = true
	}

	out := stderr.String()
	for _, want := range []string{
		"No entries for category 'javascript', skipping",
		"Deficit of 4 entries, filled 4 randomly",
		"Selected 10 entries",
		"Wrote 10 test cases",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}

	var jsonCat *types.RunCategory
	for i := range run.Categories {
		if run.Categories[i].Category == "json" {
			jsonCat = &run.Categories[i]
		}
	}
	if jsonCat == nil {
		t.Fatal("run has no json category")
	}
	if jsonCat.Bucket != 10 || jsonCat.Quota != 5 || jsonCat.Share != 0.5 {
		t.Errorf("json category = %+v", *jsonCat)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	dir := t.TempDir()
	opts := thinPoolOptions(t, dir)

	var outputs [][]byte
	for i := 0; i < 2; i++ {
		opts.Output = filepath.Join(dir, fmt.Sprintf("run%d.yaml", i))
		if _, err := Generate(context.Background(), opts); err != nil {
			t.Fatalf("Generate() error: %v", err)
		}
		data, err := os.ReadFile(opts.Output)
		if err != nil {
			t.Fatalf("failed to read output: %v", err)
		}
		outputs = append(outputs, data)
	}

	if !bytes.Equal(outputs[0], outputs[1]) {
		t.Error("same seed produced different output")
	}
	if !bytes.Contains(outputs[0], []byte("statusCode: 200")) {
		t.Errorf("expected YAML output, got:\n%s", outputs[0])
	}
}

func TestGenerate_Filters(t *testing.T) {
	dir := t.TempDir()
	input := writeHAR(t, dir, "capture.har",
		harGroup{mime: "application/json", count: 4, path: "api"},
		harGroup{mime: "image/x-icon", count: 2, path: "favicon"},
		harGroup{mime: "font/woff2", count: 3, path: "fonts"},
	)

	tests := []struct {
		name     string
		exclude  []string
		where    string
		filtered int
	}{
		{name: "no filters", filtered: 9},
		{name: "substring", exclude: []string{"favicon"}, filtered: 7},
		{name: "glob", exclude: []string{"glob:fonts/**"}, filtered: 6},
		{name: "where", where: "contains(request.url, '/api/')", filtered: 4},
		{name: "exclude and where", exclude: []string{"FAVICON"}, where: "response.status == `200`", filtered: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run, err := Generate(context.Background(), GenerateOptions{
				Inputs:  []string{input},
				Output:  filepath.Join(t.TempDir(), "cases.json"),
				Limit:   100,
				Seed:    1,
				Exclude: tt.exclude,
				Where:   tt.where,
				Stderr:  &bytes.Buffer{},
			})
			if err != nil {
				t.Fatalf("Generate() error: %v", err)
			}
			if run.Filtered != tt.filtered {
				t.Errorf("filtered = %d, want %d", run.Filtered, tt.filtered)
			}
			if run.Selected != tt.filtered {
				t.Errorf("selected = %d, want all %d filtered entries", run.Selected, tt.filtered)
			}
		})
	}
}

func TestGenerate_RecordsHistory(t *testing.T) {
	dir := t.TempDir()
	mgr, err := history.NewManager(filepath.Join(dir, "history.db"))
	if err != nil {
		t.Fatalf("NewManager() error: %v", err)
	}
	defer mgr.Close()

	opts := thinPoolOptions(t, dir)
	opts.History = mgr

	run, err := Generate(context.Background(), opts)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if run.ID == "" {
		t.Fatal("run was not assigned an ID")
	}

	stored, err := mgr.GetRun(run.ID)
	if err != nil {
		t.Fatalf("GetRun() error: %v", err)
	}
	if stored.Seed != 42 || stored.Written != 10 {
		t.Errorf("stored run = %+v", stored)
	}
	if len(stored.Categories) != len(thinPoolDistribution) {
		t.Errorf("stored %d categories, want %d", len(stored.Categories), len(thinPoolDistribution))
	}
}

func TestGenerate_Errors(t *testing.T) {
	dir := t.TempDir()
	input := writeHAR(t, dir, "capture.har", harGroup{mime: "application/json", count: 2, path: "api"})
	output := filepath.Join(dir, "cases.json")

	tests := []struct {
		name string
		opts GenerateOptions
	}{
		{name: "no inputs", opts: GenerateOptions{Output: output}},
		{name: "no output", opts: GenerateOptions{Inputs: []string{input}}},
		{name: "negative limit", opts: GenerateOptions{Inputs: []string{input}, Output: output, Limit: -1}},
		{name: "bad format", opts: GenerateOptions{Inputs: []string{input}, Output: output, Format: "xml"}},
		{name: "bad where", opts: GenerateOptions{Inputs: []string{input}, Output: output, Where: "request.["}},
		{name: "bad glob", opts: GenerateOptions{Inputs: []string{input}, Output: output, Exclude: []string{"glob:["}}},
		{name: "missing capture", opts: GenerateOptions{Inputs: []string{filepath.Join(dir, "missing.har")}, Output: output}},
		{name: "bad distribution", opts: GenerateOptions{
			Inputs: []string{input}, Output: output, Limit: 1,
			Sampling: sampling.Config{Distribution: sampling.Distribution{{Category: sampling.CategoryHTML, Proportion: 1}}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Stderr = &bytes.Buffer{}
			if _, err := Generate(context.Background(), tt.opts); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestGenerate_Canceled(t *testing.T) {
	dir := t.TempDir()
	opts := thinPoolOptions(t, dir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Generate(ctx, opts); err == nil {
		t.Error("expected error for canceled context")
	}
}

func TestGenerate_HistoryFailureLeavesRunUnrecorded(t *testing.T) {
	dir := t.TempDir()
	mgr, err := history.NewManager(filepath.Join(dir, "history.db"))
	if err != nil {
		t.Fatalf("NewManager() error: %v", err)
	}
	mgr.Close()

	opts := thinPoolOptions(t, dir)
	opts.History = mgr

	run, err := Generate(context.Background(), opts)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if run.ID != "" {
		t.Errorf("run.ID = %q after failed save, want empty", run.ID)
	}
	if run.Written != 10 {
		t.Errorf("written = %d, want 10", run.Written)
	}
}
