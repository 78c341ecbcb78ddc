package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/studiowebux/harsample/internal/config"
	"github.com/studiowebux/harsample/internal/sampling"
)

func TestLoadSettings_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	content := "seed: 9\nlimit: 25\ndistribution:\n  - category: json\n    share: 0.6\n  - category: image\n    share: 0.4\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write settings: %v", err)
	}

	settings, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings() error: %v", err)
	}
	if settings.Seed != 9 || settings.Limit != 25 {
		t.Errorf("seed/limit = %d/%d, want 9/25", settings.Seed, settings.Limit)
	}

	if _, err := LoadSettings(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing explicit settings file")
	}
}

func TestNewGenerateOptions(t *testing.T) {
	settings := config.DefaultSettings()
	settings.Distribution = []config.ShareSetting{
		{Category: "HTML", Share: 0.5},
		{Category: "json", Share: 0.5},
	}

	opts, err := NewGenerateOptions(settings, []string{"a.har"})
	if err != nil {
		t.Fatalf("NewGenerateOptions() error: %v", err)
	}
	if opts.Seed != 42 || opts.Limit != 100 || opts.Output != "testdata/http_traffic.json" {
		t.Errorf("options = %+v", opts)
	}
	if len(opts.Sampling.Distribution) != 2 || opts.Sampling.Distribution[0].Category != sampling.CategoryHTML {
		t.Errorf("distribution = %v", opts.Sampling.Distribution)
	}

	opts.Exclude[0] = "changed"
	if settings.Exclude[0] == "changed" {
		t.Error("options share the settings exclude slice")
	}

	settings.Distribution = []config.ShareSetting{{Category: "video", Share: 1}}
	if _, err := NewGenerateOptions(settings, nil); err == nil {
		t.Error("expected error for unknown category")
	}
}
