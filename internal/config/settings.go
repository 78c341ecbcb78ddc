package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/studiowebux/harsample/internal/sampling"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// DefaultExcludePatterns drops fonts, favicons and tracking traffic from captures
var DefaultExcludePatterns = []string{
	".woff",
	".woff2",
	".ttf",
	".eot",
	"favicon",
	"analytics",
	"tracking",
	"ads",
	"doubleclick",
	"googletagmanager",
}

// ShareSetting is one entry of the configured target distribution
type ShareSetting struct {
	Category string  `json:"category" yaml:"category"`
	Share    float64 `json:"share" yaml:"share"`
}

// Settings holds generation defaults. Command-line flags override them.
type Settings struct {
	Seed          int64          `json:"seed" yaml:"seed"`
	Limit         int            `json:"limit" yaml:"limit"`
	Output        string         `json:"output" yaml:"output"`
	Format        string         `json:"format,omitempty" yaml:"format,omitempty"`
	Exclude       []string       `json:"exclude" yaml:"exclude"`
	Where         string         `json:"where,omitempty" yaml:"where,omitempty"`
	Distribution  []ShareSetting `json:"distribution" yaml:"distribution"`
	Absorber      string         `json:"absorber" yaml:"absorber"`
	IncludeBodies bool           `json:"includeBodies" yaml:"includeBodies"`
	MaxBodyBytes  int            `json:"maxBodyBytes" yaml:"maxBodyBytes"`
	History       *bool          `json:"history,omitempty" yaml:"history,omitempty"`
}

// DefaultSettings returns the reference generation settings
func DefaultSettings() Settings {
	dist := make([]ShareSetting, 0, len(sampling.DefaultDistribution))
	for _, s := range sampling.DefaultDistribution {
		dist = append(dist, ShareSetting{Category: s.Category.String(), Share: s.Proportion})
	}
	history := true
	return Settings{
		Seed:         42,
		Limit:        100,
		Output:       "testdata/http_traffic.json",
		Exclude:      append([]string(nil), DefaultExcludePatterns...),
		Distribution: dist,
		Absorber:     sampling.DefaultAbsorber.String(),
		MaxBodyBytes: 64 * 1024,
		History:      &history,
	}
}

// HistoryEnabled reports whether runs are recorded (default true)
func (s Settings) HistoryEnabled() bool {
	return s.History == nil || *s.History
}

// LoadSettings reads settings from a YAML, JSON or JSONC file. Fields missing
// from the file keep their default values. A missing file yields the defaults.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()
	if path == "" {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, fmt.Errorf("failed to read settings file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&settings); err != nil {
			return settings, fmt.Errorf("failed to parse settings file %s: %w", path, err)
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&settings); err != nil && !errors.Is(err, io.EOF) {
			return settings, fmt.Errorf("failed to parse settings file %s: %w", path, err)
		}
	}

	if err := settings.Validate(); err != nil {
		return settings, fmt.Errorf("invalid settings file %s: %w", path, err)
	}
	return settings, nil
}

// SaveSettings writes settings as YAML
func SaveSettings(path string, settings Settings) error {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.WriteFile(path, data, FilePermissions); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

// Validate checks limits and the sampling distribution
func (s Settings) Validate() error {
	if s.Limit < 0 {
		return fmt.Errorf("limit must not be negative, got %d", s.Limit)
	}
	if s.MaxBodyBytes < 0 {
		return fmt.Errorf("maxBodyBytes must not be negative, got %d", s.MaxBodyBytes)
	}
	_, err := s.SamplingConfig()
	return err
}

// SamplingConfig converts the configured distribution into a sampling config
func (s Settings) SamplingConfig() (sampling.Config, error) {
	dist := make(sampling.Distribution, 0, len(s.Distribution))
	for _, share := range s.Distribution {
		c, err := sampling.ParseCategory(share.Category)
		if err != nil {
			return sampling.Config{}, fmt.Errorf("distribution: %w", err)
		}
		dist = append(dist, sampling.Share{Category: c, Proportion: share.Share})
	}

	absorber := sampling.DefaultAbsorber
	if s.Absorber != "" {
		c, err := sampling.ParseCategory(s.Absorber)
		if err != nil {
			return sampling.Config{}, fmt.Errorf("absorber: %w", err)
		}
		absorber = c
	}

	if err := dist.Validate(absorber); err != nil {
		return sampling.Config{}, err
	}

	return sampling.Config{Distribution: dist, Absorber: absorber}, nil
}
