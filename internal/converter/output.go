package converter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/studiowebux/harsample/internal/config"
	"github.com/studiowebux/harsample/internal/types"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ResolveFormat returns the explicit format, or infers it from the file extension
func ResolveFormat(format, path string) (string, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	case "":
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			return FormatYAML, nil
		default:
			return FormatJSON, nil
		}
	default:
		return "", fmt.Errorf("unsupported output format '%s' (json/yaml)", format)
	}
}

// EncodeTestCases writes test cases to w in the given format
func EncodeTestCases(w io.Writer, cases []types.TestCase, format string) error {
	if cases == nil {
		cases = []types.TestCase{}
	}

	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cases); err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(cases); err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported output format '%s' (json/yaml)", format)
	}
}

// WriteTestCases writes test cases to path ("-" for stdout)
func WriteTestCases(path string, cases []types.TestCase, format string) error {
	format, err := ResolveFormat(format, path)
	if err != nil {
		return err
	}

	if path == "-" {
		return EncodeTestCases(os.Stdout, cases, format)
	}

	if err := ValidateOutputFile(path); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := EncodeTestCases(&buf, cases, format); err != nil {
		return err
	}

	if err := os.WriteFile(path, buf.Bytes(), config.FilePermissions); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// LoadTestCases reads a test case file written by WriteTestCases
func LoadTestCases(path string) ([]types.TestCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read test cases: %w", err)
	}

	var cases []types.TestCase
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cases); err != nil {
			return nil, fmt.Errorf("failed to parse test cases: %w", err)
		}
	default:
		if err := json.Unmarshal(jsonc.ToJSON(data), &cases); err != nil {
			return nil, fmt.Errorf("failed to parse test cases: %w", err)
		}
	}

	return cases, nil
}

// ValidateOutputFile makes sure the parent directory of path exists
func ValidateOutputFile(path string) error {
	if path == "" || path == "-" {
		return nil
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, config.DirPermissions); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	return nil
}
