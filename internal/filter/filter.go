package filter

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/jmespath/go-jmespath"
	"github.com/studiowebux/harsample/internal/types"
)

// GlobPrefix marks an exclusion pattern matched as a glob against the URL path
const GlobPrefix = "glob:"

// ShouldExclude checks if a URL matches any exclusion pattern.
// Plain patterns are case-insensitive substrings of the whole URL.
// Patterns starting with glob: are doublestar globs against the URL path (e.g. glob:**/*.woff2).
func ShouldExclude(rawURL string, patterns []string) bool {
	urlLower := strings.ToLower(rawURL)
	for _, pattern := range patterns {
		if glob, ok := strings.CutPrefix(pattern, GlobPrefix); ok {
			if matchGlob(urlLower, strings.ToLower(glob)) {
				return true
			}
			continue
		}
		if pattern == "" {
			continue
		}
		if strings.Contains(urlLower, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}

func matchGlob(rawURL, glob string) bool {
	path := rawURL
	if parsed, err := url.Parse(rawURL); err == nil && parsed.Path != "" {
		path = parsed.Path
	}
	matched, err := doublestar.Match(glob, strings.TrimPrefix(path, "/"))
	return err == nil && matched
}

// ValidatePatterns checks that every glob pattern is well formed
func ValidatePatterns(patterns []string) error {
	for _, pattern := range patterns {
		if glob, ok := strings.CutPrefix(pattern, GlobPrefix); ok {
			if !doublestar.ValidatePattern(glob) {
				return fmt.Errorf("invalid glob pattern '%s'", glob)
			}
		}
	}
	return nil
}

// ExcludeByURL drops entries whose request URL matches any pattern
func ExcludeByURL(entries []*types.HAREntry, patterns []string) []*types.HAREntry {
	if len(patterns) == 0 {
		return entries
	}

	filtered := make([]*types.HAREntry, 0, len(entries))
	for _, entry := range entries {
		if ShouldExclude(entry.Request.URL, patterns) {
			continue
		}
		filtered = append(filtered, entry)
	}
	return filtered
}

// Where keeps entries for which the JMESPath expression is truthy.
// The expression sees the entry in its HAR JSON form, e.g.
// response.status == `200` or request.method == 'GET'.
func Where(entries []*types.HAREntry, expression string) ([]*types.HAREntry, error) {
	if expression == "" {
		return entries, nil
	}

	jp, err := jmespath.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid JMESPath expression '%s': %w", expression, err)
	}

	filtered := make([]*types.HAREntry, 0, len(entries))
	for i, entry := range entries {
		data, err := toGeneric(entry)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}

		result, err := jp.Search(data)
		if err != nil {
			return nil, fmt.Errorf("JMESPath search failed on entry %d: %w", i+1, err)
		}

		if isTruthy(result) {
			filtered = append(filtered, entry)
		}
	}
	return filtered, nil
}

// IsValidJMESPath checks if an expression is valid JMESPath syntax
func IsValidJMESPath(expression string) bool {
	_, err := jmespath.Compile(expression)
	return err == nil
}

// toGeneric converts an entry to the map form JMESPath evaluates against
func toGeneric(entry *types.HAREntry) (interface{}, error) {
	raw, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entry: %w", err)
	}
	var data interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return data, nil
}

// isTruthy follows JMESPath truthiness: false, null and empty values are false
func isTruthy(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case []interface{}:
		return len(val) > 0
	case map[string]interface{}:
		return len(val) > 0
	default:
		return true
	}
}
