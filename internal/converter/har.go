package converter

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/studiowebux/harsample/internal/types"
	"github.com/tidwall/jsonc"
	"golang.org/x/sync/errgroup"
)

// maxParallelLoads bounds how many captures are decoded at once
const maxParallelLoads = 4

// LoadHAR reads and parses a HAR capture
func LoadHAR(path string) (*types.HARFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read HAR file: %w", err)
	}

	har, err := ParseHAR(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return har, nil
}

// ParseHAR decodes HAR content. Comments and trailing commas are stripped
// first; plain JSON passes through unchanged.
func ParseHAR(data []byte) (*types.HARFile, error) {
	data = jsonc.ToJSON(data)

	var har types.HARFile
	if err := json.Unmarshal(data, &har); err != nil {
		return nil, fmt.Errorf("failed to parse HAR file: %w", err)
	}

	if len(har.Log.Entries) == 0 {
		return nil, fmt.Errorf("no entries found in HAR file")
	}

	return &har, nil
}

// LoadHARFiles loads several captures concurrently and returns their entries
// concatenated in argument order
func LoadHARFiles(ctx context.Context, paths []string) ([]*types.HAREntry, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no HAR files provided")
	}

	files := make([]*types.HARFile, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelLoads)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			har, err := LoadHAR(path)
			if err != nil {
				return err
			}
			files[i] = har
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var entries []*types.HAREntry
	for _, har := range files {
		for i := range har.Log.Entries {
			entries = append(entries, &har.Log.Entries[i])
		}
	}
	return entries, nil
}
