package cli

import (
	"fmt"
	"os"

	"github.com/studiowebux/harsample/internal/config"
)

// LoadSettings reads generation settings. An explicit path must exist;
// otherwise the local .harsample.yaml wins over the global settings file.
func LoadSettings(path string) (config.Settings, error) {
	if path == "" {
		return config.LoadSettings(config.GetSettingsFilePath())
	}

	expanded, err := config.ExpandPath(path)
	if err != nil {
		return config.Settings{}, err
	}
	if _, err := os.Stat(expanded); err != nil {
		return config.Settings{}, fmt.Errorf("settings file not found: %s", path)
	}
	return config.LoadSettings(expanded)
}
