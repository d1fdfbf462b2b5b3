package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/minecart/internal/wfc"
)

// LoadRide loads the ride configuration.
// Search order: customPath -> ~/.minecart/configs/ride.yaml -> ./configs/ride.yaml -> embedded default
func LoadRide(customPath string) (RideConfig, error) {
	// Start from the defaults so a partial file only overrides what it names.
	cfg := DefaultRideConfig()

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	for _, path := range searchPaths(RideFile) {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		candidate := DefaultRideConfig()
		if err := yaml.Unmarshal(data, &candidate); err == nil {
			return candidate, nil
		}
	}

	if err := yaml.Unmarshal(defaultRideYAML, &cfg); err != nil {
		return DefaultRideConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// LoadRules loads the terrain rule catalog.
// Search order: customPath -> ~/.minecart/configs/terrain_generation.yaml -> ./configs/terrain_generation.yaml -> embedded default
//
// A broken explicit file is an error. Broken files found on the search
// path are skipped.
func LoadRules(customPath string) (*wfc.Catalog, error) {
	if customPath != "" {
		return wfc.LoadRules(customPath)
	}

	for _, path := range searchPaths(RulesFile) {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if cat, err := wfc.LoadRules(path); err == nil {
			return cat, nil
		}
	}

	cat, err := wfc.ParseRules(defaultRulesYAML)
	if err != nil {
		return nil, fmt.Errorf("embedded %s: %w", RulesFile, err)
	}
	return cat, nil
}

func searchPaths(filename string) []string {
	var paths []string
	if p := userConfigPath(filename); p != "" {
		paths = append(paths, p)
	}
	return append(paths, filepath.Join("configs", filename))
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".minecart", "configs", filename)
}
