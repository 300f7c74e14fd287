package config

import (
	"path/filepath"

	"github.com/spf13/viper"
)

// BaseSettingsDir returns the directory holding the active settings file.
// Falls back to ./.sage when no config file was loaded.
func BaseSettingsDir() string {
	// config.path override is used by tests
	if configPath := viper.GetString("config.path"); configPath != "" {
		return configPath
	}

	current := viper.ConfigFileUsed()
	if current == "" {
		return "./.sage"
	}
	return filepath.Dir(current)
}

// BuildSettingsPath joins target onto the settings directory
func BuildSettingsPath(target string) string {
	return filepath.Join(BaseSettingsDir(), target)
}
