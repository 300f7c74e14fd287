package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Logging      LoggingConfig `mapstructure:"logging"`
	Tutor        TutorConfig   `mapstructure:"tutor"`
	Memory       MemoryConfig  `mapstructure:"memory"`
	ShowThinking bool          `mapstructure:"show_thinking"`
	HistoryFile  string        `mapstructure:"history_file"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	LogFile  string `mapstructure:"log_file"`
	Preserve bool   `mapstructure:"preserve"`
	Level    string `mapstructure:"level"`
}

// TutorConfig holds backend connection configuration
type TutorConfig struct {
	URL                  string        `mapstructure:"url"`
	ChatPath             string        `mapstructure:"chat_path"`
	AuthToken            string        `mapstructure:"auth_token"`
	Timeout              time.Duration `mapstructure:"-"`
	TimeoutStr           string        `mapstructure:"timeout"`
	InactivityTimeout    time.Duration `mapstructure:"-"`
	InactivityTimeoutStr string        `mapstructure:"inactivity_timeout"`
}

// MemoryConfig holds interaction-record persistence configuration
type MemoryConfig struct {
	Provider       string `mapstructure:"provider"` // http, chromem, none
	URL            string `mapstructure:"url"`
	SummaryLimit   int    `mapstructure:"summary_limit"`
	PersistenceDir string `mapstructure:"persistence_dir"`
}

var cfg *Config

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		panic("config not initialized")
	}
	return cfg
}

// Load loads configuration from file and environment
func Load(cfgFile string) (*Config, error) {
	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}

		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome == "" {
			xdgConfigHome = filepath.Join(home, ".config")
		}

		viper.AddConfigPath("./.sage")
		viper.AddConfigPath(filepath.Join(xdgConfigHome, "sage"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("settings")
	}

	viper.AutomaticEnv()
	bindEnvironmentVariables()

	// A missing config file is fine, defaults and env cover everything
	_ = viper.ReadInConfig()

	cfg = &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := processDurations(cfg); err != nil {
		return nil, fmt.Errorf("failed to process durations: %w", err)
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("tutor.url", "http://localhost:8000")
	viper.SetDefault("tutor.chat_path", "/api/chat")
	viper.SetDefault("tutor.auth_token", "")
	viper.SetDefault("tutor.timeout", "90s")
	viper.SetDefault("tutor.inactivity_timeout", "60s")

	viper.SetDefault("memory.provider", "http")
	viper.SetDefault("memory.url", "http://localhost:8000/api/memory")
	viper.SetDefault("memory.summary_limit", 400)
	viper.SetDefault("memory.persistence_dir", "./.sage/memory")

	viper.SetDefault("show_thinking", true)
	viper.SetDefault("history_file", "./.sage/chat_history.json")

	viper.SetDefault("logging.log_file", "./.sage/system.log")
	viper.SetDefault("logging.preserve", false)
	viper.SetDefault("logging.level", "info")
}

// bindEnvironmentVariables binds specific environment variables to Viper keys
func bindEnvironmentVariables() {
	viper.BindEnv("tutor.url", "SAGE_TUTOR_URL")
	viper.BindEnv("tutor.auth_token", "SAGE_AUTH_TOKEN")
	viper.BindEnv("tutor.timeout", "SAGE_TUTOR_TIMEOUT")
	viper.BindEnv("memory.provider", "SAGE_MEMORY_PROVIDER")
	viper.BindEnv("memory.url", "SAGE_MEMORY_URL")
	viper.BindEnv("logging.level", "SAGE_LOG_LEVEL")
	viper.BindEnv("logging.log_file", "SAGE_LOG_FILE")
	viper.BindEnv("show_thinking", "SAGE_SHOW_THINKING")
}

// processDurations converts string durations to time.Duration
// (viper doesn't handle time.Duration directly)
func processDurations(cfg *Config) error {
	if cfg.Tutor.TimeoutStr != "" {
		d, err := time.ParseDuration(cfg.Tutor.TimeoutStr)
		if err != nil {
			return fmt.Errorf("invalid tutor.timeout: %w", err)
		}
		cfg.Tutor.Timeout = d
	} else if cfg.Tutor.Timeout == 0 {
		cfg.Tutor.Timeout = 90 * time.Second
	}

	if cfg.Tutor.InactivityTimeoutStr != "" {
		d, err := time.ParseDuration(cfg.Tutor.InactivityTimeoutStr)
		if err != nil {
			return fmt.Errorf("invalid tutor.inactivity_timeout: %w", err)
		}
		cfg.Tutor.InactivityTimeout = d
	} else if cfg.Tutor.InactivityTimeout == 0 {
		cfg.Tutor.InactivityTimeout = 60 * time.Second
	}

	return nil
}

// GetConfigFileUsed returns the path to the config file being used
func GetConfigFileUsed() string {
	return viper.ConfigFileUsed()
}

// Set replaces the global config instance. Intended for tests.
func Set(c *Config) {
	cfg = c
}
