package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Remote         string `mapstructure:"remote"`
	TagPrefix      string `mapstructure:"tag_prefix"`
	ManifestPath   string `mapstructure:"manifest_path"`
	GitToken       string `mapstructure:"git_token"`
	JournalDir     string `mapstructure:"journal_dir"`
	JournalEnabled bool   `mapstructure:"journal_enabled"`
	Debug          bool   `mapstructure:"debug"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		Remote:       "origin",
		TagPrefix:    "v",
		ManifestPath: "package.json",
		JournalDir:   ".releasegate",
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Remote == "" {
		return fmt.Errorf("remote cannot be empty")
	}
	// Tag prefix is a single conventional leading character, or empty
	if len(c.TagPrefix) > 1 {
		return fmt.Errorf("tag_prefix must be at most one character, got %q", c.TagPrefix)
	}
	if c.ManifestPath == "" {
		return fmt.Errorf("manifest_path cannot be empty")
	}
	ext := strings.ToLower(filepath.Ext(c.ManifestPath))
	if ext != ".json" && ext != ".toml" {
		return fmt.Errorf("unsupported manifest format %q: expected .json or .toml", ext)
	}
	if c.JournalDir == "" {
		return fmt.Errorf("journal_dir cannot be empty")
	}
	// Check for path traversal in the journal directory
	if strings.Contains(c.JournalDir, "..") {
		return fmt.Errorf("journal_dir contains invalid path traversal")
	}
	return nil
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(".releasegate")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	// Configure environment variables
	viper.SetEnvPrefix("RELEASEGATE")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// Explicitly bind environment variables
	// BindEnv allows multiple env vars - it will check them in order
	if err := viper.BindEnv("git_token", "GIT_TOKEN", "RELEASEGATE_GIT_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind git_token env: %w", err)
	}
	if err := viper.BindEnv("remote", "RELEASEGATE_REMOTE"); err != nil {
		return nil, fmt.Errorf("failed to bind remote env: %w", err)
	}
	if err := viper.BindEnv("tag_prefix", "RELEASEGATE_TAG_PREFIX"); err != nil {
		return nil, fmt.Errorf("failed to bind tag_prefix env: %w", err)
	}
	if err := viper.BindEnv("manifest_path", "RELEASEGATE_MANIFEST_PATH"); err != nil {
		return nil, fmt.Errorf("failed to bind manifest_path env: %w", err)
	}
	if err := viper.BindEnv("journal_dir", "RELEASEGATE_JOURNAL_DIR"); err != nil {
		return nil, fmt.Errorf("failed to bind journal_dir env: %w", err)
	}
	if err := viper.BindEnv("journal_enabled", "RELEASEGATE_JOURNAL_ENABLED"); err != nil {
		return nil, fmt.Errorf("failed to bind journal_enabled env: %w", err)
	}
	if err := viper.BindEnv("debug", "RELEASEGATE_DEBUG"); err != nil {
		return nil, fmt.Errorf("failed to bind debug env: %w", err)
	}
	// Set defaults
	defaults := DefaultConfig()
	viper.SetDefault("remote", defaults.Remote)
	viper.SetDefault("tag_prefix", defaults.TagPrefix)
	viper.SetDefault("manifest_path", defaults.ManifestPath)
	viper.SetDefault("journal_dir", defaults.JournalDir)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &config, nil
}
