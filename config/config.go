package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/s0up4200/dsctl/dsc"
)

// Load loads the configuration from file and environment. A missing
// config file is not an error unless a path was given explicitly; the
// client works against public endpoints with no configuration at all.
func Load(configPath string) (*Config, error) {
	// Pick up a local .env before viper reads the environment
	_ = godotenv.Load()

	v := viper.New()

	// Set default values
	setDefaults(v)

	// Environment overrides, e.g. DSCTL_DSC_API_KEY
	v.SetEnvPrefix("DSCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "dsctl"))
		}

		// Check /etc
		v.AddConfigPath("/etc/dsctl/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !notFound || configPath != "" {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values. Every key gets a
// default so environment overrides reach Unmarshal.
func setDefaults(v *viper.Viper) {
	// dsc.gg defaults
	v.SetDefault("dsc.api_key", "")
	v.SetDefault("dsc.auth_mode", "key")
	v.SetDefault("dsc.base_url", "")
	v.SetDefault("dsc.timeout", "30s")

	// Filter defaults
	v.SetDefault("filter.default", "")
	v.SetDefault("filter.presets", map[string]string{})

	// Safety defaults
	v.SetDefault("safety.dry_run", true)
	v.SetDefault("safety.confirm_delete", true)
	v.SetDefault("safety.show_details", true)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "auto")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if _, err := dsc.ParseAuthMode(cfg.DSC.AuthMode); err != nil {
		return fmt.Errorf("invalid dsc.auth_mode: %s (must be 'key', 'oauth', or 'bearer')", cfg.DSC.AuthMode)
	}

	if cfg.DSC.Timeout <= 0 {
		return fmt.Errorf("dsc.timeout must be positive")
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"auto":    true,
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
