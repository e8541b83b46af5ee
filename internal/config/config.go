// Package config loads elf_view settings from an optional YAML file and
// ELF_VIEW_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/yalue/elfdoc/internal/logging"
)

// EnvPrefix is prepended to every environment variable name, so log.level is
// read from ELF_VIEW_LOG_LEVEL.
const EnvPrefix = "ELF_VIEW"

// Config represents the viewer configuration
type Config struct {
	Log logging.Config `mapstructure:"log"`
	// Treat a file without the ELF signature as an error instead of printing
	// whatever decodes.
	RequireValid bool `mapstructure:"require_valid"`
	// Files larger than this many bytes are rejected before reading.
	MaxFileSize int64 `mapstructure:"max_file_size"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", string(logging.LevelWarn))
	v.SetDefault("log.format", string(logging.FormatText))
	v.SetDefault("require_valid", false)
	v.SetDefault("max_file_size", int64(256<<20))
}

// Load reads the configuration. An empty path looks for elf_view.yaml in the
// working directory and $HOME/.config/elf_view, and silently uses defaults if
// there is none; an explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("elf_view")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/elf_view")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

// Validate normalizes the log settings and rejects impossible values.
func (c *Config) Validate() error {
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("max_file_size must be positive, got %d",
			c.MaxFileSize)
	}
	c.Log.Level = logging.ParseLevel(string(c.Log.Level))
	c.Log.Format = logging.ParseFormat(string(c.Log.Format))
	return nil
}
