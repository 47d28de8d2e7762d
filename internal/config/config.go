// Package config loads the bridge's configuration via viper, the way the
// teacher's internal/config/config.go does: a YAML file selected by
// CONFIG_ENV, defaults set before load, unmarshalled into a typed struct.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config holds every value the bridge's components need at construction
// time.
type Config struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`

	LoadSampleInterval time.Duration `mapstructure:"load_sample_interval"`
	LoadedThreshold    float64       `mapstructure:"loaded_threshold"`
	RecoveryThreshold  float64       `mapstructure:"recovery_threshold"`

	MinAnnouncementWindow time.Duration `mapstructure:"min_announcement_window"`
	ForceExitDelay        time.Duration `mapstructure:"force_exit_delay"`

	InitialDrainMode bool `mapstructure:"initial_drain_mode"`

	LogLevel string `mapstructure:"log_level"`
}

// Load reads config/config.<CONFIG_ENV>.yaml (default env "dev"), applying
// defaults for anything absent.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("port", 8080)
	v.SetDefault("mode", "release")
	v.SetDefault("load_sample_interval", "10s")
	v.SetDefault("loaded_threshold", 5000.0)
	v.SetDefault("recovery_threshold", 3500.0)
	v.SetDefault("min_announcement_window", "5s")
	v.SetDefault("force_exit_delay", "1s")
	v.SetDefault("initial_drain_mode", false)
	v.SetDefault("log_level", "info")

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("file", fileName).Err(err).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	log.Info().
		Int("port", cfg.Port).
		Str("mode", cfg.Mode).
		Dur("load_sample_interval", cfg.LoadSampleInterval).
		Float64("loaded_threshold", cfg.LoadedThreshold).
		Float64("recovery_threshold", cfg.RecoveryThreshold).
		Msg("config resolved")
	return &cfg, nil
}
