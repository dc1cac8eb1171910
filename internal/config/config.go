// Package config loads runtime settings from an optional config file and
// JANMON_-prefixed environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds every tunable of the curation pipeline.
type Config struct {
	Generator GeneratorConfig `mapstructure:"generator"`
	Extractor ServiceConfig   `mapstructure:"extractor"`
	Judge     ServiceConfig   `mapstructure:"judge"`
	Scoring   ScoringConfig   `mapstructure:"scoring"`

	Candidates  int    `mapstructure:"candidates"`
	Workers     int    `mapstructure:"workers"`
	Parallelism int    `mapstructure:"parallelism"`
	DBPath      string `mapstructure:"db_path"`
	LangCheck   bool   `mapstructure:"langcheck"`
}

// GeneratorConfig selects and configures the question generator.
type GeneratorConfig struct {
	Provider string `mapstructure:"provider"` // openai or gemini
	Model    string `mapstructure:"model"`
	APIKey   string `mapstructure:"api_key"`
	BaseURL  string `mapstructure:"base_url"`
}

// ServiceConfig configures an OpenAI-compatible service endpoint.
type ServiceConfig struct {
	Model   string `mapstructure:"model"`
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// ScoringConfig points at the external score calculator.
type ScoringConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// Load reads configuration from configFile (optional, empty to skip) and
// the environment. Environment variables use the JANMON_ prefix with
// underscores for nesting, e.g. JANMON_GENERATOR_MODEL.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// Every key needs a default registered so environment overrides are
	// visible to Unmarshal.
	v.SetDefault("generator.provider", "openai")
	v.SetDefault("generator.model", "gpt-4o")
	v.SetDefault("generator.api_key", "")
	v.SetDefault("generator.base_url", "")
	v.SetDefault("extractor.model", "gpt-4o")
	v.SetDefault("extractor.api_key", "")
	v.SetDefault("extractor.base_url", "")
	v.SetDefault("judge.model", "gpt-4o-mini")
	v.SetDefault("judge.api_key", "")
	v.SetDefault("judge.base_url", "")
	v.SetDefault("scoring.base_url", "http://localhost:8420")
	v.SetDefault("candidates", 10)
	v.SetDefault("workers", 10)
	v.SetDefault("parallelism", 4)
	v.SetDefault("db_path", "janmon.db")
	v.SetDefault("langcheck", true)

	v.SetEnvPrefix("JANMON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// The OpenAI key is shared across services unless overridden.
	if cfg.Extractor.APIKey == "" {
		cfg.Extractor.APIKey = cfg.Generator.APIKey
	}
	if cfg.Judge.APIKey == "" {
		cfg.Judge.APIKey = cfg.Generator.APIKey
	}

	return &cfg, nil
}
