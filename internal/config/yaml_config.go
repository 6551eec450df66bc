package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"rankdash/internal/models"
)

// YAMLConfig represents the structure of the config.yaml file.
// Category lists are easier to manage in YAML than env vars.
type YAMLConfig struct {
	Categories []models.BusinessCategory `yaml:"categories"`
	Estimates  EstimatesConfig           `yaml:"estimates"`
}

// EstimatesConfig overrides the env estimate defaults.
type EstimatesConfig struct {
	CTRFallback           *float64 `yaml:"ctr_fallback,omitempty"`
	DefaultAvgJobValue    *float64 `yaml:"default_avg_job_value,omitempty"`
	DefaultConversionRate *float64 `yaml:"default_conversion_rate,omitempty"`
	TargetRank            *int     `yaml:"target_rank,omitempty"`
}

// LoadYAMLConfig loads the YAML configuration file.
// Path is determined by CONFIG_FILE env var, defaulting to "config.yaml".
// Returns nil without error if the config file doesn't exist.
func LoadYAMLConfig() (*YAMLConfig, error) {
	return LoadYAMLConfigFile(getEnv("CONFIG_FILE", "config.yaml"))
}

// LoadYAMLConfigFile loads a YAML config from path.
func LoadYAMLConfigFile(path string) (*YAMLConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file is optional
			return nil, nil
		}
		return nil, err
	}

	var cfg YAMLConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Fill icon-less categories with a generic one
	for i := range cfg.Categories {
		if cfg.Categories[i].Icon == "" {
			cfg.Categories[i].Icon = "briefcase"
		}
	}

	return &cfg, nil
}

// GetCategories returns the configured categories, or nil.
func (c *YAMLConfig) GetCategories() []models.BusinessCategory {
	if c == nil {
		return nil
	}
	return c.Categories
}

// ApplyTo copies any estimate overrides onto cfg.
func (c *YAMLConfig) ApplyTo(cfg *Config) {
	if c == nil {
		return
	}
	e := c.Estimates
	if e.CTRFallback != nil {
		cfg.CTRFallback = *e.CTRFallback
	}
	if e.DefaultAvgJobValue != nil {
		cfg.DefaultAvgJobValue = *e.DefaultAvgJobValue
	}
	if e.DefaultConversionRate != nil {
		cfg.DefaultConversionRate = *e.DefaultConversionRate
	}
	if e.TargetRank != nil {
		cfg.TargetRank = *e.TargetRank
	}
}
