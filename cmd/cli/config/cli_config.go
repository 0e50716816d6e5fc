package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/inferloop/synthval/pkg/constants"
)

// CLIConfig carries evaluation defaults that a config file or environment
// can override; command-line flags take final precedence.
type CLIConfig struct {
	Bins               int    `mapstructure:"bins"`
	Seed               int64  `mapstructure:"seed"`
	AccuracyMaxRecords int    `mapstructure:"accuracy_max_records"`
	PrivacyMaxSamples  int    `mapstructure:"privacy_max_samples"`
	OutputFormat       string `mapstructure:"output_format"`
}

// LoadConfig resolves the effective configuration from viper, which has
// already been pointed at the config file and environment by the root
// command.
func LoadConfig() (*CLIConfig, error) {
	viper.SetDefault("bins", constants.DefaultBins)
	viper.SetDefault("seed", constants.DefaultSeed)
	viper.SetDefault("accuracy_max_records", constants.DefaultAccuracyMaxRecords)
	viper.SetDefault("privacy_max_samples", constants.DefaultPrivacyMaxSamples)
	viper.SetDefault("output_format", "text")

	config := &CLIConfig{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return config, nil
}
