// Package config loads runtime configuration for the generator
// surfaces from a YAML file and environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"crosswarped.com/minixw"
)

// Config stores all configuration of the application. Values are read
// by viper from a config file or matching environment variables, for
// example dictionary.file becomes DICTIONARY_FILE.
type Config struct {
	Log        LogConfig        `mapstructure:"log"`
	Dictionary DictionaryConfig `mapstructure:"dictionary"`
	Generator  GeneratorConfig  `mapstructure:"generator"`
	Clues      CluesConfig      `mapstructure:"clues"`
}

// LogConfig controls diagnostic output.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// DictionaryConfig selects the word bank source. File points at a
// local word;frequency bank; Table names a BigQuery table holding the
// same columns.
type DictionaryConfig struct {
	File  string `mapstructure:"file"`
	Table string `mapstructure:"table"`
}

// GeneratorConfig carries the generation budgets.
type GeneratorConfig struct {
	MaxAttempts int `mapstructure:"maxAttempts"`
	TimeoutMs   int `mapstructure:"timeoutMs"`
	HistorySize int `mapstructure:"historySize"`
	NodeBudget  int `mapstructure:"nodeBudget"`
	BranchLimit int `mapstructure:"branchLimit"`
}

// CluesConfig controls the Vertex AI clue writer.
type CluesConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Project string `mapstructure:"project"`
	Region  string `mapstructure:"region"`
}

// Load reads configuration from path, or from a minixw.yaml in the
// working directory when path is empty. A missing default file is not
// an error; defaults and environment variables still apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("minixw")
		v.SetConfigType("yaml")
	}

	v.SetDefault("log.level", "info")
	v.SetDefault("dictionary.file", "")
	v.SetDefault("dictionary.table", "")
	v.SetDefault("generator.maxAttempts", minixw.DefaultMaxAttempts)
	v.SetDefault("generator.timeoutMs", minixw.DefaultTimeoutMs)
	v.SetDefault("generator.historySize", 50)
	v.SetDefault("generator.nodeBudget", minixw.DefaultNodeBudget)
	v.SetDefault("generator.branchLimit", minixw.DefaultBranchLimit)
	v.SetDefault("clues.enabled", false)
	v.SetDefault("clues.project", "")
	v.SetDefault("clues.region", "")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// SolverParams converts the configured budgets into solver parameters.
func (c GeneratorConfig) SolverParams() minixw.SolverParams {
	return minixw.SolverParams{
		NodeBudget:  c.NodeBudget,
		BranchLimit: c.BranchLimit,
	}
}
