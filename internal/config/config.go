// Copyright 2025 The medical-agent Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads harness configuration from file and environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds every tunable of the agent and the evaluation harness.
// Values come from defaults, then an optional config file, then
// TELEHEALTH_-prefixed environment variables, in increasing precedence.
type Config struct {
	Model ModelConfig `mapstructure:"model"`
	Eval  EvalConfig  `mapstructure:"eval"`
	Store StoreConfig `mapstructure:"store"`
	Log   LogConfig   `mapstructure:"log"`
	Trace TraceConfig `mapstructure:"trace"`
}

type ModelConfig struct {
	Name      string `mapstructure:"name"`
	MaxTokens int64  `mapstructure:"max_tokens"`
}

type EvalConfig struct {
	// Threshold is the minimum accuracy for a run to count as passing,
	// applied per scorer category.
	Threshold   float64       `mapstructure:"threshold"`
	CaseTimeout time.Duration `mapstructure:"case_timeout"`
	ResultsDir  string        `mapstructure:"results_dir"`

	// Partial-credit policy for the graded knowledge scorer.
	LenientCredit   float64 `mapstructure:"lenient_credit"`
	PlausibleCredit float64 `mapstructure:"plausible_credit"`
}

type StoreConfig struct {
	// SessionsPath is the SQLite file for persisted chat sessions.
	SessionsPath string `mapstructure:"sessions_path"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type TraceConfig struct {
	// Endpoint is an OTLP/HTTP collector (host:port). Empty disables
	// trace export.
	Endpoint string `mapstructure:"endpoint"`
	Insecure bool   `mapstructure:"insecure"`
}

// Load reads configuration. An empty path means defaults plus environment
// only; a named file that doesn't exist is an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("model.name", "claude-sonnet-4-5")
	v.SetDefault("model.max_tokens", 8192)
	v.SetDefault("eval.threshold", 0.8)
	v.SetDefault("eval.case_timeout", 3*time.Minute)
	v.SetDefault("eval.results_dir", "eval_results")
	v.SetDefault("eval.lenient_credit", 0.8)
	v.SetDefault("eval.plausible_credit", 0.5)
	v.SetDefault("store.sessions_path", "sessions.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("trace.endpoint", "")
	v.SetDefault("trace.insecure", false)

	v.SetEnvPrefix("TELEHEALTH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("telehealth")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Eval.Threshold < 0 || c.Eval.Threshold > 1 {
		return fmt.Errorf("eval.threshold must be in [0,1], got %v", c.Eval.Threshold)
	}
	for _, credit := range []float64{c.Eval.LenientCredit, c.Eval.PlausibleCredit} {
		if credit < 0 || credit > 1 {
			return fmt.Errorf("partial credit must be in [0,1], got %v", credit)
		}
	}
	if c.Model.Name == "" {
		return fmt.Errorf("model.name must not be empty")
	}
	return nil
}
