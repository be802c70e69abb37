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

// Command telehealth is the telehealth front-desk agent: an interactive
// patient chat plus the evaluation harness that keeps its policy behavior
// honest across revisions.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jxnl/medical-agent/agent"
	"github.com/jxnl/medical-agent/internal/config"
	"github.com/jxnl/medical-agent/telemetry"
)

var (
	cfgPath       string
	cfg           *config.Config
	traceShutdown func(context.Context) error
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "telehealth",
		Short:        "Telehealth front-desk agent and evaluation harness",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(cfgPath)
			if err != nil {
				return err
			}

			level, err := zerolog.ParseLevel(cfg.Log.Level)
			if err != nil {
				return fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
			}
			log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(level).
				With().Timestamp().Logger()

			traceShutdown, err = telemetry.Setup(cmd.Context(), telemetry.Config{
				Endpoint:       cfg.Trace.Endpoint,
				Insecure:       cfg.Trace.Insecure,
				ServiceVersion: agent.Version,
			})
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if traceShutdown != nil {
				return traceShutdown(cmd.Context())
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default telehealth.yaml in working directory)")

	root.AddCommand(newChatCmd())
	root.AddCommand(newSessionsCmd())
	root.AddCommand(newEvalCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
