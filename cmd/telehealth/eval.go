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

package main

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jxnl/medical-agent/agent"
	"github.com/jxnl/medical-agent/evaluation"
	"github.com/jxnl/medical-agent/evaluation/storage"
	"github.com/jxnl/medical-agent/model/anthropic"
)

func newEvalCmd() *cobra.Command {
	var (
		datasetPaths []string
		scorerName   string
		runID        string
		dryStore     bool
	)

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Run the agent against labeled test suites and score its policy behavior",
		Long: `Runs every test case of each dataset concurrently against a fresh agent
session, scores the transcripts, and persists a run record (JSON) plus a
tabular export (CSV) for cross-run diffing.

Exits non-zero when any dataset's accuracy falls below the configured
threshold, so CI can gate on policy regressions.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			scorer, err := makeScorer(scorerName)
			if err != nil {
				return err
			}

			m, err := anthropic.NewModel(cfg.Model.Name, &anthropic.Config{
				MaxTokens: cfg.Model.MaxTokens,
			})
			if err != nil {
				return err
			}

			opts := []evaluation.RunnerOption{
				evaluation.WithCaseTimeout(cfg.Eval.CaseTimeout),
			}
			if runID != "" {
				opts = append(opts, evaluation.WithRunID(runID))
			}
			runner := evaluation.NewRunner(agent.NewAdapter(m), scorer, opts...)

			var store evaluation.Storage
			if dryStore {
				store = storage.NewMemoryStorage()
			} else {
				store, err = storage.NewFileStorage(cfg.Eval.ResultsDir)
				if err != nil {
					return err
				}
			}

			belowThreshold := false
			for _, path := range datasetPaths {
				ds, err := evaluation.LoadDataset(path)
				if err != nil {
					return err
				}

				record, err := runner.Run(cmd.Context(), ds)
				if err != nil {
					return err
				}

				renderRun(record, cfg.Eval.Threshold)
				if record.Accuracy < cfg.Eval.Threshold {
					belowThreshold = true
				}

				// The verdict is already decided in memory; a failed write
				// is reported but never flips it.
				if err := store.SaveRunRecord(cmd.Context(), record); err != nil {
					log.Error().Err(err).Str("run_id", record.RunID).Msg("failed to persist run record")
				} else if !dryStore {
					fmt.Println(faintStyle.Render(fmt.Sprintf("saved %s/results/%s.json", cfg.Eval.ResultsDir, record.RunID)))
				}
				fmt.Println()
			}

			if belowThreshold {
				return fmt.Errorf("accuracy below threshold %.2f", cfg.Eval.Threshold)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&datasetPaths, "dataset", nil, "dataset file (JSON or YAML); repeatable")
	cmd.Flags().StringVar(&scorerName, "scorer", "escalation", "scorer to apply: escalation, tool_selection, or knowledge")
	cmd.Flags().StringVar(&runID, "run-id", "", "fix the run identifier instead of deriving it from the start time")
	cmd.Flags().BoolVar(&dryStore, "no-save", false, "don't persist run artifacts")
	cmd.MarkFlagRequired("dataset")
	return cmd
}

// makeScorer builds the scorer, applying the configured partial-credit
// policy to the graded one.
func makeScorer(name string) (evaluation.Scorer, error) {
	if name == "knowledge" {
		return evaluation.NewKnowledgeScorer(evaluation.PartialCredit{
			Lenient:   cfg.Eval.LenientCredit,
			Plausible: cfg.Eval.PlausibleCredit,
		}), nil
	}
	return evaluation.DefaultRegistry.Create(name)
}

func renderRun(record *evaluation.RunRecord, threshold float64) {
	summary := fmt.Sprintf("%s\n%s\n\naccuracy   %.1f%%   (%d/%d passed, %d errored)\navg score  %.2f\nagent      %s   %s@%s",
		titleStyle.Render("Evaluation: "+record.DatasetName),
		faintStyle.Render(fmt.Sprintf("%s  scorer=%s  run=%s",
			record.RunTimestamp.Local().Format("2006-01-02 15:04:05"),
			record.EvalType, record.RunID)),
		record.Accuracy*100, record.Passed, record.Total, record.Errored(),
		record.AverageScore,
		record.AgentVersion, record.GitBranch, record.GitCommit)

	style := passPanelStyle
	if record.Accuracy < threshold {
		style = failPanelStyle
	}
	fmt.Println(style.Render(summary))
	fmt.Println()

	for _, rec := range record.Results {
		var mark string
		switch {
		case rec.Status == evaluation.EvalStatusError:
			mark = errorStyle.Render("✗ ERR ")
		case rec.Passed:
			mark = passStyle.Render("✓ PASS")
		default:
			mark = failStyle.Render("✗ FAIL")
		}
		fmt.Printf("  %s  [%2d] %.2f  %s\n", mark, rec.TestCaseIndex, rec.Score, clip(rec.Input, 60))
	}

	// Non-passing cases get a detail block; reading the transcript is how
	// a failure actually gets diagnosed.
	for _, rec := range record.Results {
		if rec.Passed {
			continue
		}
		fmt.Println()
		header := fmt.Sprintf("case %d: %s", rec.TestCaseIndex, rec.Description)
		if rec.Status == evaluation.EvalStatusError {
			header += "  (execution error: " + rec.Error + ")"
		}
		fmt.Println(failStyle.Render(header))
		for _, msg := range rec.Output {
			fmt.Println(faintStyle.Render("  " + msg.Role + ": " + clip(msg.Content, 160)))
		}
		if len(rec.ToolCalls) > 0 {
			names := make([]string, len(rec.ToolCalls))
			for i, call := range rec.ToolCalls {
				names[i] = call.Name
			}
			fmt.Println(toolStyle.Render("  tools: " + strings.Join(names, ", ")))
		}
	}
}

func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
