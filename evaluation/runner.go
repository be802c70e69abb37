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

package evaluation

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/jxnl/medical-agent/agent"
	"github.com/jxnl/medical-agent/internal/gitinfo"
)

var tracer = otel.Tracer("github.com/jxnl/medical-agent/evaluation")

// DefaultCaseTimeout bounds one test case's conversation. The underlying
// agent call is otherwise unbounded.
const DefaultCaseTimeout = 3 * time.Minute

// Adapter runs one scripted conversation against an isolated agent
// session. Implementations must not share per-conversation state across
// calls; the runner invokes them concurrently.
type Adapter interface {
	RunConversation(ctx context.Context, msgs []agent.Message) (*agent.Transcript, error)
}

// Runner executes every case of a dataset concurrently, scores the
// transcripts, and aggregates the outcome into a run record.
type Runner struct {
	adapter Adapter
	scorer  Scorer
	timeout time.Duration
	runID   string
	now     func() time.Time
	git     func(context.Context) gitinfo.Info
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithCaseTimeout overrides the per-case timeout.
func WithCaseTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) { r.timeout = d }
}

// WithRunID fixes the run identifier instead of deriving it from the
// start time. Two runs with the same ID overwrite each other in storage.
func WithRunID(id string) RunnerOption {
	return func(r *Runner) { r.runID = id }
}

// NewRunner creates a Runner for one adapter and scorer pairing.
func NewRunner(adapter Adapter, scorer Scorer, opts ...RunnerOption) *Runner {
	r := &Runner{
		adapter: adapter,
		scorer:  scorer,
		timeout: DefaultCaseTimeout,
		now:     time.Now,
		git:     gitinfo.Current,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the dataset and returns its run record.
//
// Every case is launched concurrently and the runner waits for all of them.
// A case whose execution fails does not abort the batch and is never
// dropped from the totals: it is recorded with status ERROR, score 0.0, and
// the captured error detail. Results are ordered by test case index
// regardless of completion order, so run reports diff cleanly across
// revisions.
func (r *Runner) Run(ctx context.Context, ds *Dataset) (*RunRecord, error) {
	ctx, span := tracer.Start(ctx, "evaluation.run", trace.WithAttributes(
		attribute.String("dataset", ds.Name),
		attribute.String("scorer", r.scorer.Name()),
		attribute.Int("cases", len(ds.TestCases)),
	))
	defer span.End()

	start := r.now().UTC()
	runID := r.runID
	if runID == "" {
		runID = start.Format("20060102_150405")
	}

	log.Info().
		Str("dataset", ds.Name).
		Str("scorer", r.scorer.Name()).
		Str("run_id", runID).
		Int("cases", len(ds.TestCases)).
		Msg("starting evaluation run")

	records := make([]ScoreRecord, len(ds.TestCases))
	g, gctx := errgroup.WithContext(ctx)
	for i := range ds.TestCases {
		g.Go(func() error {
			records[i] = r.runCase(gctx, i, &ds.TestCases[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	record := &RunRecord{
		DatasetName:  ds.Name,
		RunID:        runID,
		RunTimestamp: start,
		EvalType:     r.scorer.Name(),
		Total:        len(records),
		Results:      records,
	}

	var scoreSum float64
	for _, rec := range records {
		if rec.Passed {
			record.Passed++
		}
		scoreSum += rec.Score
	}
	record.Failed = record.Total - record.Passed
	if record.Total > 0 {
		record.Accuracy = float64(record.Passed) / float64(record.Total)
		record.AverageScore = scoreSum / float64(record.Total)
	}
	if len(records) > 0 {
		// All cases report the same version; the first is authoritative.
		record.AgentVersion = records[0].AgentVersion
		for _, rec := range records {
			if rec.AgentVersion != record.AgentVersion {
				log.Warn().
					Str("want", record.AgentVersion).
					Str("got", rec.AgentVersion).
					Int("test_case_index", rec.TestCaseIndex).
					Msg("agent version mismatch within run")
			}
		}
	}

	info := r.git(ctx)
	record.GitBranch = info.Branch
	record.GitCommit = info.Commit

	log.Info().
		Str("run_id", runID).
		Int("passed", record.Passed).
		Int("failed", record.Failed).
		Float64("accuracy", record.Accuracy).
		Msg("evaluation run complete")

	return record, nil
}

func (r *Runner) runCase(ctx context.Context, index int, tc *TestCase) ScoreRecord {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rec := ScoreRecord{
		TestCaseIndex:    index,
		Input:            tc.Input(),
		Description:      tc.Description,
		ShouldEscalate:   tc.ShouldEscalate,
		ExpectedTools:    tc.ExpectedTools,
		ExpectedBehavior: tc.ExpectedBehavior,
	}

	transcript, err := r.adapter.RunConversation(ctx, tc.Messages)
	if err != nil {
		log.Warn().Err(err).Int("test_case_index", index).Msg("case execution failed")
		rec.Status = EvalStatusError
		rec.Error = err.Error()
		// A partial transcript is kept for diagnostics but never scored.
		var incomplete *agent.IncompleteError
		if errors.As(err, &incomplete) {
			rec.Output = incomplete.Partial.Messages
			rec.ToolCalls = incomplete.Partial.ToolCalls
			rec.AgentVersion = incomplete.Partial.AgentVersion
		}
		return rec
	}

	rec.Output = transcript.Messages
	rec.ToolCalls = transcript.ToolCalls
	rec.AgentVersion = transcript.AgentVersion
	rec.Score = r.scorer.Score(tc, transcript)
	rec.Passed = rec.Score == 1.0
	if rec.Passed {
		rec.Status = EvalStatusPassed
	} else {
		rec.Status = EvalStatusFailed
	}
	return rec
}
