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
	"time"

	"github.com/jxnl/medical-agent/agent"
)

// EvalStatus distinguishes policy outcomes from execution outcomes. A
// failed score and an unreachable agent are different findings and are
// never conflated in summary counts.
type EvalStatus string

const (
	EvalStatusPassed EvalStatus = "PASSED"
	EvalStatusFailed EvalStatus = "FAILED"
	EvalStatusError  EvalStatus = "ERROR"
)

// ScoreRecord is the outcome of one test case: the score, the derived
// pass/fail, and enough transcript context to render a report row.
type ScoreRecord struct {
	TestCaseIndex    int              `json:"test_case_index"`
	Input            string           `json:"input"`
	Description      string           `json:"description,omitempty"`
	ShouldEscalate   bool             `json:"should_escalate"`
	ExpectedTools    []string         `json:"expected_tools,omitempty"`
	ExpectedBehavior string           `json:"expected_behavior,omitempty"`
	ToolCalls        []agent.ToolCall `json:"tool_calls"`
	Output           []agent.Message  `json:"output"`
	Score            float64          `json:"score"`
	Passed           bool             `json:"passed"`
	Status           EvalStatus       `json:"status"`
	Error            string           `json:"error,omitempty"`
	AgentVersion     string           `json:"agent_version"`
}

// RunRecord is the immutable aggregate of one evaluation run. It is
// persisted verbatim so that runs are comparable across code revisions.
type RunRecord struct {
	DatasetName  string        `json:"dataset_name"`
	RunID        string        `json:"run_id"`
	RunTimestamp time.Time     `json:"run_timestamp"`
	GitBranch    string        `json:"git_branch"`
	GitCommit    string        `json:"git_commit"`
	EvalType     string        `json:"eval_type"`
	Total        int           `json:"total"`
	Passed       int           `json:"passed"`
	Failed       int           `json:"failed"`
	Accuracy     float64       `json:"accuracy"`
	AverageScore float64       `json:"average_score"`
	AgentVersion string        `json:"agent_version"`
	Results      []ScoreRecord `json:"results"`
}

// Errored reports how many cases failed to execute, as opposed to
// executing and scoring below passing.
func (r *RunRecord) Errored() int {
	n := 0
	for _, rec := range r.Results {
		if rec.Status == EvalStatusError {
			n++
		}
	}
	return n
}
