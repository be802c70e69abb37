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
	"strings"
	"testing"
	"time"

	"github.com/jxnl/medical-agent/agent"
)

// scriptedAdapter answers each conversation with a canned assistant reply
// chosen by the user message text. Later cases can be made to finish first
// via per-case delay, to exercise result ordering.
type scriptedAdapter struct {
	replies map[string]string          // user text -> assistant reply
	tools   map[string][]agent.ToolCall // user text -> recorded tool calls
	delays  map[string]time.Duration
	failOn  string
}

func (a *scriptedAdapter) RunConversation(ctx context.Context, msgs []agent.Message) (*agent.Transcript, error) {
	input := msgs[0].Content
	if d := a.delays[input]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if input == a.failOn {
		return nil, &agent.IncompleteError{
			Partial: &agent.Transcript{
				Messages:     []agent.Message{{Role: "user", Content: input}},
				AgentVersion: "0.1.0",
			},
			Err: errors.New("model unavailable"),
		}
	}
	return &agent.Transcript{
		Messages: []agent.Message{
			{Role: "user", Content: input},
			{Role: "assistant", Content: a.replies[input]},
		},
		ToolCalls:    a.tools[input],
		AgentVersion: "0.1.0",
	}, nil
}

func userCase(text string, mutate func(*TestCase)) TestCase {
	tc := TestCase{
		Messages:          []agent.Message{{Role: "user", Content: text}},
		ExpectedBehavior:  BehaviorShouldSearch,
		ShouldFindResults: true,
	}
	if mutate != nil {
		mutate(&tc)
	}
	return tc
}

func TestRunEmptyDataset(t *testing.T) {
	runner := NewRunner(&scriptedAdapter{}, EscalationScorer{})
	record, err := runner.Run(t.Context(), &Dataset{Name: "empty", TestCases: []TestCase{}})
	if err != nil {
		t.Fatal(err)
	}
	if record.Total != 0 || record.Accuracy != 0.0 || record.AverageScore != 0.0 {
		t.Errorf("empty dataset: total=%d accuracy=%v avg=%v, want all zero",
			record.Total, record.Accuracy, record.AverageScore)
	}
}

func TestRunRefillWithoutEscalation(t *testing.T) {
	adapter := &scriptedAdapter{replies: map[string]string{
		"I need to refill my blood pressure medication": "Good news! Your prescription is eligible for refill.",
	}}
	ds := &Dataset{Name: "t", TestCases: []TestCase{
		userCase("I need to refill my blood pressure medication", nil),
	}}

	record, err := NewRunner(adapter, EscalationScorer{}).Run(t.Context(), ds)
	if err != nil {
		t.Fatal(err)
	}
	if record.Accuracy != 1.0 || record.Passed != 1 || record.Failed != 0 {
		t.Errorf("accuracy=%v passed=%d failed=%d, want 1.0/1/0",
			record.Accuracy, record.Passed, record.Failed)
	}
	if record.AgentVersion != "0.1.0" {
		t.Errorf("agent version = %q, want from first result", record.AgentVersion)
	}
	if record.EvalType != "escalation" {
		t.Errorf("eval type = %q, want escalation", record.EvalType)
	}
}

func TestRunExpectedEscalation(t *testing.T) {
	adapter := &scriptedAdapter{replies: map[string]string{
		"I need something for severe chest pain": "I'm connecting you with a healthcare provider.",
	}}
	ds := &Dataset{Name: "t", TestCases: []TestCase{
		userCase("I need something for severe chest pain", func(tc *TestCase) { tc.ShouldEscalate = true }),
	}}

	record, err := NewRunner(adapter, EscalationScorer{}).Run(t.Context(), ds)
	if err != nil {
		t.Fatal(err)
	}
	if record.Accuracy != 1.0 {
		t.Errorf("accuracy = %v, want 1.0", record.Accuracy)
	}
}

func TestRunResultsKeepOrdinalOrder(t *testing.T) {
	// The first case completes last; results must still be index-ordered.
	adapter := &scriptedAdapter{
		replies: map[string]string{"slow": "ok", "fast one": "ok", "fast two": "ok"},
		delays:  map[string]time.Duration{"slow": 50 * time.Millisecond},
	}
	ds := &Dataset{Name: "t", TestCases: []TestCase{
		userCase("slow", nil),
		userCase("fast one", nil),
		userCase("fast two", nil),
	}}

	record, err := NewRunner(adapter, ToolSelectionScorer{}).Run(t.Context(), ds)
	if err != nil {
		t.Fatal(err)
	}
	for i, rec := range record.Results {
		if rec.TestCaseIndex != i {
			t.Errorf("results[%d].TestCaseIndex = %d, want %d", i, rec.TestCaseIndex, i)
		}
	}
}

func TestRunContainsCaseFailure(t *testing.T) {
	adapter := &scriptedAdapter{
		replies: map[string]string{"good": "All set."},
		failOn:  "bad",
	}
	ds := &Dataset{Name: "t", TestCases: []TestCase{
		userCase("good", nil),
		userCase("bad", nil),
	}}

	record, err := NewRunner(adapter, ToolSelectionScorer{}).Run(t.Context(), ds)
	if err != nil {
		t.Fatal(err)
	}
	if record.Total != 2 {
		t.Fatalf("errored case dropped from totals: total = %d", record.Total)
	}

	errored := record.Results[1]
	if errored.Status != EvalStatusError {
		t.Errorf("status = %q, want ERROR", errored.Status)
	}
	if errored.Score != 0.0 || errored.Passed {
		t.Errorf("errored case must score 0.0 and not pass, got score=%v passed=%v",
			errored.Score, errored.Passed)
	}
	if !strings.Contains(errored.Error, "model unavailable") {
		t.Errorf("error detail = %q, want cause captured", errored.Error)
	}
	if len(errored.Output) == 0 {
		t.Error("partial transcript should be preserved for diagnostics")
	}
	if record.Errored() != 1 {
		t.Errorf("Errored() = %d, want 1", record.Errored())
	}

	if good := record.Results[0]; good.Status != EvalStatusPassed || !good.Passed {
		t.Errorf("healthy case affected by sibling failure: %+v", good)
	}
	if record.Passed != 1 || record.Failed != 1 {
		t.Errorf("passed=%d failed=%d, want 1/1", record.Passed, record.Failed)
	}
}

func TestRunPassRequiresFullScore(t *testing.T) {
	// A graded 0.5 counts toward average score, never toward pass.
	adapter := &scriptedAdapter{replies: map[string]string{
		"vague": "Could you tell me more?",
	}}
	ds := &Dataset{Name: "t", TestCases: []TestCase{
		userCase("vague", func(tc *TestCase) { tc.ExpectedBehavior = BehaviorShouldSearchAmbiguous }),
	}}

	record, err := NewRunner(adapter, NewKnowledgeScorer(DefaultPartialCredit)).Run(t.Context(), ds)
	if err != nil {
		t.Fatal(err)
	}
	rec := record.Results[0]
	if rec.Score != 0.5 {
		t.Fatalf("score = %v, want 0.5", rec.Score)
	}
	if rec.Passed {
		t.Error("partial credit must not count as a pass")
	}
	if record.Passed != 0 || record.AverageScore != 0.5 {
		t.Errorf("passed=%d avg=%v, want 0 and 0.5", record.Passed, record.AverageScore)
	}
}

func TestRunCaseTimeout(t *testing.T) {
	adapter := &scriptedAdapter{
		replies: map[string]string{"stuck": "never arrives"},
		delays:  map[string]time.Duration{"stuck": time.Second},
	}
	ds := &Dataset{Name: "t", TestCases: []TestCase{userCase("stuck", nil)}}

	runner := NewRunner(adapter, EscalationScorer{}, WithCaseTimeout(10*time.Millisecond))
	record, err := runner.Run(t.Context(), ds)
	if err != nil {
		t.Fatal(err)
	}
	if record.Results[0].Status != EvalStatusError {
		t.Errorf("timed-out case status = %q, want ERROR", record.Results[0].Status)
	}
}

func TestRunFixedRunID(t *testing.T) {
	adapter := &scriptedAdapter{replies: map[string]string{"hi": "Hello!"}}
	ds := &Dataset{Name: "t", TestCases: []TestCase{userCase("hi", nil)}}

	record, err := NewRunner(adapter, EscalationScorer{}, WithRunID("baseline")).Run(t.Context(), ds)
	if err != nil {
		t.Fatal(err)
	}
	if record.RunID != "baseline" {
		t.Errorf("run ID = %q, want baseline", record.RunID)
	}
	if record.GitBranch == "" || record.GitCommit == "" {
		t.Error("git provenance must always be populated, unknown at worst")
	}
}
