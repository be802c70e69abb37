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
	"testing"

	"github.com/jxnl/medical-agent/agent"
)

func transcriptWith(assistantText string, toolNames ...string) *agent.Transcript {
	tr := &agent.Transcript{
		Messages: []agent.Message{
			{Role: "user", Content: "input"},
			{Role: "assistant", Content: assistantText},
		},
		AgentVersion: "0.1.0",
	}
	for _, name := range toolNames {
		tr.ToolCalls = append(tr.ToolCalls, agent.ToolCall{Name: name})
	}
	return tr
}

func TestEscalationScorer(t *testing.T) {
	tests := []struct {
		name           string
		shouldEscalate bool
		assistant      string
		want           float64
	}{
		{"expected and escalated", true, "I'm connecting you with a healthcare provider.", 1.0},
		{"expected but did not escalate", true, "Your refill is approved.", 0.0},
		{"not expected and did not escalate", false, "Your refill is approved.", 1.0},
		{"not expected but escalated", false, "Let me connect you with our support team.", 0.0},
		{"phrase case-insensitive", true, "Your Ticket Number is TH-2024-1017.", 1.0},
		{"phrase mid-sentence", true, "For that I'd need to connect you with someone.", 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := &TestCase{ShouldEscalate: tt.shouldEscalate}
			got := EscalationScorer{}.Score(tc, transcriptWith(tt.assistant))
			if got != tt.want {
				t.Errorf("score = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEscalatedAnyAssistantMessage(t *testing.T) {
	tr := &agent.Transcript{Messages: []agent.Message{
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: "Hello!"},
		{Role: "user", Content: "I need help with billing"},
		{Role: "assistant", Content: "I've created a support ticket for you."},
	}}
	if !Escalated(tr) {
		t.Error("escalation phrase in any assistant message must count")
	}

	// Escalation language in a user message must not count.
	tr = &agent.Transcript{Messages: []agent.Message{
		{Role: "user", Content: "please connect you with a human"},
		{Role: "assistant", Content: "Sure, what do you need?"},
	}}
	if Escalated(tr) {
		t.Error("user text must not trigger escalation detection")
	}
}

func TestToolSelectionScorer(t *testing.T) {
	tests := []struct {
		name     string
		expected []string
		called   []string
		want     float64
	}{
		{"none expected, none called", nil, nil, 1.0},
		{"none expected, one called", nil, []string{"find_prescriptions"}, 0.0},
		{"intersection non-empty", []string{"a", "b"}, []string{"b"}, 1.0},
		{"no overlap", []string{"a"}, []string{"c"}, 0.0},
		{"extra tools tolerated", []string{"find_prescriptions"}, []string{"find_prescriptions", "check_refill_eligibility"}, 1.0},
		{"expected but none called", []string{"a"}, nil, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := &TestCase{ExpectedTools: tt.expected}
			got := ToolSelectionScorer{}.Score(tc, transcriptWith("ok", tt.called...))
			if got != tt.want {
				t.Errorf("score = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKnowledgeScorerDecisionTable(t *testing.T) {
	searched := "I found some information that might help: deductibles are..."
	searchedEscalated := "I found some information that might help. Let me connect you with billing."
	noResults := "I couldn't find specific information about that in our knowledge base. Let me connect you with someone who can help."
	plain := "Could you tell me a bit more about what you're looking for?"
	escalation := "I'm connecting you with a healthcare provider."

	tests := []struct {
		name              string
		behavior          string
		shouldFindResults bool
		assistant         string
		tools             []string
		want              float64
	}{
		{"should_search exact", BehaviorShouldSearch, true, searched, []string{"search_knowledge_base"}, 1.0},
		{"should_search found but not expected", BehaviorShouldSearch, false, searched, []string{"search_knowledge_base"}, 0.8},
		{"should_search found but escalated", BehaviorShouldSearch, true, searchedEscalated, []string{"search_knowledge_base"}, 0.5},
		{"should_search no search at all", BehaviorShouldSearch, true, plain, nil, 0.0},
		{"should_escalate escalated", BehaviorShouldEscalate, true, escalation, nil, 1.0},
		{"should_escalate did not", BehaviorShouldEscalate, true, plain, nil, 0.0},
		{"should_search_and_escalate escalated", BehaviorShouldSearchAndEscalate, true, searchedEscalated, []string{"search_knowledge_base"}, 1.0},
		{"ambiguous searched", BehaviorShouldSearchAmbiguous, true, searched, []string{"search_knowledge_base"}, 1.0},
		{"ambiguous no search never zero", BehaviorShouldSearchAmbiguous, true, plain, nil, 0.5},
		{"clarify asked question", BehaviorShouldClarify, true, plain, nil, 1.0},
		{"clarify but found results", BehaviorShouldClarify, true, searched, []string{"search_knowledge_base"}, 0.5},
		{"unrecognized tag searched", "should_dance", true, noResults, []string{"search_knowledge_base"}, 0.5},
		{"unrecognized tag no search", "should_dance", true, plain, nil, 0.0},
	}
	scorer := NewKnowledgeScorer(DefaultPartialCredit)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := &TestCase{
				ExpectedBehavior:  tt.behavior,
				ShouldFindResults: tt.shouldFindResults,
			}
			got := scorer.Score(tc, transcriptWith(tt.assistant, tt.tools...))
			if got != tt.want {
				t.Errorf("score = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKnowledgeScorerDetectsSearchFromText(t *testing.T) {
	// Search signature language counts even without a recorded tool call.
	tc := &TestCase{ExpectedBehavior: BehaviorShouldSearchAmbiguous}
	tr := transcriptWith("I searched our knowledge base and couldn't find specific information about that.")
	if got := NewKnowledgeScorer(DefaultPartialCredit).Score(tc, tr); got != 1.0 {
		t.Errorf("score = %v, want 1.0", got)
	}
}

func TestRegistryCreatesAllScorers(t *testing.T) {
	for _, name := range []string{"escalation", "tool_selection", "knowledge"} {
		scorer, err := DefaultRegistry.Create(name)
		if err != nil {
			t.Fatalf("Create(%q): %v", name, err)
		}
		if scorer.Name() != name {
			t.Errorf("scorer name = %q, want %q", scorer.Name(), name)
		}
	}
	if _, err := DefaultRegistry.Create("nope"); err == nil {
		t.Error("unknown scorer should error")
	}
}
