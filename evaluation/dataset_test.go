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
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jxnl/medical-agent/agent"
)

func TestParseDatasetObjectShape(t *testing.T) {
	data := []byte(`{
		"name": "refills",
		"test_cases": [
			{
				"messages": [{"role": "user", "content": "refill my lisinopril"}],
				"should_escalate": false,
				"expected_tools": ["check_refill_eligibility"]
			}
		]
	}`)

	ds, err := ParseDataset(data, "fallback")
	if err != nil {
		t.Fatal(err)
	}
	if ds.Name != "refills" {
		t.Errorf("name = %q, want refills", ds.Name)
	}
	want := []TestCase{{
		Messages:          []agent.Message{{Role: "user", Content: "refill my lisinopril"}},
		ExpectedTools:     []string{"check_refill_eligibility"},
		ExpectedBehavior:  BehaviorShouldSearch,
		ShouldFindResults: true,
	}}
	if diff := cmp.Diff(want, ds.TestCases); diff != "" {
		t.Errorf("test cases mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDatasetBareListShape(t *testing.T) {
	data := []byte(`[
		{"messages": [{"role": "user", "content": "hi"}], "should_escalate": true}
	]`)

	ds, err := ParseDataset(data, "escalation_suite")
	if err != nil {
		t.Fatal(err)
	}
	if ds.Name != "escalation_suite" {
		t.Errorf("name = %q, want fallback name", ds.Name)
	}
	if len(ds.TestCases) != 1 || !ds.TestCases[0].ShouldEscalate {
		t.Errorf("test cases = %+v", ds.TestCases)
	}
}

func TestParseDatasetDefaults(t *testing.T) {
	data := []byte(`[{"messages": [{"role": "user", "content": "hi"}]}]`)

	ds, err := ParseDataset(data, "d")
	if err != nil {
		t.Fatal(err)
	}
	tc := ds.TestCases[0]
	if tc.ShouldEscalate {
		t.Error("should_escalate should default to false")
	}
	if tc.ExpectedBehavior != BehaviorShouldSearch {
		t.Errorf("expected_behavior = %q, want %q", tc.ExpectedBehavior, BehaviorShouldSearch)
	}
	if !tc.ShouldFindResults {
		t.Error("should_find_results should default to true")
	}
	if len(tc.ExpectedTools) != 0 {
		t.Errorf("expected_tools = %v, want empty", tc.ExpectedTools)
	}
}

func TestParseDatasetMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty document", ""},
		{"not json", "garbage"},
		{"missing test_cases", `{"name": "d"}`},
		{"case without messages", `{"name": "d", "test_cases": [{"should_escalate": true}]}`},
		{"message without role", `{"name": "d", "test_cases": [{"messages": [{"content": "hi"}]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDataset([]byte(tt.data), "d")
			if !errors.Is(err, ErrDataFormat) {
				t.Errorf("err = %v, want ErrDataFormat", err)
			}
		})
	}
}

func TestLoadDatasetYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suite.yaml")
	content := `name: knowledge
test_cases:
  - messages:
      - role: user
        content: what is a deductible?
    expected_behavior: should_search
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	ds, err := LoadDataset(path)
	if err != nil {
		t.Fatal(err)
	}
	if ds.Name != "knowledge" {
		t.Errorf("name = %q, want knowledge", ds.Name)
	}
	if !ds.TestCases[0].ShouldFindResults {
		t.Error("defaults should apply to YAML-authored cases too")
	}
}

func TestLoadDatasetBareListNameFallsBackToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "triage_suite.json")
	if err := os.WriteFile(path, []byte(`[{"messages":[{"role":"user","content":"hi"}]}]`), 0o644); err != nil {
		t.Fatal(err)
	}

	ds, err := LoadDataset(path)
	if err != nil {
		t.Fatal(err)
	}
	if ds.Name != "triage_suite" {
		t.Errorf("name = %q, want triage_suite", ds.Name)
	}
}

func TestTestCaseInput(t *testing.T) {
	tc := TestCase{Messages: []agent.Message{
		{Role: "user", Content: "first"},
		{Role: "assistant", Content: "ignored"},
		{Role: "user", Content: "second"},
	}}
	if got, want := tc.Input(), "first | second"; got != want {
		t.Errorf("Input() = %q, want %q", got, want)
	}
}
