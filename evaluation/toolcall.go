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
	"github.com/jxnl/medical-agent/agent"
)

// ToolSelectionScorer judges whether the agent reached for the right
// capability. Intersection semantics, not exact-set-equality: calling
// extra, non-conflicting tools is tolerated. An empty expected list means
// the agent must not act unprompted.
type ToolSelectionScorer struct{}

func (ToolSelectionScorer) Name() string { return "tool_selection" }

func (ToolSelectionScorer) Score(tc *TestCase, transcript *agent.Transcript) float64 {
	if len(tc.ExpectedTools) == 0 {
		if len(transcript.ToolCalls) == 0 {
			return 1.0
		}
		return 0.0
	}

	called := make(map[string]bool, len(transcript.ToolCalls))
	for _, call := range transcript.ToolCalls {
		called[call.Name] = true
	}
	for _, name := range tc.ExpectedTools {
		if called[name] {
			return 1.0
		}
	}
	return 0.0
}
