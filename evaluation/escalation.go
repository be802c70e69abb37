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
	"strings"

	"github.com/jxnl/medical-agent/agent"
)

// escalationPhrases are the handoff signals the agent's prompt and the
// escalation tool produce. Detection is case-insensitive substring match
// over assistant text; the phrasing around them varies per conversation.
var escalationPhrases = []string{
	"connect you with",
	"healthcare provider",
	"ticket number",
	"support ticket",
	"let me connect",
	"i'm connecting you",
}

// Escalated reports whether any assistant message in the transcript carries
// an escalation phrase.
func Escalated(transcript *agent.Transcript) bool {
	for _, msg := range transcript.Messages {
		if msg.Role != "assistant" {
			continue
		}
		content := strings.ToLower(msg.Content)
		for _, phrase := range escalationPhrases {
			if strings.Contains(content, phrase) {
				return true
			}
		}
	}
	return false
}

// EscalationScorer is a binary policy scorer: did the agent hand off to a
// human exactly when the case expected it to. No partial credit.
type EscalationScorer struct{}

func (EscalationScorer) Name() string { return "escalation" }

func (EscalationScorer) Score(tc *TestCase, transcript *agent.Transcript) float64 {
	if Escalated(transcript) == tc.ShouldEscalate {
		return 1.0
	}
	return 0.0
}
