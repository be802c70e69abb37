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
	"github.com/jxnl/medical-agent/knowledge"
)

// Signature language of the knowledge-search tool, detected when the search
// happened outside the recorded tool calls (e.g. the agent paraphrased a
// cached answer).
var (
	searchSignals = []string{
		"i found some information",
		"couldn't find specific information",
		"knowledge base",
	}
	foundSignal = "found some information"
)

// PartialCredit holds the graded scorer's intermediate credit values.
// These are policy parameters, not derived quantities; tune them per
// evaluation suite.
type PartialCredit struct {
	// Lenient is awarded when the agent searched and found results but
	// one secondary expectation missed.
	Lenient float64

	// Plausible is awarded for behavior that is defensible but not what
	// the case called for.
	Plausible float64
}

// DefaultPartialCredit matches the reference grading policy.
var DefaultPartialCredit = PartialCredit{Lenient: 0.8, Plausible: 0.5}

// KnowledgeScorer grades knowledge-search policy compliance. Unlike the
// binary scorers it awards partial credit down a leniency ladder: exact
// compliance scores 1.0, plausible-but-imperfect behavior scores
// intermediate credit, and only a clear miss scores 0.0.
type KnowledgeScorer struct {
	credits PartialCredit
}

// NewKnowledgeScorer creates a KnowledgeScorer with the given credit policy.
func NewKnowledgeScorer(credits PartialCredit) KnowledgeScorer {
	return KnowledgeScorer{credits: credits}
}

func (KnowledgeScorer) Name() string { return "knowledge" }

func (s KnowledgeScorer) Score(tc *TestCase, transcript *agent.Transcript) float64 {
	usedSearch, foundResults := searchSignalsOf(transcript)
	escalated := Escalated(transcript)

	switch tc.ExpectedBehavior {
	case BehaviorShouldSearch:
		switch {
		case usedSearch && foundResults == tc.ShouldFindResults && !escalated:
			return 1.0
		case usedSearch && foundResults && !escalated:
			return s.credits.Lenient
		case usedSearch && foundResults:
			return s.credits.Plausible
		default:
			return 0.0
		}

	case BehaviorShouldEscalate, BehaviorShouldSearchAndEscalate:
		if escalated {
			return 1.0
		}
		return 0.0

	case BehaviorShouldSearchAmbiguous:
		// An ambiguous case can never definitively fail on search alone.
		if usedSearch {
			return 1.0
		}
		return s.credits.Plausible

	case BehaviorShouldClarify:
		if !escalated && !foundResults {
			return 1.0
		}
		return s.credits.Plausible

	default:
		if usedSearch {
			return s.credits.Plausible
		}
		return 0.0
	}
}

// searchSignalsOf derives the search booleans from both the tool-call
// record and the message text.
func searchSignalsOf(transcript *agent.Transcript) (usedSearch, foundResults bool) {
	for _, call := range transcript.ToolCalls {
		if call.Name == knowledge.SearchKnowledgeBase {
			usedSearch = true
		}
	}
	for _, msg := range transcript.Messages {
		content := strings.ToLower(msg.Content)
		for _, signal := range searchSignals {
			if strings.Contains(content, signal) {
				usedSearch = true
			}
		}
		if strings.Contains(content, foundSignal) {
			foundResults = true
		}
	}
	return usedSearch, foundResults
}
