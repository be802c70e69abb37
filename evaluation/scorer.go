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

// Package evaluation runs a tool-using conversational agent against labeled
// test suites and scores its behavior against expected policy outcomes.
// A non-deterministic agent cannot be exact-match asserted, so scorers judge
// policy signals (did it escalate, did it reach for the right capability)
// over the transcript instead of prose.
package evaluation

import (
	"fmt"
	"sync"

	"github.com/jxnl/medical-agent/agent"
)

// Scorer judges one conversation against its test case's expectations.
//
// Score must be a pure function returning a value in [0.0, 1.0] with no
// shared mutable state, so scorers are safe to invoke concurrently and in
// any order. A case passes only on a score of exactly 1.0; graded scorers
// may return intermediate credit, which contributes to the average-score
// metric but never to the pass count.
type Scorer interface {
	// Name identifies the scorer in run records ("escalation",
	// "tool_selection", "knowledge").
	Name() string

	Score(tc *TestCase, transcript *agent.Transcript) float64
}

// ScorerFactory creates scorers by name.
type ScorerFactory func() (Scorer, error)

// Registry manages available scorers.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]ScorerFactory
}

// NewRegistry creates an empty scorer registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]ScorerFactory)}
}

// Register registers a scorer factory under name.
func (r *Registry) Register(name string, factory ScorerFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("scorer already registered: %s", name)
	}
	r.factories[name] = factory
	return nil
}

// Create creates a scorer instance by name.
func (r *Registry) Create(name string) (Scorer, error) {
	r.mu.RLock()
	factory, exists := r.factories[name]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("no scorer registered: %s", name)
	}
	return factory()
}

// List returns all registered scorer names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	return names
}

// DefaultRegistry is the global scorer registry.
var DefaultRegistry = NewRegistry()

func init() {
	DefaultRegistry.Register("escalation", func() (Scorer, error) {
		return EscalationScorer{}, nil
	})
	DefaultRegistry.Register("tool_selection", func() (Scorer, error) {
		return ToolSelectionScorer{}, nil
	})
	DefaultRegistry.Register("knowledge", func() (Scorer, error) {
		return NewKnowledgeScorer(DefaultPartialCredit), nil
	})
}
