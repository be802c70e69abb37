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

package tools

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Result is what a tool hands back to the agent: the text that becomes the
// tool result block, plus an optional hint that the situation needs a human.
type Result struct {
	Text               string
	RequiresEscalation bool
	EscalationReason   string
}

// Handler executes one tool call against the session's store.
type Handler func(ctx context.Context, store *Store, args map[string]any) (Result, error)

// Tool pairs a function declaration with its handler.
type Tool struct {
	Declaration *genai.FunctionDeclaration
	Handler     Handler
}

// Toolset is the collection of tools available to one conversation, bound to
// that conversation's store.
type Toolset struct {
	store *Store
	tools []Tool
	byName map[string]Handler
}

// NewToolset builds the full telehealth toolset over the given store,
// optionally extended with extra tools (e.g. knowledge search).
func NewToolset(store *Store, extra ...Tool) *Toolset {
	ts := &Toolset{
		store:  store,
		byName: make(map[string]Handler),
	}

	all := []Tool{
		escalateToHumanTool(),
		findPrescriptionsTool(),
		checkRefillEligibilityTool(),
		submitRefillRequestTool(),
		findAppointmentsTool(),
		checkInForAppointmentTool(),
		cancelAppointmentTool(),
	}
	all = append(all, extra...)

	for _, t := range all {
		ts.tools = append(ts.tools, t)
		ts.byName[t.Declaration.Name] = t.Handler
	}
	return ts
}

// Declarations returns the function declarations for every tool, in
// registration order.
func (ts *Toolset) Declarations() []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(ts.tools))
	for _, t := range ts.tools {
		decls = append(decls, t.Declaration)
	}
	return decls
}

// Call dispatches a tool invocation by name.
func (ts *Toolset) Call(ctx context.Context, name string, args map[string]any) (Result, error) {
	handler, ok := ts.byName[name]
	if !ok {
		return Result{}, fmt.Errorf("unknown tool %q", name)
	}
	return handler(ctx, ts.store, args)
}

func stringArg(args map[string]any, key string) string {
	if args == nil {
		return ""
	}
	v, _ := args[key].(string)
	return v
}
