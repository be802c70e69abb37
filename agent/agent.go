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

// Package agent implements the telehealth front-desk agent: a Claude-backed
// conversation loop over the domain toolset, exposed as a stream of typed
// events. Each agent instance owns its own store and history, so one
// instance serves exactly one conversation.
package agent

import (
	"context"
	"fmt"
	"iter"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"google.golang.org/genai"

	"github.com/jxnl/medical-agent/knowledge"
	"github.com/jxnl/medical-agent/model"
	"github.com/jxnl/medical-agent/tools"
)

// Version tags the agent configuration (system prompt + toolset), not the
// underlying model. Run records carry it so that behavior changes are
// attributable to a specific agent build.
const Version = "0.1.0"

// maxTurnsPerMessage bounds the tool loop for a single user message.
const maxTurnsPerMessage = 10

var tracer = otel.Tracer("github.com/jxnl/medical-agent/agent")

// Config is used to create a [Telehealth] agent.
type Config struct {
	Model model.Model

	// Store holds the conversation's patient records. A fresh isolated
	// store is created when nil.
	Store *tools.Store

	// ExtraTools extends the standard toolset.
	ExtraTools []tools.Tool

	// History seeds the conversation, most commonly when resuming a
	// persisted session. Only the text of each message carries over.
	History []Message
}

// Telehealth is the front-desk agent for one conversation.
type Telehealth struct {
	model   model.Model
	toolset *tools.Toolset
	history []*genai.Content
	version string
}

// New creates a Telehealth agent.
func New(cfg Config) (*Telehealth, error) {
	if cfg.Model == nil {
		return nil, fmt.Errorf("model is required")
	}

	store := cfg.Store
	if store == nil {
		store = tools.NewStore()
	}

	extra := append([]tools.Tool{knowledge.SearchTool()}, cfg.ExtraTools...)

	var history []*genai.Content
	for _, msg := range cfg.History {
		var role genai.Role = genai.RoleUser
		if msg.Role == "assistant" {
			role = genai.RoleModel
		}
		history = append(history, genai.NewContentFromText(msg.Content, role))
	}

	return &Telehealth{
		model:   cfg.Model,
		toolset: tools.NewToolset(store, extra...),
		history: history,
		version: Version,
	}, nil
}

// Version returns the agent configuration version tag.
func (a *Telehealth) Version() string {
	return a.version
}

// History returns the conversation so far as interleaved text messages.
// Tool plumbing (function calls and results) is not part of the history.
func (a *Telehealth) History() []Message {
	var msgs []Message
	for _, content := range a.history {
		role := "user"
		if content.Role == genai.RoleModel || content.Role == "assistant" {
			role = "assistant"
		}
		var text string
		for _, part := range content.Parts {
			if part != nil && part.Text != "" {
				text += part.Text
			}
		}
		if text != "" {
			msgs = append(msgs, Message{Role: role, Content: text})
		}
	}
	return msgs
}

// Stream submits one user message and yields the agent's response as typed
// events: text chunks, tool invocations, tool results, and a final done
// event carrying the full response and every tool call made.
func (a *Telehealth) Stream(ctx context.Context, text string) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		ctx, span := tracer.Start(ctx, "agent.message")
		defer span.End()

		a.history = append(a.history, genai.NewContentFromText(text, genai.RoleUser))

		var responseText string
		var toolCalls []ToolCall

		for turn := 0; turn < maxTurnsPerMessage; turn++ {
			final, err := a.generateTurn(ctx, yield)
			if err != nil {
				yield(Event{}, err)
				return
			}
			if final == nil {
				// Consumer stopped the stream.
				return
			}

			a.history = append(a.history, final.Content)
			if t := final.Text(); t != "" {
				if responseText != "" {
					responseText += "\n"
				}
				responseText += t
			}

			calls := final.FunctionCalls()
			if len(calls) == 0 {
				break
			}

			responseParts := make([]*genai.Part, 0, len(calls))
			for _, call := range calls {
				toolCalls = append(toolCalls, ToolCall{Name: call.Name, Input: call.Args})
				if !yield(Event{
					Type:      EventToolUse,
					ToolName:  call.Name,
					ToolInput: call.Args,
					Escalated: call.Name == tools.EscalateToHuman,
				}, nil) {
					return
				}

				result, err := a.toolset.Call(ctx, call.Name, call.Args)
				if err != nil {
					// Feed the failure back to the model instead of
					// aborting; it can apologize or escalate.
					log.Warn().Err(err).Str("tool", call.Name).Msg("tool execution failed")
					result = tools.Result{Text: fmt.Sprintf("Tool error: %v", err)}
				}

				if !yield(Event{
					Type:       EventToolResult,
					ToolName:   call.Name,
					ToolResult: result.Text,
				}, nil) {
					return
				}

				responseParts = append(responseParts, &genai.Part{
					FunctionResponse: &genai.FunctionResponse{
						ID:       call.ID,
						Name:     call.Name,
						Response: map[string]any{"result": result.Text},
					},
				})
			}

			a.history = append(a.history, genai.NewContentFromParts(responseParts, genai.RoleUser))
		}

		yield(Event{
			Type:      EventDone,
			Response:  responseText,
			ToolCalls: toolCalls,
		}, nil)
	}
}

// generateTurn runs one model call, forwarding partial text chunks to the
// consumer, and returns the turn's final response. A nil response with nil
// error means the consumer stopped the stream.
func (a *Telehealth) generateTurn(ctx context.Context, yield func(Event, error) bool) (*model.LLMResponse, error) {
	ctx, span := tracer.Start(ctx, "agent.generate")
	defer span.End()

	req := &model.LLMRequest{
		Contents: a.history,
		GenerateConfig: &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
			Tools:             []*genai.Tool{{FunctionDeclarations: a.toolset.Declarations()}},
		},
	}

	var final *model.LLMResponse
	sawPartial := false
	for resp, err := range a.model.GenerateContent(ctx, req, true) {
		if err != nil {
			return nil, err
		}
		if resp.Partial {
			sawPartial = true
			if !yield(Event{Type: EventText, Text: resp.Text()}, nil) {
				return nil, nil
			}
			continue
		}
		final = resp
	}
	if final == nil {
		return nil, fmt.Errorf("model returned no final response")
	}

	// Models that don't stream partials still owe the consumer the text.
	if !sawPartial && final.Text() != "" {
		if !yield(Event{Type: EventText, Text: final.Text()}, nil) {
			return nil, nil
		}
	}
	return final, nil
}

// Send submits one user message and blocks until the turn completes,
// returning the full response text and the tool calls made.
func (a *Telehealth) Send(ctx context.Context, text string) (string, []ToolCall, error) {
	var response string
	var calls []ToolCall
	for event, err := range a.Stream(ctx, text) {
		if err != nil {
			return "", nil, err
		}
		if event.Type == EventDone {
			response = event.Response
			calls = event.ToolCalls
		}
	}
	return response, calls, nil
}
