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

// Package model defines the boundary between the telehealth agent and the
// underlying language model. Content is represented with genai types so that
// adapters for different providers can share one request/response shape.
package model

import (
	"context"
	"iter"

	"google.golang.org/genai"
)

// Model is the language model behind the agent.
type Model interface {
	Name() string
	GenerateContent(ctx context.Context, req *LLMRequest, stream bool) ResponseStream
}

// LLMRequest is the input to a Model's generate call. The conversation so
// far, the system instruction, and the available tool declarations all
// travel through GenerateConfig.
type LLMRequest struct {
	Contents       []*genai.Content
	GenerateConfig *genai.GenerateContentConfig
}

// ResponseStream yields responses from the model. In non-streaming mode it
// yields exactly one final response; in streaming mode it yields partial
// responses followed by a final one with TurnComplete set.
type ResponseStream iter.Seq2[*LLMResponse, error]

// LLMResponse is a single (possibly partial) model response.
type LLMResponse struct {
	Content *genai.Content

	// Partial indicates the content is part of an unfinished text stream.
	Partial bool
	// TurnComplete indicates the model finished its turn. Only meaningful
	// in streaming mode.
	TurnComplete bool

	FinishReason genai.FinishReason
}

// Text concatenates all plain-text parts of the response content.
func (r *LLMResponse) Text() string {
	if r == nil || r.Content == nil {
		return ""
	}
	var out string
	for _, part := range r.Content.Parts {
		if part != nil && part.Text != "" && !part.Thought {
			out += part.Text
		}
	}
	return out
}

// FunctionCalls returns every function-call part of the response content,
// in the order the model produced them.
func (r *LLMResponse) FunctionCalls() []*genai.FunctionCall {
	if r == nil || r.Content == nil {
		return nil
	}
	var calls []*genai.FunctionCall
	for _, part := range r.Content.Parts {
		if part != nil && part.FunctionCall != nil {
			calls = append(calls, part.FunctionCall)
		}
	}
	return calls
}
