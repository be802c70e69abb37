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

package agent

import (
	"context"
	"fmt"

	"github.com/jxnl/medical-agent/model"
	"github.com/jxnl/medical-agent/tools"
)

// Adapter runs scripted conversations against fresh agent instances. The
// model client is shared (it is stateless), but every conversation gets its
// own store and history so that concurrent runs cannot observe each other's
// record mutations.
type Adapter struct {
	model model.Model
}

// NewAdapter creates an Adapter backed by the given model.
func NewAdapter(m model.Model) *Adapter {
	return &Adapter{model: m}
}

// IncompleteError reports a conversation that failed partway through. The
// partial transcript is preserved for diagnostics but must not be scored.
type IncompleteError struct {
	// Partial holds the exchange up to the failure point.
	Partial *Transcript

	Err error
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("conversation incomplete after %d messages: %v", len(e.Partial.Messages), e.Err)
}

func (e *IncompleteError) Unwrap() error {
	return e.Err
}

// RunConversation plays the user messages of msgs through a fresh agent in
// order and returns the full transcript: the interleaved exchange, every
// tool call in invocation order, and the agent version. Non-user entries in
// msgs are ignored; scripted datasets carry only the user side.
//
// On failure the returned error is an [*IncompleteError] wrapping the
// underlying cause, with the partial transcript attached.
func (ad *Adapter) RunConversation(ctx context.Context, msgs []Message) (*Transcript, error) {
	agent, err := New(Config{Model: ad.model, Store: tools.NewStore()})
	if err != nil {
		return nil, err
	}

	transcript := &Transcript{AgentVersion: agent.Version()}

	for _, msg := range msgs {
		if msg.Role != "user" {
			continue
		}

		response, calls, err := agent.Send(ctx, msg.Content)
		if err != nil {
			transcript.Messages = agent.History()
			return nil, &IncompleteError{Partial: transcript, Err: err}
		}

		transcript.Messages = append(transcript.Messages,
			Message{Role: "user", Content: msg.Content},
			Message{Role: "assistant", Content: response},
		)
		transcript.ToolCalls = append(transcript.ToolCalls, calls...)
	}

	return transcript, nil
}
