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

// EventType discriminates the variants of Event. Consumers switch on the
// type; they never inspect fields that don't belong to the variant.
type EventType string

const (
	// EventText carries a chunk of assistant text as it streams.
	EventText EventType = "text"
	// EventToolUse reports a tool invocation the model requested.
	EventToolUse EventType = "tool_use"
	// EventToolResult reports the outcome of executing a tool.
	EventToolResult EventType = "tool_result"
	// EventDone closes the stream with the full response and every tool
	// call made during the turn.
	EventDone EventType = "done"
)

// Event is one item in the agent's response stream.
type Event struct {
	Type EventType

	// EventText
	Text string

	// EventToolUse / EventToolResult
	ToolName  string
	ToolInput map[string]any
	// EventToolResult only
	ToolResult string
	// Escalated is set on EventToolUse when the invocation hands the
	// conversation to a human.
	Escalated bool

	// EventDone
	Response  string
	ToolCalls []ToolCall
}

// ToolCall records one tool invocation: the name and the argument payload.
// Order within a transcript matters; a call has no identity beyond its
// position.
type ToolCall struct {
	Name  string         `json:"name"`
	Input map[string]any `json:"input,omitempty"`
}

// Message is one entry in a conversation history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Transcript is the normalized output of running one conversation: the full
// interleaved message history, the ordered tool invocations, and the version
// tag of the agent configuration that produced it.
type Transcript struct {
	Messages     []Message  `json:"messages"`
	ToolCalls    []ToolCall `json:"tool_calls"`
	AgentVersion string     `json:"agent_version"`
}

// AssistantText returns the concatenated text of all assistant messages.
func (t *Transcript) AssistantText() string {
	if t == nil {
		return ""
	}
	var out string
	for _, msg := range t.Messages {
		if msg.Role == "assistant" {
			if out != "" {
				out += "\n"
			}
			out += msg.Content
		}
	}
	return out
}
