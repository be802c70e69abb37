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

package anthropic

import (
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"google.golang.org/genai"

	"github.com/jxnl/medical-agent/model"
)

func parsePartialStreamEvent(event anthropic.MessageStreamEventUnion) *model.LLMResponse {
	deltaEvent, ok := event.AsAny().(anthropic.ContentBlockDeltaEvent)
	if !ok {
		return nil
	}

	delta, ok := deltaEvent.Delta.AsAny().(anthropic.TextDelta)
	if !ok || delta.Text == "" {
		return nil
	}

	content := genai.NewContentFromParts([]*genai.Part{genai.NewPartFromText(delta.Text)}, genai.RoleModel)
	return &model.LLMResponse{
		Content: content,
		Partial: true,
	}
}

func responseFromMessage(message *anthropic.Message) (*model.LLMResponse, error) {
	parts := make([]*genai.Part, 0, len(message.Content))
	for _, block := range message.Content {
		part, err := buildPartFromContentBlock(block)
		if err != nil {
			return nil, err
		}
		if part != nil {
			parts = append(parts, part)
		}
	}
	content := genai.NewContentFromParts(parts, genai.RoleModel)

	return &model.LLMResponse{
		Content:      content,
		FinishReason: buildFinishReason(message.StopReason),
	}, nil
}

func buildPartFromContentBlock(block anthropic.ContentBlockUnion) (*genai.Part, error) {
	switch v := block.AsAny().(type) {
	case anthropic.TextBlock:
		return genai.NewPartFromText(v.Text), nil
	case anthropic.ToolUseBlock:
		args := make(map[string]any)
		if len(v.Input) > 0 {
			if err := json.Unmarshal(v.Input, &args); err != nil {
				return nil, fmt.Errorf("failed to decode tool input: %w", err)
			}
		}
		return &genai.Part{
			FunctionCall: &genai.FunctionCall{
				ID:   v.ID,
				Name: v.Name,
				Args: args,
			},
		}, nil
	default:
		return nil, fmt.Errorf("not supported '%T' yet", v)
	}
}

func buildFinishReason(stop anthropic.StopReason) genai.FinishReason {
	switch stop {
	case anthropic.StopReasonEndTurn, anthropic.StopReasonStopSequence, anthropic.StopReasonToolUse:
		return genai.FinishReasonStop
	case anthropic.StopReasonMaxTokens:
		return genai.FinishReasonMaxTokens
	default:
		return genai.FinishReasonUnspecified
	}
}
