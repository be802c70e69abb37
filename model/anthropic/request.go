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
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
	"github.com/anthropics/anthropic-sdk-go/shared/constant"
	"google.golang.org/genai"

	"github.com/jxnl/medical-agent/model"
)

// requestBuilder converts a model.LLMRequest into Anthropic API parameters.
type requestBuilder struct {
	modelName string
	maxTokens int64
}

func (b *requestBuilder) fromLLMRequest(req *model.LLMRequest) (*anthropic.MessageNewParams, error) {
	messages := make([]anthropic.MessageParam, 0, len(req.Contents))
	for _, content := range req.Contents {
		message, err := b.buildMessageFromContent(content)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}

	params := &anthropic.MessageNewParams{
		Messages:  messages,
		Model:     anthropic.Model(b.modelName),
		MaxTokens: b.maxTokens,
	}
	if req.GenerateConfig != nil {
		params.System = b.buildSystemInstruction(req.GenerateConfig.SystemInstruction)
		if err := b.appendConfigOptions(params, req.GenerateConfig); err != nil {
			return nil, err
		}
	}
	return params, nil
}

func (b *requestBuilder) buildMessageFromContent(content *genai.Content) (anthropic.MessageParam, error) {
	blocks := make([]anthropic.ContentBlockParamUnion, 0, len(content.Parts))
	for _, part := range content.Parts {
		block, err := b.buildContentBlockFromPart(part)
		if err != nil {
			return anthropic.MessageParam{}, err
		}
		blocks = append(blocks, block)
	}

	role := anthropic.MessageParamRoleUser
	if content.Role == "model" || content.Role == "assistant" {
		role = anthropic.MessageParamRoleAssistant
	}

	return anthropic.MessageParam{
		Role:    role,
		Content: blocks,
	}, nil
}

func (b *requestBuilder) buildContentBlockFromPart(part *genai.Part) (anthropic.ContentBlockParamUnion, error) {
	switch {
	case part.Text != "":
		return anthropic.NewTextBlock(part.Text), nil
	case part.FunctionCall != nil:
		call := part.FunctionCall
		return anthropic.NewToolUseBlock(call.ID, call.Args, call.Name), nil
	case part.FunctionResponse != nil:
		funcResponse := part.FunctionResponse
		content := stringifyFunctionResponse(funcResponse.Response)
		return anthropic.NewToolResultBlock(funcResponse.ID, content, false), nil
	default:
		return anthropic.ContentBlockParamUnion{}, fmt.Errorf("unsupported part type %+v", part)
	}
}

func (b *requestBuilder) buildSystemInstruction(content *genai.Content) []anthropic.TextBlockParam {
	if content == nil {
		return nil
	}

	var blocks []anthropic.TextBlockParam
	for _, part := range content.Parts {
		if part == nil || part.Text == "" {
			continue
		}
		blocks = append(blocks, anthropic.TextBlockParam{
			Text: part.Text,
			Type: constant.ValueOf[constant.Text](),
		})
	}
	return blocks
}

func (b *requestBuilder) appendConfigOptions(params *anthropic.MessageNewParams, cfg *genai.GenerateContentConfig) error {
	if cfg.MaxOutputTokens > 0 {
		params.MaxTokens = int64(cfg.MaxOutputTokens)
	}
	if cfg.Temperature != nil {
		params.Temperature = param.NewOpt(float64(*cfg.Temperature))
	}
	if cfg.TopP != nil {
		params.TopP = param.NewOpt(float64(*cfg.TopP))
	}
	if len(cfg.StopSequences) > 0 {
		params.StopSequences = cfg.StopSequences
	}

	if len(cfg.Tools) > 0 {
		toolParams := make([]anthropic.ToolUnionParam, 0)
		for _, tool := range cfg.Tools {
			for _, fn := range tool.FunctionDeclarations {
				toolParam, err := b.buildToolParam(fn)
				if err != nil {
					return err
				}
				toolParams = append(toolParams, toolParam)
			}
		}
		params.Tools = toolParams
		if len(toolParams) > 0 {
			params.ToolChoice = anthropic.ToolChoiceParamOfTool("auto")
		}
	}
	return nil
}

func (b *requestBuilder) buildToolParam(fn *genai.FunctionDeclaration) (anthropic.ToolUnionParam, error) {
	if fn.Name == "" {
		return anthropic.ToolUnionParam{}, fmt.Errorf("function declaration missing name")
	}

	inputSchema := anthropic.ToolInputSchemaParam{
		Type: "object",
	}
	if fn.Parameters != nil && len(fn.Parameters.Properties) > 0 {
		properties := make(map[string]any, len(fn.Parameters.Properties))
		for key, property := range fn.Parameters.Properties {
			normalizeSchemaType(property)
			properties[key] = property
		}
		inputSchema.Properties = properties
		if len(fn.Parameters.Required) > 0 {
			inputSchema.Required = append([]string(nil), fn.Parameters.Required...)
		}
	}

	toolParam := anthropic.ToolParam{
		Name:        fn.Name,
		InputSchema: inputSchema,
		Type:        anthropic.ToolTypeCustom,
	}
	if fn.Description != "" {
		toolParam.Description = param.NewOpt(fn.Description)
	}
	return anthropic.ToolUnionParam{OfTool: &toolParam}, nil
}

func normalizeSchemaType(schema *genai.Schema) {
	schema.Type = genai.Type(strings.ToLower(string(schema.Type)))
	for _, item := range schema.AnyOf {
		normalizeSchemaType(item)
	}
	for _, prop := range schema.Properties {
		normalizeSchemaType(prop)
	}
	if schema.Items != nil {
		normalizeSchemaType(schema.Items)
	}
}

func stringifyFunctionResponse(resp map[string]any) string {
	if resp == nil {
		return ""
	}
	if result, ok := resp["result"]; ok && result != nil {
		return fmt.Sprint(result)
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprint(resp)
	}
	return string(data)
}
