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

// Package anthropic implements the model.Model interface backed by Claude
// models served via the Anthropic API.
package anthropic

import (
	"context"
	"fmt"
	"iter"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/ssestream"

	"github.com/jxnl/medical-agent/model"
)

const (
	envAPIKey = "ANTHROPIC_API_KEY"

	defaultMaxTokens = 8192
)

// Config controls how the Claude-backed model is initialized.
type Config struct {
	// APIKey authenticates with the Anthropic API. Falls back to the
	// ANTHROPIC_API_KEY environment variable when empty.
	APIKey string
	// MaxTokens sets the maximum number of tokens the model can generate.
	MaxTokens int64
	// ClientOptions are forwarded to the underlying SDK client.
	ClientOptions []option.RequestOption
}

func (c *Config) applyDefaults() {
	if c.APIKey == "" {
		c.APIKey = os.Getenv(envAPIKey)
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = defaultMaxTokens
	}
}

// ClaudeModel implements model.Model over the Anthropic Messages API.
type ClaudeModel struct {
	client anthropic.Client

	name      string
	maxTokens int64
}

var _ model.Model = (*ClaudeModel)(nil)

// NewModel returns a model.Model backed by the Anthropic API.
func NewModel(modelName string, cfg *Config) (*ClaudeModel, error) {
	if modelName == "" {
		return nil, fmt.Errorf("model name must be provided")
	}
	if cfg == nil {
		cfg = &Config{}
	}
	cfg.applyDefaults()

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key must be provided via Config.APIKey or %s", envAPIKey)
	}

	opts := append([]option.RequestOption{option.WithAPIKey(cfg.APIKey)}, cfg.ClientOptions...)

	return &ClaudeModel{
		name:      modelName,
		maxTokens: cfg.MaxTokens,
		client:    anthropic.NewClient(opts...),
	}, nil
}

func (m *ClaudeModel) Name() string {
	return m.name
}

// GenerateContent issues a Messages.New call. When stream is true, the
// Anthropic streaming API is used to emit partial responses as they arrive.
func (m *ClaudeModel) GenerateContent(ctx context.Context, req *model.LLMRequest, stream bool) model.ResponseStream {
	if stream {
		return m.generateStream(ctx, req)
	}
	return func(yield func(*model.LLMResponse, error) bool) {
		resp, err := m.generate(ctx, req)
		if !yield(resp, err) {
			return
		}
	}
}

func (m *ClaudeModel) generate(ctx context.Context, req *model.LLMRequest) (*model.LLMResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("llm request must not be empty")
	}

	builder := requestBuilder{modelName: m.name, maxTokens: m.maxTokens}
	params, err := builder.fromLLMRequest(req)
	if err != nil {
		return nil, err
	}

	msg, err := m.client.Messages.New(ctx, *params)
	if err != nil {
		return nil, fmt.Errorf("failed to send llm request to anthropic: %w", err)
	}

	return responseFromMessage(msg)
}

func (m *ClaudeModel) generateStream(ctx context.Context, req *model.LLMRequest) model.ResponseStream {
	return func(yield func(*model.LLMResponse, error) bool) {
		if req == nil {
			yield(nil, fmt.Errorf("llm request must not be empty"))
			return
		}

		builder := requestBuilder{modelName: m.name, maxTokens: m.maxTokens}
		params, err := builder.fromLLMRequest(req)
		if err != nil {
			yield(nil, err)
			return
		}

		stream := m.client.Messages.NewStreaming(ctx, *params)
		for resp, err := range readStreamEvents(stream) {
			if !yield(resp, err) {
				return
			}
		}
	}
}

func readStreamEvents(stream *ssestream.Stream[anthropic.MessageStreamEventUnion]) iter.Seq2[*model.LLMResponse, error] {
	return func(yield func(*model.LLMResponse, error) bool) {
		if stream == nil {
			yield(nil, fmt.Errorf("the stream is empty"))
			return
		}
		defer func() {
			_ = stream.Close()
		}()

		if err := stream.Err(); err != nil {
			yield(nil, fmt.Errorf("got the stream error: %w", err))
			return
		}

		var message anthropic.Message
		for stream.Next() {
			event := stream.Current()
			if err := message.Accumulate(event); err != nil {
				yield(nil, fmt.Errorf("accumulate stream event error: %w", err))
				return
			}

			if partial := parsePartialStreamEvent(event); partial != nil {
				if !yield(partial, nil) {
					return
				}
			}

			if _, ok := event.AsAny().(anthropic.MessageStopEvent); ok {
				final, err := responseFromMessage(&message)
				if err != nil {
					yield(nil, err)
					return
				}
				final.TurnComplete = true
				if !yield(final, nil) {
					return
				}
			}
		}

		if err := stream.Err(); err != nil {
			yield(nil, fmt.Errorf("got the stream error: %w", err))
		}
	}
}
