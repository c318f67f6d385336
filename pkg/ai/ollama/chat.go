package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/OFFIS-RIT/constellation/backend/pkg/ai"

	"github.com/ollama/ollama/api"
	"github.com/pkoukk/tiktoken-go"
)

const (
	defaultContextTokens = 4096
	// headroom for the chat template around the prompt
	contextHeadroom = 200
)

var (
	encOnce sync.Once
	enc     *tiktoken.Tiktoken
)

// countTokens estimates the prompt size. Without the encoder (e.g. when the
// BPE ranks cannot be loaded) it falls back to four bytes per token.
func countTokens(text string) int {
	encOnce.Do(func() {
		e, err := tiktoken.GetEncoding("o200k_base")
		if err == nil {
			enc = e
		}
	})
	if enc == nil {
		return len(text)/4 + 1
	}
	return len(enc.Encode(text, nil, nil))
}

// contextSize returns the num_ctx needed to fit the messages plus the
// requested output, or 0 when the server default is large enough.
func contextSize(msgs []api.Message, maxTokens int) int {
	tokens := contextHeadroom + maxTokens
	for _, m := range msgs {
		tokens += countTokens(m.Content)
	}
	if tokens > defaultContextTokens {
		return tokens
	}
	return 0
}

// GenerateCompletion sends a single-turn prompt and returns assistant text.
func (c *GraphOllamaClient) GenerateCompletion(
	ctx context.Context,
	prompt string,
	opts ...ai.GenerateOption,
) (string, error) {
	options := ai.ApplyOptions(c.defaultOptions(), opts...)
	return c.chat(ctx, options, prompt, nil)
}

// GenerateCompletionWithSchema passes schema as the structured output
// format and returns the unparsed response text.
func (c *GraphOllamaClient) GenerateCompletionWithSchema(
	ctx context.Context,
	name string,
	description string,
	prompt string,
	schema any,
	opts ...ai.GenerateOption,
) (string, error) {
	formatBytes, err := json.Marshal(schema)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s schema: %w", name, err)
	}

	options := ai.ApplyOptions(c.defaultOptions(), opts...)
	return c.chat(ctx, options, prompt, json.RawMessage(formatBytes))
}

func (c *GraphOllamaClient) chat(
	ctx context.Context,
	options ai.GenerateOptions,
	prompt string,
	format json.RawMessage,
) (string, error) {
	if err := c.reqLock.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer c.reqLock.Release(1)

	msgs := make([]api.Message, 0, len(options.SystemPrompts)+1)
	for _, sys := range options.SystemPrompts {
		msgs = append(msgs, api.Message{Role: "system", Content: sys})
	}
	msgs = append(msgs, api.Message{Role: "user", Content: prompt})

	stream := false
	req := &api.ChatRequest{
		Model:    options.Model,
		Messages: msgs,
		Stream:   &stream,
		Format:   format,
		Options:  map[string]any{"temperature": options.Temperature},
	}

	if options.MaxTokens > 0 {
		req.Options["num_predict"] = options.MaxTokens
	}
	if n := contextSize(msgs, options.MaxTokens); n > 0 {
		req.Options["num_ctx"] = n
	}

	if options.Thinking != "" {
		req.Think = &api.ThinkValue{
			Value: options.Thinking,
		}
	}

	var final api.ChatResponse
	if err := c.Client.Chat(ctx, req, func(cr api.ChatResponse) error {
		final.Message.Content += cr.Message.Content
		if cr.Done {
			final.Done = true
			final.DoneReason = cr.DoneReason
			final.Metrics = cr.Metrics
		}
		return nil
	}); err != nil {
		return "", err
	}

	c.modifyMetrics(ai.ModelMetrics{
		InputTokens:  final.Metrics.PromptEvalCount,
		OutputTokens: final.Metrics.EvalCount,
		TotalTokens:  final.Metrics.PromptEvalCount + final.Metrics.EvalCount,
		DurationMs:   final.Metrics.TotalDuration.Milliseconds(),
	})

	if final.Message.Content == "" {
		return "", fmt.Errorf("empty response from model (done_reason: %s)", final.DoneReason)
	}
	return final.Message.Content, nil
}
