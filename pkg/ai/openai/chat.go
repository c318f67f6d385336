package openai

import (
	"context"
	"fmt"
	"time"

	"github.com/OFFIS-RIT/constellation/backend/pkg/ai"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/shared"
)

// GenerateCompletion sends a single-turn prompt to the chat model and
// returns the generated completion as plain text.
//
// Example:
//
//	resp, err := client.GenerateCompletion(ctx, "Describe the topic...")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(resp)
func (c *GraphOpenAIClient) GenerateCompletion(
	ctx context.Context,
	prompt string,
	opts ...ai.GenerateOption,
) (string, error) {
	options := ai.ApplyOptions(c.defaultOptions(), opts...)
	body := c.newBody(options, prompt)

	return c.send(ctx, body)
}

// GenerateCompletionWithSchema sends a prompt to the chat model and asks
// for a response that follows the given JSON schema. The response text is
// returned unparsed.
//
// Example:
//
//	schema := ai.GenerateSchema(&payload{})
//	raw, err := client.GenerateCompletionWithSchema(ctx, "graph", "A knowledge graph", prompt, schema)
func (c *GraphOpenAIClient) GenerateCompletionWithSchema(
	ctx context.Context,
	name string,
	description string,
	prompt string,
	schema any,
	opts ...ai.GenerateOption,
) (string, error) {
	options := ai.ApplyOptions(c.defaultOptions(), opts...)
	body := c.newBody(options, prompt)

	body.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
			JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
				Name:        name,
				Description: openai.String(description),
				Schema:      schema,
				Strict:      openai.Bool(false),
			},
		},
	}

	return c.send(ctx, body)
}

func (c *GraphOpenAIClient) newBody(options ai.GenerateOptions, prompt string) openai.ChatCompletionNewParams {
	msgs := []openai.ChatCompletionMessageParamUnion{}
	for _, sp := range options.SystemPrompts {
		msgs = append(msgs, openai.SystemMessage(sp))
	}
	msgs = append(msgs, openai.UserMessage(prompt))

	body := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(options.Model),
		Messages:    msgs,
		Temperature: openai.Float(options.Temperature),
	}

	if options.MaxTokens > 0 {
		body.MaxCompletionTokens = openai.Int(int64(options.MaxTokens))
	}

	if options.Thinking != "" {
		// Reasoning models on api.openai.com only accept a temperature of 1.0
		if c.chatURL == "" {
			body.Temperature = openai.Float(1.0)
		}
		body.ReasoningEffort = shared.ReasoningEffort(options.Thinking)
	}

	return body
}

func (c *GraphOpenAIClient) send(ctx context.Context, body openai.ChatCompletionNewParams) (string, error) {
	start := time.Now()
	response, err := c.ChatClient.Chat.Completions.New(ctx, body)
	if err != nil {
		return "", err
	}
	duration := time.Since(start).Milliseconds()

	c.modifyMetrics(ai.ModelMetrics{
		InputTokens:  int(response.Usage.PromptTokens),
		OutputTokens: int(response.Usage.CompletionTokens),
		TotalTokens:  int(response.Usage.TotalTokens),
		DurationMs:   duration,
	})

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no choices in response from model")
	}
	message := response.Choices[0].Message.Content
	if message == "" {
		return "", fmt.Errorf("empty response from model (finish_reason: %s)", response.Choices[0].FinishReason)
	}
	return message, nil
}
