package graph

import (
	"context"
	"strings"
	"testing"

	"github.com/OFFIS-RIT/constellation/backend/pkg/ai"
)

type recordingAIClient struct {
	name    string
	prompt  string
	schema  any
	options ai.GenerateOptions
	answer  string
}

func (c *recordingAIClient) GenerateCompletion(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
	c.prompt = prompt
	c.options = ai.ApplyOptions(ai.GenerateOptions{}, opts...)
	return c.answer, nil
}

func (c *recordingAIClient) GenerateCompletionWithSchema(
	ctx context.Context,
	name, description, prompt string,
	schema any,
	opts ...ai.GenerateOption,
) (string, error) {
	c.name = name
	c.schema = schema
	return c.GenerateCompletion(ctx, prompt, opts...)
}

func (c *recordingAIClient) ResetMetrics()               {}
func (c *recordingAIClient) GetMetrics() ai.ModelMetrics { return ai.ModelMetrics{} }

func TestModelSourcePrompt(t *testing.T) {
	client := &recordingAIClient{answer: smallDocument}
	src, err := NewModelSource(NewModelSourceParams{
		Client:      client,
		Model:       "graph-model",
		Temperature: 0.2,
		MaxTokens:   2048,
		Thinking:    "low",
	})
	if err != nil {
		t.Fatalf("NewModelSource: %v", err)
	}

	raw, err := src.GenerateRaw(context.Background(), "  Deep Sea Creatures ")
	if err != nil {
		t.Fatalf("GenerateRaw: %v", err)
	}
	if raw != smallDocument {
		t.Fatal("raw answer must be returned unchanged")
	}

	if client.prompt != "Create a knowledge graph about: Deep Sea Creatures" {
		t.Fatalf("prompt = %q", client.prompt)
	}
	if client.name != "knowledge_graph" || client.schema == nil {
		t.Fatalf("schema not passed: %q %v", client.name, client.schema)
	}

	opts := client.options
	if opts.Model != "graph-model" || opts.Temperature != 0.2 || opts.MaxTokens != 2048 || opts.Thinking != "low" {
		t.Fatalf("unexpected options %+v", opts)
	}
	if len(opts.SystemPrompts) != 1 {
		t.Fatalf("expected one system prompt, got %d", len(opts.SystemPrompts))
	}
	system := opts.SystemPrompts[0]
	for _, want := range []string{`"deep-sea-creatures"`, "between 10 and 25", `"importance"`} {
		if !strings.Contains(system, want) {
			t.Fatalf("system prompt does not contain %s", want)
		}
	}
}

func TestModelSourceRequiresClient(t *testing.T) {
	if _, err := NewModelSource(NewModelSourceParams{}); err == nil {
		t.Fatal("expected error without client")
	}
}

func TestModelSourceFeedsGraphClient(t *testing.T) {
	src, _ := NewModelSource(NewModelSourceParams{
		Client: &recordingAIClient{answer: "Here you go:\n" + smallDocument},
	})
	client := NewGraphClient(NewGraphClientParams{Source: src})

	g, source, err := client.GenerateGraphWithFallback(context.Background(), "go")
	if err != nil {
		t.Fatalf("GenerateGraphWithFallback: %v", err)
	}
	if source != "model" || len(g.Nodes) != 2 {
		t.Fatalf("unexpected result %q %+v", source, g)
	}
}
