package graph

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/OFFIS-RIT/constellation/backend/pkg/ai"
)

// Source produces untrusted text that is expected to describe a graph.
// Implementations do no validation; GraphClient parses every response.
type Source interface {
	GenerateRaw(ctx context.Context, topic string) (string, error)
}

// modelGraph is the document shape advertised to models as a JSON schema.
type modelGraph struct {
	Nodes []modelNode `json:"nodes" jsonschema_description:"All nodes of the graph, including the topic node"`
	Links []modelLink `json:"links" jsonschema_description:"Directed relationships between nodes"`
}

type modelNode struct {
	ID          string  `json:"id" jsonschema_description:"Unique lowercase identifier using hyphens instead of spaces"`
	Name        string  `json:"name" jsonschema_description:"Human readable label"`
	Importance  float64 `json:"importance" jsonschema:"minimum=0,maximum=100" jsonschema_description:"Relevance to the topic between 0 and 100"`
	Category    string  `json:"category" jsonschema:"enum=concept,enum=person,enum=topic,enum=resource,enum=skill,enum=project,enum=other"`
	Description string  `json:"description" jsonschema_description:"One sentence explaining the node"`
}

type modelLink struct {
	Source   string  `json:"source" jsonschema_description:"Id of the node the link starts at"`
	Target   string  `json:"target" jsonschema_description:"Id of the node the link points to"`
	Label    string  `json:"label" jsonschema_description:"Short description of the relationship"`
	Strength float64 `json:"strength" jsonschema:"minimum=0,maximum=1"`
}

// ModelSource asks a language model for a graph using structured output.
//
// A ModelSource should be created using NewModelSource.
type ModelSource struct {
	client      ai.GraphAIClient
	model       string
	temperature float64
	maxTokens   int
	thinking    string
	minNodes    int
	maxNodes    int

	schema any
}

// NewModelSourceParams defines the configuration parameters for creating
// a new ModelSource.
//
// Model, Temperature and MaxTokens override the client's defaults when
// set. Thinking is passed through as the provider's reasoning setting
// (an effort level such as "low" or "high"). MinNodes and MaxNodes bound the graph size requested in the prompt
// and default to 10 and 25.
type NewModelSourceParams struct {
	Client      ai.GraphAIClient
	Model       string
	Temperature float64
	MaxTokens   int
	Thinking    string
	MinNodes    int
	MaxNodes    int
}

// NewModelSource creates a ModelSource around an AI client.
func NewModelSource(params NewModelSourceParams) (*ModelSource, error) {
	if params.Client == nil {
		return nil, fmt.Errorf("model source requires an AI client")
	}

	minNodes := params.MinNodes
	if minNodes <= 0 {
		minNodes = 10
	}
	maxNodes := params.MaxNodes
	if maxNodes < minNodes {
		maxNodes = max(25, minNodes)
	}

	return &ModelSource{
		client:      params.Client,
		model:       params.Model,
		temperature: params.Temperature,
		maxTokens:   params.MaxTokens,
		thinking:    params.Thinking,
		minNodes:    minNodes,
		maxNodes:    maxNodes,
		schema:      ai.GenerateSchema(modelGraph{}),
	}, nil
}

// GenerateRaw returns the model's unvalidated answer for topic.
func (s *ModelSource) GenerateRaw(ctx context.Context, topic string) (string, error) {
	schema, err := json.MarshalIndent(s.schema, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal graph schema: %w", err)
	}

	system := fmt.Sprintf(ai.GraphSystemPrompt, SanitizeID(topic), s.minNodes, s.maxNodes, schema)
	prompt := fmt.Sprintf(ai.GraphUserPrompt, displayName(topic))

	opts := []ai.GenerateOption{
		ai.WithSystemPrompts(system),
		ai.WithModel(s.model),
		ai.WithMaxTokens(s.maxTokens),
	}
	if s.temperature > 0 {
		opts = append(opts, ai.WithTemperature(s.temperature))
	}
	if s.thinking != "" {
		opts = append(opts, ai.WithThinking(s.thinking))
	}

	return s.client.GenerateCompletionWithSchema(
		ctx,
		"knowledge_graph",
		"A knowledge graph of nodes and links about a topic",
		prompt,
		s.schema,
		opts...,
	)
}
