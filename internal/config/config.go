package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/OFFIS-RIT/constellation/backend/internal/util"
	"github.com/OFFIS-RIT/constellation/backend/pkg/ai"
	oai "github.com/OFFIS-RIT/constellation/backend/pkg/ai/ollama"
	gai "github.com/OFFIS-RIT/constellation/backend/pkg/ai/openai"
	"github.com/OFFIS-RIT/constellation/backend/pkg/graph"
)

// Supported values of AI_ADAPTER.
const (
	AdapterNone   = ""
	AdapterOpenAI = "openai"
	AdapterOllama = "ollama"
)

// AI holds the passive settings for the external model. They are handed
// to the AI clients unchanged.
type AI struct {
	Adapter       string
	ChatURL       string
	ChatKey       string
	Model         string
	MaxTokens     int
	Temperature   float64
	Thinking      string
	Timeout       time.Duration
	MaxRetries    int
	MaxConcurrent int
}

type Config struct {
	Port  string
	Debug bool

	AI AI

	StrictCategories bool
	RepairJSON       bool
	SimulatedLatency time.Duration
	ParallelTopics   int
}

// Load reads the configuration from the environment. Call util.LoadEnv
// first to pick up a .env file.
func Load() Config {
	return Config{
		Port:  util.GetEnvString("PORT", "8080"),
		Debug: util.GetEnvBool("DEBUG", false),

		AI: AI{
			Adapter:       strings.ToLower(strings.TrimSpace(util.GetEnv("AI_ADAPTER"))),
			ChatURL:       util.GetEnv("AI_CHAT_URL"),
			ChatKey:       util.GetEnv("AI_CHAT_KEY"),
			Model:         util.GetEnv("AI_MODEL"),
			MaxTokens:     util.GetEnvInt("AI_MAX_TOKENS", 4096),
			Temperature:   util.GetEnvNumeric("AI_TEMPERATURE", 0.7),
			Thinking:      util.GetEnv("AI_THINKING"),
			Timeout:       util.GetEnvDuration("AI_TIMEOUT", 60*time.Second),
			MaxRetries:    util.GetEnvInt("AI_MAX_RETRIES", 3),
			MaxConcurrent: util.GetEnvInt("AI_MAX_CONCURRENT", 4),
		},

		StrictCategories: util.GetEnvBool("STRICT_CATEGORIES", false),
		RepairJSON:       util.GetEnvBool("REPAIR_JSON", false),
		SimulatedLatency: util.GetEnvDuration("SIMULATED_LATENCY", 0),
		ParallelTopics:   util.GetEnvInt("PARALLEL_TOPICS", 4),
	}
}

// NewAIClient creates the client selected by AI_ADAPTER. It returns nil
// without error when no adapter is configured.
func (c Config) NewAIClient() (ai.GraphAIClient, error) {
	switch c.AI.Adapter {
	case AdapterNone:
		return nil, nil
	case AdapterOllama:
		client, err := oai.NewGraphOllamaClient(oai.NewGraphOllamaClientParams{
			Model:       c.AI.Model,
			Temperature: c.AI.Temperature,
			MaxTokens:   c.AI.MaxTokens,

			BaseURL: c.AI.ChatURL,
			ApiKey:  c.AI.ChatKey,

			MaxConcurrentRequests: int64(c.AI.MaxConcurrent),
		})
		if err != nil {
			return nil, fmt.Errorf("create ollama client: %w", err)
		}
		return client, nil
	case AdapterOpenAI:
		return gai.NewGraphOpenAIClient(gai.NewGraphOpenAIClientParams{
			Model:       c.AI.Model,
			Temperature: c.AI.Temperature,
			MaxTokens:   c.AI.MaxTokens,

			ChatURL: c.AI.ChatURL,
			ChatKey: c.AI.ChatKey,
		}), nil
	default:
		return nil, fmt.Errorf("unknown AI_ADAPTER %q", c.AI.Adapter)
	}
}

// NewGraphClient wires a GraphClient from the configuration, including a
// model source when an adapter is configured.
func (c Config) NewGraphClient() (*graph.GraphClient, error) {
	aiClient, err := c.NewAIClient()
	if err != nil {
		return nil, err
	}

	var source graph.Source
	if aiClient != nil {
		ms, err := graph.NewModelSource(graph.NewModelSourceParams{
			Client:      aiClient,
			Model:       c.AI.Model,
			Temperature: c.AI.Temperature,
			MaxTokens:   c.AI.MaxTokens,
			Thinking:    c.AI.Thinking,
		})
		if err != nil {
			return nil, err
		}
		source = ms
	}

	return graph.NewGraphClient(graph.NewGraphClientParams{
		Source: source,

		StrictCategories: c.StrictCategories,
		RepairJSON:       c.RepairJSON,
		SimulatedLatency: c.SimulatedLatency,
		ParallelTopics:   c.ParallelTopics,
		Timeout:          c.AI.Timeout,
		MaxRetries:       c.AI.MaxRetries,
	}), nil
}
