package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/OFFIS-RIT/constellation/backend/pkg/ai"
)

func TestGenerateCompletionWithSchema(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}

		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req["model"] != "llama3" {
			t.Errorf("model = %v", req["model"])
		}
		if req["format"] == nil {
			t.Errorf("expected format to carry the schema")
		}
		opts, _ := req["options"].(map[string]any)
		if opts["num_predict"] != float64(256) {
			t.Errorf("num_predict = %v, want 256", opts["num_predict"])
		}
		if opts["temperature"] != 0.5 {
			t.Errorf("temperature = %v, want 0.5", opts["temperature"])
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"llama3","created_at":"2024-01-01T00:00:00Z","message":{"role":"assistant","content":"{\"nodes\":[]}"},"done":true,"done_reason":"stop","prompt_eval_count":5,"eval_count":3,"total_duration":2000000}` + "\n"))
	}))
	defer srv.Close()

	client, err := NewGraphOllamaClient(NewGraphOllamaClientParams{
		Model:                 "llama3",
		Temperature:           0.1,
		MaxTokens:             256,
		BaseURL:               srv.URL,
		ApiKey:                "secret",
		MaxConcurrentRequests: 2,
	})
	if err != nil {
		t.Fatalf("NewGraphOllamaClient() error = %v", err)
	}

	got, err := client.GenerateCompletionWithSchema(
		context.Background(),
		"graph",
		"knowledge graph",
		"prompt",
		map[string]any{"type": "object"},
		ai.WithTemperature(0.5),
	)
	if err != nil {
		t.Fatalf("GenerateCompletionWithSchema() error = %v", err)
	}
	if got != `{"nodes":[]}` {
		t.Fatalf("unexpected content %q", got)
	}

	m := client.GetMetrics()
	if m.Requests != 1 || m.InputTokens != 5 || m.OutputTokens != 3 || m.TotalTokens != 8 {
		t.Fatalf("unexpected metrics %+v", m)
	}
}

func TestClientFromEnvironmentKeepsAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer from-env" {
			t.Errorf("Authorization = %q", got)
		}

		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req["think"] != "high" {
			t.Errorf("think = %v, want high", req["think"])
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"llama3","created_at":"2024-01-01T00:00:00Z","message":{"role":"assistant","content":"ok"},"done":true}` + "\n"))
	}))
	defer srv.Close()

	t.Setenv("OLLAMA_HOST", srv.URL)

	client, err := NewGraphOllamaClient(NewGraphOllamaClientParams{
		Model:  "llama3",
		ApiKey: "from-env",
	})
	if err != nil {
		t.Fatalf("NewGraphOllamaClient() error = %v", err)
	}

	got, err := client.GenerateCompletion(context.Background(), "prompt", ai.WithThinking("high"))
	if err != nil {
		t.Fatalf("GenerateCompletion() error = %v", err)
	}
	if got != "ok" {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestGenerateCompletionHonoursCancelledContext(t *testing.T) {
	client, err := NewGraphOllamaClient(NewGraphOllamaClientParams{
		Model:                 "llama3",
		BaseURL:               "http://127.0.0.1:1",
		MaxConcurrentRequests: 1,
	})
	if err != nil {
		t.Fatalf("NewGraphOllamaClient() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.GenerateCompletion(ctx, "prompt"); err == nil {
		t.Fatalf("expected error for cancelled context")
	}
}

func TestContextSize(t *testing.T) {
	if n := contextSize(nil, 100); n != 0 {
		t.Fatalf("contextSize() = %d, want 0 for small requests", n)
	}
	if n := contextSize(nil, 8000); n != 8000+contextHeadroom {
		t.Fatalf("contextSize() = %d, want %d", n, 8000+contextHeadroom)
	}
}
