package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/OFFIS-RIT/constellation/backend/pkg/ai"
)

const completionResponse = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 0,
  "model": "test-model",
  "choices": [{
    "index": 0,
    "message": {"role": "assistant", "content": "{\"nodes\":[],\"links\":[]}"},
    "finish_reason": "stop"
  }],
  "usage": {"prompt_tokens": 12, "completion_tokens": 8, "total_tokens": 20}
}`

func newTestServer(t *testing.T, check func(body map[string]any)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		var body map[string]any
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		check(body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionResponse))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGenerateCompletionWithSchema(t *testing.T) {
	srv := newTestServer(t, func(body map[string]any) {
		if body["model"] != "override-model" {
			t.Errorf("model = %v, want override-model", body["model"])
		}
		if body["max_completion_tokens"] != float64(512) {
			t.Errorf("max_completion_tokens = %v, want 512", body["max_completion_tokens"])
		}
		format, ok := body["response_format"].(map[string]any)
		if !ok || format["type"] != "json_schema" {
			t.Errorf("response_format = %v, want json_schema", body["response_format"])
		}
		msgs, ok := body["messages"].([]any)
		if !ok || len(msgs) != 2 {
			t.Errorf("expected system and user message, got %v", body["messages"])
		}
	})

	client := NewGraphOpenAIClient(NewGraphOpenAIClientParams{
		Model:     "test-model",
		MaxTokens: 512,
		ChatURL:   srv.URL + "/v1",
		ChatKey:   "test",
	})

	schema := map[string]any{"type": "object"}
	got, err := client.GenerateCompletionWithSchema(
		context.Background(),
		"graph",
		"knowledge graph",
		"topic",
		schema,
		ai.WithModel("override-model"),
		ai.WithSystemPrompts("system"),
	)
	if err != nil {
		t.Fatalf("GenerateCompletionWithSchema() error = %v", err)
	}
	if got != `{"nodes":[],"links":[]}` {
		t.Fatalf("unexpected content %q", got)
	}

	m := client.GetMetrics()
	if m.Requests != 1 || m.TotalTokens != 20 || m.InputTokens != 12 {
		t.Fatalf("unexpected metrics %+v", m)
	}

	client.ResetMetrics()
	if client.GetMetrics().Requests != 0 {
		t.Fatalf("ResetMetrics() did not clear metrics")
	}
}

func TestGenerateCompletionDefaults(t *testing.T) {
	srv := newTestServer(t, func(body map[string]any) {
		if body["model"] != "test-model" {
			t.Errorf("model = %v, want test-model", body["model"])
		}
		if _, ok := body["max_completion_tokens"]; ok {
			t.Errorf("max_completion_tokens should be omitted when unset")
		}
		if _, ok := body["response_format"]; ok {
			t.Errorf("response_format should be omitted for plain completions")
		}
	})

	client := NewGraphOpenAIClient(NewGraphOpenAIClientParams{
		Model:   "test-model",
		ChatURL: srv.URL + "/v1",
		ChatKey: "test",
	})

	if _, err := client.GenerateCompletion(context.Background(), "hello"); err != nil {
		t.Fatalf("GenerateCompletion() error = %v", err)
	}
}

func TestGenerateCompletionReasoningEffort(t *testing.T) {
	srv := newTestServer(t, func(body map[string]any) {
		if body["reasoning_effort"] != "low" {
			t.Errorf("reasoning_effort = %v, want low", body["reasoning_effort"])
		}
		if body["temperature"] != 0.3 {
			t.Errorf("temperature = %v, custom endpoints keep the configured value", body["temperature"])
		}
	})

	client := NewGraphOpenAIClient(NewGraphOpenAIClientParams{
		Model:       "test-model",
		Temperature: 0.3,
		ChatURL:     srv.URL + "/v1",
		ChatKey:     "test",
	})

	if _, err := client.GenerateCompletion(context.Background(), "hello", ai.WithThinking("low")); err != nil {
		t.Fatalf("GenerateCompletion() error = %v", err)
	}
}
