package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestOllamaProvider(t *testing.T, handler http.HandlerFunc) *OllamaProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := newOllamaProvider(OllamaConfig{ServerURL: server.URL, Model: "llama3.1"}, server.Client())
	if err != nil {
		t.Fatalf("new ollama provider: %v", err)
	}
	return p
}

func ollamaReply(content string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-ndjson")
		json.NewEncoder(w).Encode(map[string]any{
			"model":             "llama3.1",
			"message":           map[string]any{"role": "assistant", "content": content},
			"done":              true,
			"prompt_eval_count": 30,
			"eval_count":        12,
		})
	}
}

func TestOllamaProvider_PlainText(t *testing.T) {
	p := newTestOllamaProvider(t, ollamaReply("The reef is alive."))

	resp, err := p.Generate(context.Background(), Request{
		System:   "You summarise articles.",
		Messages: UserMessage("Summarise."),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text() != "The reef is alive." {
		t.Fatalf("unexpected text %q", resp.Text())
	}
	if resp.Usage.InputTokens != 30 || resp.Usage.OutputTokens != 12 {
		t.Fatalf("unexpected usage %+v", resp.Usage)
	}
	if resp.Model != "llama3.1" {
		t.Fatalf("model = %q", resp.Model)
	}
}

func TestOllamaProvider_SchemaSentAndThinkingStripped(t *testing.T) {
	var body map[string]any
	handler := func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &body)
		ollamaReply("<think>plan the answer</think>\nHere you go: {\"passage\":\"Coral reefs.\"}")(w, r)
	}
	p := newTestOllamaProvider(t, handler)

	resp, err := p.Generate(context.Background(), Request{
		System:   "You write passages.",
		Messages: UserMessage("Write one."),
		Schema: &Schema{
			Name: "ollama-test-passage",
			Definition: map[string]any{
				"type":       "object",
				"properties": map[string]any{"passage": map[string]any{"type": "string"}},
				"required":   []any{"passage"},
			},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"passage":"Coral reefs."}` {
		t.Fatalf("unexpected content %s", resp.Content)
	}
	if body["format"] != "json" {
		t.Fatalf("expected JSON mode, got format %v", body["format"])
	}
	msgs, _ := body["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("expected system and user messages, got %d", len(msgs))
	}
	system, _ := msgs[0].(map[string]any)["content"].(string)
	if !strings.Contains(system, `"passage"`) {
		t.Fatalf("schema missing from system prompt: %q", system)
	}
}

func TestOllamaProvider_ServerError(t *testing.T) {
	p := newTestOllamaProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"model \"llama3.1\" not found"}`))
	})

	_, err := p.Generate(context.Background(), Request{Messages: UserMessage("hi")})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T (%v)", err, err)
	}
}

func TestStripThinking(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"<think>x</think> answer", "answer"},
		{"<think>unterminated answer", "<think>unterminated answer"},
	}
	for _, tt := range tests {
		if got := stripThinking(tt.in); got != tt.want {
			t.Errorf("stripThinking(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
