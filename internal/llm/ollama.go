package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// OllamaProvider implements Provider against a local Ollama server through
// langchaingo. Ollama has no schema-constrained decoding, so the schema is
// appended to the system prompt, JSON mode is switched on, and the reply
// is validated like every other provider's.
type OllamaProvider struct {
	client *ollama.LLM
	model  string
}

// NewOllamaProvider creates a provider for the configured server and model.
func NewOllamaProvider(cfg OllamaConfig) (*OllamaProvider, error) {
	return newOllamaProvider(cfg, http.DefaultClient)
}

func newOllamaProvider(cfg OllamaConfig, httpClient *http.Client) (*OllamaProvider, error) {
	if cfg.ServerURL == "" {
		return nil, fmt.Errorf("ollama server URL is required")
	}
	client, err := ollama.New(
		ollama.WithServerURL(cfg.ServerURL),
		ollama.WithModel(cfg.Model),
		ollama.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("create ollama client: %w", err)
	}
	return &OllamaProvider{client: client, model: cfg.Model}, nil
}

func (p *OllamaProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	system := req.System
	var opts []llms.CallOption
	if req.Temperature > 0 {
		opts = append(opts, llms.WithTemperature(req.Temperature))
	}
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}
	if req.Schema != nil {
		schemaDef, err := json.Marshal(req.Schema.Definition)
		if err != nil {
			return nil, fmt.Errorf("marshal schema: %w", err)
		}
		system += "\n\nRespond only with a JSON object matching this JSON schema:\n" + string(schemaDef)
		opts = append(opts, llms.WithJSONMode())
	}

	messages := make([]llms.MessageContent, 0, len(req.Messages)+1)
	if strings.TrimSpace(system) != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, system))
	}
	for _, m := range req.Messages {
		role := llms.ChatMessageTypeHuman
		if m.Role == RoleAssistant {
			role = llms.ChatMessageTypeAI
		}
		messages = append(messages, llms.TextParts(role, m.Content))
	}

	result, err := p.client.GenerateContent(ctx, messages, opts...)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &ErrProviderUnavailable{Err: err}
	}
	if len(result.Choices) == 0 {
		return nil, &ErrInvalidResponse{Err: fmt.Errorf("no choices in Ollama response")}
	}

	choice := result.Choices[0]
	text := stripThinking(choice.Content)
	if req.Schema != nil {
		text = extractJSONObject(text)
	}
	if text == "" {
		return nil, &ErrInvalidResponse{Err: fmt.Errorf("empty Ollama response")}
	}
	content := json.RawMessage(text)

	if req.Schema != nil {
		doc, err := structuredContent(req.Schema, content)
		if err != nil {
			return nil, err
		}
		content = doc
	}

	usage := Usage{
		InputTokens:  generationInt(choice.GenerationInfo, "PromptTokens"),
		OutputTokens: generationInt(choice.GenerationInfo, "CompletionTokens"),
	}
	usage.TotalTokens = usage.InputTokens + usage.OutputTokens

	return &Response{
		Content:    content,
		Usage:      usage,
		Model:      p.model,
		StopReason: "end",
	}, nil
}

func (p *OllamaProvider) ModelID() string {
	return p.model
}

// stripThinking removes a <think>...</think> block emitted by reasoning
// models ahead of the answer.
func stripThinking(s string) string {
	s = strings.TrimSpace(s)
	start := strings.Index(s, "<think>")
	if start == -1 {
		return s
	}
	end := strings.Index(s, "</think>")
	if end == -1 || end < start {
		return s
	}
	return strings.TrimSpace(s[:start] + s[end+len("</think>"):])
}

// extractJSONObject trims any prose around the outermost JSON object.
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end < start {
		return s
	}
	return s[start : end+1]
}

func generationInt(info map[string]any, key string) int {
	switch v := info[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}
