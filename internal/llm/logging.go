package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/readiz/internal/logger"
	"github.com/abhisek/readiz/internal/store"
)

// LoggingProvider is a decorator that records every LLM request in the
// audit log and the process logger.
type LoggingProvider struct {
	inner         Provider
	eventRepo     store.EventRepo
	captureBodies bool
}

// WithLogging wraps a Provider with event logging. A nil repo only logs
// through zap. Prompt and response bodies are stored only when
// captureBodies is set.
func WithLogging(p Provider, repo store.EventRepo, captureBodies bool) Provider {
	return &LoggingProvider{inner: p, eventRepo: repo, captureBodies: captureBodies}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)

	latency := time.Since(start)

	data := store.LLMRequestEventData{
		Provider:  providerName(l.inner),
		Model:     l.inner.ModelID(),
		Purpose:   purpose,
		LatencyMs: latency.Milliseconds(),
		Success:   err == nil,
	}
	if l.captureBodies {
		data.RequestBody = serializeRequest(req)
	}

	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
		if l.captureBodies {
			data.ResponseBody = string(resp.Content)
		}
	}

	log := logger.Get().With(
		zap.String("purpose", purpose),
		zap.String("model", data.Model),
		zap.Duration("latency", latency))
	if err != nil {
		data.ErrorMessage = err.Error()
		log.Warn("LLM request failed", zap.Error(err))
	} else {
		log.Debug("LLM request completed",
			zap.Int("input_tokens", data.InputTokens),
			zap.Int("output_tokens", data.OutputTokens))
	}

	if l.eventRepo != nil {
		// Don't fail the request if logging fails. The request context may
		// already be cancelled, so the write gets its own.
		writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if logErr := l.eventRepo.AppendLLMRequest(writeCtx, data); logErr != nil {
			logger.Get().Warn("failed to record LLM request event", zap.Error(logErr))
		}
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

func (l *LoggingProvider) SupportsWebSearch() bool {
	return SupportsWebSearch(l.inner)
}

// Unwrap returns the decorated provider.
func (l *LoggingProvider) Unwrap() Provider {
	return l.inner
}

// providerName reports a short provider label for the audit log.
func providerName(p Provider) string {
	switch p.(type) {
	case *GeminiProvider:
		return "gemini"
	case *OpenRouterProvider:
		return "openrouter"
	case *OpenAIProvider:
		return "openai"
	case *AnthropicProvider:
		return "anthropic"
	case *OllamaProvider:
		return "ollama"
	case *MockProvider:
		return "mock"
	default:
		return fmt.Sprintf("%T", p)
	}
}

// serializeRequest builds a readable representation of the LLM request.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n", m.Role)
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}

	if req.WebSearch {
		b.WriteString("[tools: web search]\n")
	}

	if req.Schema != nil {
		schemaDef, err := json.Marshal(req.Schema.Definition)
		if err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n", req.Schema.Name)
			b.Write(schemaDef)
			b.WriteString("\n")
		}
	}

	return b.String()
}
