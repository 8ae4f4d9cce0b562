// Package sessiongen asks the LLM for reading sessions: a passage with four
// comprehension questions, or questions for a passage the caller supplies.
package sessiongen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/readiz/internal/llm"
	"github.com/abhisek/readiz/internal/logger"
	"github.com/abhisek/readiz/internal/reading"
)

// Config controls the generation request.
type Config struct {
	// ReaderAge is the age the passage and questions are pitched at.
	ReaderAge int

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64
}

// DefaultConfig returns the recommended generation settings.
func DefaultConfig() Config {
	return Config{
		ReaderAge:   14,
		MaxTokens:   4096,
		Temperature: 0.7,
	}
}

// Generator produces reading sessions with an LLM provider.
type Generator struct {
	provider llm.Provider
	config   Config
}

// New creates a Generator.
func New(provider llm.Provider, cfg Config) *Generator {
	return &Generator{provider: provider, config: cfg}
}

// sessionOutput is the raw LLM response before validation. Passage is
// empty in passage mode.
type sessionOutput struct {
	Passage   string             `json:"passage"`
	Questions []reading.Question `json:"questions"`
}

// FromTopic generates a new passage about topic and four questions on it.
func (g *Generator) FromTopic(ctx context.Context, topic string) (*reading.SessionData, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, &Error{Reason: ReasonStructure, Err: errors.New("empty topic")}
	}
	ctx = llm.WithPurpose(ctx, "session-topic")

	raw, err := g.generate(ctx, SessionSchema, buildTopicMessage(topic, g.config.ReaderAge))
	if err != nil {
		return nil, err
	}

	session := &reading.SessionData{
		Passage:   strings.TrimSpace(raw.Passage),
		Questions: normalizeQuestions(raw.Questions),
	}
	if err := reading.ValidateSession(*session); err != nil {
		return nil, &Error{Reason: ReasonStructure, Err: err}
	}

	logger.Get().Debug("session generated",
		zap.String("topic", topic),
		zap.Int("passage_len", len(session.Passage)))
	return session, nil
}

// FromPassage generates four questions about passage. The returned session
// carries passage unchanged.
func (g *Generator) FromPassage(ctx context.Context, passage string) (*reading.SessionData, error) {
	if strings.TrimSpace(passage) == "" {
		return nil, &Error{Reason: ReasonStructure, Err: errors.New("empty passage")}
	}
	ctx = llm.WithPurpose(ctx, "session-passage")

	raw, err := g.generate(ctx, QuestionsSchema, buildPassageMessage(passage, g.config.ReaderAge))
	if err != nil {
		return nil, err
	}

	session := &reading.SessionData{
		Passage:   passage,
		Questions: normalizeQuestions(raw.Questions),
	}
	if err := reading.ValidateSession(*session); err != nil {
		return nil, &Error{Reason: ReasonStructure, Err: err}
	}

	logger.Get().Debug("questions generated", zap.Int("passage_len", len(passage)))
	return session, nil
}

func (g *Generator) generate(ctx context.Context, schema *llm.Schema, userMsg string) (*sessionOutput, error) {
	req := llm.Request{
		System:      systemPrompt,
		Messages:    llm.UserMessage(userMsg),
		Schema:      schema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	start := time.Now()
	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		logger.Get().Warn("session generation failed",
			zap.String("schema", schema.Name),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		reason := ReasonService
		var invalid *llm.ErrInvalidResponse
		if errors.As(err, &invalid) {
			reason = ReasonMalformed
		}
		return nil, &Error{Reason: reason, Err: fmt.Errorf("LLM generation failed: %w", err)}
	}

	var raw sessionOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, &Error{Reason: ReasonMalformed, Err: fmt.Errorf("failed to parse LLM response: %w", err)}
	}
	return &raw, nil
}

// normalizeQuestions trims every field and drops options on open-ended
// questions, which some models fill anyway.
func normalizeQuestions(in []reading.Question) []reading.Question {
	out := make([]reading.Question, len(in))
	for i, q := range in {
		q.ID = strings.TrimSpace(q.ID)
		q.Type = reading.QuestionType(strings.TrimSpace(string(q.Type)))
		q.QuestionText = strings.TrimSpace(q.QuestionText)
		q.CorrectAnswer = strings.TrimSpace(q.CorrectAnswer)

		if q.IsOpenEnded() {
			q.Options = nil
		} else {
			opts := make([]string, len(q.Options))
			for j, o := range q.Options {
				opts[j] = strings.TrimSpace(o)
			}
			q.Options = opts
		}
		out[i] = q
	}
	return out
}
