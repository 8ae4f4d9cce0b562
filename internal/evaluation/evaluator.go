// Package evaluation grades a finished reading session with the LLM.
package evaluation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/readiz/internal/llm"
	"github.com/abhisek/readiz/internal/logger"
	"github.com/abhisek/readiz/internal/reading"
)

// ErrEvaluation matches every *Error.
var ErrEvaluation = errors.New("evaluation failed")

// Stage classifies where an evaluation failed.
type Stage string

const (
	// StageService covers transport and provider failures.
	StageService Stage = "service"
	// StageMalformed means the response was not JSON matching the schema.
	StageMalformed Stage = "malformed"
	// StageShape means the grading broke the score and feedback rules.
	StageShape Stage = "shape"
)

// Error is returned by Evaluator for every failure.
type Error struct {
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("evaluate answers (%s): %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == ErrEvaluation }

// Config controls the evaluation request.
type Config struct {
	ReaderAge   int
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the recommended evaluation settings.
func DefaultConfig() Config {
	return Config{
		ReaderAge:   14,
		MaxTokens:   4096,
		Temperature: 0.2,
	}
}

// Evaluator grades answers with an LLM provider.
type Evaluator struct {
	provider llm.Provider
	config   Config
}

// New creates an Evaluator.
func New(provider llm.Provider, cfg Config) *Evaluator {
	return &Evaluator{provider: provider, config: cfg}
}

// Evaluate grades answers to questions about passage. The result always
// has one feedback entry per question in question order, a score equal to
// the number of correct entries, and two recommendations.
func (e *Evaluator) Evaluate(ctx context.Context, passage string, questions []reading.Question, answers reading.UserAnswers) (*reading.EvaluationResult, error) {
	if len(questions) == 0 {
		return nil, &Error{Stage: StageShape, Err: errors.New("no questions to grade")}
	}
	ctx = llm.WithPurpose(ctx, "evaluation")

	userMsg, err := buildUserMessage(passage, questions, answers, e.config.ReaderAge)
	if err != nil {
		return nil, &Error{Stage: StageService, Err: err}
	}

	req := llm.Request{
		System:      systemPrompt,
		Messages:    llm.UserMessage(userMsg),
		Schema:      EvaluationSchema,
		MaxTokens:   e.config.MaxTokens,
		Temperature: e.config.Temperature,
	}

	resp, err := e.provider.Generate(ctx, req)
	if err != nil {
		logger.Get().Warn("evaluation request failed", zap.Error(err))
		stage := StageService
		var invalid *llm.ErrInvalidResponse
		if errors.As(err, &invalid) {
			stage = StageMalformed
		}
		return nil, &Error{Stage: stage, Err: fmt.Errorf("LLM evaluation failed: %w", err)}
	}

	var result reading.EvaluationResult
	if err := json.Unmarshal(resp.Content, &result); err != nil {
		return nil, &Error{Stage: StageMalformed, Err: fmt.Errorf("failed to parse LLM response: %w", err)}
	}
	trimResult(&result)

	if err := reading.ValidateEvaluation(result, questions); err != nil {
		logger.Get().Warn("evaluation has wrong shape",
			zap.Int("score", result.Score),
			zap.Int("feedback", len(result.Feedback)),
			zap.Error(err))
		return nil, &Error{Stage: StageShape, Err: err}
	}

	logger.Get().Debug("answers evaluated",
		zap.Int("score", result.Score),
		zap.Int("total", result.TotalQuestions))
	return &result, nil
}

func trimResult(r *reading.EvaluationResult) {
	r.Strengths = strings.TrimSpace(r.Strengths)
	r.AreasForGrowth = strings.TrimSpace(r.AreasForGrowth)
	for i := range r.Feedback {
		r.Feedback[i].QuestionID = strings.TrimSpace(r.Feedback[i].QuestionID)
		r.Feedback[i].Explanation = strings.TrimSpace(r.Feedback[i].Explanation)
	}
	for i := range r.Recommendations {
		r.Recommendations[i].Title = strings.TrimSpace(r.Recommendations[i].Title)
		r.Recommendations[i].Reason = strings.TrimSpace(r.Recommendations[i].Reason)
	}
}
