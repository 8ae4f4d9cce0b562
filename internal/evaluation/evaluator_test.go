package evaluation

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/readiz/internal/llm"
	"github.com/abhisek/readiz/internal/reading"
	"github.com/abhisek/readiz/internal/reading/readingtest"
)

func evaluate(t *testing.T, mock *llm.MockProvider) (*reading.EvaluationResult, error) {
	t.Helper()
	return New(mock, DefaultConfig()).Evaluate(context.Background(),
		readingtest.Passage, readingtest.Questions(), readingtest.Answers())
}

func TestEvaluate(t *testing.T) {
	want := readingtest.Evaluation(3)
	mock := llm.NewMockProvider(llm.MockResponse{Content: readingtest.JSON(want)})

	got, err := evaluate(t, mock)
	require.NoError(t, err)
	assert.Equal(t, want, *got)
	assert.Equal(t, 3, got.Score)
	assert.Equal(t, 4, got.TotalQuestions)
	assert.Len(t, got.Recommendations, 2)

	req, ok := mock.LastCall()
	require.True(t, ok)
	assert.Same(t, EvaluationSchema, req.Schema)
	assert.Contains(t, req.System, "Critical Thinking")
}

func TestEvaluate_PromptCarriesContext(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: readingtest.JSON(readingtest.Evaluation(2))})
	_, err := evaluate(t, mock)
	require.NoError(t, err)

	req, _ := mock.LastCall()
	msg := req.Messages[0].Content
	assert.Contains(t, msg, readingtest.Passage)
	assert.Contains(t, msg, `"correctAnswer": "About a quarter"`)
	assert.Contains(t, msg, `"answer": "Absorb"`)
	assert.Contains(t, msg, "14-year-old")

	// Answers are listed in question order.
	assert.Less(t, strings.Index(msg, `"questionId": "q1"`), strings.Index(msg, `"questionId": "q4"`))

	// The open-ended question carries no options.
	assert.Equal(t, 3, strings.Count(msg, `"options":`))
}

func TestEvaluate_ShapeFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *reading.EvaluationResult)
	}{
		{"score disagrees with feedback", func(r *reading.EvaluationResult) { r.Score = 2 }},
		{"wrong total", func(r *reading.EvaluationResult) { r.TotalQuestions = 5 }},
		{"missing feedback", func(r *reading.EvaluationResult) { r.Feedback = r.Feedback[:3] }},
		{"feedback out of order", func(r *reading.EvaluationResult) {
			r.Feedback[0], r.Feedback[1] = r.Feedback[1], r.Feedback[0]
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := readingtest.Evaluation(3)
			tt.mutate(&r)
			mock := llm.NewMockProvider(llm.MockResponse{Content: readingtest.JSON(r)})

			_, err := evaluate(t, mock)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrEvaluation)
			assert.ErrorIs(t, err, reading.ErrInvalidEvaluation)

			var eerr *Error
			require.True(t, errors.As(err, &eerr))
			assert.Equal(t, StageShape, eerr.Stage)
		})
	}
}

func TestEvaluate_SchemaViolations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *reading.EvaluationResult)
	}{
		{"one recommendation", func(r *reading.EvaluationResult) { r.Recommendations = r.Recommendations[:1] }},
		{"three recommendations", func(r *reading.EvaluationResult) {
			r.Recommendations = append(r.Recommendations, reading.Recommendation{Title: "x", Reason: "y"})
		}},
		{"negative score", func(r *reading.EvaluationResult) { r.Score = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := readingtest.Evaluation(1)
			tt.mutate(&r)
			mock := llm.NewMockProvider(llm.MockResponse{Content: readingtest.JSON(r)})

			_, err := evaluate(t, mock)
			assert.ErrorIs(t, err, ErrEvaluation)

			var eerr *Error
			require.True(t, errors.As(err, &eerr))
			assert.Equal(t, StageMalformed, eerr.Stage)
		})
	}
}

func TestEvaluate_NotJSON(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"score": "three"`)})
	_, err := evaluate(t, mock)
	assert.ErrorIs(t, err, ErrEvaluation)
}

func TestEvaluate_ProviderFailure(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrRateLimit{Err: errors.New("429")}})
	_, err := evaluate(t, mock)
	assert.ErrorIs(t, err, ErrEvaluation)

	var eerr *Error
	require.True(t, errors.As(err, &eerr))
	assert.Equal(t, StageService, eerr.Stage)

	var rl *llm.ErrRateLimit
	assert.True(t, errors.As(err, &rl))
}

func TestEvaluate_NoQuestions(t *testing.T) {
	mock := llm.NewMockProvider()
	_, err := New(mock, DefaultConfig()).Evaluate(context.Background(), readingtest.Passage, nil, nil)
	assert.ErrorIs(t, err, ErrEvaluation)
	assert.Equal(t, 0, mock.CallCount())
}

func TestEvaluate_TrimsText(t *testing.T) {
	r := readingtest.Evaluation(4)
	r.Strengths = "  Strong recall.\n"
	r.Recommendations[0].Title = " Deep Seas "
	mock := llm.NewMockProvider(llm.MockResponse{Content: readingtest.JSON(r)})

	got, err := evaluate(t, mock)
	require.NoError(t, err)
	assert.Equal(t, "Strong recall.", got.Strengths)
	assert.Equal(t, "Deep Seas", got.Recommendations[0].Title)
	assert.Equal(t, "Great job! You're making excellent progress.", got.Encouragement())
}
