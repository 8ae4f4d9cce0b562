package reading_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/readiz/internal/reading"
	"github.com/abhisek/readiz/internal/reading/readingtest"
)

func TestValidateSession_Valid(t *testing.T) {
	require.NoError(t, reading.ValidateSession(readingtest.Session()))
}

func TestValidateQuestions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func([]reading.Question) []reading.Question
	}{
		{"too few", func(qs []reading.Question) []reading.Question { return qs[:3] }},
		{"wrong id", func(qs []reading.Question) []reading.Question { qs[1].ID = "q7"; return qs }},
		{"duplicate type", func(qs []reading.Question) []reading.Question {
			qs[3].Type = reading.ExplicitInformation
			return qs
		}},
		{"unknown type", func(qs []reading.Question) []reading.Question { qs[0].Type = "Trivia"; return qs }},
		{"three options", func(qs []reading.Question) []reading.Question { qs[0].Options = qs[0].Options[:3]; return qs }},
		{"answer not an option", func(qs []reading.Question) []reading.Question { qs[3].CorrectAnswer = "Swim"; return qs }},
		{"empty text", func(qs []reading.Question) []reading.Question { qs[2].QuestionText = "  "; return qs }},
		{"empty model answer", func(qs []reading.Question) []reading.Question { qs[2].CorrectAnswer = ""; return qs }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := reading.ValidateQuestions(tt.mutate(readingtest.Questions()))
			require.Error(t, err)
			assert.True(t, errors.Is(err, reading.ErrInvalidSession))
		})
	}
}

func TestValidateSession_EmptyPassage(t *testing.T) {
	s := readingtest.Session()
	s.Passage = "\n\n"
	assert.ErrorIs(t, reading.ValidateSession(s), reading.ErrInvalidSession)
}

func TestValidateEvaluation(t *testing.T) {
	qs := readingtest.Questions()
	require.NoError(t, reading.ValidateEvaluation(readingtest.Evaluation(3), qs))

	tests := []struct {
		name   string
		mutate func(*reading.EvaluationResult)
	}{
		{"score mismatch", func(r *reading.EvaluationResult) { r.Score = 2 }},
		{"score above total", func(r *reading.EvaluationResult) { r.Score = 5 }},
		{"wrong total", func(r *reading.EvaluationResult) { r.TotalQuestions = 5 }},
		{"missing feedback", func(r *reading.EvaluationResult) { r.Feedback = r.Feedback[:3] }},
		{"feedback out of order", func(r *reading.EvaluationResult) {
			r.Feedback[0], r.Feedback[1] = r.Feedback[1], r.Feedback[0]
		}},
		{"one recommendation", func(r *reading.EvaluationResult) { r.Recommendations = r.Recommendations[:1] }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := readingtest.Evaluation(3)
			tt.mutate(&r)
			assert.ErrorIs(t, reading.ValidateEvaluation(r, qs), reading.ErrInvalidEvaluation)
		})
	}
}

func TestParagraphs(t *testing.T) {
	s := reading.SessionData{Passage: "One.\r\n\r\nTwo.\n\n\n\nThree."}
	assert.Equal(t, []string{"One.", "Two.", "Three."}, s.Paragraphs())
}

func TestUserAnswers_Covers(t *testing.T) {
	qs := readingtest.Questions()
	answers := readingtest.Answers()
	assert.True(t, answers.Covers(qs))

	answers["q2"] = "   "
	assert.False(t, answers.Covers(qs))
}

func TestEncouragement(t *testing.T) {
	assert.Equal(t, "Great job! You're making excellent progress.", readingtest.Evaluation(3).Encouragement())
	assert.Equal(t, "Keep practicing, you'll get there!", readingtest.Evaluation(2).Encouragement())
}

func TestMaterialContent(t *testing.T) {
	assert.True(t, reading.MaterialContent{}.IsEmpty())
	assert.True(t, reading.TextContent("  ").IsEmpty())
	assert.False(t, reading.URLContent("https://example.com").IsEmpty())
	assert.True(t, reading.PDFContent("a.pdf", nil).IsEmpty())

	c := reading.DOCXContent("notes.docx", []byte("PK"))
	assert.Equal(t, reading.KindDOCX, c.Kind())
	assert.Equal(t, "DOCX", c.Kind().Badge())
	assert.Equal(t, "notes.docx", c.Describe())
}
