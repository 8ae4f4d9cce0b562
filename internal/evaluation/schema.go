package evaluation

import (
	"github.com/abhisek/readiz/internal/llm"
	"github.com/abhisek/readiz/internal/reading"
)

// EvaluationSchema is the response shape of a graded session.
var EvaluationSchema = &llm.Schema{
	Name:        "reading-evaluation",
	Description: "Grading, feedback, and follow-up topics for a reading session",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"score": map[string]any{
				"type":        "integer",
				"minimum":     0,
				"maximum":     reading.QuestionCount,
				"description": "The number of questions answered correctly.",
			},
			"totalQuestions": map[string]any{
				"type":        "integer",
				"description": "The total number of questions, which should be 4.",
			},
			"strengths": map[string]any{
				"type":        "string",
				"description": "A brief, encouraging summary (1-2 sentences) of what the student did well, based on their correct answers.",
			},
			"areasForGrowth": map[string]any{
				"type":        "string",
				"description": "A brief, constructive summary (1-2 sentences) of areas for improvement, based on their incorrect answers.",
			},
			"feedback": map[string]any{
				"type":        "array",
				"description": "One feedback object per question, in question order.",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"questionId":   map[string]any{"type": "string"},
						"questionText": map[string]any{"type": "string"},
						"userAnswer":   map[string]any{"type": "string"},
						"isCorrect":    map[string]any{"type": "boolean"},
						"explanation": map[string]any{
							"type":        "string",
							"description": "Why the answer is correct or incorrect. For incorrect answers, gently correct the misunderstanding and explain the right answer with reasoning from the text.",
						},
					},
					"required":             []any{"questionId", "questionText", "userAnswer", "isCorrect", "explanation"},
					"additionalProperties": false,
				},
			},
			"recommendations": map[string]any{
				"type":        "array",
				"description": "Two new article topics, slightly above the student's level, to practice the skills in areasForGrowth.",
				"minItems":    reading.RecommendationCount,
				"maxItems":    reading.RecommendationCount,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"title": map[string]any{
							"type":        "string",
							"description": "The title of the recommended article.",
						},
						"reason": map[string]any{
							"type":        "string",
							"description": "A short reason for the recommendation, e.g. 'To practice inference skills'.",
						},
					},
					"required":             []any{"title", "reason"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"score", "totalQuestions", "strengths", "areasForGrowth", "feedback", "recommendations"},
		"additionalProperties": false,
	},
}
