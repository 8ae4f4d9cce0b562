package sessiongen

import (
	"github.com/abhisek/readiz/internal/llm"
	"github.com/abhisek/readiz/internal/reading"
)

func questionTypeEnum() []any {
	out := make([]any, len(reading.AllQuestionTypes))
	for i, t := range reading.AllQuestionTypes {
		out[i] = string(t)
	}
	return out
}

func questionsProperty() map[string]any {
	return map[string]any{
		"type":        "array",
		"description": "Exactly 4 questions about the passage, one of each type, with ids q1, q2, q3, q4 in order.",
		"minItems":    reading.QuestionCount,
		"maxItems":    reading.QuestionCount,
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id": map[string]any{
					"type":        "string",
					"description": "The question identifier: q1, q2, q3, or q4.",
				},
				"type": map[string]any{
					"type":        "string",
					"enum":        questionTypeEnum(),
					"description": "The comprehension skill this question checks.",
				},
				"questionText": map[string]any{
					"type":        "string",
					"description": "The text of the question.",
				},
				"options": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "Exactly 4 multiple-choice options. Empty array for the Critical Thinking question.",
				},
				"correctAnswer": map[string]any{
					"type":        "string",
					"description": "For multiple choice, the text of the correct option. For Critical Thinking, a model answer.",
				},
			},
			"required":             []any{"id", "type", "questionText", "options", "correctAnswer"},
			"additionalProperties": false,
		},
	}
}

// SessionSchema is the response shape for topic mode: a passage plus questions.
var SessionSchema = &llm.Schema{
	Name:        "reading-session",
	Description: "A reading passage and four comprehension questions about it",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"passage": map[string]any{
				"type":        "string",
				"description": "A 300-400 word informative article on the topic. Paragraphs separated by blank lines.",
			},
			"questions": questionsProperty(),
		},
		"required":             []any{"passage", "questions"},
		"additionalProperties": false,
	},
}

// QuestionsSchema is the response shape for passage mode.
var QuestionsSchema = &llm.Schema{
	Name:        "reading-questions",
	Description: "Four comprehension questions about a supplied passage",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": questionsProperty(),
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
