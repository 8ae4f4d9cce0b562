// Package readingtest provides well-formed sessions and evaluations for tests.
package readingtest

import (
	"encoding/json"

	"github.com/abhisek/readiz/internal/reading"
)

// Passage is a short passage about the environment.
const Passage = `Coral reefs cover less than one percent of the ocean floor, yet they support about a quarter of all marine species.

Rising sea temperatures cause corals to expel the algae that feed them, a process known as bleaching. Bleached reefs can recover, but only if the water cools quickly enough.

Scientists are now testing heat-resistant corals that might help damaged reefs regrow.`

// Questions returns four valid questions, one per type, with IDs q1..q4.
func Questions() []reading.Question {
	return []reading.Question{
		{
			ID:            "q1",
			Type:          reading.ExplicitInformation,
			QuestionText:  "What share of marine species do coral reefs support?",
			Options:       []string{"About a tenth", "About a quarter", "About half", "Almost all"},
			CorrectAnswer: "About a quarter",
		},
		{
			ID:            "q2",
			Type:          reading.ImplicitInformation,
			QuestionText:  "What can be inferred about bleached reefs?",
			Options:       []string{"They are always dead", "They grow faster", "Their survival depends on temperature", "They attract more fish"},
			CorrectAnswer: "Their survival depends on temperature",
		},
		{
			ID:            "q3",
			Type:          reading.CriticalThinking,
			QuestionText:  "Should governments fund heat-resistant coral research? Explain.",
			CorrectAnswer: "Yes, because reefs support a large share of marine life and cannot recover on their own if warming continues.",
		},
		{
			ID:            "q4",
			Type:          reading.VocabularyInContext,
			QuestionText:  "In the passage, what does \"expel\" mean?",
			Options:       []string{"Absorb", "Force out", "Protect", "Feed"},
			CorrectAnswer: "Force out",
		},
	}
}

// Session returns a valid session built from Passage and Questions.
func Session() reading.SessionData {
	return reading.SessionData{Passage: Passage, Questions: Questions()}
}

// Answers returns an answer for every question; the first three are correct.
func Answers() reading.UserAnswers {
	return reading.UserAnswers{
		"q1": "About a quarter",
		"q2": "Their survival depends on temperature",
		"q3": "Yes, because so many species depend on reefs.",
		"q4": "Absorb",
	}
}

// Evaluation returns a valid evaluation of Answers with the given score.
// The first score questions are marked correct.
func Evaluation(score int) reading.EvaluationResult {
	qs := Questions()
	answers := Answers()
	feedback := make([]reading.Feedback, len(qs))
	for i, q := range qs {
		feedback[i] = reading.Feedback{
			QuestionID:   q.ID,
			QuestionText: q.QuestionText,
			UserAnswer:   answers[q.ID],
			IsCorrect:    i < score,
			Explanation:  "See the second paragraph.",
		}
	}
	return reading.EvaluationResult{
		Score:          score,
		TotalQuestions: len(qs),
		Strengths:      "You located stated facts quickly.",
		AreasForGrowth: "Look closely at how words are used in context.",
		Feedback:       feedback,
		Recommendations: []reading.Recommendation{
			{Title: "The Language of Oceans", Reason: "To practice vocabulary in context"},
			{Title: "Why Glaciers Matter", Reason: "To practice inference skills"},
		},
	}
}

// JSON marshals v, panicking on error.
func JSON(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
