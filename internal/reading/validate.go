package reading

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSession is returned when a session breaks a structural invariant.
var ErrInvalidSession = errors.New("invalid session")

// ErrInvalidEvaluation is returned when an evaluation breaks a structural invariant.
var ErrInvalidEvaluation = errors.New("invalid evaluation")

// ValidateQuestions checks the four-question invariant: IDs q1..q4 in order,
// one question per type, and four options containing the correct answer on
// every multiple-choice question.
func ValidateQuestions(questions []Question) error {
	if len(questions) != QuestionCount {
		return fmt.Errorf("%w: expected %d questions, got %d", ErrInvalidSession, QuestionCount, len(questions))
	}

	seen := make(map[QuestionType]bool, QuestionCount)
	for i, q := range questions {
		if q.ID != QuestionIDs[i] {
			return fmt.Errorf("%w: question %d has id %q, want %q", ErrInvalidSession, i+1, q.ID, QuestionIDs[i])
		}
		if !q.Type.Valid() {
			return fmt.Errorf("%w: question %s has unknown type %q", ErrInvalidSession, q.ID, q.Type)
		}
		if seen[q.Type] {
			return fmt.Errorf("%w: duplicate question type %q", ErrInvalidSession, q.Type)
		}
		seen[q.Type] = true

		if strings.TrimSpace(q.QuestionText) == "" {
			return fmt.Errorf("%w: question %s has empty text", ErrInvalidSession, q.ID)
		}
		if strings.TrimSpace(q.CorrectAnswer) == "" {
			return fmt.Errorf("%w: question %s has empty correct answer", ErrInvalidSession, q.ID)
		}

		if q.IsOpenEnded() {
			continue
		}
		if len(q.Options) != OptionCount {
			return fmt.Errorf("%w: question %s has %d options, want %d", ErrInvalidSession, q.ID, len(q.Options), OptionCount)
		}
		found := false
		for _, opt := range q.Options {
			if strings.TrimSpace(opt) == "" {
				return fmt.Errorf("%w: question %s has an empty option", ErrInvalidSession, q.ID)
			}
			if opt == q.CorrectAnswer {
				found = true
			}
		}
		if !found {
			return fmt.Errorf("%w: question %s correct answer is not one of its options", ErrInvalidSession, q.ID)
		}
	}
	return nil
}

// ValidateSession checks a complete session: a non-empty passage plus the
// question invariant.
func ValidateSession(s SessionData) error {
	if strings.TrimSpace(s.Passage) == "" {
		return fmt.Errorf("%w: empty passage", ErrInvalidSession)
	}
	return ValidateQuestions(s.Questions)
}

// ValidateEvaluation checks an evaluation against the questions it grades.
func ValidateEvaluation(r EvaluationResult, questions []Question) error {
	if r.TotalQuestions != len(questions) {
		return fmt.Errorf("%w: totalQuestions is %d, want %d", ErrInvalidEvaluation, r.TotalQuestions, len(questions))
	}
	if r.Score < 0 || r.Score > r.TotalQuestions {
		return fmt.Errorf("%w: score %d outside 0..%d", ErrInvalidEvaluation, r.Score, r.TotalQuestions)
	}
	if len(r.Feedback) != r.TotalQuestions {
		return fmt.Errorf("%w: %d feedback entries for %d questions", ErrInvalidEvaluation, len(r.Feedback), r.TotalQuestions)
	}

	correct := 0
	for i, fb := range r.Feedback {
		if fb.QuestionID != questions[i].ID {
			return fmt.Errorf("%w: feedback %d is for %q, want %q", ErrInvalidEvaluation, i+1, fb.QuestionID, questions[i].ID)
		}
		if fb.IsCorrect {
			correct++
		}
	}
	if correct != r.Score {
		return fmt.Errorf("%w: score %d but %d answers marked correct", ErrInvalidEvaluation, r.Score, correct)
	}

	if len(r.Recommendations) != RecommendationCount {
		return fmt.Errorf("%w: %d recommendations, want %d", ErrInvalidEvaluation, len(r.Recommendations), RecommendationCount)
	}
	return nil
}
