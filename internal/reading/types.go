package reading

import (
	"strings"
	"time"
)

// QuestionType is one of the four comprehension skills a session samples.
type QuestionType string

const (
	ExplicitInformation QuestionType = "Explicit Information"
	ImplicitInformation QuestionType = "Implicit Information"
	CriticalThinking    QuestionType = "Critical Thinking"
	VocabularyInContext QuestionType = "Vocabulary/Sentence Appropriateness"
)

// AllQuestionTypes lists the question types in the order a session asks them.
var AllQuestionTypes = []QuestionType{
	ExplicitInformation,
	ImplicitInformation,
	CriticalThinking,
	VocabularyInContext,
}

// Valid reports whether t is one of the four known question types.
func (t QuestionType) Valid() bool {
	for _, known := range AllQuestionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Label returns a short display label for the question type.
func (t QuestionType) Label() string {
	switch t {
	case ExplicitInformation:
		return "Explicit"
	case ImplicitInformation:
		return "Implicit"
	case CriticalThinking:
		return "Critical Thinking"
	case VocabularyInContext:
		return "Vocabulary"
	default:
		return string(t)
	}
}

// QuestionCount is the number of questions in every session.
const QuestionCount = 4

// OptionCount is the number of options on a multiple-choice question.
const OptionCount = 4

// RecommendationCount is the number of follow-up topics in an evaluation.
const RecommendationCount = 2

// QuestionIDs are the stable identifiers assigned in generation order.
var QuestionIDs = []string{"q1", "q2", "q3", "q4"}

// Question is a single comprehension question about a passage.
type Question struct {
	ID           string       `json:"id"`
	Type         QuestionType `json:"type"`
	QuestionText string       `json:"questionText"`

	// Options holds exactly four choices for every type except
	// CriticalThinking, which is open-ended and has none.
	Options []string `json:"options,omitempty"`

	// CorrectAnswer equals one of Options for multiple-choice questions
	// and is a model answer for CriticalThinking.
	CorrectAnswer string `json:"correctAnswer"`
}

// IsOpenEnded reports whether the question expects a free-text answer.
func (q Question) IsOpenEnded() bool {
	return q.Type == CriticalThinking
}

// SessionData is one passage plus its four questions.
type SessionData struct {
	Passage   string     `json:"passage"`
	Questions []Question `json:"questions"`
}

// Paragraphs splits the passage on blank lines, dropping empty paragraphs.
func (s SessionData) Paragraphs() []string {
	normalized := strings.ReplaceAll(s.Passage, "\r\n", "\n")
	var out []string
	for _, p := range strings.Split(normalized, "\n\n") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Question returns the question with the given ID.
func (s SessionData) Question(id string) (Question, bool) {
	for _, q := range s.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// UserAnswers maps question IDs to the learner's answer.
type UserAnswers map[string]string

// Clone returns a copy of the answers.
func (a UserAnswers) Clone() UserAnswers {
	out := make(UserAnswers, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Covers reports whether every question has a non-blank answer.
func (a UserAnswers) Covers(questions []Question) bool {
	for _, q := range questions {
		if strings.TrimSpace(a[q.ID]) == "" {
			return false
		}
	}
	return true
}

// Feedback explains the grading of one answer.
type Feedback struct {
	QuestionID   string `json:"questionId"`
	QuestionText string `json:"questionText"`
	UserAnswer   string `json:"userAnswer"`
	IsCorrect    bool   `json:"isCorrect"`
	Explanation  string `json:"explanation"`
}

// Recommendation is a suggested follow-up article.
type Recommendation struct {
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

// EvaluationResult is the graded outcome of a session.
type EvaluationResult struct {
	Score           int              `json:"score"`
	TotalQuestions  int              `json:"totalQuestions"`
	Strengths       string           `json:"strengths"`
	AreasForGrowth  string           `json:"areasForGrowth"`
	Feedback        []Feedback       `json:"feedback"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Encouragement returns the closing line shown with the score.
func (r EvaluationResult) Encouragement() string {
	if r.Score > 2 {
		return "Great job! You're making excellent progress."
	}
	return "Keep practicing, you'll get there!"
}

// ReadingMaterial is an instructor-supplied unit of content.
type ReadingMaterial struct {
	ID        string
	Title     string
	Content   MaterialContent
	CreatedAt time.Time
}
