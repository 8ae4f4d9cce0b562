package evaluation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/readiz/internal/reading"
)

const systemPrompt = `You grade reading comprehension answers for a tutoring app and give supportive, educational feedback.

INSTRUCTIONS:
1. Compare each student answer with the correct answer for that question. For the "Critical Thinking" question, be flexible: mark it correct when the student's reasoning is sound and grounded in the passage, even if it does not match the model answer.
2. score is the number of answers you marked correct. totalQuestions is the number of questions.
3. Summarize the student's strengths and areas for growth based on the types of questions they got right or wrong.
4. Give one feedback entry per question, in the same order as the questions. Copy questionId and questionText from the question and userAnswer from the student's answers.
5. Suggest exactly two new article topics to help them practice their weaker skills.

Use plain text only, no Markdown.`

// promptQuestion is the question shape shown to the grader. Options are
// omitted for open-ended questions.
type promptQuestion struct {
	ID            string   `json:"id"`
	Type          string   `json:"type"`
	QuestionText  string   `json:"questionText"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correctAnswer"`
}

func buildUserMessage(passage string, questions []reading.Question, answers reading.UserAnswers, age int) (string, error) {
	pq := make([]promptQuestion, len(questions))
	ordered := make([]orderedAnswer, len(questions))
	for i, q := range questions {
		pq[i] = promptQuestion{
			ID:            q.ID,
			Type:          string(q.Type),
			QuestionText:  q.QuestionText,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
		}
		ordered[i] = orderedAnswer{QuestionID: q.ID, Answer: answers[q.ID]}
	}

	qJSON, err := json.MarshalIndent(pq, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal questions: %w", err)
	}
	aJSON, err := json.MarshalIndent(ordered, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal answers: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Student: a %d-year-old reader\n\n", age)
	b.WriteString("Reading passage:\n---\n")
	b.WriteString(passage)
	b.WriteString("\n---\n\n")
	b.WriteString("Questions and correct answers:\n---\n")
	b.Write(qJSON)
	b.WriteString("\n---\n\n")
	b.WriteString("Student's answers:\n---\n")
	b.Write(aJSON)
	b.WriteString("\n---\n\n")
	b.WriteString("Evaluate the student's answers.\n")
	return b.String(), nil
}

// orderedAnswer lists answers in question order.
type orderedAnswer struct {
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
}
