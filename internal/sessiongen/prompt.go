package sessiongen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a reading tutor who writes comprehension practice for young readers.

RULES:
- Write exactly 4 questions, one of each type, in this order:
  1. "Explicit Information": asks about information stated directly in the text.
  2. "Implicit Information": asks the reader to infer meaning that is not directly stated.
  3. "Critical Thinking": asks for an opinion, evaluation, or real-world application of the text's ideas. Open-ended, with an empty options array.
  4. "Vocabulary/Sentence Appropriateness": asks for the meaning of a specific word or sentence from the passage in its context.
- Question ids are "q1", "q2", "q3", "q4" in that order.
- Every multiple-choice question has 4 plausible options and exactly one is correct. correctAnswer repeats the correct option text exactly.
- For the Critical Thinking question, correctAnswer is a short model answer.
- Every question must be answerable from the passage alone.
- Use plain text only, no Markdown.`

func buildTopicMessage(topic string, age int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n", topic)
	fmt.Fprintf(&b, "Reader: a %d-year-old student\n", age)
	b.WriteString("\nWrite a reading passage of about 300-400 words on this topic. ")
	fmt.Fprintf(&b, "It should be informative, well-structured, and written at a level appropriate for a %d-year-old, ", age)
	b.WriteString("with paragraphs separated by blank lines.\n")
	b.WriteString("Then write the 4 questions about your passage.\n")
	return b.String()
}

func buildPassageMessage(passage string, age int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Reader: a %d-year-old student\n", age)
	b.WriteString("\nPassage:\n")
	b.WriteString("---\n")
	b.WriteString(passage)
	b.WriteString("\n---\n")
	b.WriteString("\nWrite the 4 questions about this passage. Do not rewrite the passage.\n")
	return b.String()
}
