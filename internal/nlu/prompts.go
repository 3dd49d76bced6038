package nlu

import (
	"fmt"
	"strings"
)

// Prompts are pure template-rendering functions over structured inputs so
// the exact text sent to the model is assertable in tests.

type promptExample struct {
	in  string
	out string
}

var intentExamples = []promptExample{
	{in: "help me add a task to drink more water", out: "TASK"},
	{in: "how do I earn more coins?", out: "QUESTION"},
	{in: "I want to start jogging every morning", out: "TASK"},
}

// IntentPrompt renders the few-shot classification prompt. The model is
// asked for a single category word; the caller caps generation at a handful
// of tokens.
func IntentPrompt(message string) string {
	var b strings.Builder
	b.WriteString("Classify the user message as TASK or QUESTION. Answer with one word.\n\n")
	for _, ex := range intentExamples {
		fmt.Fprintf(&b, "Message: %q\nCategory: %s\n\n", ex.in, ex.out)
	}
	fmt.Fprintf(&b, "Message: %q\nCategory:", message)
	return b.String()
}

var titleExamples = []promptExample{
	{in: "help me create a task, I want to read 20 pages before bed", out: "Read 20 pages before bed"},
	{in: "add a new main task: finish the quarterly report", out: "Finish the quarterly report"},
	{in: "I hope to practice guitar more, make it a daily task", out: "Practice guitar"},
}

// TitlePrompt renders the few-shot title-extraction prompt. The model is
// asked to continue a "Title:" line.
func TitlePrompt(message string) string {
	var b strings.Builder
	b.WriteString("Extract a short task title (under 8 words) from the user message.\n\n")
	for _, ex := range titleExamples {
		fmt.Fprintf(&b, "Message: %q\nTitle: %s\n\n", ex.in, ex.out)
	}
	fmt.Fprintf(&b, "Message: %q\nTitle:", message)
	return b.String()
}

// AnswerPrompt renders the question-answering prompt with the assistant
// preamble.
func AnswerPrompt(question string) string {
	var b strings.Builder
	b.WriteString("You are a friendly productivity assistant inside a task-tracker app. ")
	b.WriteString("Answer the user's question briefly and practically, in at most three sentences.\n\n")
	fmt.Fprintf(&b, "Question: %s\nAnswer:", question)
	return b.String()
}

// ConfirmPrompt renders the task-creation confirmation prompt.
func ConfirmPrompt(title string) string {
	var b strings.Builder
	b.WriteString("You are a friendly productivity assistant. The user just created this task:\n")
	fmt.Fprintf(&b, "Task: %s\n", title)
	b.WriteString("Write one short, encouraging confirmation sentence.\nConfirmation:")
	return b.String()
}
