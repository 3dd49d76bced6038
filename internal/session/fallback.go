package session

import "strings"

// CannedResponder produces deterministic replies for turns where the model
// is absent, failed, or timed out. The assistant must stay useful in
// permanent rule-only mode, so these cover the two conversational branches.
type CannedResponder struct{}

// Answer returns a canned reply for a question turn.
func (CannedResponder) Answer(message string) string {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "task"):
		return "You can create a task by telling me what you want to do, for example: \"help me add a task to read 20 pages every night\"."
	case strings.Contains(lower, "reward"):
		return "Rewards are bought with coins you earn by completing tasks. Check the rewards tab to see what you can afford."
	case strings.Contains(lower, "habit"):
		return "Small daily tasks work best for habits: pick something you can finish in under half an hour and track it every day."
	default:
		return "I can help you track tasks and build habits. Tell me what you want to get done and I'll turn it into a task."
	}
}

// Confirm returns a canned confirmation for a created task.
func (CannedResponder) Confirm(title string) string {
	return "Added \"" + title + "\" to your tasks. Good luck!"
}

// Clarify asks the user to restate an unparseable task request.
func (CannedResponder) Clarify() string {
	return "I couldn't work out a task from that. Could you tell me in a few words what you want to do?"
}
