package nlu

import (
	"context"
	"strings"

	"questd/pkg/types"
)

// taskKeywords mark a message as a task-creation command.
var taskKeywords = []string{
	"create", "build", "add", "new", "help me", "task",
}

// questionKeywords mark a message as a question. "?" is checked separately.
var questionKeywords = []string{
	"how", "what", "why", "when", "where", "can you", "could you", "should i",
}

// DetectIntent classifies one message. The rule pass is authoritative when
// it fires; the model is consulted only for truly ambiguous messages, and
// an unmatched or failed AI pass defaults to Question, the safer
// non-mutating branch.
func (p *Pipeline) DetectIntent(ctx context.Context, message string) types.Intent {
	lower := strings.ToLower(message)

	hasTask := containsAny(lower, taskKeywords)
	hasQuestion := containsAny(lower, questionKeywords) || strings.Contains(lower, "?")

	if hasTask && !hasQuestion {
		return types.IntentCreateTask
	}
	if hasQuestion {
		return types.IntentQuestion
	}

	out, err := p.gen.Generate(ctx, IntentPrompt(message), intentMaxTokens, p.intentTimeout)
	if err != nil {
		p.log.Debug().Err(err).Msg("intent AI pass unavailable; defaulting to question")
		return types.IntentQuestion
	}
	return matchIntentWord(out)
}

// matchIntentWord maps a raw model response onto an intent by substring
// match against the two category words. Question is checked first so a
// rambling response that mentions both stays non-mutating.
func matchIntentWord(out string) types.Intent {
	norm := strings.ToLower(strings.TrimSpace(out))
	switch {
	case strings.Contains(norm, "question"):
		return types.IntentQuestion
	case strings.Contains(norm, "task"):
		return types.IntentCreateTask
	default:
		return types.IntentQuestion
	}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
