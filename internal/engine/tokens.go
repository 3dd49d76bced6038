package engine

import (
	"math"
	"strings"
)

// EstimateTokens estimates the token count of a prompt using a word-based
// heuristic (1.3 tokens per word). The exact count is only known to the
// native tokenizer; the estimate is used for budget arithmetic on the Go
// side and the margin in Params absorbs the error.
func EstimateTokens(text string) int {
	words := strings.Fields(strings.TrimSpace(text))
	return int(math.Ceil(float64(len(words)) * 1.3))
}

// ClampBudget lowers maxTokens so promptTokens + maxTokens never exceeds
// window - margin. Generation must not fail from this arithmetic alone, so
// the result is floored at 1 even when the prompt already fills the window.
func ClampBudget(promptTokens, maxTokens, window, margin int) int {
	if window <= 0 {
		return maxTokens
	}
	if avail := window - margin - promptTokens; maxTokens > avail {
		maxTokens = avail
	}
	if maxTokens < 1 {
		maxTokens = 1
	}
	return maxTokens
}
