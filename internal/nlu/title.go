package nlu

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"questd/pkg/types"
)

// Title length bounds after trimming, in runes.
const (
	titleMinLen = 2
	titleMaxLen = 50
)

// fallbackTruncateLen bounds the rule-extracted title.
const fallbackTruncateLen = 30

// placeholderTitle is used when the rule extractor strips everything away.
const placeholderTitle = "New task"

// titleDenyList rejects AI non-answers; matched as lowercase substrings.
var titleDenyList = []string{
	"none", "don't know", "dont know", "unknown", "not sure",
	"extraction failed", "no task", "n/a", "cannot", "sorry",
}

// labelPrefixes are stripped from the head of an AI response line.
var labelPrefixes = []string{"title:", "task:", "answer:", "output:"}

// taskVocab is removed outright by the fallback extractor: task-type words
// and the action verbs that introduce a request.
var taskVocab = regexp.MustCompile(`(?i)\b(help me|main task|side task|daily task|tasks|task|todo|create|build|add|make|new|please)\b`)

// intentPhrases introduce the payload of a request; the fallback extractor
// keeps only what follows the first one.
var intentPhrases = []string{
	"i want to ", "i hope to ", "i would like to ", "i plan to ", "i need to ", "i wanna ",
}

// temporalLeads are dropped from the head of the extracted remainder.
var temporalLeads = []string{
	"today", "tomorrow", "tonight", "this week", "this month", "later", "soon",
}

// ExtractTaskInfo turns a message into a task draft, or nil when the
// message carries no task indication at all. The AI pass is an enhancement:
// whenever it fails, times out, or its output is rejected by the validator,
// the deterministic fallback extractor supplies the title. The task type is
// always decided by rules; the model is never trusted with it.
func (p *Pipeline) ExtractTaskInfo(ctx context.Context, message string) *types.TaskDraft {
	lower := strings.ToLower(message)
	if !containsAny(lower, taskKeywords) && !containsAny(lower, intentPhrases) {
		// Cheap short-circuit: don't invoke the model for irrelevant chat.
		return nil
	}

	title := p.aiTitle(ctx, message)
	fromModel := title != ""
	if title == "" {
		title = FallbackTitle(message)
	}
	p.log.Debug().Bool("from_model", fromModel).Str("title", title).Msg("task title extracted")

	return &types.TaskDraft{
		Title:       title,
		Description: strings.TrimSpace(message),
		Type:        ClassifyTaskType(message),
	}
}

// aiTitle runs the few-shot extraction prompt and validates the result.
// Returns "" when the model is unavailable or the output is rejected.
func (p *Pipeline) aiTitle(ctx context.Context, message string) string {
	out, err := p.gen.Generate(ctx, TitlePrompt(message), titleMaxTokens, p.titleTimeout)
	if err != nil {
		p.log.Debug().Err(err).Msg("title AI pass unavailable; using rule extractor")
		return ""
	}
	return NormalizeTitle(out)
}

// NormalizeTitle cleans a raw model response into a candidate title:
// first line only, label prefixes stripped, surrounding quotes and trailing
// punctuation removed. Returns "" when the result fails validation.
func NormalizeTitle(raw string) string {
	s := raw
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)
	for _, pfx := range labelPrefixes {
		if len(s) >= len(pfx) && strings.EqualFold(s[:len(pfx)], pfx) {
			s = strings.TrimSpace(s[len(pfx):])
			break
		}
	}
	s = strings.Trim(s, `"'“”‘’`)
	s = strings.TrimRightFunc(s, func(r rune) bool {
		return unicode.IsPunct(r)
	})
	s = strings.TrimSpace(s)
	if !ValidateTitle(s) {
		return ""
	}
	return s
}

// ValidateTitle accepts a candidate title of 2-50 runes that is not a known
// non-answer. Pure; no truncation is applied here.
func ValidateTitle(s string) bool {
	n := len([]rune(s))
	if n < titleMinLen || n > titleMaxLen {
		return false
	}
	lower := strings.ToLower(s)
	for _, deny := range titleDenyList {
		if strings.Contains(lower, deny) {
			return false
		}
	}
	return true
}

// FallbackTitle extracts a title by pure string surgery: strip the task and
// action vocabulary, keep only what follows the first intent phrase, drop a
// leading temporal clause, flatten punctuation, collapse whitespace and
// truncate. The result is never blank or below the minimum title length.
func FallbackTitle(message string) string {
	s := taskVocab.ReplaceAllString(message, " ")

	lower := strings.ToLower(s)
	cut := -1
	cutLen := 0
	for _, phrase := range intentPhrases {
		if idx := strings.Index(lower, phrase); idx >= 0 && (cut < 0 || idx < cut) {
			cut = idx
			cutLen = len(phrase)
		}
	}
	if cut >= 0 {
		s = s[cut+cutLen:]
	}

	s = strings.TrimSpace(s)
	lower = strings.ToLower(s)
	for _, lead := range temporalLeads {
		if strings.HasPrefix(lower, lead) {
			s = strings.TrimLeft(s[len(lead):], " ,")
			break
		}
	}

	s = strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) {
			return ' '
		}
		return r
	}, s)
	s = strings.Join(strings.Fields(s), " ")

	if r := []rune(s); len(r) > fallbackTruncateLen {
		s = strings.TrimSpace(string(r[:fallbackTruncateLen]))
	}
	// A surfaced title is never shorter than the validator's minimum.
	if len([]rune(s)) < titleMinLen {
		return placeholderTitle
	}
	return s
}

// mainTypeKeywords and dailyTypeKeywords bucket tasks for reward magnitude.
var (
	mainTypeKeywords  = []string{"urgent", "important", "critical", "deadline", "main"}
	dailyTypeKeywords = []string{"daily", "habit", "every day", "each day", "every morning", "every night", "every evening", "routine"}
)

// ClassifyTaskType assigns the task bucket by keyword rules only. A wrong
// guess is low-stakes (it only affects reward magnitude) but the result
// must be deterministic.
func ClassifyTaskType(message string) types.TaskType {
	lower := strings.ToLower(message)
	if containsAny(lower, mainTypeKeywords) {
		return types.TaskMain
	}
	if containsAny(lower, dailyTypeKeywords) {
		return types.TaskDaily
	}
	return types.TaskSide
}
