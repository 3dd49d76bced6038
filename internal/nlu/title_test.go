package nlu

import (
	"context"
	"errors"
	"strings"
	"testing"

	"questd/pkg/types"
)

func TestExtractTaskInfoGuard(t *testing.T) {
	gen := &fakeGen{out: "Something"}
	p := New(gen, Config{})
	if draft := p.ExtractTaskInfo(context.Background(), "the weather is nice"); draft != nil {
		t.Fatalf("expected nil draft for non-task message, got %+v", draft)
	}
	if gen.calls != 0 {
		t.Fatalf("guard must not invoke the model, calls=%d", gen.calls)
	}
}

func TestExtractTaskInfoUsesAITitle(t *testing.T) {
	gen := &fakeGen{out: "Run every morning"}
	p := New(gen, Config{})
	msg := "help me add a task, I want to run every morning"
	draft := p.ExtractTaskInfo(context.Background(), msg)
	if draft == nil {
		t.Fatal("expected a draft")
	}
	if draft.Title != "Run every morning" {
		t.Fatalf("got title %q", draft.Title)
	}
	if draft.Type != types.TaskDaily {
		t.Fatalf("expected daily type, got %s", draft.Type)
	}
	if draft.Description != msg {
		t.Fatalf("description must carry the original message, got %q", draft.Description)
	}
}

func TestExtractTaskInfoFallsBackOnError(t *testing.T) {
	gen := &fakeGen{err: errors.New("not ready")}
	p := New(gen, Config{})
	draft := p.ExtractTaskInfo(context.Background(), "help me add a task, I want to water the plants")
	if draft == nil {
		t.Fatal("expected a draft")
	}
	if draft.Title != "water the plants" {
		t.Fatalf("got title %q", draft.Title)
	}
}

func TestExtractTaskInfoFallsBackOnRejectedOutput(t *testing.T) {
	gen := &fakeGen{out: "I cannot extract a title from that"}
	p := New(gen, Config{})
	draft := p.ExtractTaskInfo(context.Background(), "help me add a task, I want to water the plants")
	if draft == nil {
		t.Fatal("expected a draft")
	}
	if draft.Title != "water the plants" {
		t.Fatalf("expected rule-extracted title, got %q", draft.Title)
	}
}

func TestNormalizeTitle(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"Read 20 pages before bed", "Read 20 pages before bed"},
		{"Title: Read 20 pages\nand some rambling", "Read 20 pages"},
		{"  \"Practice guitar\"  ", "Practice guitar"},
		{"Run every morning!!!", "Run every morning"},
		{"task: Finish the report.", "Finish the report"},
		{"", ""},
		{"x", ""},                   // too short
		{"I don't know", ""},        // deny-listed
		{"Extraction failed", ""},   // deny-listed
		{strings.Repeat("a", 60), ""}, // too long
	}
	for _, c := range cases {
		if got := NormalizeTitle(c.raw); got != c.want {
			t.Fatalf("NormalizeTitle(%q)=%q want %q", c.raw, got, c.want)
		}
	}
}

func TestValidateTitleBounds(t *testing.T) {
	if ValidateTitle("a") {
		t.Fatal("1 rune must be rejected")
	}
	if !ValidateTitle("ab") {
		t.Fatal("2 runes must be accepted")
	}
	if !ValidateTitle(strings.Repeat("x", 49)) {
		t.Fatal("49 runes must be accepted")
	}
	if !ValidateTitle(strings.Repeat("x", 50)) {
		t.Fatal("50 runes must be accepted")
	}
	if ValidateTitle(strings.Repeat("x", 51)) {
		t.Fatal("51 runes must be rejected")
	}
}

func TestFallbackTitleTruncates(t *testing.T) {
	msg := "help me build a new task, I want to run every morning for 30 minutes"
	got := FallbackTitle(msg)
	if got != "run every morning for 30 minut" {
		t.Fatalf("got %q", got)
	}
	if n := len([]rune(got)); n > fallbackTruncateLen {
		t.Fatalf("fallback title too long: %d runes", n)
	}
}

func TestFallbackTitleStripsVocabulary(t *testing.T) {
	cases := []struct {
		msg  string
		want string
	}{
		{"help me add a task, I want to water the plants", "water the plants"},
		{"create a new daily task: stretch", "a stretch"},
		{"I need to call the dentist tomorrow", "call the dentist tomorrow"},
		{"create task", placeholderTitle},
	}
	for _, c := range cases {
		if got := FallbackTitle(c.msg); got != c.want {
			t.Fatalf("FallbackTitle(%q)=%q want %q", c.msg, got, c.want)
		}
	}
}

func TestFallbackTitleMinimumLength(t *testing.T) {
	// A single-rune remainder must not be surfaced as a title.
	cases := []string{"create x", "add a task", "new y"}
	for _, msg := range cases {
		got := FallbackTitle(msg)
		if n := len([]rune(got)); n < titleMinLen {
			t.Fatalf("FallbackTitle(%q)=%q (%d runes), below minimum", msg, got, n)
		}
	}
	if got := FallbackTitle("create x"); got != placeholderTitle {
		t.Fatalf("expected placeholder for 1-rune remainder, got %q", got)
	}
}

func TestFallbackTitleDropsTemporalLead(t *testing.T) {
	got := FallbackTitle("I want to tomorrow, clean the garage")
	if got != "clean the garage" {
		t.Fatalf("got %q", got)
	}
}

func TestClassifyTaskType(t *testing.T) {
	cases := []struct {
		msg  string
		want types.TaskType
	}{
		{"finish the urgent report", types.TaskMain},
		{"something with a deadline on friday", types.TaskMain},
		{"read every night before bed", types.TaskDaily},
		{"build a jogging habit", types.TaskDaily},
		{"clean the garage", types.TaskSide},
		// main keywords take precedence over daily ones
		{"important habit to build", types.TaskMain},
	}
	for _, c := range cases {
		if got := ClassifyTaskType(c.msg); got != c.want {
			t.Fatalf("ClassifyTaskType(%q)=%s want %s", c.msg, got, c.want)
		}
	}
}
