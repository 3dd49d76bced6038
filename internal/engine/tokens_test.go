package engine

import "testing"

func TestEstimateTokens(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"   \t\n ", 0},
		{"hello", 2},          // ceil(1*1.3)
		{"hello world", 3},    // ceil(2*1.3)
		{"one two three", 4},  // ceil(3*1.3)
		{"a b c d e f g", 10}, // ceil(7*1.3) = ceil(9.1)
	}
	for _, c := range cases {
		if got := EstimateTokens(c.in); got != c.want {
			t.Fatalf("EstimateTokens(%q)=%d want %d", c.in, got, c.want)
		}
	}
}

func TestClampBudgetWithinWindow(t *testing.T) {
	// 100 prompt tokens, window 2048, margin 10: plenty of room.
	if got := ClampBudget(100, 256, 2048, 10); got != 256 {
		t.Fatalf("expected untouched budget 256 got %d", got)
	}
}

func TestClampBudgetShrinks(t *testing.T) {
	// 2000 prompt tokens against a 2048 window with margin 10 leaves 38.
	if got := ClampBudget(2000, 256, 2048, 10); got != 38 {
		t.Fatalf("expected clamped budget 38 got %d", got)
	}
}

func TestClampBudgetFloorsAtOne(t *testing.T) {
	// Prompt already exceeds the window; budget must never reach zero.
	if got := ClampBudget(3000, 256, 2048, 10); got != 1 {
		t.Fatalf("expected floor of 1 got %d", got)
	}
}

func TestClampBudgetNoWindow(t *testing.T) {
	if got := ClampBudget(100, 256, 0, 10); got != 256 {
		t.Fatalf("expected passthrough with no window got %d", got)
	}
}

func TestClampBudgetInvariant(t *testing.T) {
	window, margin := 2048, 10
	for prompt := 0; prompt <= 2200; prompt += 37 {
		for _, req := range []int{1, 30, 256, 4096} {
			got := ClampBudget(prompt, req, window, margin)
			if got < 1 {
				t.Fatalf("budget below 1: prompt=%d req=%d got=%d", prompt, req, got)
			}
			if prompt+got > window-margin && got != 1 {
				t.Fatalf("budget breaks window: prompt=%d req=%d got=%d", prompt, req, got)
			}
		}
	}
}
