package utils

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{
			name:   "returns empty when limit non-positive",
			input:  "staff data engineer",
			limit:  0,
			expect: "",
		},
		{
			name:   "shorter than limit",
			input:  "staff",
			limit:  10,
			expect: "staff",
		},
		{
			name:   "truncates and adds ellipsis",
			input:  "staff data engineer",
			limit:  5,
			expect: "staff...",
		},
		{
			name:   "counts runes not bytes",
			input:  "Zürich Köln",
			limit:  6,
			expect: "Zürich...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateForLog(tt.input, tt.limit); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestRunePrefix(t *testing.T) {
	t.Parallel()

	got, cut := RunePrefix("héllo", 2)
	if got != "hé" || !cut {
		t.Fatalf("unexpected prefix %q cut=%v", got, cut)
	}

	got, cut = RunePrefix("abc", 3)
	if got != "abc" || cut {
		t.Fatalf("unexpected prefix %q cut=%v", got, cut)
	}
}

func TestFirstNonEmpty(t *testing.T) {
	t.Parallel()

	if got := FirstNonEmpty("", "  ", " Jane Doe ", "other"); got != "Jane Doe" {
		t.Fatalf("unexpected value %q", got)
	}
	if got := FirstNonEmpty(" ", ""); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestWaitForHonoursContext(t *testing.T) {
	originalSleep := sleep
	release := make(chan struct{})
	sleep = func(time.Duration) { <-release }
	defer func() {
		close(release)
		sleep = originalSleep
	}()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := WaitFor(ctx, time.Minute); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestWaitForZeroDuration(t *testing.T) {
	if err := WaitFor(context.Background(), 0); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestContainsPhrase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		hay    string
		needle string
		expect bool
	}{
		{name: "phrase at start", hay: "At Acme, building payments", needle: "at acme", expect: true},
		{name: "phrase in the middle", hay: "SRE at Acme Corp", needle: "at acme", expect: true},
		{name: "longer word after", hay: "SRE at Acmecorp", needle: "at acme", expect: false},
		{name: "longer word before", hay: "chat acme", needle: "at acme", expect: false},
		{name: "word inside word", hay: "seniority matters", needle: "Senior", expect: false},
		{name: "symbol edge", hay: "dev@acme", needle: "@acme", expect: true},
		{name: "later match after miss", hay: "yorkshire and york", needle: "york", expect: true},
		{name: "blank needle", hay: "anything", needle: "  ", expect: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ContainsPhrase(tt.hay, tt.needle); got != tt.expect {
				t.Fatalf("ContainsPhrase(%q, %q) = %v, expected %v", tt.hay, tt.needle, got, tt.expect)
			}
		})
	}
}
