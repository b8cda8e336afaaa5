package utils

import (
	"context"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

var sleep = time.Sleep

// WaitFor blocks for d or until ctx is done, whichever happens first.
func WaitFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		sleep(d)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// TruncateForLog shortens the provided string to the specified limit, appending an ellipsis when truncated.
func TruncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	prefix, cut := RunePrefix(s, limit)
	if !cut {
		return s
	}
	return prefix + "..."
}

// RunePrefix returns the first n runes of s and whether anything was cut off.
func RunePrefix(s string, n int) (string, bool) {
	if n <= 0 {
		return "", s != ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s, false
	}
	return string(runes[:n]), true
}

// FirstNonEmpty returns the first value that is not blank after trimming.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// ContainsPhrase reports whether needle occurs in hay as a whole phrase,
// ignoring case. A needle edge that is a letter or digit must not touch
// another letter or digit, so "at acme" misses "at acmecorp" and "york"
// misses "yorkshire" while "@acme" still matches "dev@acme".
func ContainsPhrase(hay, needle string) bool {
	hay, needle = strings.ToLower(hay), strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		return false
	}

	first, _ := utf8.DecodeRuneInString(needle)
	last, _ := utf8.DecodeLastRuneInString(needle)

	for start := 0; start < len(hay); {
		idx := strings.Index(hay[start:], needle)
		if idx == -1 {
			return false
		}
		pos := start + idx
		end := pos + len(needle)

		before, _ := utf8.DecodeLastRuneInString(hay[:pos])
		after, _ := utf8.DecodeRuneInString(hay[end:])
		leftOK := pos == 0 || !isWordRune(first) || !isWordRune(before)
		rightOK := end == len(hay) || !isWordRune(last) || !isWordRune(after)
		if leftOK && rightOK {
			return true
		}

		_, size := utf8.DecodeRuneInString(hay[pos:])
		start = pos + size
	}
	return false
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
