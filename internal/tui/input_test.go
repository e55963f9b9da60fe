package tui

import (
	"strings"
	"testing"
)

func TestEditRune(t *testing.T) {
	if got := editRune("abc", "d"); got != "abcd" {
		t.Errorf("append = %q, want abcd", got)
	}
	if got := editRune("abç", "backspace"); got != "ab" {
		t.Errorf("rune-aware backspace = %q, want ab", got)
	}
	if got := editRune("", "backspace"); got != "" {
		t.Errorf("backspace on empty = %q, want empty", got)
	}
	if got := editRune("abc", "enter"); got != "abc" {
		t.Errorf("non-printable key = %q, want unchanged", got)
	}
	long := strings.Repeat("x", maxInputLen)
	if got := editRune(long, "y"); got != long {
		t.Error("input must be clamped at maxInputLen")
	}
}

func TestEditDigits(t *testing.T) {
	if got := editDigits("4", "5"); got != "45" {
		t.Errorf("digit append = %q, want 45", got)
	}
	if got := editDigits("45", "x"); got != "45" {
		t.Errorf("letter must be rejected, got %q", got)
	}
	if got := editDigits("45", "backspace"); got != "4" {
		t.Errorf("backspace = %q, want 4", got)
	}
}

func TestTruncateToHeight(t *testing.T) {
	s := "a\nb\nc\nd\n"
	if got := truncateToHeight(s, 2); got != "a\nb\n" {
		t.Errorf("truncateToHeight = %q, want first two lines", got)
	}
	if got := truncateToHeight(s, 0); got != s {
		t.Errorf("maxLines<=0 must pass through, got %q", got)
	}
	if got := truncateToHeight("one line", 5); got != "one line" {
		t.Errorf("short input must pass through, got %q", got)
	}
}
