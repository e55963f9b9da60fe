package tui

import "testing"

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		min  int
		want string
	}{
		{0, "0 min"},
		{45, "45 min"},
		{60, "1h"},
		{90, "1h 30min"},
		{150, "2h 30min"},
		{120, "2h"},
	}
	for _, tc := range tests {
		if got := formatMinutes(tc.min); got != tc.want {
			t.Errorf("formatMinutes(%d) = %q, want %q", tc.min, got, tc.want)
		}
	}
}

func TestTruncStr(t *testing.T) {
	if got := truncStr("short", 10); got != "short" {
		t.Errorf("truncStr(short) = %q", got)
	}
	got := truncStr("Equações Diferenciais Ordinárias", 10)
	if len([]rune(got)) != 10 {
		t.Errorf("truncated length = %d runes, want 10", len([]rune(got)))
	}
	if []rune(got)[9] != '…' {
		t.Errorf("expected ellipsis terminator, got %q", got)
	}
}

func TestCleanText(t *testing.T) {
	if got := cleanText("a\nb\r\n  c   d"); got != "a b c d" {
		t.Errorf("cleanText = %q, want %q", got, "a b c d")
	}
}
