package tui

import (
	"testing"
	"time"
)

func TestParseDelay(t *testing.T) {
	tests := []struct {
		input   string
		minutes int
		ok      bool
	}{
		{"1:30", 90, true},
		{"0:05", 5, true},
		{"00:45", 45, true},
		{"23:59", 1439, true},
		{"45", 45, true},
		{" 1:00 ", 60, true},
		{"24:00", 0, false},
		{"1:60", 0, false},
		{"-1:30", 0, false},
		{"abc", 0, false},
		{"1:ab", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		minutes, ok := parseDelay(tt.input)
		if ok != tt.ok || minutes != tt.minutes {
			t.Errorf("parseDelay(%q) = (%d, %v), want (%d, %v)",
				tt.input, minutes, ok, tt.minutes, tt.ok)
		}
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{45, "45m"},
		{60, "1h"},
		{90, "1h 30m"},
		{0, "0m"},
	}

	for _, tt := range tests {
		if got := formatMinutes(tt.minutes); got != tt.want {
			t.Errorf("formatMinutes(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestFormatRemaining(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		until time.Time
		want  string
	}{
		{now.Add(2*time.Hour + 5*time.Minute), "2h 5m"},
		{now.Add(3*time.Minute + 20*time.Second), "3m 20s"},
		{now.Add(42 * time.Second), "42s"},
		{now, "ready"},
		{now.Add(-time.Minute), "ready"},
	}

	for _, tt := range tests {
		if got := formatRemaining(tt.until, now); got != tt.want {
			t.Errorf("formatRemaining(%v) = %q, want %q", tt.until.Sub(now), got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this is a long title", 10, "this is..."},
		{"abc", 2, "ab"},
		{"anything", 0, ""},
	}

	for _, tt := range tests {
		if got := truncate(tt.input, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.want)
		}
	}
}
