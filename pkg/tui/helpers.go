package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// truncate shortens s to at most width runes, appending an ellipsis when
// anything was cut.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

// parseDelay parses an HH:MM duration into minutes. Hours must be below
// 24 and minutes below 60. A bare number is read as minutes.
func parseDelay(input string) (int, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, false
	}

	if h, mm, found := strings.Cut(input, ":"); found {
		hours, err := strconv.Atoi(h)
		if err != nil || hours < 0 || hours >= 24 {
			return 0, false
		}
		minutes, err := strconv.Atoi(mm)
		if err != nil || minutes < 0 || minutes >= 60 {
			return 0, false
		}
		return hours*60 + minutes, true
	}

	minutes, err := strconv.Atoi(input)
	if err != nil || minutes < 0 {
		return 0, false
	}
	return minutes, true
}

// formatMinutes renders a minute count as "2h 30m" or "45m".
func formatMinutes(minutes int) string {
	if minutes >= 60 {
		if rem := minutes % 60; rem != 0 {
			return fmt.Sprintf("%dh %dm", minutes/60, rem)
		}
		return fmt.Sprintf("%dh", minutes/60)
	}
	return fmt.Sprintf("%dm", minutes)
}

// formatRemaining renders the time left until a delayed memo is due.
// Returns "ready" once the deadline has passed.
func formatRemaining(until time.Time, now time.Time) string {
	d := until.Sub(now)
	if d <= 0 {
		return "ready"
	}
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// formatTimestamp renders a memo timestamp for list rows.
func formatTimestamp(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}
