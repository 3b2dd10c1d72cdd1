// Package cli provides the command-line interface for the trade journal.
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"trade-journal/internal/performance"
	"trade-journal/pkg/utils"
)

// FormatRatio renders a profit factor, infinity included.
func FormatRatio(r performance.Ratio) string {
	if r.IsInf() {
		return "∞"
	}
	return strconv.FormatFloat(float64(r), 'f', 2, 64)
}

// FormatRate renders a 0-100 percentage.
func FormatRate(pct float64) string {
	return utils.FormatPercent(pct)
}

// FormatDate renders a trade date with the configured layout, falling back
// to YYYY-MM-DD.
func FormatDate(t time.Time, layout string) string {
	if layout == "" {
		layout = "2006-01-02"
	}
	return t.Format(layout)
}

// FormatDays renders a streak length.
func FormatDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

// FormatDuration formats a duration in human-readable form.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
}

// TruncateString shortens s to maxLen runes with an ellipsis.
func TruncateString(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	r := []rune(s)
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// PadRight pads s with spaces to length columns. Color codes take no width.
func PadRight(s string, length int) string {
	n := visibleWidth(s)
	if n >= length {
		return s
	}
	return s + strings.Repeat(" ", length-n)
}
