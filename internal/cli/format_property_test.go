package cli

import (
	"math"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"trade-journal/internal/performance"
)

// Property: truncation and padding respect the requested width in runes,
// including multi-byte symbols such as ₹.
func TestProperty_TruncateAndPad(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("truncate never exceeds the limit", prop.ForAll(
		func(s string, n int) bool {
			out := TruncateString(s, n)
			if utf8.RuneCountInString(s) <= n {
				return out == s
			}
			return utf8.RuneCountInString(out) == n
		},
		gen.AnyString(),
		gen.IntRange(0, 40),
	))

	properties.Property("pad reaches at least the width", prop.ForAll(
		func(s string, n int) bool {
			out := PadRight(s, n)
			return utf8.RuneCountInString(out) == max(n, utf8.RuneCountInString(s))
		},
		gen.AlphaString().Map(func(s string) string { return "₹" + s }),
		gen.IntRange(0, 40),
	))

	properties.TestingRun(t)
}

func TestFormatRatio(t *testing.T) {
	testCases := []struct {
		in   performance.Ratio
		want string
	}{
		{0, "0.00"},
		{1.3333333, "1.33"},
		{performance.Ratio(math.Inf(1)), "∞"},
	}
	for _, tc := range testCases {
		if got := FormatRatio(tc.in); got != tc.want {
			t.Errorf("FormatRatio(%v) = %s, want %s", float64(tc.in), got, tc.want)
		}
	}
}

func TestFormatHelpers(t *testing.T) {
	testCases := []struct {
		got, want string
	}{
		{FormatRate(40), "40.00%"},
		{FormatDays(1), "1 day"},
		{FormatDays(3), "3 days"},
		{FormatDuration(250 * time.Millisecond), "250ms"},
		{FormatDuration(1500 * time.Millisecond), "1.5s"},
		{FormatDuration(90 * time.Second), "1m 30s"},
		{FormatDate(time.Date(2025, 11, 24, 0, 0, 0, 0, time.Local), "02-Jan-2006"), "24-Nov-2025"},
		{FormatDate(time.Date(2025, 11, 24, 0, 0, 0, 0, time.Local), ""), "2025-11-24"},
	}
	for _, tc := range testCases {
		if tc.got != tc.want {
			t.Errorf("got %s, want %s", tc.got, tc.want)
		}
	}
}
