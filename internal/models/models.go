// Package models provides domain models for the trading journal.
package models

import (
	"strings"
	"time"
)

// OrderSide represents the side of a trade.
type OrderSide string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"
)

// ParseSide normalizes s and reports whether it names a valid side.
func ParseSide(s string) (OrderSide, bool) {
	switch OrderSide(strings.ToUpper(strings.TrimSpace(s))) {
	case OrderSideBuy:
		return OrderSideBuy, true
	case OrderSideSell:
		return OrderSideSell, true
	}
	return "", false
}

// Mood represents the trader's self-reported state of mind for a trade.
type Mood string

const (
	MoodCalm          Mood = "CALM"
	MoodConfident     Mood = "CONFIDENT"
	MoodOverconfident Mood = "OVERCONFIDENT"
	MoodAnxious       Mood = "ANXIOUS"
	MoodFOMO          Mood = "FOMO"
	MoodPanicked      Mood = "PANICKED"
)

// DefaultMood is assigned when no mood was recorded.
const DefaultMood = MoodCalm

// Moods returns every mood in its stable reporting order.
func Moods() []Mood {
	return []Mood{MoodCalm, MoodConfident, MoodOverconfident, MoodAnxious, MoodFOMO, MoodPanicked}
}

// ParseMood normalizes s and reports whether it names a known mood.
// An empty string yields DefaultMood.
func ParseMood(s string) (Mood, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return DefaultMood, true
	}
	for _, m := range Moods() {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

// DateLayout is the canonical calendar-date layout used for keys and storage.
const DateLayout = "2006-01-02"

// DateKey returns the local calendar date of t as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// TruncateDay returns midnight of t's calendar day in t's location.
func TruncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
