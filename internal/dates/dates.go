// Package dates turns the free-form date strings found in trading journals
// into calendar dates.
//
// Two policies exist and are kept separate. They agree on every input except
// the ambiguous case where the last group is clearly a year and both leading
// groups are valid months ("03/04/2025"): ParseMonthFirst reads that as
// 4 March, ParseDayFirst (used when importing journals) as 3 April.
package dates

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"trade-journal/internal/models"
)

// Order decides the ambiguous dd/mm vs mm/dd case.
type Order int

const (
	MonthFirst Order = iota
	DayFirst
)

// now is replaced in tests.
var now = time.Now

// ParseMonthFirst is the generic disambiguator.
func ParseMonthFirst(raw string) time.Time {
	return Parse(raw, MonthFirst)
}

// ParseDayFirst is the disambiguator used on the import path.
func ParseDayFirst(raw string) time.Time {
	return Parse(raw, DayFirst)
}

// Parse never fails. An empty string yields today; anything the numeric
// heuristic cannot place goes through Generic, which returns the zero time
// when nothing matches. Results are local midnight.
func Parse(raw string, order Order) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return models.TruncateDay(now())
	}

	groups, ok := numericGroups(raw)
	if !ok || len(groups) != 3 {
		return Generic(raw)
	}

	y, m, d := resolve(groups, order)
	if t, ok := build(y, m, d); ok {
		return t
	}
	return Generic(raw)
}

type group struct {
	val    int
	digits int
}

func numericGroups(raw string) ([]group, bool) {
	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == '-' || r == '/' })
	groups := make([]group, 0, len(parts))
	for _, p := range parts {
		for _, r := range p {
			if r < '0' || r > '9' {
				return nil, false
			}
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, false
		}
		groups = append(groups, group{val: v, digits: len(p)})
	}
	return groups, true
}

func resolve(g []group, order Order) (year, month, day int) {
	a, b, c := g[0], g[1], g[2]

	switch {
	case c.val > 31 || c.digits == 4:
		year = c.val
		switch {
		case a.val > 12:
			day, month = a.val, b.val
		case b.val > 12:
			day, month = b.val, a.val
		case order == DayFirst:
			day, month = a.val, b.val
		default:
			month, day = a.val, b.val
		}
	case a.val > 31 || a.digits == 4:
		year, month, day = a.val, b.val, c.val
	default:
		day, month, year = a.val, b.val, c.val
	}

	if year < 100 {
		year += 2000
	}
	return year, month, day
}

// build rejects dates time.Date would silently normalize, such as 31 April.
func build(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

var layouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"02-Jan-2006",
	"2-Jan-2006",
	"02-Jan-06",
	"02 Jan 2006",
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"Mon, 02 Jan 2006",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"20060102",
}

// Spreadsheet serial day numbers outside this range are not dates.
const (
	minSerial = 1
	maxSerial = 2958465 // 9999-12-31
)

// Generic tries a fixed list of layouts, then spreadsheet serial day numbers.
// It returns the zero time when nothing matches.
func Generic(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}

	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return localDay(t)
		}
	}

	if serial, err := strconv.ParseFloat(raw, 64); err == nil && serial >= minSerial && serial <= maxSerial {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return localDay(t)
		}
	}

	return time.Time{}
}

// localDay keeps the calendar date as written, whatever zone t carries.
func localDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}
