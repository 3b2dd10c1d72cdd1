package performance

import (
	"fmt"
	"strings"
	"time"

	"trade-journal/internal/models"
)

// PeriodKind names a reporting window.
type PeriodKind string

const (
	PeriodAll    PeriodKind = "all"
	PeriodToday  PeriodKind = "today"
	PeriodWeek   PeriodKind = "week"
	PeriodMonth  PeriodKind = "month"
	PeriodYear   PeriodKind = "year"
	PeriodCustom PeriodKind = "custom"
)

// PeriodKinds lists the accepted kinds.
func PeriodKinds() []PeriodKind {
	return []PeriodKind{PeriodAll, PeriodToday, PeriodWeek, PeriodMonth, PeriodYear, PeriodCustom}
}

// Period is a reporting window. From and To are only read for custom periods;
// either may be zero to leave that side open.
type Period struct {
	Kind PeriodKind
	From time.Time
	To   time.Time
}

// ParsePeriod builds a Period from user input. from and to are YYYY-MM-DD and
// imply a custom period when kind is empty.
func ParsePeriod(kind, from, to string) (Period, error) {
	k := PeriodKind(strings.ToLower(strings.TrimSpace(kind)))
	if k == "" {
		k = PeriodAll
		if from != "" || to != "" {
			k = PeriodCustom
		}
	}

	p := Period{Kind: k}
	switch k {
	case PeriodAll, PeriodToday, PeriodWeek, PeriodMonth, PeriodYear:
		return p, nil
	case PeriodCustom:
	default:
		return Period{}, fmt.Errorf("unknown period %q", kind)
	}

	var err error
	if from != "" {
		if p.From, err = time.ParseInLocation(models.DateLayout, from, time.Local); err != nil {
			return Period{}, fmt.Errorf("invalid from date %q: want YYYY-MM-DD", from)
		}
	}
	if to != "" {
		if p.To, err = time.ParseInLocation(models.DateLayout, to, time.Local); err != nil {
			return Period{}, fmt.Errorf("invalid to date %q: want YYYY-MM-DD", to)
		}
	}
	if !p.From.IsZero() && !p.To.IsZero() && p.From.After(p.To) {
		return Period{}, fmt.Errorf("from %s is after to %s", from, to)
	}
	return p, nil
}

// Range resolves the inclusive day bounds of p relative to now. Zero values
// mean unbounded.
//
// week is the last seven days including today; month and year start on the
// same calendar day one month or one year back.
func (p Period) Range(now time.Time) (from, to time.Time) {
	today := models.TruncateDay(now)
	switch p.Kind {
	case PeriodToday:
		return today, today
	case PeriodWeek:
		return today.AddDate(0, 0, -6), today
	case PeriodMonth:
		return today.AddDate(0, -1, 0), today
	case PeriodYear:
		return today.AddDate(-1, 0, 0), today
	case PeriodCustom:
		if !p.From.IsZero() {
			from = models.TruncateDay(p.From)
		}
		if !p.To.IsZero() {
			to = models.TruncateDay(p.To)
		}
		return from, to
	default:
		return time.Time{}, time.Time{}
	}
}

// String renders the period for logs and report headings.
func (p Period) String() string {
	if p.Kind != PeriodCustom {
		if p.Kind == "" {
			return string(PeriodAll)
		}
		return string(p.Kind)
	}
	from, to := "…", "…"
	if !p.From.IsZero() {
		from = models.DateKey(p.From)
	}
	if !p.To.IsZero() {
		to = models.DateKey(p.To)
	}
	return from + ".." + to
}

// Filter returns the trades whose calendar day lies inside p. The input slice
// is not modified.
func Filter(trades []models.TradeRecord, p Period, now time.Time) []models.TradeRecord {
	from, to := p.Range(now)
	lo, hi := "", ""
	if !from.IsZero() {
		lo = models.DateKey(from)
	}
	if !to.IsZero() {
		hi = models.DateKey(to)
	}

	out := make([]models.TradeRecord, 0, len(trades))
	for _, t := range trades {
		day := models.DateKey(t.TradeDate)
		if lo != "" && day < lo {
			continue
		}
		if hi != "" && day > hi {
			continue
		}
		out = append(out, t)
	}
	return out
}
