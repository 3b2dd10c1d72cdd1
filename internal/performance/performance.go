// Package performance aggregates journal trades into period statistics.
//
// Compute is pure: it never mutates its input, keeps no state and gives
// identical output for identical input, so callers may share it freely.
package performance

import (
	"encoding/json"
	"math"
	"sort"
	"strings"
	"time"

	"trade-journal/internal/models"
)

// DefaultTopN caps the script table when no option is given.
const DefaultTopN = 5

// Ratio is a float that encodes +Inf as the JSON string "Infinity".
type Ratio float64

// IsInf reports whether r is positive infinity.
func (r Ratio) IsInf() bool { return math.IsInf(float64(r), 1) }

func (r Ratio) MarshalJSON() ([]byte, error) {
	if r.IsInf() {
		return []byte(`"Infinity"`), nil
	}
	return json.Marshal(float64(r))
}

func (r *Ratio) UnmarshalJSON(b []byte) error {
	if string(b) == `"Infinity"` {
		*r = Ratio(math.Inf(1))
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*r = Ratio(f)
	return nil
}

// MoodStats is the breakdown for one mood.
type MoodStats struct {
	Mood       models.Mood `json:"mood"`
	Count      int         `json:"count"`
	WinRate    float64     `json:"win_rate"`
	AvgNetPL   float64     `json:"avg_net_pl"`
	TotalNetPL float64     `json:"total_net_pl"`
}

// ScriptStats aggregates one symbol.
type ScriptStats struct {
	Symbol  string  `json:"symbol"`
	Count   int     `json:"count"`
	NetPL   float64 `json:"net_pl"`
	WinRate float64 `json:"win_rate"`
}

// GroupStats is the result of a subset such as trades that followed the setup.
type GroupStats struct {
	Count   int     `json:"count"`
	WinRate float64 `json:"win_rate"`
	NetPL   float64 `json:"net_pl"`
}

// Discipline compares trades that followed the setup with those that did not.
type Discipline struct {
	Followed    GroupStats `json:"followed"`
	NotFollowed GroupStats `json:"not_followed"`
}

// DailyPL is the net result of one trading day.
type DailyPL struct {
	Date   string  `json:"date"`
	Trades int     `json:"trades"`
	NetPL  float64 `json:"net_pl"`
}

// PeriodStats is derived, read-only output of Compute.
//
// A win is a trade with positive net P&L, a loss one with negative net P&L.
// GrossProfit and GrossLoss sum gross P&L (before charges) of trades with
// positive and negative gross, the latter as a positive magnitude; the profit
// factor is their ratio. AvgWin and AvgLoss average net P&L of wins and losses.
type PeriodStats struct {
	TotalTrades int `json:"total_trades"`
	Wins        int `json:"wins"`
	Losses      int `json:"losses"`
	Breakeven   int `json:"breakeven"`

	WinRate            float64 `json:"win_rate"`
	ProfitFactor       Ratio   `json:"profit_factor"`
	SetupAdherenceRate float64 `json:"setup_adherence_rate"`

	GrossProfit  float64 `json:"gross_profit"`
	GrossLoss    float64 `json:"gross_loss"`
	TotalGrossPL float64 `json:"total_gross_pl"`
	TotalCharges float64 `json:"total_charges"`
	TotalNetPL   float64 `json:"total_net_pl"`
	AvgWin       float64 `json:"avg_win"`
	AvgLoss      float64 `json:"avg_loss"`
	LargestWin   float64 `json:"largest_win"`
	LargestLoss  float64 `json:"largest_loss"`
	Expectancy   float64 `json:"expectancy"`

	TradingDays   int    `json:"trading_days"`
	CurrentStreak int    `json:"current_streak"`
	LongestStreak int    `json:"longest_streak"`
	FirstDate     string `json:"first_date,omitempty"`
	LastDate      string `json:"last_date,omitempty"`

	Moods     []MoodStats   `json:"moods"`
	BestMood  models.Mood   `json:"best_mood,omitempty"`
	WorstMood models.Mood   `json:"worst_mood,omitempty"`
	Scripts   []ScriptStats `json:"scripts"`

	Discipline Discipline `json:"discipline"`
	Daily      []DailyPL  `json:"daily"`
}

type options struct {
	topN int
}

// Option tunes presentation parameters of Compute.
type Option func(*options)

// WithTopN caps the script table at n entries. n <= 0 keeps every script.
func WithTopN(n int) Option {
	return func(o *options) { o.topN = n }
}

type tally struct {
	count int
	wins  int
	net   float64
}

func (t *tally) add(net float64) {
	t.count++
	t.net += net
	if net > 0 {
		t.wins++
	}
}

func (t tally) winRate() float64 { return percent(t.wins, t.count) }

// Compute aggregates trades in one pass plus a few reductions over the
// per-group tallies.
func Compute(trades []models.TradeRecord, opts ...Option) PeriodStats {
	o := options{topN: DefaultTopN}
	for _, opt := range opts {
		opt(&o)
	}

	var (
		s        PeriodStats
		followed int
		disc     [2]tally
		winNet   float64
		lossNet  float64
	)
	moods := make(map[models.Mood]*tally)
	scripts := make(map[string]*tally)
	days := make(map[string]*DailyPL)

	for _, t := range trades {
		net := t.NetProfitLoss
		s.TotalTrades++
		s.TotalGrossPL += t.GrossProfitLoss
		s.TotalCharges += t.Charges
		s.TotalNetPL += net

		switch {
		case net > 0:
			s.Wins++
			winNet += net
			s.LargestWin = math.Max(s.LargestWin, net)
		case net < 0:
			s.Losses++
			lossNet += net
			s.LargestLoss = math.Min(s.LargestLoss, net)
		default:
			s.Breakeven++
		}
		if g := t.GrossProfitLoss; g > 0 {
			s.GrossProfit += g
		} else {
			s.GrossLoss -= g
		}

		if t.FollowedSetup {
			followed++
			disc[0].add(net)
		} else {
			disc[1].add(net)
		}

		mood := t.Mood
		if mood == "" {
			mood = models.DefaultMood
		}
		if moods[mood] == nil {
			moods[mood] = &tally{}
		}
		moods[mood].add(net)

		sym := strings.ToUpper(strings.TrimSpace(t.Symbol))
		if scripts[sym] == nil {
			scripts[sym] = &tally{}
		}
		scripts[sym].add(net)

		key := models.DateKey(t.TradeDate)
		d := days[key]
		if d == nil {
			d = &DailyPL{Date: key}
			days[key] = d
		}
		d.Trades++
		d.NetPL += net
	}

	s.WinRate = percent(s.Wins, s.TotalTrades)
	s.SetupAdherenceRate = percent(followed, s.TotalTrades)
	s.ProfitFactor = profitFactor(s.GrossProfit, s.GrossLoss)
	if s.Wins > 0 {
		s.AvgWin = winNet / float64(s.Wins)
	}
	if s.Losses > 0 {
		s.AvgLoss = lossNet / float64(s.Losses)
	}
	if s.TotalTrades > 0 {
		s.Expectancy = s.TotalNetPL / float64(s.TotalTrades)
	}

	s.Discipline = Discipline{
		Followed:    GroupStats{Count: disc[0].count, WinRate: disc[0].winRate(), NetPL: disc[0].net},
		NotFollowed: GroupStats{Count: disc[1].count, WinRate: disc[1].winRate(), NetPL: disc[1].net},
	}

	s.Moods, s.BestMood, s.WorstMood = moodBreakdown(moods)
	s.Scripts = topScripts(scripts, o.topN)
	s.Daily = dailySeries(days)

	s.TradingDays = len(s.Daily)
	if len(s.Daily) > 0 {
		s.FirstDate = s.Daily[0].Date
		s.LastDate = s.Daily[len(s.Daily)-1].Date
	}
	s.CurrentStreak, s.LongestStreak = streaks(s.Daily)

	return s
}

// profitFactor is gross profit over gross loss magnitude. With no losses it
// is +Inf when there is profit and 0 otherwise; it is never negative.
func profitFactor(profit, loss float64) Ratio {
	switch {
	case loss > 0:
		return Ratio(profit / loss)
	case profit > 0:
		return Ratio(math.Inf(1))
	default:
		return 0
	}
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// moodBreakdown lists every mood in the stable order. Best and worst are
// picked among moods with trades; the earlier mood wins ties.
func moodBreakdown(groups map[models.Mood]*tally) ([]MoodStats, models.Mood, models.Mood) {
	order := models.Moods()
	known := make(map[models.Mood]bool, len(order))
	for _, m := range order {
		known[m] = true
	}
	// Moods outside the fixed set still get a row, after the known ones.
	var extra []models.Mood
	for m := range groups {
		if !known[m] {
			extra = append(extra, m)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	order = append(order, extra...)

	out := make([]MoodStats, 0, len(order))
	var best, worst models.Mood
	bestRate, worstRate := -1.0, 101.0

	for _, m := range order {
		ms := MoodStats{Mood: m}
		if g := groups[m]; g != nil && g.count > 0 {
			ms.Count = g.count
			ms.WinRate = g.winRate()
			ms.TotalNetPL = g.net
			ms.AvgNetPL = g.net / float64(g.count)

			if ms.WinRate > bestRate {
				best, bestRate = m, ms.WinRate
			}
			if ms.WinRate < worstRate {
				worst, worstRate = m, ms.WinRate
			}
		}
		out = append(out, ms)
	}
	return out, best, worst
}

func topScripts(groups map[string]*tally, n int) []ScriptStats {
	out := make([]ScriptStats, 0, len(groups))
	for sym, g := range groups {
		out = append(out, ScriptStats{Symbol: sym, Count: g.count, NetPL: g.net, WinRate: g.winRate()})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].NetPL != out[j].NetPL {
			return out[i].NetPL > out[j].NetPL
		}
		return out[i].Symbol < out[j].Symbol
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func dailySeries(days map[string]*DailyPL) []DailyPL {
	out := make([]DailyPL, 0, len(days))
	for _, d := range days {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// streaks measures runs of consecutive calendar days in the sorted daily
// series. The current streak is the run that ends on the latest trading day.
func streaks(daily []DailyPL) (current, longest int) {
	run := 0
	prev := int64(math.MinInt64)
	for _, d := range daily {
		n := dayNumber(d.Date)
		if n == prev+1 {
			run++
		} else {
			run = 1
		}
		prev = n
		if run > longest {
			longest = run
		}
	}
	return run, longest
}

// dayNumber converts YYYY-MM-DD to days since the Unix epoch. Parsing in UTC
// keeps DST shifts out of the arithmetic.
func dayNumber(key string) int64 {
	t, err := time.Parse(models.DateLayout, key)
	if err != nil {
		return 0
	}
	return t.Unix() / 86400
}
