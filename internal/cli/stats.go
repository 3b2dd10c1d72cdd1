package cli

import (
	"context"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	apperrors "trade-journal/internal/errors"
	"trade-journal/internal/logging"
	"trade-journal/internal/models"
	"trade-journal/internal/performance"
	"trade-journal/internal/store"
	"trade-journal/pkg/utils"
)

type periodFlags struct {
	kind string
	from string
	to   string
}

func (p *periodFlags) register(cmd *cobra.Command, defaultKind string) {
	cmd.Flags().StringVar(&p.kind, "period", defaultKind, "all, today, week, month, year or custom")
	cmd.Flags().StringVar(&p.from, "from", "", "custom period start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&p.to, "to", "", "custom period end (YYYY-MM-DD)")
}

// loadPeriod lists the owner's trades inside the requested period. The
// period bounds replace From and To of base.
func (a *App) loadPeriod(ctx context.Context, owner string, pf periodFlags, base store.TradeFilter) ([]models.TradeRecord, performance.Period, error) {
	kind := pf.kind
	if kind == "" && pf.from == "" && pf.to == "" {
		kind = a.Config.Report.DefaultPeriod
	}
	p, err := performance.ParsePeriod(kind, pf.from, pf.to)
	if err != nil {
		return nil, p, apperrors.NewValidationError("period", pf.kind, err.Error())
	}

	st, err := a.TradeStore()
	if err != nil {
		return nil, p, err
	}
	base.From, base.To = p.Range(a.clock())
	trades, err := st.List(ctx, owner, base)
	return trades, p, err
}

func newStatsCmd(app *App) *cobra.Command {
	var (
		pf  periodFlags
		top int
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show performance statistics",
		Long: `Show win rate, profit factor, setup adherence, trading streaks, the
mood breakdown and the best scripts for a period.`,
		Example: `  journal stats --period month
  journal stats --from 2025-11-01 --to 2025-11-30 --top 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			start := time.Now()

			trades, p, err := app.loadPeriod(cmd.Context(), app.owner(cmd), pf, store.TradeFilter{})
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("top") {
				top = app.Config.Report.TopScripts
			}

			stats := performance.Compute(trades, performance.WithTopN(top))
			app.Metrics.ObserveStats(time.Since(start))
			logging.LogStats(logging.FromContext(cmd.Context()), stats.TotalTrades, p.String(), time.Since(start))

			if output.IsJSON() {
				return output.JSON(struct {
					Period string `json:"period"`
					performance.PeriodStats
				}{p.String(), stats})
			}
			printStats(output, p, stats)
			return nil
		},
	}

	pf.register(cmd, "")
	cmd.Flags().IntVar(&top, "top", 5, "number of scripts to list (0 for all)")

	return cmd
}

func printStats(output *Output, p performance.Period, s performance.PeriodStats) {
	output.Bold("Performance: %s", p.String())
	if s.TotalTrades == 0 {
		output.Dim("No trades in this period.")
		return
	}
	if s.FirstDate != "" {
		output.Dim("%s to %s, %d trading days", s.FirstDate, s.LastDate, s.TradingDays)
	}
	output.Println()

	output.Printf("  Trades:          %d (%d won, %d lost, %d flat)\n", s.TotalTrades, s.Wins, s.Losses, s.Breakeven)
	output.Printf("  Win rate:        %s\n", FormatRate(s.WinRate))
	output.Printf("  Profit factor:   %s\n", FormatRatio(s.ProfitFactor))
	output.Printf("  Setup adherence: %s\n", FormatRate(s.SetupAdherenceRate))
	output.Printf("  Net P&L:         %s\n", output.PnL(s.TotalNetPL, utils.FormatPnL(s.TotalNetPL)))
	output.Printf("  Charges:         %s\n", utils.FormatIndianCurrency(s.TotalCharges))
	output.Printf("  Avg win / loss:  %s / %s\n",
		output.PnL(s.AvgWin, utils.FormatIndianCurrency(s.AvgWin)),
		output.PnL(s.AvgLoss, utils.FormatIndianCurrency(s.AvgLoss)))
	output.Printf("  Expectancy:      %s\n", output.PnL(s.Expectancy, utils.FormatPnL(s.Expectancy)))
	output.Printf("  Streak:          %s current, %s longest\n", FormatDays(s.CurrentStreak), FormatDays(s.LongestStreak))
	output.Println()

	output.Bold("By mood")
	moods := NewTable(output, "Mood", "Trades", "Win rate", "Avg P&L", "Net P&L")
	for _, m := range s.Moods {
		label := string(m.Mood)
		switch m.Mood {
		case s.BestMood:
			label = output.Green(label + " ▲")
		case s.WorstMood:
			label = output.Red(label + " ▼")
		}
		moods.AddRow(label, strconv.Itoa(m.Count), FormatRate(m.WinRate),
			utils.FormatIndianCurrency(m.AvgNetPL),
			output.PnL(m.TotalNetPL, utils.FormatIndianCurrency(m.TotalNetPL)))
	}
	moods.Render()
	output.Println()

	output.Bold("Setup discipline")
	disc := NewTable(output, "", "Trades", "Win rate", "Net P&L")
	for _, row := range []struct {
		label string
		g     performance.GroupStats
	}{{"Followed", s.Discipline.Followed}, {"Not followed", s.Discipline.NotFollowed}} {
		disc.AddRow(row.label, strconv.Itoa(row.g.Count), FormatRate(row.g.WinRate),
			output.PnL(row.g.NetPL, utils.FormatIndianCurrency(row.g.NetPL)))
	}
	disc.Render()
	output.Println()

	output.Bold("Top scripts")
	scripts := NewTable(output, "Script", "Trades", "Win rate", "Net P&L")
	for _, sc := range s.Scripts {
		scripts.AddRow(sc.Symbol, strconv.Itoa(sc.Count), FormatRate(sc.WinRate),
			output.PnL(sc.NetPL, utils.FormatIndianCurrency(sc.NetPL)))
	}
	scripts.Render()
}
