package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"trade-journal/internal/dates"
	apperrors "trade-journal/internal/errors"
	"trade-journal/internal/models"
	"trade-journal/internal/store"
	"trade-journal/pkg/utils"
)

func newTradesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "trades",
		Aliases: []string{"trade", "t"},
		Short:   "List, add, edit and delete journal trades",
	}

	cmd.AddCommand(
		newTradesListCmd(app),
		newTradesAddCmd(app),
		newTradesEditCmd(app),
		newTradesDeleteCmd(app),
	)
	return cmd
}

func newTradesListCmd(app *App) *cobra.Command {
	var (
		pf     periodFlags
		symbol string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List trades, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if pf.kind == "" && pf.from == "" && pf.to == "" {
				pf.kind = "all"
			}
			filtered, _, err := app.loadPeriod(cmd.Context(), app.owner(cmd), pf,
				store.TradeFilter{Symbol: symbol, Limit: limit})
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(filtered)
			}
			if len(filtered) == 0 {
				output.Dim("No trades found.")
				return nil
			}

			table := NewTable(output, "ID", "Date", "Script", "Side", "Qty", "Entry", "Exit", "Net P&L", "Setup", "Mood")
			for _, t := range filtered {
				setup := "No"
				if t.FollowedSetup {
					setup = "Yes"
				}
				table.AddRow(
					t.ID[:min(8, len(t.ID))],
					FormatDate(t.TradeDate, app.Config.UI.DateFormat),
					t.Symbol,
					string(t.Side),
					utils.FormatQuantity(int64(t.Quantity)),
					utils.Money(t.EntryPrice),
					utils.Money(t.ExitPrice),
					output.PnL(t.NetProfitLoss, utils.FormatPnL(t.NetProfitLoss)),
					setup,
					string(t.Mood),
				)
			}
			table.Render()
			output.Dim("%d trades", len(filtered))
			return nil
		},
	}

	pf.register(cmd, "")
	cmd.Flags().StringVar(&symbol, "symbol", "", "only this script")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum trades to show (0 for all)")
	return cmd
}

// tradeFlags are shared by add and edit.
type tradeFlags struct {
	date     string
	symbol   string
	side     string
	qty      int
	entry    float64
	exit     float64
	charges  float64
	followed bool
	mood     string
	remarks  string
}

func (f *tradeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.date, "date", "", "trade date, e.g. 2025-11-24 or 24/11/2025 (default: today)")
	cmd.Flags().StringVar(&f.symbol, "symbol", "", "script traded")
	cmd.Flags().StringVar(&f.side, "side", "", "BUY or SELL")
	cmd.Flags().IntVar(&f.qty, "qty", 0, "quantity")
	cmd.Flags().Float64Var(&f.entry, "entry", 0, "entry price")
	cmd.Flags().Float64Var(&f.exit, "exit", 0, "exit price")
	cmd.Flags().Float64Var(&f.charges, "charges", 0, "brokerage and taxes")
	cmd.Flags().BoolVar(&f.followed, "setup", false, "the trade followed the planned setup")
	cmd.Flags().StringVar(&f.mood, "mood", "", "CALM, CONFIDENT, OVERCONFIDENT, ANXIOUS, FOMO or PANICKED")
	cmd.Flags().StringVar(&f.remarks, "remarks", "", "free-form notes")
}

// parseDateFlag reads a day-first date; an empty value means today.
func parseDateFlag(raw string, now time.Time) (models.TradeInput, error) {
	if strings.TrimSpace(raw) == "" {
		return models.TradeInput{TradeDate: models.TruncateDay(now)}, nil
	}
	d := dates.ParseDayFirst(raw)
	if d.IsZero() {
		return models.TradeInput{}, apperrors.NewValidationError("date", raw, "unrecognized date")
	}
	return models.TradeInput{TradeDate: d}, nil
}

func newTradesAddCmd(app *App) *cobra.Command {
	var f tradeFlags

	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Record a trade",
		Example: `  journal trades add --symbol RELIANCE --side BUY --qty 10 --entry 2450 --exit 2475 --charges 20 --setup --mood CALM`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			in, err := parseDateFlag(f.date, app.clock())
			if err != nil {
				return err
			}
			in.OwnerID = app.owner(cmd)
			in.Symbol = f.symbol
			in.Side = models.OrderSide(f.side)
			in.Quantity = f.qty
			in.EntryPrice = f.entry
			in.ExitPrice = f.exit
			in.Charges = f.charges
			in.FollowedSetup = f.followed
			in.Mood = models.Mood(f.mood)
			in.Remarks = f.remarks

			st, err := app.TradeStore()
			if err != nil {
				return err
			}
			rec, err := st.Create(cmd.Context(), in)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(rec)
			}
			output.Success("✓ Recorded %s %s x%d, net %s", rec.Side, rec.Symbol, rec.Quantity, utils.FormatPnL(rec.NetProfitLoss))
			output.Dim("id %s", rec.ID)
			return nil
		},
	}

	f.register(cmd)
	return cmd
}

// ownedTrade loads id and refuses trades of other owners.
func ownedTrade(ctx context.Context, st store.TradeStore, owner, id string) (models.TradeRecord, error) {
	rec, err := st.Get(ctx, id)
	if err != nil {
		return models.TradeRecord{}, err
	}
	if rec.OwnerID != owner {
		return models.TradeRecord{}, apperrors.NewStoreError("get", "trade "+id, apperrors.ErrNotFound)
	}
	return rec, nil
}

func newTradesEditCmd(app *App) *cobra.Command {
	var f tradeFlags

	cmd := &cobra.Command{
		Use:     "edit <id>",
		Short:   "Change fields of a trade",
		Example: `  journal trades edit 3f2a... --charges 25 --mood FOMO`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			flags := cmd.Flags()

			var patch models.TradePatch
			if flags.Changed("date") {
				in, err := parseDateFlag(f.date, app.clock())
				if err != nil {
					return err
				}
				patch.TradeDate = &in.TradeDate
			}
			if flags.Changed("symbol") {
				patch.Symbol = &f.symbol
			}
			if flags.Changed("side") {
				side := models.OrderSide(f.side)
				patch.Side = &side
			}
			if flags.Changed("qty") {
				patch.Quantity = &f.qty
			}
			if flags.Changed("entry") {
				patch.EntryPrice = &f.entry
			}
			if flags.Changed("exit") {
				patch.ExitPrice = &f.exit
			}
			if flags.Changed("charges") {
				patch.Charges = &f.charges
			}
			if flags.Changed("setup") {
				patch.FollowedSetup = &f.followed
			}
			if flags.Changed("mood") {
				mood := models.Mood(f.mood)
				patch.Mood = &mood
			}
			if flags.Changed("remarks") {
				patch.Remarks = &f.remarks
			}
			if patch.IsEmpty() {
				return apperrors.NewValidationError("flags", args[0], "nothing to change")
			}

			st, err := app.TradeStore()
			if err != nil {
				return err
			}
			if _, err := ownedTrade(cmd.Context(), st, app.owner(cmd), args[0]); err != nil {
				return err
			}
			rec, err := st.Update(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(rec)
			}
			output.Success("✓ Updated %s, net %s", rec.Symbol, utils.FormatPnL(rec.NetProfitLoss))
			return nil
		},
	}

	f.register(cmd)
	return cmd
}

func newTradesDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a trade",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			st, err := app.TradeStore()
			if err != nil {
				return err
			}
			rec, err := ownedTrade(cmd.Context(), st, app.owner(cmd), args[0])
			if err != nil {
				return err
			}
			if err := st.Delete(cmd.Context(), rec.ID); err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]string{"deleted": rec.ID})
			}
			output.Success("✓ Deleted %s %s on %s", rec.Symbol, rec.Side, models.DateKey(rec.TradeDate))
			return nil
		},
	}
}
