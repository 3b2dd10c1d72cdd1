package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	apperrors "trade-journal/internal/errors"
	"trade-journal/internal/export"
	"trade-journal/internal/performance"
	"trade-journal/internal/store"
)

func newExportCmd(app *App) *cobra.Command {
	var (
		pf  periodFlags
		out string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export trades as CSV with a summary block",
		Long: `Export trades oldest first as CSV. The columns import back unchanged, so an
export can be edited in a spreadsheet and imported into another journal.`,
		Example: `  journal export --period month --out november.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			trades, p, err := app.loadPeriod(cmd.Context(), app.owner(cmd), pf, store.TradeFilter{})
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return apperrors.Wrap(err, "creating export file")
				}
				defer f.Close()
				w = f
			}

			stats := performance.Compute(trades, performance.WithTopN(app.Config.Report.TopScripts))
			if err := export.Write(w, trades, stats); err != nil {
				return apperrors.Wrap(err, "writing export")
			}

			app.Logger.Info().Int("trades", len(trades)).Str("period", p.String()).Str("out", out).Msg("Export written")
			if out != "" && out != "-" {
				NewOutput(cmd).Success("✓ Exported %d trades to %s", len(trades), out)
			}
			return nil
		},
	}

	pf.register(cmd, "")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: stdout)")

	return cmd
}
