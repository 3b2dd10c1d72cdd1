package cli

import (
	"github.com/spf13/cobra"

	"trade-journal/internal/api"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the journal HTTP API",
		Long: `Serve the journal over HTTP. Requests name their journal with the
X-Owner-ID header; without it the configured owner is used.`,
		Example: `  journal serve --addr :8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = app.Config.Server.Addr
			}
			st, err := app.TradeStore()
			if err != nil {
				return err
			}

			srv := api.New(st, app.Importer(st), app.Metrics, app.Logger, api.Options{
				DefaultOwner: app.Config.Journal.Owner,
				MaxFileBytes: app.Config.MaxFileBytes(),
				TopScripts:   app.Config.Report.TopScripts,
			})
			NewOutput(cmd).Info("Listening on %s (Ctrl+C to stop)", addr)
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.addr from config)")
	return cmd
}
