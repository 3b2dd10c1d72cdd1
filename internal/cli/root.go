package cli

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"trade-journal/internal/config"
	"trade-journal/internal/importer"
	"trade-journal/internal/logging"
	"trade-journal/internal/metrics"
	"trade-journal/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2025-11-30"
)

// App holds the application dependencies. Fields left nil are built from
// the loaded configuration on first use.
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Store   store.TradeStore
	Metrics *metrics.Metrics

	now       func() time.Time
	ownsStore bool
}

// TradeStore opens the configured store once.
func (a *App) TradeStore() (store.TradeStore, error) {
	if a.Store != nil {
		return a.Store, nil
	}
	st, err := store.Open(a.Config.Store.Driver, a.Config.Store.Path)
	if err != nil {
		return nil, err
	}
	a.Logger.Debug().Str("driver", a.Config.Store.Driver).Str("path", a.Config.Store.Path).Msg("Store opened")
	a.Store, a.ownsStore = st, true
	return st, nil
}

// Importer builds an importer over the store with the configured limits.
func (a *App) Importer(st store.TradeStore) *importer.Importer {
	return importer.New(st,
		importer.WithConcurrency(a.Config.Import.Concurrency),
		importer.WithLogger(a.Logger),
		importer.WithMetrics(a.Metrics),
	)
}

func (a *App) clock() time.Time {
	if a.now != nil {
		return a.now()
	}
	return time.Now()
}

// owner resolves --owner, falling back to the configured owner.
func (a *App) owner(cmd *cobra.Command) string {
	if o, _ := cmd.Flags().GetString("owner"); strings.TrimSpace(o) != "" {
		return strings.TrimSpace(o)
	}
	return a.Config.Journal.Owner
}

func (a *App) close() error {
	if a.ownsStore && a.Store != nil {
		err := a.Store.Close()
		a.Store, a.ownsStore = nil, false
		return err
	}
	return nil
}

// Execute runs the CLI until completion or an interrupt.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &App{}
	defer app.close()
	return NewRootCmd(app).ExecuteContext(ctx)
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "journal",
		Short: "Trading journal with spreadsheet import and performance analytics",
		Long: `journal keeps a record of realized trades.

Import broker or hand-kept CSV/XLSX sheets with any column order, review how
columns were mapped, and report win rate, profit factor, streaks and the
effect of mood and setup discipline on results.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.Config == nil {
				dir, _ := cmd.Flags().GetString("config")
				cfg, err := config.Load(dir)
				if err != nil {
					return err
				}
				app.Config = cfg
				app.Logger = logging.NewLoggerWithConfig(logging.LogConfig{
					Level:      cfg.Logging.Level,
					Console:    cfg.Logging.Console,
					File:       cfg.Logging.File,
					FilePath:   cfg.Logging.FilePath,
					MaxSize:    cfg.Logging.MaxSize,
					MaxBackups: cfg.Logging.MaxBackups,
					MaxAge:     cfg.Logging.MaxAge,
				})
			}
			if !app.Config.UI.ColorEnabled {
				color.NoColor = true
			}
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			if app.Metrics == nil {
				app.Metrics = metrics.New()
			}
			cmd.SetContext(logging.WithLogger(cmd.Context(), app.Logger))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.close()
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/trade-journal)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("owner", "", "journal owner (default: journal.owner from config)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newConfigCmd(app),
		newImportCmd(app),
		newStatsCmd(app),
		newExportCmd(app),
		newTradesCmd(app),
		newServeCmd(app),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			}
			output.Printf("Trade Journal v%s\n", Version)
			output.Dim("Build date: %s", BuildDate)
			return nil
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			dir, _ := cmd.Flags().GetString("config")
			if dir == "" {
				dir = config.DefaultConfigDir()
			}
			if output.IsJSON() {
				return output.JSON(map[string]string{"path": dir})
			}
			output.Println(dir)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]bool{"valid": true})
			}
			output.Success("✓ Configuration is valid")
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Journal")
	output.Printf("  Owner:           %s\n", cfg.Journal.Owner)
	output.Printf("  Store:           %s (%s)\n", cfg.Store.Driver, cfg.Store.Path)
	output.Println()

	output.Bold("Import")
	output.Printf("  Concurrency:     %d\n", cfg.Import.Concurrency)
	output.Printf("  Max file size:   %d MB\n", cfg.Import.MaxFileMB)
	output.Println()

	output.Bold("Reports")
	output.Printf("  Top scripts:     %d\n", cfg.Report.TopScripts)
	output.Printf("  Default period:  %s\n", cfg.Report.DefaultPeriod)
	output.Println()

	output.Bold("Server")
	output.Printf("  Address:         %s\n", cfg.Server.Addr)
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level:           %s\n", cfg.Logging.Level)
	output.Printf("  File:            %v (%s)\n", cfg.Logging.File, cfg.Logging.FilePath)
}
