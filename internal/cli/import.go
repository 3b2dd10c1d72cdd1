package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	apperrors "trade-journal/internal/errors"
	"trade-journal/internal/importer"
	"trade-journal/internal/mapping"
)

func newImportCmd(app *App) *cobra.Command {
	var (
		overrides []string
		preview   bool
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import trades from a CSV or XLSX sheet",
		Long: `Import trades from a CSV or XLSX sheet.

Columns are matched to journal fields from their headers. Review the proposed
mapping with --preview and correct any column with --map INDEX=FIELD, where
INDEX is the zero-based column number and FIELD one of:
  ` + fieldNames() + `

Rows that break a rule are reported and skipped; the rest are saved.`,
		Example: `  journal import trades.csv --preview
  journal import trades.xlsx --map 3=quantity --map 7=ignore`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			path := args[0]

			f, err := os.Open(path)
			if err != nil {
				return apperrors.Wrap(err, "opening import file")
			}
			defer f.Close()

			pv, err := importer.ReadFile(filepath.Base(path), f, app.Config.MaxFileBytes())
			if err != nil {
				return err
			}
			if err := applyOverrides(&pv.Mapping, overrides); err != nil {
				return err
			}
			pv.Missing = pv.Mapping.Missing()

			if preview {
				if output.IsJSON() {
					return output.JSON(pv)
				}
				printMapping(output, pv)
				return nil
			}

			st, err := app.TradeStore()
			if err != nil {
				return err
			}
			start := time.Now()
			outcome, err := app.Importer(st).Import(cmd.Context(), app.owner(cmd), pv.Table().Rows, pv.Mapping)
			if err != nil {
				if !output.IsJSON() {
					printMapping(output, pv)
				}
				return err
			}

			if output.IsJSON() {
				return output.JSON(struct {
					Mapping mapping.ColumnMapping   `json:"mapping"`
					Outcome *importer.ImportOutcome `json:"outcome"`
				}{pv.Mapping, outcome})
			}
			printMapping(output, pv)
			printOutcome(output, outcome, time.Since(start))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&overrides, "map", nil, "override a column target as INDEX=FIELD (repeatable)")
	cmd.Flags().BoolVar(&preview, "preview", false, "show the proposed mapping without importing")

	return cmd
}

func fieldNames() string {
	names := make([]string, 0, len(mapping.Fields()))
	for _, f := range mapping.Fields() {
		names = append(names, strings.ToLower(string(f)))
	}
	return strings.Join(names, ", ")
}

// applyOverrides parses INDEX=FIELD pairs onto m.
func applyOverrides(m *mapping.ColumnMapping, overrides []string) error {
	for _, o := range overrides {
		idxStr, field, ok := strings.Cut(o, "=")
		if !ok {
			return apperrors.NewValidationError("map", o, "want INDEX=FIELD")
		}
		idx, err := strconv.Atoi(strings.TrimSpace(idxStr))
		if err != nil {
			return apperrors.NewValidationError("map", o, "column index must be a number")
		}
		target, err := mapping.ParseTarget(field)
		if err != nil {
			return apperrors.NewValidationError("map", o, err.Error())
		}
		if err := m.Set(idx, target); err != nil {
			return apperrors.NewValidationError("map", o, err.Error())
		}
	}
	return nil
}

func printMapping(output *Output, pv *importer.Preview) {
	output.Bold("%s: %d data rows", pv.File, pv.Rows)
	table := NewTable(output, "#", "Header", "Sample", "Field")
	for _, c := range pv.Mapping.Columns {
		target := string(c.Target)
		if c.Target == mapping.FieldIgnore {
			target = output.Yellow(target)
		}
		table.AddRow(strconv.Itoa(c.SourceIndex), TruncateString(c.Header, 24), TruncateString(c.Sample, 20), target)
	}
	table.Render()

	if len(pv.Missing) > 0 {
		names := make([]string, len(pv.Missing))
		for i, f := range pv.Missing {
			names[i] = string(f)
		}
		output.Println()
		output.Warning("Unmapped required fields: %s", strings.Join(names, ", "))
	}
	output.Println()
}

func printOutcome(output *Output, outcome *importer.ImportOutcome, elapsed time.Duration) {
	summary := fmt.Sprintf("Imported %d of %d rows", outcome.Succeeded, outcome.Succeeded+outcome.Failed)
	if outcome.Failed == 0 {
		output.Success("✓ %s", summary)
	} else {
		output.Warning("%s, %d failed", summary, outcome.Failed)
	}
	if outcome.Skipped > 0 {
		output.Dim("%d blank rows skipped", outcome.Skipped)
	}
	output.Dim("Finished in %s", FormatDuration(elapsed))
	for _, e := range outcome.Errors {
		output.Error("  %s", e.String())
	}
}
