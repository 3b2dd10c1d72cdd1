package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Output handles formatted output for the CLI.
type Output struct {
	writer       io.Writer
	jsonMode     bool
	colorEnabled bool
}

// NewOutput creates a new Output instance. Color follows fatih/color's
// terminal detection and is always off in JSON mode.
func NewOutput(cmd *cobra.Command) *Output {
	jsonMode, _ := cmd.Flags().GetBool("json")
	return &Output{
		writer:       cmd.OutOrStdout(),
		jsonMode:     jsonMode,
		colorEnabled: !jsonMode && !color.NoColor,
	}
}

// IsJSON returns true if JSON output mode is enabled.
func (o *Output) IsJSON() bool {
	return o.jsonMode
}

// JSON outputs data as indented JSON.
func (o *Output) JSON(data interface{}) error {
	encoder := json.NewEncoder(o.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Println prints a message with newline.
func (o *Output) Println(args ...interface{}) {
	fmt.Fprintln(o.writer, args...)
}

// Printf prints a formatted message.
func (o *Output) Printf(format string, args ...interface{}) {
	fmt.Fprintf(o.writer, format, args...)
}

// Success prints a success message in green.
func (o *Output) Success(format string, args ...interface{}) {
	o.line(color.New(color.FgGreen), format, args...)
}

// Error prints an error message in red.
func (o *Output) Error(format string, args ...interface{}) {
	o.line(color.New(color.FgRed), format, args...)
}

// Warning prints a warning message in yellow.
func (o *Output) Warning(format string, args ...interface{}) {
	o.line(color.New(color.FgYellow), format, args...)
}

// Info prints an info message in cyan.
func (o *Output) Info(format string, args ...interface{}) {
	o.line(color.New(color.FgCyan), format, args...)
}

// Bold prints a bold message.
func (o *Output) Bold(format string, args ...interface{}) {
	o.line(color.New(color.Bold), format, args...)
}

// Dim prints a dimmed message.
func (o *Output) Dim(format string, args ...interface{}) {
	o.line(color.New(color.Faint), format, args...)
}

func (o *Output) line(c *color.Color, format string, args ...interface{}) {
	fmt.Fprintln(o.writer, o.paint(c, fmt.Sprintf(format, args...)))
}

func (o *Output) paint(c *color.Color, text string) string {
	if !o.colorEnabled {
		return text
	}
	c.EnableColor()
	return c.Sprint(text)
}

// Green returns green colored text.
func (o *Output) Green(text string) string { return o.paint(color.New(color.FgGreen), text) }

// Red returns red colored text.
func (o *Output) Red(text string) string { return o.paint(color.New(color.FgRed), text) }

// Yellow returns yellow colored text.
func (o *Output) Yellow(text string) string { return o.paint(color.New(color.FgYellow), text) }

// PnL colors a preformatted amount by the sign of value.
func (o *Output) PnL(value float64, text string) string {
	switch {
	case value > 0:
		return o.Green(text)
	case value < 0:
		return o.Red(text)
	}
	return text
}

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// visibleWidth counts runes outside escape sequences so ₹ and colored
// cells pad correctly.
func visibleWidth(s string) int {
	return utf8.RuneCountInString(ansi.ReplaceAllString(s, ""))
}

// Table is a plain aligned text table.
type Table struct {
	headers []string
	rows    [][]string
	output  *Output
}

// NewTable creates a new table.
func NewTable(output *Output, headers ...string) *Table {
	return &Table{headers: headers, output: output}
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Render writes the table.
func (t *Table) Render() {
	if len(t.headers) == 0 {
		return
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = visibleWidth(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && visibleWidth(cell) > widths[i] {
				widths[i] = visibleWidth(cell)
			}
		}
	}

	t.printRow(t.headers, widths, true)
	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}
	t.output.Println(strings.Join(sep, "  "))
	for _, row := range t.rows {
		t.printRow(row, widths, false)
	}
}

func (t *Table) printRow(cells []string, widths []int, header bool) {
	parts := make([]string, 0, len(widths))
	for i, cell := range cells {
		if i >= len(widths) {
			break
		}
		padded := PadRight(cell, widths[i])
		if header {
			padded = t.output.paint(color.New(color.Bold), padded)
		}
		parts = append(parts, padded)
	}
	t.output.Println(strings.TrimRight(strings.Join(parts, "  "), " "))
}
