// Package ui renders CLI output.
package ui

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/pterm/pterm"

	"github.com/satishbabariya/recordguard/query/domain"
)

var (
	// Colors
	PrimaryColor   = lipgloss.Color("#00D9FF")
	SuccessColor   = lipgloss.Color("#00FF88")
	WarningColor   = lipgloss.Color("#FFB800")
	ErrorColor     = lipgloss.Color("#FF4444")
	SecondaryColor = lipgloss.Color("#6C757D")

	// Styles
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	SecondaryStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor)

	keyColor  = color.New(color.FgCyan, color.Bold)
	nullColor = color.New(color.FgHiBlack)
)

// NullText is shown for nil values.
const NullText = "NULL"

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...any) {
	fmt.Println(SuccessStyle.Render("✓ " + fmt.Sprintf(format, args...)))
}

// PrintError prints an error message
func PrintError(format string, args ...any) {
	fmt.Fprintln(os.Stderr, ErrorStyle.Render("✗ "+fmt.Sprintf(format, args...)))
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...any) {
	fmt.Println(WarningStyle.Render("⚠ " + fmt.Sprintf(format, args...)))
}

// PrintInfo prints an info message
func PrintInfo(format string, args ...any) {
	fmt.Println(InfoStyle.Render("ℹ " + fmt.Sprintf(format, args...)))
}

// PrintSection prints a section title
func PrintSection(title string) {
	fmt.Println(TitleStyle.Render(title))
}

// FormatValue renders a column value as text.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return NullText
	case []byte:
		return fmt.Sprintf("0x%x", t)
	default:
		return fmt.Sprint(t)
	}
}

// TableData converts rows to a header line plus one line per row.
// Column names come from the first row.
func TableData(rows []domain.Row) [][]string {
	if len(rows) == 0 {
		return nil
	}
	data := [][]string{rows[0].Names()}
	for _, r := range rows {
		line := make([]string, len(r))
		for i, c := range r {
			line[i] = FormatValue(c.Value)
		}
		data = append(data, line)
	}
	return data
}

// PrintRows prints rows as a table
func PrintRows(rows []domain.Row) error {
	data := TableData(rows)
	if data == nil {
		fmt.Println(SecondaryStyle.Render("(no rows)"))
		return nil
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData(data)).Render(); err != nil {
		return err
	}
	fmt.Println(SecondaryStyle.Render(fmt.Sprintf("(%d rows)", len(rows))))
	return nil
}

// PrintRecord prints one row as key/value lines
func PrintRecord(w io.Writer, row domain.Row) {
	for _, c := range row {
		keyColor.Fprintf(w, "%s: ", c.Name)
		if c.Value == nil {
			nullColor.Fprintln(w, NullText)
			continue
		}
		fmt.Fprintln(w, FormatValue(c.Value))
	}
}

// PrintList prints a bulleted list
func PrintList(w io.Writer, items []string) {
	for _, item := range items {
		fmt.Fprintf(w, "  • %s\n", item)
	}
}

// SQLMarkdown renders a statement and its parameters as markdown.
func SQLMarkdown(text string, params domain.Params) string {
	md := "```sql\n" + text + "\n```\n"
	if len(params) == 0 {
		return md
	}

	names := make([]string, 0, len(params))
	for k := range params {
		names = append(names, k)
	}
	sort.Strings(names)

	md += "\n| parameter | value |\n|---|---|\n"
	for _, n := range names {
		md += fmt.Sprintf("| @%s | %s |\n", n, FormatValue(params[n]))
	}
	return md
}

// PrintMarkdown renders markdown content
func PrintMarkdown(content string) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return err
	}

	out, err := r.Render(content)
	if err != nil {
		return err
	}

	fmt.Print(out)
	return nil
}

// PrintSpinner creates a spinner and returns it
func PrintSpinner(message string) (*pterm.SpinnerPrinter, error) {
	return pterm.DefaultSpinner.WithText(message).Start()
}
