package reporting

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/relbench/relbench/internal/models"
)

// Format selects a console rendering of a report.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
)

// ParseFormat validates a format name; empty selects FormatText.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "":
		return FormatText, nil
	case FormatText, FormatMarkdown, FormatHTML, FormatJSON:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown format %q: must be one of text, markdown, html, json", s)
	}
}

// Write renders the report to w in the given format.
func Write(w io.Writer, r *Report, f Format) error {
	switch f {
	case FormatText, "":
		_, err := io.WriteString(w, Text(r))
		return err
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(r))
		return err
	case FormatHTML:
		return HTML(w, r)
	case FormatJSON:
		return JSON(w, r)
	default:
		return fmt.Errorf("unknown format %q", f)
	}
}

// WriteAll renders several task reports. JSON output is a single array.
func WriteAll(w io.Writer, reports []*Report, f Format) error {
	if f == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if reports == nil {
			reports = []*Report{}
		}
		return enc.Encode(reports)
	}
	for i, r := range reports {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := Write(w, r, f); err != nil {
			return err
		}
	}
	return nil
}

// fmtScore prints two decimals, with "nan" for undefined values.
func fmtScore(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// StrategyHeader is the line logged before each strategy's summaries.
func StrategyHeader(model, strategy string) string {
	return fmt.Sprintf("Model: %s, Strategy: %s", model, strategy)
}

// SummaryLine renders one summary as "auc: 0.90 +- 0.10".
func SummaryLine(s MetricSummary) string {
	return fmt.Sprintf("%s: %s +- %s", s.Metric, fmtScore(s.Mean), fmtScore(s.StdDev))
}

// LaTeXRow renders a model's summaries as table cells, strategies first and
// metrics within each strategy, e.g. "& 0.90 (0.10) & 0.75 (0.05) ".
func LaTeXRow(m ModelReport) string {
	var b strings.Builder
	for _, s := range m.Strategies {
		for _, ms := range s.Metrics {
			fmt.Fprintf(&b, "& %s (%s) ", fmtScore(ms.Mean), fmtScore(ms.StdDev))
		}
	}
	return b.String()
}

// Text renders the report as the plain log-style listing.
func Text(r *Report) string {
	var b strings.Builder
	if r.Task != "" {
		fmt.Fprintf(&b, "Results for %s\n", r.Task)
	}
	for _, m := range r.Models {
		for _, s := range m.Strategies {
			b.WriteString("\n")
			b.WriteString(StrategyHeader(m.Model, s.Strategy))
			b.WriteString("\n")
			for _, ms := range s.Metrics {
				b.WriteString(SummaryLine(ms))
				if ms.CI != nil {
					fmt.Fprintf(&b, " [%s, %s]", fmtScore(ms.CI.Lower), fmtScore(ms.CI.Upper))
				}
				b.WriteString("\n")
			}
		}
		fmt.Fprintf(&b, "\nLaTeX (%s): %s\n", m.Model, LaTeXRow(m))
	}
	if len(r.Degenerate) > 0 {
		fmt.Fprintf(&b, "\n%d degenerate group(s) with undefined metrics\n", len(r.Degenerate))
	}
	return b.String()
}

// Markdown renders one table per model with a row per strategy.
func Markdown(r *Report) string {
	var b strings.Builder
	title := "Results"
	if r.Task != "" {
		title = "Results: " + r.Task
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	for _, m := range r.Models {
		fmt.Fprintf(&b, "## %s\n\n", m.Model)
		b.WriteString("| Strategy | Groups |")
		for _, name := range r.Metrics {
			fmt.Fprintf(&b, " %s |", name)
		}
		b.WriteString("\n|---|---|")
		for range r.Metrics {
			b.WriteString("---|")
		}
		b.WriteString("\n")
		for _, s := range m.Strategies {
			fmt.Fprintf(&b, "| %s | %d |", s.Strategy, s.Groups)
			for _, name := range r.Metrics {
				ms, _ := s.Summary(name)
				fmt.Fprintf(&b, " %s ± %s |", fmtScore(ms.Mean), fmtScore(ms.StdDev))
			}
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "\n`%s`\n\n", strings.TrimSpace(LaTeXRow(m)))
	}

	if len(r.Degenerate) > 0 {
		b.WriteString("## Degenerate groups\n\n")
		for _, k := range r.Degenerate {
			fmt.Fprintf(&b, "- %s\n", k)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// HTML renders the markdown report to HTML.
func HTML(w io.Writer, r *Report) error {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	var buf bytes.Buffer
	if err := md.Convert([]byte(Markdown(r)), &buf); err != nil {
		return fmt.Errorf("rendering html: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// JSON writes the report as indented JSON. NaN summaries become null.
func JSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// TableFormat selects a rendering of the per-group metric table.
type TableFormat string

const (
	TableText TableFormat = "table"
	TableJSON TableFormat = "json"
	TableCSV  TableFormat = "csv"
)

// ParseTableFormat validates a table format name; empty selects TableText.
func ParseTableFormat(s string) (TableFormat, error) {
	switch f := TableFormat(strings.ToLower(s)); f {
	case "":
		return TableText, nil
	case TableText, TableJSON, TableCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unknown table format %q: must be one of table, json, csv", s)
	}
}

// WriteTable renders per-group metric rows to w.
func WriteTable(w io.Writer, rows []models.MetricRow, names []string, f TableFormat) error {
	switch f {
	case TableText, "":
		_, err := io.WriteString(w, MetricsTable(rows, names))
		return err
	case TableCSV:
		return MetricsCSV(w, rows, names)
	case TableJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(jsonRows(rows, names))
	default:
		return fmt.Errorf("unknown table format %q", f)
	}
}

var keyColumns = []string{
	models.ColumnSeed,
	models.ColumnUser,
	models.ColumnModel,
	models.ColumnStrategy,
	models.ColumnReadingTask,
	"n",
}

func keyCells(row models.MetricRow) []string {
	return []string{
		strconv.Itoa(row.Key.Seed),
		row.Key.User,
		row.Key.Model,
		row.Key.Strategy,
		row.Key.ReadingTask,
		strconv.Itoa(row.Samples),
	}
}

func scoreCell(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// MetricsTable renders one aligned line per group.
func MetricsTable(rows []models.MetricRow, names []string) string {
	header := append(append([]string(nil), keyColumns...), names...)
	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		line := keyCells(row)
		for _, n := range names {
			line = append(line, scoreCell(row.Score(n)))
		}
		cells = append(cells, line)
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, line := range cells {
		for i, c := range line {
			if w := runewidth.StringWidth(c); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	writeLine := func(line []string) {
		for i, c := range line {
			if i > 0 {
				b.WriteString("  ")
			}
			if i == len(line)-1 {
				b.WriteString(c)
				continue
			}
			b.WriteString(padRight(c, widths[i]))
		}
		b.WriteString("\n")
	}
	writeLine(header)
	sep := make([]string, len(header))
	for i, w := range widths {
		sep[i] = strings.Repeat("─", w)
	}
	writeLine(sep)
	for _, line := range cells {
		writeLine(line)
	}
	return b.String()
}

// padRight pads s with spaces to the given display width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}

// MetricsCSV writes per-group metric rows as CSV with a header line.
func MetricsCSV(w io.Writer, rows []models.MetricRow, names []string) error {
	cw := csv.NewWriter(w)
	header := append(append([]string(nil), keyColumns...), names...)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		line := keyCells(row)
		for _, n := range names {
			line = append(line, strconv.FormatFloat(row.Score(n), 'g', -1, 64))
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type jsonRow struct {
	models.GroupKey
	Samples int                 `json:"n"`
	Scores  map[string]*float64 `json:"scores"`
}

func jsonRows(rows []models.MetricRow, names []string) []jsonRow {
	out := make([]jsonRow, 0, len(rows))
	for _, row := range rows {
		jr := jsonRow{GroupKey: row.Key, Samples: row.Samples, Scores: make(map[string]*float64, len(names))}
		for _, n := range names {
			jr.Scores[n] = finite(row.Score(n))
		}
		out = append(out, jr)
	}
	return out
}
