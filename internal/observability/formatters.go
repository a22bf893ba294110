// Package observability provides console logging and run summaries for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/jonathan/disease-harvester/internal/pipeline"
	"github.com/jonathan/disease-harvester/internal/sources"
	"github.com/jonathan/disease-harvester/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// sampleFieldCount is the number of fields shown per sample record
	sampleFieldCount = 2
)

// Printer handles formatted run output
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

func (p *Printer) newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(p.out)
	return t
}

// truncate shortens s to at most max terminal columns. Hangul and other wide
// runes count as two.
func truncate(s string, max int) string {
	if text.RuneWidthWithoutEscSequences(s) <= max {
		return s
	}
	var sb strings.Builder
	width := 0
	for _, r := range s {
		w := text.RuneWidth(r)
		if width+w > max-3 {
			break
		}
		sb.WriteRune(r)
		width += w
	}
	return sb.String() + "..."
}

// pad right-fills s with spaces to width columns.
func pad(s string, width int) string {
	if gap := width - text.RuneWidthWithoutEscSequences(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(title, boxWidth-4), boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(line, boxWidth-4), boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintSummary outputs the run counters as a table.
func (p *Printer) PrintSummary(result *pipeline.Result) {
	if result == nil {
		return
	}

	t := p.newTable()
	t.SetTitle("HARVEST SUMMARY")
	t.AppendHeader(table.Row{"Metric", "Count"})
	t.AppendRows([]table.Row{
		{"Listing pages fetched", result.Pagination.PagesFetched},
		{"Candidates discovered", result.Discovered},
		{"Details succeeded", result.Succeeded},
		{"Details failed", result.Failed},
		{"Records persisted", result.Persisted},
		{"Persist failures", result.PersistFailures},
		{"Checkpoints written", result.Checkpoints},
	})
	t.Render()
}

// PrintFieldCoverage outputs, per field, how many records hold data, plus the
// number of records with an alternate name.
func (p *Printer) PrintFieldCoverage(result *pipeline.Result, fields []types.FieldName) {
	if result == nil || len(result.Records) == 0 {
		return
	}

	coverage := result.FieldCoverage(fields)
	total := len(result.Records)

	t := p.newTable()
	t.SetTitle("FIELD COVERAGE")
	t.AppendHeader(table.Row{"Field", "With data", "Share"})
	for _, f := range fields {
		t.AppendRow(table.Row{string(f), fmt.Sprintf("%d/%d", coverage[f], total), percent(coverage[f], total)})
	}
	t.AppendFooter(table.Row{"alt name", fmt.Sprintf("%d/%d", result.AltNames(), total), percent(result.AltNames(), total)})
	t.Render()
}

func percent(n, total int) string {
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", float64(n)*100/float64(total))
}

// PrintSample outputs the first records with their leading fields.
func (p *Printer) PrintSample(result *pipeline.Result, fields []types.FieldName, noData string) {
	if result == nil || len(result.Records) == 0 {
		return
	}
	if len(fields) > sampleFieldCount {
		fields = fields[:sampleFieldCount]
	}

	var sb strings.Builder
	count := min(len(result.Records), maxItemsToShow)
	for i := 0; i < count; i++ {
		rec := result.Records[i]
		name := rec.PrimaryName
		if rec.AltName != "" {
			name += " (" + rec.AltName + ")"
		}
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, name))
		for _, f := range fields {
			sb.WriteString(fmt.Sprintf("   %s: %s\n", f, rec.Field(f).Or(noData)))
		}
	}
	if len(result.Records) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more records", len(result.Records)-maxItemsToShow))
	}

	p.printBox("SAMPLE RECORDS", strings.TrimRight(sb.String(), "\n"))
}

// PrintFailures lists candidates that produced no record.
func (p *Printer) PrintFailures(result *pipeline.Result) {
	if result == nil || len(result.Failures) == 0 {
		return
	}

	t := p.newTable()
	t.SetTitle("FAILED CANDIDATES")
	t.AppendHeader(table.Row{"#", "Name", "Reason"})
	for i, f := range result.Failures {
		if i == maxItemsToShow {
			t.AppendFooter(table.Row{"", fmt.Sprintf("... and %d more", len(result.Failures)-maxItemsToShow), ""})
			break
		}
		t.AppendRow(table.Row{i + 1, f.Candidate.Name, truncate(f.Reason, boxWidth)})
	}
	t.Render()
}

// PrintSources outputs the registered sources and their fields.
func (p *Printer) PrintSources(srcs []*sources.Source) {
	t := p.newTable()
	t.AppendHeader(table.Row{"Name", "Title", "Fields", "Default sink", "Table"})
	for _, s := range srcs {
		names := make([]string, 0, len(s.Fields()))
		for _, f := range s.Fields() {
			names = append(names, string(f))
		}
		t.AppendRow(table.Row{s.Name, s.Title, strings.Join(names, ", "), s.DefaultSink, s.Table})
	}
	t.Render()
}
