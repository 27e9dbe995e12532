package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
)

var partOrder = []string{"QA", "Q", "A"}

// WriteTable prints the macro averages of env as aligned text tables.
func WriteTable(w io.Writer, env *Envelope) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "\n=== Dialog Summarization ROUGE (%s) ===\n\n", env.Version)
	fmt.Fprintf(tw, "Representative score (QA ROUGE-1-R content words, available): %.4f\n", env.RepScore)
	fmt.Fprintf(tw, "Instances: %d\n\n", len(env.Ins))

	fmt.Fprintln(tw, strings.Join([]string{"Part", "Available rate"}, "\t"))
	fmt.Fprintln(tw, "---\t---")
	for _, p := range partOrder {
		fmt.Fprintf(tw, "%s\t%.4f\n", p, env.MacroAve.AvailableRate[p])
	}
	fmt.Fprintln(tw)

	writeMacroTable(tw, "Macro average over available instances", env.MacroAve.Available)
	writeMacroTable(tw, "Macro average over all instances (available sums)", env.MacroAve.Total)

	tw.Flush()
}

func writeMacroTable(tw *tabwriter.Writer, title string, tables map[string]Table) {
	fmt.Fprintf(tw, "%s\n\n", title)

	header := []string{"Metric", "Granularity"}
	header = append(header, partOrder...)
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	fmt.Fprintln(tw, strings.Join(sep, "\t"))

	metrics, granularities := axes(tables)
	for _, m := range metrics {
		for _, g := range granularities {
			row := []string{m, g}
			for _, p := range partOrder {
				row = append(row, fmt.Sprintf("%.4f", tables[p][m][g]))
			}
			fmt.Fprintln(tw, strings.Join(row, "\t"))
		}
	}
	fmt.Fprintln(tw)
}

// axes collects the metric and granularity names present in tables, sorted.
func axes(tables map[string]Table) ([]string, []string) {
	ms := map[string]struct{}{}
	gs := map[string]struct{}{}
	for _, t := range tables {
		for m, row := range t {
			ms[m] = struct{}{}
			for g := range row {
				gs[g] = struct{}{}
			}
		}
	}
	return sortedKeys(ms), sortedKeys(gs)
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
