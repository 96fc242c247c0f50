package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"

	"github.com/sells-group/compcalc/internal/estimate"
	"github.com/sells-group/compcalc/internal/rubric"
)

// formatResult writes a human-readable estimate followed by the disclaimer.
func formatResult(out io.Writer, r *rubric.Rubric, res estimate.Result, f *estimate.Formatter) {
	_, _ = fmt.Fprintln(out, r.Title)
	_, _ = fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Estimated range:\t%s\n", f.Range(res.Low, res.High))
	_, _ = fmt.Fprintf(w, "Average:\t%s\n", f.Money(res.Average))
	_ = w.Flush()

	_, _ = fmt.Fprintln(out, "\nBreakdown:")
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, li := range res.Breakdown {
		_, _ = fmt.Fprintf(w, "  %s\t%s\t\n", li.Label, f.Money(li.Amount))
	}
	_ = w.Flush()

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, res.Disclaimer)
}

// writeJSON writes any value as indented JSON.
func writeJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrap(err, "output: marshal JSON")
	}
	if _, err := out.Write(append(data, '\n')); err != nil {
		return eris.Wrap(err, "output: write JSON")
	}
	return nil
}

// formatRubricList writes a table of case types.
func formatRubricList(out io.Writer, rubrics []*rubric.Rubric, f *estimate.Formatter) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "CASE TYPE\tTITLE\tBASE\tSPREAD\tFACTORS")
	_, _ = fmt.Fprintln(w, "---------\t-----\t----\t------\t-------")
	for _, r := range rubrics {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%.2f-%.2f\t%d\n",
			r.Name,
			r.Title,
			f.Money(int64(r.BaseAmount)),
			r.LowSpread,
			r.HighSpread,
			len(r.Factors),
		)
	}
	_ = w.Flush()
}

// formatRubricDetail writes every factor of a rubric with its choices.
func formatRubricDetail(out io.Writer, r *rubric.Rubric, f *estimate.Formatter) {
	_, _ = fmt.Fprintf(out, "%s (%s)\n", r.Title, r.Name)
	_, _ = fmt.Fprintf(out, "Base amount: %s   Spread: %.2f - %.2f\n\n", f.Money(int64(r.BaseAmount)), r.LowSpread, r.HighSpread)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "KEY\tKIND\tGROUP\tREQUIRED\tCHOICES")
	_, _ = fmt.Fprintln(w, "---\t----\t-----\t--------\t-------")
	for _, fac := range r.Factors {
		group := fac.Group
		if fac.Kind.Multiplicative() {
			group = r.MultiplierLabel
		}
		if fac.Compounded {
			group += " (compounded)"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%s\n", fac.Key, fac.Kind, group, fac.Required, describeChoices(fac))
	}
	_ = w.Flush()
}

func describeChoices(f rubric.Factor) string {
	switch {
	case f.Kind.Categorical():
		return strings.Join(f.OptionValues(), ", ")
	case f.Kind.Banded():
		parts := make([]string, len(f.Bands))
		for i, b := range f.Bands {
			parts[i] = fmt.Sprintf("<=%s:%s", trimFloat(b.Max), trimFloat(b.Value))
		}
		return strings.Join(parts, " ")
	default:
		return "number"
	}
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// writeBatchCSV writes each input row followed by its estimate.
func writeBatchCSV(out io.Writer, header []string, inputs []estimate.Input, results []estimate.Result) error {
	cw := csv.NewWriter(out)

	cols := append(append([]string{}, header...), "low", "high", "average")
	if err := cw.Write(cols); err != nil {
		return eris.Wrap(err, "batch: write CSV header")
	}

	for i, in := range inputs {
		row := make([]string, 0, len(cols))
		for _, key := range header {
			row = append(row, fmt.Sprint(valueOrEmpty(in[key])))
		}
		res := results[i]
		row = append(row,
			strconv.FormatInt(res.Low, 10),
			strconv.FormatInt(res.High, 10),
			strconv.FormatInt(res.Average, 10),
		)
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "batch: write CSV row")
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "batch: flush CSV")
}

func valueOrEmpty(v any) any {
	if v == nil {
		return ""
	}
	return v
}
