package main

import (
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/compcalc/internal/estimate"
	"github.com/sells-group/compcalc/internal/rubric"
)

var batchCmd = &cobra.Command{
	Use:   "batch <case-type>",
	Short: "Estimate many cases from a CSV or XLSX file",
	Long: `Estimate every row of a CSV or XLSX file.

The first row names the answer keys (see "rubrics show <case-type>"); each
following row is one case. Output is CSV with the input columns followed by
low, high and average.

Examples:
  batch personal-injury --input leads.csv --output estimates.csv
  batch truck-accident --input intake.xlsx --sheet "March"`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	f := batchCmd.Flags()
	f.String("input", "", "CSV or XLSX file of cases (required)")
	f.String("sheet", "", "XLSX sheet name (default: first sheet)")
	f.String("output", "", "output CSV path (default: stdout)")
	_ = batchCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	sheet, _ := cmd.Flags().GetString("sheet")
	outputPath, _ := cmd.Flags().GetString("output")

	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	r, err := lookupRubric(reg, args[0])
	if err != nil {
		return err
	}

	rows, err := readRows(inputPath, sheet)
	if err != nil {
		return err
	}

	maxRows := 0
	if cfg != nil {
		maxRows = cfg.Batch.MaxRows
	}

	var out io.Writer = cmd.OutOrStdout()
	if outputPath != "" {
		fh, err := os.Create(outputPath)
		if err != nil {
			return eris.Wrapf(err, "batch: create %s", outputPath)
		}
		defer fh.Close() //nolint:errcheck
		out = fh
	}

	return estimateBatch(out, r, rows, maxRows)
}

// estimateBatch estimates every record in rows and writes CSV to out.
// maxRows of 0 means no limit.
func estimateBatch(out io.Writer, r *rubric.Rubric, rows [][]string, maxRows int) error {
	runID := uuid.New().String()
	log := zap.L().With(
		zap.String("command", "batch"),
		zap.String("run_id", runID),
		zap.String("case_type", r.Name),
	)

	header, inputs, err := rowsToInputs(rows)
	if err != nil {
		return err
	}
	if maxRows > 0 && len(inputs) > maxRows {
		return eris.Errorf("batch: %d rows exceeds batch.max_rows (%d)", len(inputs), maxRows)
	}

	for _, key := range header {
		if key == "" {
			continue
		}
		if _, ok := r.Factor(key); !ok {
			log.Warn("batch: column is not a factor, ignoring", zap.String("column", key))
		}
	}

	results := make([]estimate.Result, len(inputs))
	var incomplete, drifted int
	for i, in := range inputs {
		if missing := estimate.Missing(r, in); len(missing) > 0 {
			incomplete++
			log.Debug("batch: row missing required answers",
				zap.Int("row", i+2),
				zap.Strings("missing", missing),
			)
		}
		for _, issue := range estimate.Drift(r, in) {
			if _, ok := r.Factor(issue.Key); !ok {
				continue // reported once per column above
			}
			drifted++
			log.Warn("batch: answer ignored",
				zap.Int("row", i+2),
				zap.String("key", issue.Key),
				zap.String("value", issue.Value),
				zap.String("reason", issue.Reason),
			)
		}
		results[i] = estimate.Estimate(r, in)
	}

	if err := writeBatchCSV(out, header, inputs, results); err != nil {
		return err
	}

	log.Info("batch: complete",
		zap.Int("rows", len(inputs)),
		zap.Int("incomplete_rows", incomplete),
		zap.Int("ignored_answers", drifted),
	)
	return nil
}
