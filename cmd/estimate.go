package main

import (
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/compcalc/internal/estimate"
	"github.com/sells-group/compcalc/internal/rubric"
)

var estimateCmd = &cobra.Command{
	Use:   "estimate <case-type>",
	Short: "Estimate a compensation range for one case",
	Long: `Estimate a compensation range from answers to a case type's questions.

Answers come from --set key=value flags, a YAML or JSON file given with
--input, or both (flags win). Run "rubrics show <case-type>" to list the
questions and accepted choices.

Examples:
  # Personal injury, answers on the command line
  estimate personal-injury --set injuryType=fracture --set severity=moderate --set medicalCosts=10k-50k

  # Bus accident from a file, JSON output
  estimate bus-accident --input answers.yaml --format json

  # Estimate with required answers still missing
  estimate elder-abuse --set abuseType=neglect --partial`,
	Args: cobra.ExactArgs(1),
	RunE: runEstimate,
}

func init() {
	f := estimateCmd.Flags()
	f.StringArray("set", nil, "answer as key=value (repeatable)")
	f.String("input", "", "YAML or JSON file of answers")
	f.String("format", "table", "output format: table or json")
	f.Bool("partial", false, "estimate even when required answers are missing")

	rootCmd.AddCommand(estimateCmd)
}

func runEstimate(cmd *cobra.Command, args []string) error {
	sets, _ := cmd.Flags().GetStringArray("set")
	inputPath, _ := cmd.Flags().GetString("input")
	format, _ := cmd.Flags().GetString("format")
	partial, _ := cmd.Flags().GetBool("partial")

	if format != "table" && format != "json" {
		return eris.Errorf("estimate: --format must be table or json (got %q)", format)
	}

	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	r, err := lookupRubric(reg, args[0])
	if err != nil {
		return err
	}

	in, err := collectInput(inputPath, sets)
	if err != nil {
		return err
	}

	f, err := newFormatter()
	if err != nil {
		return err
	}

	return estimateOne(cmd.OutOrStdout(), r, in, format, partial, f)
}

// estimateOne checks the input, computes the estimate and writes it.
func estimateOne(out io.Writer, r *rubric.Rubric, in estimate.Input, format string, partial bool, f *estimate.Formatter) error {
	log := zap.L().With(zap.String("command", "estimate"), zap.String("case_type", r.Name))

	if missing := estimate.Missing(r, in); len(missing) > 0 && !partial {
		return eris.Errorf("estimate: missing required answers: %s (use --partial to estimate anyway)",
			strings.Join(missing, ", "))
	}
	logDrift(log, r, in)

	res := estimate.Estimate(r, in)
	log.Debug("estimate: computed",
		zap.Int64("low", res.Low),
		zap.Int64("high", res.High),
		zap.Int64("average", res.Average),
	)

	if format == "json" {
		return writeJSON(out, res)
	}
	formatResult(out, r, res, f)
	return nil
}

func lookupRubric(reg *rubric.Registry, name string) (*rubric.Rubric, error) {
	r, ok := reg.Get(name)
	if !ok {
		return nil, eris.Errorf("unknown case type %q (available: %s)", name, strings.Join(reg.Names(), ", "))
	}
	return r, nil
}

func logDrift(log *zap.Logger, r *rubric.Rubric, in estimate.Input) {
	for _, issue := range estimate.Drift(r, in) {
		log.Warn("estimate: answer ignored",
			zap.String("key", issue.Key),
			zap.String("value", issue.Value),
			zap.String("reason", issue.Reason),
		)
	}
}
