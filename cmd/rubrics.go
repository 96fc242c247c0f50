package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/compcalc/internal/rubric"
)

var rubricsCmd = &cobra.Command{
	Use:   "rubrics",
	Short: "List case types and their weighting rubrics",
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, _ := cmd.Flags().GetString("format")
		reg, err := loadRegistry()
		if err != nil {
			return err
		}
		if format == "json" {
			return writeJSON(cmd.OutOrStdout(), reg.All())
		}
		f, err := newFormatter()
		if err != nil {
			return err
		}
		formatRubricList(cmd.OutOrStdout(), reg.All(), f)
		return nil
	},
}

var rubricsShowCmd = &cobra.Command{
	Use:   "show <case-type>",
	Short: "Show the questions, kinds and accepted choices for a case type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		reg, err := loadRegistry()
		if err != nil {
			return err
		}
		r, err := lookupRubric(reg, args[0])
		if err != nil {
			return err
		}
		if format == "json" {
			return writeJSON(cmd.OutOrStdout(), r)
		}
		f, err := newFormatter()
		if err != nil {
			return err
		}
		formatRubricDetail(cmd.OutOrStdout(), r, f)
		return nil
	},
}

var rubricsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check builtin rubrics and rubric files for consistency",
	Long: `Validate the builtin rubrics and, with --dir, every rubric file in a
directory. Checks that each option a form can offer resolves to a
coefficient, that bands ascend, and that spreads are ordered.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		if dir == "" && cfg != nil {
			dir = cfg.Rubrics.Dir
		}

		rubrics, err := rubric.Builtin()
		if err != nil {
			return err
		}
		if dir != "" {
			extra, err := rubric.LoadDir(dir)
			if err != nil {
				return err
			}
			rubrics = append(rubrics, extra...)
		}

		return validateRubrics(cmd.OutOrStdout(), rubrics)
	},
}

func init() {
	rubricsCmd.PersistentFlags().String("format", "table", "output format: table or json")
	rubricsValidateCmd.Flags().String("dir", "", "directory of rubric YAML files (default: rubrics.dir)")

	rubricsCmd.AddCommand(rubricsShowCmd)
	rubricsCmd.AddCommand(rubricsValidateCmd)
	rootCmd.AddCommand(rubricsCmd)
}

// validateRubrics reports each rubric's status and fails if any is invalid.
func validateRubrics(out io.Writer, rubrics []*rubric.Rubric) error {
	var failed []string
	for _, r := range rubrics {
		if err := rubric.Validate(r); err != nil {
			failed = append(failed, r.Name)
			_, _ = fmt.Fprintf(out, "FAIL  %s\n      %v\n", r.Name, err)
			continue
		}
		_, _ = fmt.Fprintf(out, "ok    %s\n", r.Name)
	}
	if len(failed) > 0 {
		return eris.Errorf("rubrics: %d of %d invalid: %s", len(failed), len(rubrics), strings.Join(failed, ", "))
	}
	return nil
}
