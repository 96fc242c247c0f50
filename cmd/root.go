package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/compcalc/internal/config"
	"github.com/sells-group/compcalc/internal/estimate"
	"github.com/sells-group/compcalc/internal/rubric"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "compcalc",
	Short: "Compensation estimate calculator",
	Long:  "Computes compensation estimate ranges for personal-injury case types from static weighting rubrics.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := c.Validate(); err != nil {
			return err
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

// loadRegistry returns the builtin rubrics plus any from rubrics.dir.
func loadRegistry() (*rubric.Registry, error) {
	if cfg == nil || cfg.Rubrics.Dir == "" {
		return rubric.Default()
	}
	return rubric.Load(cfg.Rubrics.Dir)
}

func newFormatter() (*estimate.Formatter, error) {
	if cfg == nil {
		return estimate.DefaultFormatter(), nil
	}
	return estimate.NewFormatter(cfg.Display.Locale, cfg.Display.CurrencySymbol)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
