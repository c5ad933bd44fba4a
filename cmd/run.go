package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/formswarm/internal/batch"
	"github.com/xkilldash9x/formswarm/internal/browser"
	"github.com/xkilldash9x/formswarm/internal/config"
)

// newRunCmd creates the `run` command, which executes a full batch of
// form submissions.
func newRunCmd(state *appState) *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Submits a batch of randomized responses to the target form",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Bind flags so CLI values override config file and env
			// with the right precedence.
			bindings := map[string]string{
				"form.url":             "url",
				"batch.count":          "count",
				"batch.workers":        "workers",
				"batch.seed":           "seed",
				"batch.screenshot_dir": "screenshot-dir",
				"browser.headless":     "headless",
			}
			for key, flag := range bindings {
				if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
					return err
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Re-unmarshal so the flag overrides bound in PreRunE land
			// in the config.
			if err := viper.Unmarshal(&state.cfg); err != nil {
				return fmt.Errorf("failed to re-unmarshal config with flag overrides: %w", err)
			}
			if err := state.cfg.Validate(); err != nil {
				return err
			}

			ctx := cmd.Context()
			logger := state.logger

			factory := browser.NewFactory(state.cfg.Browser, logger)
			runner := batch.NewRunner(state.cfg, factory, logger)

			tally, err := runner.Run(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(),
				"\nBatch complete: %d successful, %d failed, %d total (%.1f%% success)\n",
				tally.Successful, tally.Failed, tally.Total, tally.SuccessRate())

			if err != nil {
				logger.Warn("run interrupted", zap.Error(err))
				return err
			}
			return nil
		},
	}

	runCmd.Flags().String("url", config.DefaultFormURL, "target form URL")
	runCmd.Flags().Int("count", config.DefaultCount, "number of submissions")
	runCmd.Flags().Int("workers", config.DefaultWorkers, "maximum concurrent browser instances")
	runCmd.Flags().Int64("seed", 0, "base random seed (0 picks one from the clock)")
	runCmd.Flags().String("screenshot-dir", config.DefaultScreenshotDir, "directory for final-state screenshots")
	runCmd.Flags().Bool("headless", true, "run browsers headless")

	return runCmd
}
