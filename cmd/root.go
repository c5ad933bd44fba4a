package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/formswarm/internal/config"
	"github.com/xkilldash9x/formswarm/internal/observability"
)

var cfgFile string

// appState carries the configuration and logger built once in the root
// command's PersistentPreRunE and consumed by subcommands.
type appState struct {
	cfg         config.Config
	logger      *zap.Logger
	closeLogger func()
}

// NewRootCommand builds a fresh root command tree. A new instance per
// invocation keeps flag state from leaking between runs in tests.
func NewRootCommand() *cobra.Command {
	state := &appState{}

	rootCmd := &cobra.Command{
		Use:     "formswarm",
		Short:   "formswarm fills and submits survey forms in bulk.",
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initializeConfig(); err != nil {
				return err
			}
			if err := viper.Unmarshal(&state.cfg); err != nil {
				return fmt.Errorf("failed to unmarshal config: %w", err)
			}

			logger, closeLogger, err := observability.NewStdoutLogger(state.cfg.Logger)
			if err != nil {
				return fmt.Errorf("failed to build logger: %w", err)
			}
			state.logger = logger
			state.closeLogger = closeLogger
			logger.Info("starting formswarm", zap.String("version", Version))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if state.closeLogger != nil {
				state.closeLogger()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	rootCmd.AddCommand(newRunCmd(state))
	return rootCmd
}

// Execute runs the root command under the signal-aware context.
func Execute(ctx context.Context) error {
	rootCmd := NewRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}

// initializeConfig layers defaults, the optional config file and
// FORMSWARM_* environment variables into the global viper instance.
func initializeConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("FORMSWARM")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	config.SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// No config file; defaults and env vars apply.
	}
	return nil
}
