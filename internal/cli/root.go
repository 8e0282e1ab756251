// Package cli implements quotectl, a command line front end to the quote pipeline.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/insurance-quote-service/internal/domain/pricing"
	"github.com/jsamuelsen/insurance-quote-service/internal/platform/config"
	"github.com/jsamuelsen/insurance-quote-service/internal/platform/logging"
)

type ExitCode int

const (
	exitCodeSuccess ExitCode = 0
	exitCodeError   ExitCode = 1
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	configDir string
	profile   string
	verbose   bool
}

// Run executes quotectl with os.Args and returns the process exit code.
func Run() ExitCode {
	if err := NewRootCmd().Execute(); err != nil {
		return exitCodeError
	}

	return exitCodeSuccess
}

// NewRootCmd builds the quotectl command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:          "quotectl",
		Short:        "Compute insurance quotes from the command line.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cmd.Help(); err != nil {
				return fmt.Errorf("failed to show help: %w", err)
			}

			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configDir, "config-dir", "configs", "directory holding base.yaml and profile files")
	flags.StringVarP(&opts.profile, "profile", "p", os.Getenv("APP_ENVIRONMENT"), "config profile to layer over base.yaml")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "set debug logging level")

	rootCmd.AddCommand(
		newComputeCmd(opts).Command(),
		newStagesCmd(opts).Command(),
	)

	return rootCmd
}

// loadConfig reads and validates the layered configuration.
func (o *globalOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFrom(o.configDir, o.profile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// newLogger writes human-readable logs to w, at warn unless verbose.
func (o *globalOptions) newLogger(w io.Writer) *slog.Logger {
	level := "warn"
	if o.verbose {
		level = "debug"
	}

	return logging.NewWithWriter(&logging.Config{
		Level:   level,
		Format:  "pretty",
		Service: "quotectl",
	}, w)
}

// buildPipeline builds the pricing pipeline in the configured stage order.
func buildPipeline(cfg *config.Config) (*pricing.Pipeline, error) {
	pipeline, err := pricing.DefaultRegistry().Build(pricing.BasePrice, cfg.Pricing.Stages)
	if err != nil {
		return nil, fmt.Errorf("building pricing pipeline: %w", err)
	}

	return pipeline, nil
}
