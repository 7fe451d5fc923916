package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/getsentry/sentry-go"
	"github.com/rgehrsitz/ivadual/internal/calculation"
	"github.com/rgehrsitz/ivadual/internal/config"
	"github.com/rgehrsitz/ivadual/internal/domain"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// cliContext carries the process settings resolved before any command runs
type cliContext struct {
	settings   config.Settings
	logger     *zap.SugaredLogger
	parser     *config.InputParser
	configPath string
	debug      bool
	parallel   bool
	phaseOut   bool
	sentry     bool
}

// loadConfiguration reads the configuration file, or returns the defaults
// when none is set
func (c *cliContext) loadConfiguration() (domain.TaxConfiguration, error) {
	if c.configPath == "" {
		return domain.NewDefaultConfiguration(), nil
	}
	cfg, err := c.parser.LoadConfiguration(c.configPath)
	if err != nil {
		return domain.TaxConfiguration{}, err
	}
	c.logger.Debugf("loaded configuration from %s", c.configPath)
	return *cfg, nil
}

func (c *cliContext) newEngine(cfg domain.TaxConfiguration) *calculation.Engine {
	var opts []calculation.Option
	if c.parallel {
		opts = append(opts, calculation.WithParallelYears())
	}
	if c.phaseOut {
		opts = append(opts, calculation.WithLegacyPhaseOut())
	}
	engine := calculation.NewEngine(cfg, opts...)
	engine.SetLogger(c.logger)
	return engine
}

func newRootCmd() *cobra.Command {
	cli := &cliContext{parser: config.NewInputParser(), logger: zap.NewNop().Sugar()}

	rootCmd := &cobra.Command{
		Use:   "ivadual",
		Short: "Brazilian tax reform simulator",
		Long: `Simulates a company's tax burden under the legacy regime (PIS, COFINS,
ICMS, ISS, IPI) and the CBS/IBS dual VAT across the 2026-2033 transition,
including ICMS fiscal incentives and equivalent-rate estimates.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.LoadSettings()
			if err != nil {
				return err
			}
			cli.settings = settings

			cli.configPath = stringFlagOr(cmd, "config", settings.ConfigPath)
			cli.debug = boolFlagOr(cmd, "debug", settings.Debug)
			cli.parallel = boolFlagOr(cmd, "parallel", settings.Parallel)
			cli.phaseOut = boolFlagOr(cmd, "phase-out", settings.PhaseOut)

			logger, err := newLogger(cli.debug)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			cli.logger = logger
			cli.sentry = initSentry(settings, logger)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = cli.logger.Sync()
			if cli.sentry {
				flushSentry()
			}
		},
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "Tax configuration file, YAML or JSON (default: $IVADUAL_CONFIG or built-in defaults)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("parallel", false, "Compute years concurrently")
	rootCmd.PersistentFlags().Bool("phase-out", false, "Scale legacy taxes by the configured phase-out schedule")

	rootCmd.AddCommand(calculateCmd(cli))
	rootCmd.AddCommand(compareCmd(cli))
	rootCmd.AddCommand(equivalentCmd(cli))
	rootCmd.AddCommand(validateCmd(cli))
	rootCmd.AddCommand(configCmd(cli))
	rootCmd.AddCommand(versionCmd())
	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ivadual %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" && cliDebug(cmd) {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

func cliDebug(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("debug")
	return v
}

// stringFlagOr returns the flag value when it was set on the command line
func stringFlagOr(cmd *cobra.Command, name, fallback string) string {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	return fallback
}

func boolFlagOr(cmd *cobra.Command, name string, fallback bool) bool {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetBool(name)
		return v
	}
	return fallback
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		sentry.Flush(flushTimeout)
		os.Exit(1)
	}
}
