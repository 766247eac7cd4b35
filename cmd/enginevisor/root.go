package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/enginevisor/pkg/cli"
	"mercator-hq/enginevisor/pkg/config"
)

var (
	// Global flags
	cfgFile string
	envFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "enginevisor",
	Short: "Provision and launch a local proxy engine",
	Long: `Enginevisor provisions and launches a local multi-protocol proxy engine.

Running it without a subcommand is the same as "enginevisor run": bind the
health endpoint, prepare the identity and engine config, download the engine,
launch it, and keep logging a heartbeat until interrupted.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runEngine,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (optional)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load before reading the environment")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig reads the optional env file and config file, applies
// environment overrides and validates the result.
func loadConfig() (*config.Config, error) {
	if envFile != "" {
		if err := config.LoadEnvFile(envFile); err != nil {
			return nil, cli.NewConfigError("env-file", err.Error())
		}
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, cli.ConfigErrorFrom(err)
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	if err := config.Validate(cfg); err != nil {
		return nil, cli.ConfigErrorFrom(err)
	}
	return cfg, nil
}
