package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/katzezweii/smart-home-llm-multi-agent/internal/config"
)

var rootDebug bool

var rootCmd = &cobra.Command{
	Use:   "hearth",
	Short: "Multi-agent smart home orchestrator",
	Long: `Hearth turns a natural-language request into coordinated actions across
the devices of a simulated smart home.

A request like "play something for dinner and dim the lights" is split into
intents, planned into a task queue, and executed by specialized device
agents (clock, calendar, fridge, lighting, thermostat, audio, TV, search).
Agents that need information from another device ask for it through the
collaboration broker, and an aggregator composes the final answer.

With no arguments, launches the interactive TUI where you can type a
request and watch the run unfold.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

// Execute runs the root command.
func Execute() {
	// Errors are printed by the printer package with color formatting;
	// every RunE routes its failures through it.
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig loads the layered configuration and applies global flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if rootDebug {
		cfg.Debug = true
	}
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&rootDebug, "debug", false, "Write an engine debug trace")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
