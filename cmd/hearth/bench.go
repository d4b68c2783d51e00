package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/katzezweii/smart-home-llm-multi-agent/internal/bench"
	"github.com/katzezweii/smart-home-llm-multi-agent/internal/printer"
)

var (
	benchCategory  string
	benchCasesFile string
	benchLogDir    string
	benchSignalDir string
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run the benchmark suite against the live engine",
	Long: `Run benchmark fixtures through the engine, one full run per case, and
grade each result against the fixture's expectations.

Each case writes a detailed trace to the log directory. From another
terminal, 'hearth bench stop' ends the run after the current case and
'hearth bench pause' holds it between cases until 'hearth bench resume'.

Benchmark runs are not recorded in the history database.`,
	RunE: runBench,
}

var benchStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Signal a running benchmark to stop after the current case",
	RunE: func(cmd *cobra.Command, args []string) error {
		return sendBenchSignal("stop")
	},
}

var benchPauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause a running benchmark between cases",
	RunE: func(cmd *cobra.Command, args []string) error {
		return sendBenchSignal("pause")
	},
}

var benchResumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume a paused benchmark",
	RunE: func(cmd *cobra.Command, args []string) error {
		return sendBenchSignal("resume")
	},
}

func init() {
	benchCmd.Flags().StringVar(&benchCategory, "category", "", "Only run cases in this category")
	benchCmd.Flags().StringVar(&benchCasesFile, "file", "", "Path to a fixture file (defaults to the embedded suite)")
	benchCmd.Flags().StringVar(&benchLogDir, "logs", "", "Directory for per-case trace logs (defaults to config logs_dir)")
	benchCmd.PersistentFlags().StringVar(&benchSignalDir, "signal-dir", ".", "Directory watched for stop/pause signal files")
	benchCmd.AddCommand(benchStopCmd, benchPauseCmd, benchResumeCmd)
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, factory, cleanup, err := setupPipeline(true)
	if err != nil {
		return err
	}
	defer cleanup()

	cases, err := loadBenchCases()
	if err != nil {
		return printer.Error("failed to load benchmark cases", err.Error(), nil)
	}

	logDir := benchLogDir
	if logDir == "" {
		logDir = cfg.Paths.LogsDir
	}

	signals, err := bench.NewSignalManager(benchSignalDir)
	if err != nil {
		return printer.Error("failed to set up the signal directory", err.Error(), nil)
	}
	defer signals.Close()
	signals.ClearSignals()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		fmt.Println("\nReceived interrupt, shutting down...")
		cancel()
	}()

	printer.Step("Running %d benchmark case(s)\n", len(cases))
	printer.Info("Steer from another terminal: touch %s to stop, %s to pause.\n",
		filepath.Join(signals.Dir(), "stop"), filepath.Join(signals.Dir(), "pause"))

	runner := bench.NewRunner(factory, bench.Options{LogDir: logDir, Signals: signals})
	if _, err := runner.Run(ctx, cases); err != nil {
		if errors.Is(err, context.Canceled) {
			return printer.Error("benchmark interrupted", "The run was cancelled before it finished.", nil)
		}
		return printer.Error("benchmark failed", err.Error(), nil)
	}
	// Failed cases are part of the summary, not a command error.
	return nil
}

// loadBenchCases loads the fixture suite and applies the category filter.
func loadBenchCases() ([]bench.Case, error) {
	var cases []bench.Case
	var err error
	if benchCasesFile != "" {
		cases, err = bench.LoadFile(benchCasesFile)
	} else {
		cases, err = bench.LoadEmbedded()
	}
	if err != nil {
		return nil, err
	}
	return bench.Filter(cases, benchCategory)
}

// sendBenchSignal writes or removes a signal file in the signal directory.
func sendBenchSignal(action string) error {
	sm, err := bench.NewSignalManager(benchSignalDir)
	if err != nil {
		return printer.Error("failed to open the signal directory", err.Error(), nil)
	}
	defer sm.Close()

	switch action {
	case "stop":
		if err := sm.SendStop(); err != nil {
			return printer.Error("failed to send the stop signal", err.Error(), nil)
		}
		printer.Success("Stop signal sent. The benchmark ends after the current case.\n")
	case "pause":
		if err := sm.SendPause(); err != nil {
			return printer.Error("failed to send the pause signal", err.Error(), nil)
		}
		printer.Success("Pause signal sent. The benchmark holds between cases until resume.\n")
	case "resume":
		if err := sm.Resume(); err != nil {
			return printer.Error("failed to remove the pause signal", err.Error(), nil)
		}
		printer.Success("Resume signal sent.\n")
	}
	return nil
}
