package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/katzezweii/smart-home-llm-multi-agent/internal/bench"
	"github.com/katzezweii/smart-home-llm-multi-agent/internal/config"
	"github.com/katzezweii/smart-home-llm-multi-agent/internal/engine"
	"github.com/katzezweii/smart-home-llm-multi-agent/internal/printer"
	"github.com/katzezweii/smart-home-llm-multi-agent/internal/state"
	"github.com/katzezweii/smart-home-llm-multi-agent/pkg/models"
)

var (
	runHeadless bool
	runNoSave   bool
	runProfile  string
	runModel    string
)

var runCmd = &cobra.Command{
	Use:   "run <request>",
	Short: "Run one request through the home",
	Long: `Run a single natural-language request through the orchestration engine.

The request is split into intents, planned into a task queue, and executed
by the device agents. By default a live TUI shows the run; --headless
prints plain progress lines instead.

Finished runs are saved to the history database unless --no-save is set.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRequest,
}

func init() {
	runCmd.Flags().BoolVar(&runHeadless, "headless", false, "Run without the TUI")
	runCmd.Flags().BoolVar(&runNoSave, "no-save", false, "Do not record this run in the history database")
	runCmd.Flags().StringVar(&runProfile, "profile", "", "Path to a home profile YAML (overrides config)")
	runCmd.Flags().StringVar(&runModel, "model", "", "Claude model to use (overrides config)")
}

func runRequest(cmd *cobra.Command, args []string) error {
	input := strings.Join(args, " ")

	_, factory, cleanup, err := setupPipeline(runNoSave)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		fmt.Println("\nReceived interrupt, shutting down...")
		cancel()
	}()

	if runHeadless {
		return runHeadlessMode(ctx, factory, input)
	}
	return runWithTUI(ctx, factory, input)
}

// setupPipeline loads configuration and wires the engine components. Errors
// are already printed; the returned cleanup closes the store and trace log.
func setupPipeline(noSave bool) (*config.Config, bench.SchedulerFactory, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, printer.Error("failed to load configuration", err.Error(), nil)
	}
	if runModel != "" {
		cfg.Anthropic.Model = runModel
	}
	if runProfile != "" {
		cfg.Paths.HomeProfile = runProfile
	}

	client, err := newLLMClient(cfg)
	if err != nil {
		if errors.Is(err, config.ErrNoAPIKey) {
			return nil, nil, nil, printer.Error(
				"no Anthropic API key configured",
				"Hearth needs an API key to talk to the device agents.",
				[]string{
					"Export it:\n  export ANTHROPIC_API_KEY=sk-ant-...",
					"Store it in the user config:\n  hearth config anthropic.api_key sk-ant-...",
					"Or use Bedrock:\n  hearth config anthropic.use_bedrock true",
				},
			)
		}
		return nil, nil, nil, printer.Error("failed to create the Anthropic client", err.Error(), nil)
	}

	profile, err := loadProfile(cfg)
	if err != nil {
		return nil, nil, nil, printer.ErrorWithContext(
			"failed to load the home profile",
			err.Error(),
			map[string]string{"Profile": cfg.Paths.HomeProfile},
			[]string{"Check the path, or unset paths.home_profile to use the built-in home."},
		)
	}

	var store engine.RunStore
	var db *state.DB
	if !noSave {
		db, err = openRunStore(cfg)
		if err != nil {
			// History is optional; the run itself can proceed.
			printer.Warning("run history unavailable: %v\n", err)
			db = nil
		} else {
			store = db
		}
	}

	logger := newDebugLogger(cfg)

	cleanup := func() {
		logger.Close()
		if db != nil {
			db.Close()
		}
	}
	return cfg, newSchedulerFactory(cfg, client, profile, store, logger), cleanup, nil
}

// openRunStore opens and migrates the history database.
func openRunStore(cfg *config.Config) (*state.DB, error) {
	var db *state.DB
	var err error
	if cfg.Paths.Database != "" {
		db, err = state.Open(cfg.Paths.Database)
	} else {
		db, err = state.OpenDefault()
	}
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// runHeadlessMode executes one run printing plain progress lines.
func runHeadlessMode(ctx context.Context, factory bench.SchedulerFactory, input string) error {
	s := factory()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		consumeEventsHeadless(s.Events())
	}()

	printer.Printf("Request: %s\n\n", input)
	res, err := s.Run(ctx, input)
	wg.Wait()

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return printer.Error("run interrupted", "The run was cancelled before it finished.", nil)
		}
		return printer.Error("run failed", err.Error(), nil)
	}

	printRunResult(res)
	return nil
}

// consumeEventsHeadless prints engine events as progress lines.
func consumeEventsHeadless(events <-chan engine.Event) {
	for e := range events {
		switch e.Type {
		case engine.EventRunStarted:
			printer.Step("Analyzing request...\n")
		case engine.EventIntentsExtracted:
			printer.Step("Intents: %s\n", e.Message)
		case engine.EventPlanCreated:
			printer.Step("Plan: %s\n", e.Message)
		case engine.EventTaskStarted:
			printer.Printf("  %s: %s\n", e.Device.Display(), e.Message)
		case engine.EventCollaborationRequested:
			printer.Printf("  %s asks %s: %s\n", e.Device.Display(), e.Target.Display(), e.Message)
		case engine.EventCollaborationResolved:
			printer.Printf("  %s answers: %s\n", e.Device.Display(), e.Message)
		case engine.EventCollaborationFailed:
			printer.Warning("collaboration failed: %v\n", e.Err)
		case engine.EventTaskDone:
			printer.Success("%s: %s\n", e.Device.Display(), e.Message)
		case engine.EventTaskFailed:
			printer.Fail("%s: %s\n", e.Device.Display(), e.Message)
		case engine.EventAggregating:
			printer.Step("Composing response...\n")
		}
	}
}

// printRunResult prints the final output and a status summary line.
func printRunResult(res *models.RunResult) {
	printer.Println()
	printer.Println(res.FinalOutput)
	printer.Println()

	line := fmt.Sprintf("%s · %d/%d tasks done · %.1fs",
		res.Status, res.DoneCount(), len(res.Tasks), res.Duration().Seconds())
	if res.InputTokens > 0 || res.OutputTokens > 0 {
		line += fmt.Sprintf(" · tokens %d in / %d out", res.InputTokens, res.OutputTokens)
	}

	switch res.Status {
	case models.RunComplete:
		printer.Success("%s\n", line)
	case models.RunPartial:
		printer.Warning("%s\n", line)
	default:
		printer.Fail("%s\n", line)
	}
}
