package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/katzezweii/smart-home-llm-multi-agent/internal/blackboard"
	"github.com/katzezweii/smart-home-llm-multi-agent/internal/printer"
	"github.com/katzezweii/smart-home-llm-multi-agent/internal/state"
	"github.com/katzezweii/smart-home-llm-multi-agent/pkg/models"
)

var (
	historyLimit     int
	historyTrace     bool
	historyPurgeDays int
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "Browse saved runs",
	Long: `List saved runs, newest first. Pass a run ID (or any unique prefix) for
the full record of one run, including its tasks, collaborations, and
response.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			return runHistoryShow(cmd, args)
		}
		return runHistoryList(cmd, args)
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one saved run in full",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <run-id>",
	Short: "Delete one saved run",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

var historyPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete runs older than a cutoff",
	RunE:  runHistoryPurge,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Maximum runs to list (0 for all)")
	historyCmd.PersistentFlags().BoolVar(&historyTrace, "trace", false, "Include the device history trace when showing a run")
	historyPurgeCmd.Flags().IntVar(&historyPurgeDays, "days", 30, "Delete runs older than this many days")
	historyCmd.AddCommand(historyShowCmd, historyDeleteCmd, historyPurgeCmd)
}

// openHistoryDB opens the history database for the history subcommands.
// Errors are already printed.
func openHistoryDB() (*state.DB, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, printer.Error("failed to load configuration", err.Error(), nil)
	}
	dbPath := cfg.Paths.Database
	if dbPath == "" {
		dbPath = state.DefaultDBPath()
	}
	db, err := openRunStore(cfg)
	if err != nil {
		return nil, printer.ErrorWithContext(
			"failed to open the history database",
			err.Error(),
			map[string]string{"Database": dbPath},
			nil,
		)
	}
	return db, nil
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	db, err := openHistoryDB()
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.ListRuns(historyLimit)
	if err != nil {
		return printer.Error("failed to list runs", err.Error(), nil)
	}
	if len(runs) == 0 {
		printer.Info("No saved runs yet. Finished runs land here unless --no-save is set.\n")
		return nil
	}

	total, err := db.CountRuns()
	if err != nil {
		return printer.Error("failed to count runs", err.Error(), nil)
	}

	for _, r := range runs {
		fmt.Printf("%s  %s  %-8s  %d/%d tasks  %s\n",
			shortRunID(r.RunID),
			r.StartedAt.Format("2006-01-02 15:04"),
			r.Status,
			r.DoneCount(), len(r.Tasks),
			truncate(r.Input, 48))
	}
	if total > len(runs) {
		printer.Info("\nShowing %d of %d runs. Use --limit 0 to list all.\n", len(runs), total)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	db, err := openHistoryDB()
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := findRun(db, args[0])
	if err != nil {
		return printer.Error("failed to look up the run", err.Error(), nil)
	}
	if run == nil {
		return printer.Error(
			"run not found",
			fmt.Sprintf("No saved run matches %q.", args[0]),
			[]string{"List saved runs:\n  hearth history"},
		)
	}

	printRunDetail(run)

	if historyTrace {
		entries, err := db.GetHistory(run.RunID)
		if err != nil {
			return printer.Error("failed to load the run trace", err.Error(), nil)
		}
		printTrace(entries)
	}
	return nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	db, err := openHistoryDB()
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := findRun(db, args[0])
	if err != nil {
		return printer.Error("failed to look up the run", err.Error(), nil)
	}
	if run == nil {
		return printer.Error("run not found", fmt.Sprintf("No saved run matches %q.", args[0]), nil)
	}
	if err := db.DeleteRun(run.RunID); err != nil {
		return printer.Error("failed to delete the run", err.Error(), nil)
	}
	printer.Success("Deleted run %s.\n", shortRunID(run.RunID))
	return nil
}

func runHistoryPurge(cmd *cobra.Command, args []string) error {
	db, err := openHistoryDB()
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := db.PurgeOldRuns(time.Duration(historyPurgeDays) * 24 * time.Hour)
	if err != nil {
		return printer.Error("failed to purge old runs", err.Error(), nil)
	}
	printer.Success("Purged %d run(s) older than %d days.\n", n, historyPurgeDays)
	return nil
}

// findRun resolves an exact run ID or a unique ID prefix.
// Returns nil without error when nothing matches.
func findRun(db *state.DB, id string) (*models.RunResult, error) {
	run, err := db.GetRun(id)
	if err != nil || run != nil {
		return run, err
	}

	runs, err := db.ListRuns(0)
	if err != nil {
		return nil, err
	}
	var match *models.RunResult
	for _, r := range runs {
		if strings.HasPrefix(r.RunID, id) {
			if match != nil {
				return nil, fmt.Errorf("run ID prefix %q is ambiguous", id)
			}
			match = r
		}
	}
	if match == nil {
		return nil, nil
	}
	return db.GetRun(match.RunID)
}

// printRunDetail prints the full record of one run.
func printRunDetail(run *models.RunResult) {
	fmt.Printf("Run %s\n", run.RunID)
	fmt.Printf("  Input:     %s\n", run.Input)
	fmt.Printf("  Status:    %s\n", run.Status)
	fmt.Printf("  Category:  %s (complexity %d)\n", run.Category, run.Complexity)
	fmt.Printf("  Started:   %s\n", run.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("  Duration:  %.1fs\n", run.Duration().Seconds())
	if run.InputTokens > 0 || run.OutputTokens > 0 {
		fmt.Printf("  Tokens:    %d in / %d out\n", run.InputTokens, run.OutputTokens)
	}
	if run.Err != "" {
		fmt.Printf("  Error:     %s\n", run.Err)
	}

	if len(run.Tasks) > 0 {
		fmt.Println("\nTasks:")
		for _, t := range run.Tasks {
			fmt.Printf("  %s %s: %s\n", taskIcon(t.Status), t.DeviceType.Display(), t.Action)
			if t.Result != "" {
				fmt.Printf("      → %s\n", truncate(t.Result, 100))
			}
			if t.Error != "" {
				fmt.Printf("      → %s\n", t.Error)
			}
		}
	}

	if len(run.Collaborations) > 0 {
		fmt.Println("\nCollaborations:")
		for _, c := range run.Collaborations {
			fmt.Printf("  %s → %s: %s\n", c.FromDevice.Display(), c.TargetDevice.Display(), c.Query)
			if c.Resolved {
				fmt.Printf("      ← %s\n", truncate(c.Response, 100))
			} else {
				fmt.Printf("      ✗ %s\n", c.Error)
			}
		}
	}

	if run.FinalOutput != "" {
		fmt.Println("\nResponse:")
		fmt.Printf("  %s\n", strings.ReplaceAll(run.FinalOutput, "\n", "\n  "))
	}
}

// printTrace prints the persisted device history in recorded order.
func printTrace(entries []blackboard.HistoryEntry) {
	if len(entries) == 0 {
		printer.Info("\nNo trace was recorded for this run.\n")
		return
	}
	fmt.Println("\nTrace:")
	for _, h := range entries {
		label := h.Device.Display()
		switch h.Kind {
		case blackboard.HistoryCollaborationRequest:
			label += " asked"
		case blackboard.HistoryCollaborationResponse:
			label += " answered"
		}
		fmt.Printf("  %s  %s: %s\n", h.At.Format("15:04:05"), label, truncate(h.Action, 80))
		if h.Result != "" {
			fmt.Printf("            → %s\n", truncate(h.Result, 80))
		}
	}
}

func taskIcon(s models.TaskStatus) string {
	switch s {
	case models.TaskStatusDone:
		return "✓"
	case models.TaskStatusFailed:
		return "✗"
	default:
		return "·"
	}
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, limit int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= limit {
		return s
	}
	return s[:limit-3] + "..."
}
