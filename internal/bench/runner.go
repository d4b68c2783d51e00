package bench

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/katzezweii/smart-home-llm-multi-agent/internal/engine"
	"github.com/katzezweii/smart-home-llm-multi-agent/pkg/models"
)

var (
	separator    = strings.Repeat("=", 70)
	subSeparator = strings.Repeat("-", 70)
)

// SchedulerFactory builds a fresh scheduler for one case. A scheduler serves
// a single run, so the runner asks for a new one per fixture.
type SchedulerFactory func() *engine.Scheduler

// Options configures a benchmark run.
type Options struct {
	// LogDir receives one <case-id>.txt trace per case. Defaults to "logs".
	LogDir string
	// Out receives progress output. Defaults to os.Stdout.
	Out io.Writer
	// Signals, when set, lets stop/pause files steer the run between cases.
	Signals *SignalManager
}

// Summary totals a benchmark run.
type Summary struct {
	Verdicts     []Verdict
	Passed       int
	Failed       int
	Stopped      bool
	Duration     time.Duration
	InputTokens  int64
	OutputTokens int64
}

// Runner executes fixture cases sequentially, one engine run per case.
type Runner struct {
	factory SchedulerFactory
	opts    Options
}

// NewRunner builds a runner. The factory must not be nil.
func NewRunner(factory SchedulerFactory, opts Options) *Runner {
	if opts.LogDir == "" {
		opts.LogDir = "logs"
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	return &Runner{factory: factory, opts: opts}
}

// Run executes the cases in order and returns the summary. The error return
// is reserved for context cancellation and log-directory setup; case
// failures land in the summary instead.
func (r *Runner) Run(ctx context.Context, cases []Case) (*Summary, error) {
	if len(cases) == 0 {
		return nil, fmt.Errorf("no benchmark cases to run")
	}
	if err := os.MkdirAll(r.opts.LogDir, 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	sum := &Summary{}
	start := time.Now()
	for i, c := range cases {
		if err := r.waitWhilePaused(ctx); err != nil {
			sum.Duration = time.Since(start)
			return sum, err
		}
		if r.opts.Signals != nil && r.opts.Signals.ShouldStop() {
			sum.Stopped = true
			fmt.Fprintln(r.opts.Out, "\nStop signal received, ending the benchmark early.")
			break
		}

		fmt.Fprintln(r.opts.Out)
		fmt.Fprintln(r.opts.Out, separator)
		fmt.Fprintf(r.opts.Out, "Case %d/%d: [%s] %s\n", i+1, len(cases), c.ID, c.UserInput)
		fmt.Fprintln(r.opts.Out, separator)

		v, err := r.runCase(ctx, c)
		if err != nil {
			sum.Duration = time.Since(start)
			return sum, err
		}

		sum.Verdicts = append(sum.Verdicts, v)
		if v.Passed {
			sum.Passed++
			fmt.Fprintf(r.opts.Out, "PASS (%.2fs)\n", v.Duration.Seconds())
		} else {
			sum.Failed++
			fmt.Fprintf(r.opts.Out, "FAIL (%.2fs)\n", v.Duration.Seconds())
			for _, p := range v.Problems {
				fmt.Fprintf(r.opts.Out, "   - %s\n", p)
			}
		}
		sum.InputTokens += v.InputTokens
		sum.OutputTokens += v.OutputTokens
		if v.LogPath != "" {
			fmt.Fprintf(r.opts.Out, "Log saved to: %s\n", v.LogPath)
		}
	}
	sum.Duration = time.Since(start)

	r.printSummary(sum)
	return sum, nil
}

// runCase runs one fixture through a fresh scheduler, draining events as they
// arrive so the engine never blocks on a full channel.
func (r *Runner) runCase(ctx context.Context, c Case) (Verdict, error) {
	s := r.factory()

	var events []engine.Event
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for e := range s.Events() {
			events = append(events, e)
		}
	}()

	started := time.Now()
	res, err := s.Run(ctx, c.UserInput)
	wg.Wait()
	if err != nil {
		return Verdict{}, err
	}
	elapsed := time.Since(started)

	problems := Evaluate(c, res)
	v := Verdict{
		CaseID:       c.ID,
		Category:     c.Category,
		Status:       res.Status,
		Passed:       len(problems) == 0,
		Problems:     problems,
		Duration:     elapsed,
		InputTokens:  res.InputTokens,
		OutputTokens: res.OutputTokens,
	}

	logPath := filepath.Join(r.opts.LogDir, c.ID+".txt")
	if werr := os.WriteFile(logPath, []byte(renderLog(c, res, events, elapsed)), 0644); werr != nil {
		fmt.Fprintf(r.opts.Out, "warning: could not write %s: %v\n", logPath, werr)
	} else {
		v.LogPath = logPath
	}
	return v, nil
}

// waitWhilePaused blocks between cases while the pause file exists.
func (r *Runner) waitWhilePaused(ctx context.Context) error {
	if r.opts.Signals == nil {
		return nil
	}
	notified := false
	for r.opts.Signals.ShouldPause() {
		if r.opts.Signals.ShouldStop() {
			return nil
		}
		if !notified {
			fmt.Fprintln(r.opts.Out, "Paused. Remove the pause file to resume.")
			notified = true
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}
	if notified {
		fmt.Fprintln(r.opts.Out, "Resuming.")
	}
	return nil
}

func (r *Runner) printSummary(sum *Summary) {
	out := r.opts.Out
	fmt.Fprintln(out)
	fmt.Fprintln(out, separator)
	fmt.Fprintln(out, "BENCHMARK SUMMARY")
	fmt.Fprintln(out, separator)
	for _, v := range sum.Verdicts {
		mark := "PASS"
		if !v.Passed {
			mark = "FAIL"
		}
		fmt.Fprintf(out, " %s  %-26s %-9s %-9s %6.2fs\n", mark, v.CaseID, v.Category, v.Status, v.Duration.Seconds())
	}
	fmt.Fprintln(out, subSeparator)
	fmt.Fprintf(out, "%d/%d passed in %.1fs\n", sum.Passed, len(sum.Verdicts), sum.Duration.Seconds())
	fmt.Fprintf(out, "Tokens: %d in, %d out\n", sum.InputTokens, sum.OutputTokens)
	if sum.Stopped {
		fmt.Fprintln(out, "Run was stopped early by a stop signal.")
	}
}

// renderLog writes the per-case trace in the node-by-node format the log
// directory has always carried: a header block, one section per pipeline
// node, collaboration request/response blocks, and a footer with status and
// wall-clock time.
func renderLog(c Case, res *models.RunResult, events []engine.Event, elapsed time.Duration) string {
	var b strings.Builder
	fmt.Fprintln(&b, separator)
	fmt.Fprintf(&b, "Test Case ID: %s\n", c.ID)
	fmt.Fprintf(&b, "Category: %s\n", c.Category)
	fmt.Fprintf(&b, "User Input: %s\n", c.UserInput)
	fmt.Fprintln(&b, separator)
	fmt.Fprintln(&b)

	for _, e := range events {
		switch e.Type {
		case engine.EventIntentsExtracted:
			writeNode(&b, "intent_analysis")
			fmt.Fprintf(&b, "%s\n\n", e.Message)
		case engine.EventPlanCreated:
			writeNode(&b, "task_planner")
			fmt.Fprintln(&b, "Task Queue:")
			for _, t := range res.Tasks {
				fmt.Fprintf(&b, "   %s [%s] %s\n", t.TaskID, t.DeviceType, t.Action)
			}
			fmt.Fprintln(&b)
		case engine.EventTaskStarted:
			writeNode(&b, string(e.Device)+"_agent")
		case engine.EventCollaborationRequested:
			fmt.Fprintln(&b, "COLLABORATION REQUEST:")
			fmt.Fprintf(&b, "   From: %s\n", e.Device)
			fmt.Fprintf(&b, "   To: %s\n", e.Target)
			fmt.Fprintf(&b, "   Request: %s\n\n", e.Message)
		case engine.EventCollaborationResolved:
			fmt.Fprintf(&b, "COLLABORATION RESPONSE from %s:\n", e.Target.Display())
			fmt.Fprintf(&b, "%s\n\n", indent("   ", e.Message))
		case engine.EventCollaborationFailed:
			fmt.Fprintln(&b, "COLLABORATION FAILED:")
			fmt.Fprintf(&b, "   %v\n\n", e.Err)
		case engine.EventTaskDone:
			fmt.Fprintf(&b, "%s RESULT: %s\n\n", e.Device.Display(), e.Message)
		case engine.EventTaskFailed:
			fmt.Fprintf(&b, "%s FAILED: %s\n\n", e.Device.Display(), e.Message)
		case engine.EventAggregating:
			writeNode(&b, "aggregator")
		}
	}

	if res.FinalOutput != "" {
		fmt.Fprintln(&b, "FINAL OUTPUT:")
		fmt.Fprintf(&b, "%s\n\n", indent("   ", res.FinalOutput))
	}

	fmt.Fprintln(&b, separator)
	fmt.Fprintf(&b, "Status: %s\n", res.Status)
	fmt.Fprintf(&b, "Execution Time: %.2fs\n", elapsed.Seconds())
	fmt.Fprintln(&b, separator)
	return b.String()
}

func writeNode(b *strings.Builder, name string) {
	fmt.Fprintf(b, "Node: %s\n", name)
	fmt.Fprintln(b, subSeparator)
}

func indent(prefix, text string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
